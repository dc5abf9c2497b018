package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"ventas/internal/amqp"
	"ventas/internal/config"
	gsheet "ventas/internal/ledger/google"
	"ventas/internal/storage"
	"ventas/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting ventas-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("SPREADSHEET_ID is required for the sync worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheetsClient, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SalesSheet:      cfg.GoogleSalesSheet,
		ExpensesSheet:   cfg.GoogleExpensesSheet,
		CredentialsFile: cfg.GoogleCredentialsFile,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, cfg.SyncBatchSize)

	// Recover anything left pending before consuming new messages.
	if err := syncWorker.ProcessPending(ctx); err != nil {
		logger.Error("Startup pending sweep failed", "error", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeRowSync(gctx, func(msg *amqp.RowSyncMessage) error {
			return syncWorker.HandleSyncMessage(gctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := syncWorker.ProcessPending(gctx); err != nil {
					logger.Error("Pending sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
