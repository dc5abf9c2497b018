package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ventas/internal/amqp"
	"ventas/internal/bot"
	"ventas/internal/config"
	apphttp "ventas/internal/http"
	"ventas/internal/ledger"
	gsheet "ventas/internal/ledger/google"
	mem "ventas/internal/ledger/memory"
	"ventas/internal/session"
	"ventas/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	sessions := session.NewManager(cfg.SessionTTL)
	sessions.StartSweep(cfg.SessionSweepInterval)
	defer sessions.StopSweep()

	engine := bot.New(store, sessions)
	srv := apphttp.NewServer(":"+cfg.Port, engine)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting ventas server", "port", cfg.Port, "backend", cfg.DataBackend, "session_ttl", cfg.SessionTTL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// buildStore selects the ledger backend. The guided-entry and aggregation
// logic never knows which one it talks to.
func buildStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ledger.Store, func(), error) {
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SalesSheet:      cfg.GoogleSalesSheet,
			ExpensesSheet:   cfg.GoogleExpensesSheet,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Initialized Google Sheets backend")
		return cli, nil, nil

	case "sqlite":
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}

		var publisher storage.RowPublisher
		var amqpClient *amqp.Client
		if cfg.AMQPURL != "" {
			amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
			} else {
				publisher = amqpClient
				logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			}
		}

		cleanup := func() {
			if amqpClient != nil {
				amqpClient.Close()
			}
			repo.Close()
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath, "amqp_enabled", publisher != nil)
		return storage.NewSyncedStore(repo, publisher), cleanup, nil

	default:
		logger.Info("Initialized memory backend")
		return mem.New(), nil, nil
	}
}
