// Package storage is the SQLite ledger backend. Rows are append-only: this
// system never updates or deletes a recorded sale or expense, only the sync
// bookkeeping columns change.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"ventas/internal/core"
	"ventas/internal/ledger"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Repository struct {
	db *sql.DB
}

var _ ledger.Store = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// migrateSchema brings the two ledger tables up to date from the embedded
// migration files. It opens its own short-lived connection so the
// repository's pool never observes a half-migrated schema.
func migrateSchema(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("wrap sqlite driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendSale implements ledger.SaleAppender.
func (r *Repository) AppendSale(ctx context.Context, s core.Sale) error {
	_, err := r.CreateSale(ctx, s)
	return err
}

// CreateSale inserts the sale and returns its row id for sync messages.
func (r *Repository) CreateSale(ctx context.Context, s core.Sale) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sales (client, date, quantity, amount_cents, debt_cents, method)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.Client, s.Date.Format(), s.Quantity, s.Amount.Cents, s.Debt.Cents, string(s.Method))
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sale id: %w", err)
	}
	slog.InfoContext(ctx, "sale saved to SQLite", "id", id, "client", s.Client, "amount_cents", s.Amount.Cents)
	return id, nil
}

// AppendExpense implements ledger.ExpenseAppender.
func (r *Repository) AppendExpense(ctx context.Context, e core.Expense) error {
	_, err := r.CreateExpense(ctx, e)
	return err
}

// CreateExpense inserts the expense and returns its row id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (description, cost_cents, method) VALUES (?, ?, ?)`,
		e.Description, e.Cost.Cents, string(e.Method))
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}
	slog.InfoContext(ctx, "expense saved to SQLite", "id", id, "description", e.Description, "cost_cents", e.Cost.Cents)
	return id, nil
}

// ReadRows implements ledger.RowReader: rows come back as text cells in
// append order, header first, the same shape a spreadsheet range read has.
func (r *Repository) ReadRows(ctx context.Context, t ledger.Table) ([][]string, error) {
	switch t {
	case ledger.Sales:
		return r.readSaleRows(ctx)
	case ledger.Expenses:
		return r.readExpenseRows(ctx)
	}
	return nil, fmt.Errorf("unknown table: %s", t)
}

func (r *Repository) readSaleRows(ctx context.Context) ([][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT client, date, quantity, amount_cents, debt_cents, method FROM sales ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	out := [][]string{append([]string(nil), ledger.SaleHeader...)}
	for rows.Next() {
		var (
			client, date, method   string
			quantity               float64
			amountCents, debtCents int64
		)
		if err := rows.Scan(&client, &date, &quantity, &amountCents, &debtCents, &method); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, []string{
			client,
			date,
			ledger.FormatNumberCell(quantity),
			ledger.FormatNumberCell(core.Money{Cents: amountCents}.Amount()),
			ledger.FormatNumberCell(core.Money{Cents: debtCents}.Amount()),
			method,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return out, nil
}

func (r *Repository) readExpenseRows(ctx context.Context) ([][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT description, cost_cents, method FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	out := [][]string{append([]string(nil), ledger.ExpenseHeader...)}
	for rows.Next() {
		var (
			description, method string
			costCents           int64
		)
		if err := rows.Scan(&description, &costCents, &method); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, []string{
			description,
			ledger.FormatNumberCell(core.Money{Cents: costCents}.Amount()),
			method,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// GetSale loads one sale by row id, for the sync worker.
func (r *Repository) GetSale(ctx context.Context, id int64) (core.Sale, error) {
	var (
		client, date, method   string
		quantity               float64
		amountCents, debtCents int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT client, date, quantity, amount_cents, debt_cents, method FROM sales WHERE id = ?`, id).
		Scan(&client, &date, &quantity, &amountCents, &debtCents, &method)
	if err != nil {
		return core.Sale{}, fmt.Errorf("get sale %d: %w", id, err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Sale{}, fmt.Errorf("parse sale date %q: %w", date, err)
	}
	return core.Sale{
		Client:   client,
		Date:     d,
		Quantity: quantity,
		Amount:   core.Money{Cents: amountCents},
		Debt:     core.Money{Cents: debtCents},
		Method:   core.PaymentMethod(method),
	}, nil
}

// GetExpense loads one expense by row id.
func (r *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var (
		description, method string
		costCents           int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT description, cost_cents, method FROM expenses WHERE id = ?`, id).
		Scan(&description, &costCents, &method)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return core.Expense{
		Description: description,
		Cost:        core.Money{Cents: costCents},
		Method:      core.PaymentMethod(method),
	}, nil
}

// PendingSync lists row ids not yet mirrored to the spreadsheet.
func (r *Repository) PendingSync(ctx context.Context, t ledger.Table, limit int) ([]int64, error) {
	table, err := sqlTable(t)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE synced = 0 ORDER BY id LIMIT ?`, table), limit)
	if err != nil {
		return nil, fmt.Errorf("query pending %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending %s: %w", table, err)
	}
	return ids, nil
}

// MarkSynced records that the row reached the spreadsheet.
func (r *Repository) MarkSynced(ctx context.Context, t ledger.Table, id int64) error {
	table, err := sqlTable(t)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET synced = 1, sync_error = 0 WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// MarkSyncError flags a row whose mirror attempt failed.
func (r *Repository) MarkSyncError(ctx context.Context, t ledger.Table, id int64) error {
	table, err := sqlTable(t)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET sync_error = sync_error + 1 WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "row marked with sync error", "table", table, "id", id)
	return nil
}

func sqlTable(t ledger.Table) (string, error) {
	switch t {
	case ledger.Sales:
		return "sales", nil
	case ledger.Expenses:
		return "expenses", nil
	}
	return "", fmt.Errorf("unknown table: %s", t)
}
