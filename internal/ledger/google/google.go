// Package google adapts the ledger ports to a Google Sheets spreadsheet
// with one tab per table. Appends go through the Sheets append API below
// the header; reads fetch the full column range, header included.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ventas/internal/core"
	"ventas/internal/ledger"
)

// Config carries everything the adapter needs; credentials and the
// spreadsheet location are opaque to the rest of the system.
type Config struct {
	SpreadsheetID string
	SalesSheet    string
	ExpensesSheet string

	// One of the two must be set. File wins when both are.
	CredentialsFile string
	CredentialsJSON string
}

type Client struct {
	svc *gsheet.Service
	cfg Config
}

var _ ledger.Store = (*Client)(nil)

// New creates a Sheets client from service account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.SalesSheet == "" {
		cfg.SalesSheet = string(ledger.Sales)
	}
	if cfg.ExpensesSheet == "" {
		cfg.ExpensesSheet = string(ledger.Expenses)
	}

	credentialsJSON := []byte(cfg.CredentialsJSON)
	if cfg.CredentialsFile != "" {
		var err error
		credentialsJSON, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	}
	if len(credentialsJSON) == 0 {
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets ledger initialized",
		"spreadsheet_id", cfg.SpreadsheetID,
		"sales_sheet", cfg.SalesSheet,
		"expenses_sheet", cfg.ExpensesSheet)

	return &Client{svc: svc, cfg: cfg}, nil
}

// AppendSale appends one sale row below the Ventas header.
func (c *Client) AppendSale(ctx context.Context, s core.Sale) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	row := []any{s.Client, s.Date.Format(), s.Quantity, s.Amount.Amount(), s.Debt.Amount(), string(s.Method)}
	return c.appendRow(ctx, c.cfg.SalesSheet, row)
}

// AppendExpense appends one expense row below the Gastos header.
func (c *Client) AppendExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	row := []any{e.Description, e.Cost.Amount(), string(e.Method)}
	return c.appendRow(ctx, c.cfg.ExpensesSheet, row)
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.cfg.SpreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	slog.InfoContext(ctx, "row appended", "sheet", sheet)
	return nil
}

// ReadRows fetches the table's full range as text cells, header row first.
func (c *Client) ReadRows(ctx context.Context, t ledger.Table) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng, err := c.tableRange(t)
	if err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

func (c *Client) tableRange(t ledger.Table) (string, error) {
	switch t {
	case ledger.Sales:
		return fmt.Sprintf("%s!A:F", c.cfg.SalesSheet), nil
	case ledger.Expenses:
		return fmt.Sprintf("%s!A:C", c.cfg.ExpensesSheet), nil
	}
	return "", fmt.Errorf("unknown table: %s", t)
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
