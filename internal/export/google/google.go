// Package google mirrors ledger rows into a Google Sheets spreadsheet
// using a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"moneyrec/internal/core"
	"moneyrec/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.LedgerMirror = (*Client)(nil)

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.SheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	credentials := []byte(cfg.CredentialsJSON)
	if len(credentials) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, errors.New("missing service account credentials")
		}
		var err error
		credentials, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) error {
	return c.appendRow(ctx, []any{
		t.ID,
		"transaction",
		t.Date.Format("2006-01-02"),
		t.Description,
		t.Amount.String(),
		string(t.Type),
		t.CategoryName,
		t.AccountName,
	})
}

func (c *Client) AppendTransfer(ctx context.Context, tr core.Transfer) error {
	return c.appendRow(ctx, []any{
		tr.ID,
		"transfer",
		tr.Date.Format("2006-01-02"),
		tr.Description,
		tr.Amount.String(),
		"transfer",
		tr.SourceAccountName,
		tr.DestinationAccountName,
	})
}

// MarkDeleted appends a tombstone row. The sheet is append-only, so
// consumers reconstruct current state by taking the last row per id.
func (c *Client) MarkDeleted(ctx context.Context, entity string, id int64) error {
	return c.appendRow(ctx, []any{
		id,
		entity,
		time.Now().UTC().Format("2006-01-02"),
		"DELETED",
		"",
		"",
		"",
		"",
	})
}

func (c *Client) appendRow(ctx context.Context, row []any) error {
	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{
		Values: [][]any{row},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}
