package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensetracker/internal/core"
)

// Client appends exported expenses to a Google Sheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewClient builds a Sheets client from OAuth client credentials and a
// previously stored token (see cmd/oauth-init).
func NewClient(ctx context.Context, spreadsheetID, sheetName, clientFile, tokenFile string) (*Client, error) {
	clientJSON, err := os.ReadFile(clientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client config: %w", err)
	}

	token, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		"spreadsheet_id", spreadsheetID,
		"sheet", sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return &token, nil
}

// AppendExpense appends one expense as a row: date, category, description, amount.
func (c *Client) AppendExpense(ctx context.Context, e core.Expense) error {
	rng := fmt.Sprintf("%s!A:D", c.sheetName)
	vr := &gsheet.ValueRange{
		Values: [][]any{{e.Date.String(), e.Category, e.Description, e.Amount}},
	}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Expense exported to sheet",
		"id", e.ID,
		"sheet", c.sheetName,
		"amount", e.Amount)
	return nil
}
