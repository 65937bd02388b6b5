package sheet

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheet appends activity rows to a real spreadsheet tab, inserting each
// new row at position 2 so the log reads newest-first below the header.
type GoogleSheet struct {
	srv           *sheets.Service
	spreadsheetID string
	name          string
}

// NewGoogleSheet builds a Google Sheets backed log sheet using a service
// account credentials file.
func NewGoogleSheet(ctx context.Context, credentialsPath, spreadsheetID, name string) (*GoogleSheet, error) {
	if !filepath.IsAbs(credentialsPath) {
		return nil, fmt.Errorf("google credentials must be an absolute path: %s", credentialsPath)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath), option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, err
	}
	return &GoogleSheet{srv: srv, spreadsheetID: spreadsheetID, name: name}, nil
}

func (g *GoogleSheet) Name() string {
	return g.name
}

// sheetID resolves the numeric sheet ID of the configured tab.
func (g *GoogleSheet) sheetID(ctx context.Context) (int64, error) {
	ss, err := g.srv.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == g.name {
			return s.Properties.SheetId, nil
		}
	}
	return 0, ErrSheetNotFound
}

func (g *GoogleSheet) Append(ctx context.Context, row Row) error {
	id, err := g.sheetID(ctx)
	if err != nil {
		return err
	}

	// Shift everything below the header down one row.
	_, err = g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: 1,
					EndIndex:   2,
				},
				InheritFromBefore: false,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to insert log row: %w", err)
	}

	values := []interface{}{
		row.LoggedAt.UTC().Format(time.RFC3339),
		row.AccountID,
		row.User,
		row.Action,
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	rangeName := fmt.Sprintf("'%s'!A2:D2", g.name)
	_, err = g.srv.Spreadsheets.Values.Update(g.spreadsheetID, rangeName, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write log row: %w", err)
	}
	return nil
}

func (g *GoogleSheet) Rows(ctx context.Context, limit int) ([]Row, error) {
	rangeName := fmt.Sprintf("'%s'!A2:D", g.name)
	resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, rangeName).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(resp.Values))
	for _, raw := range resp.Values {
		if limit > 0 && len(rows) >= limit {
			break
		}
		var row Row
		if len(raw) > 0 {
			if ts, ok := raw[0].(string); ok {
				if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(ts)); err == nil {
					row.LoggedAt = parsed
				}
			}
		}
		if len(raw) > 1 {
			row.AccountID = cellString(raw[1])
		}
		if len(raw) > 2 {
			row.User = cellString(raw[2])
		}
		if len(raw) > 3 {
			row.Action = cellString(raw[3])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cellString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// ExtractSpreadsheetID accepts either a bare spreadsheet ID or a full
// docs.google.com URL and returns the ID.
func ExtractSpreadsheetID(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("spreadsheet ID cannot be empty")
	}
	re := regexp.MustCompile(`^https?://docs\.google\.com/spreadsheets/d/([^/]+)/?`)
	if matches := re.FindStringSubmatch(raw); len(matches) == 2 {
		return matches[1], nil
	}
	if !strings.Contains(raw, "/") {
		return raw, nil
	}
	return "", fmt.Errorf("unable to parse spreadsheet id from %s", raw)
}
