// Package sheet provides the append-only activity log storage. A log sheet
// behaves like a spreadsheet tab with a header row: every append lands
// immediately below the header, so reads are newest-first.
package sheet

import (
	"context"
	"errors"
	"time"
)

// ErrSheetNotFound indicates the target log sheet does not exist.
var ErrSheetNotFound = errors.New("log sheet not found")

// Row is one activity log entry: timestamp plus the three submitted fields.
type Row struct {
	LoggedAt  time.Time
	AccountID string
	User      string
	Action    string
}

// LogSheet appends rows below the header of a named sheet. Appends are
// unconditional: duplicates are recorded as-is, there is no deduplication.
type LogSheet interface {
	// Name returns the sheet (tab) name.
	Name() string

	// Append inserts the row immediately below the header.
	Append(ctx context.Context, row Row) error

	// Rows returns up to limit rows, newest first. limit <= 0 means all.
	Rows(ctx context.Context, limit int) ([]Row, error)
}
