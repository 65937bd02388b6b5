package models

import (
	"strings"
	"time"
)

// Transition actions recorded in the activity log.
const (
	ActionCheckOut = "Check Out"
	ActionCheckIn  = "Check In"
)

// OwnerAvailable is the literal owner token meaning nobody holds the account.
const OwnerAvailable = "available"

// ActivityEntry is one row of the activity log sheet.
// Rows are read newest-first, matching a sheet where each new entry is
// inserted immediately below the header.
type ActivityEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LoggedAt  time.Time `gorm:"index;not null" json:"logged_at"`
	AccountID string    `gorm:"index;not null" json:"account_id"`
	User      string    `gorm:"not null" json:"user"`
	Action    string    `gorm:"not null" json:"action"`
}

// Account is a shared account record that can be checked out.
type Account struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AccountID   string `gorm:"uniqueIndex;not null" json:"account_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// AccountCreate request payload for seeding an account
type AccountCreate struct {
	AccountID   string `json:"account_id" binding:"required"`
	DisplayName string `json:"display_name"`
}

// Normalize trims whitespace from input fields
func (a *AccountCreate) Normalize() {
	a.AccountID = strings.TrimSpace(a.AccountID)
	a.DisplayName = strings.TrimSpace(a.DisplayName)
}

// AppSetting is a persisted key/value setting (settings blobs, parameters).
type AppSetting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}

// TransitionRequest is the logging endpoint submission payload.
// The same fields arrive as a JSON body, as a JSON-encoded "payload" form
// field, or as discrete form fields; all three are normalized to this shape.
type TransitionRequest struct {
	AccountID string `json:"accountId" form:"accountId"`
	User      string `json:"user" form:"user"`
	Action    string `json:"action" form:"action"`
	APIKey    string `json:"apiKey" form:"apiKey"`
}

// Normalize trims whitespace from input fields
func (r *TransitionRequest) Normalize() {
	r.AccountID = strings.TrimSpace(r.AccountID)
	r.User = strings.TrimSpace(r.User)
	r.Action = strings.TrimSpace(r.Action)
	r.APIKey = strings.TrimSpace(r.APIKey)
}

// Cell is a single summary-table value. Formatted carries the display
// representation; classification always reads Formatted, not Value.
type Cell struct {
	Value     interface{} `json:"value"`
	Formatted string      `json:"formatted"`
}

// DataTable is a worksheet summary snapshot: ordered column names with
// parallel rows of typed cells.
type DataTable struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// ColumnIndex resolves a column name to its positional index, or -1.
func (t *DataTable) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// DataSource identifies a backing data source referenced by a worksheet.
type DataSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Worksheet is a named tabular view the widget can bind to.
type Worksheet struct {
	Name        string       `json:"name"`
	DataSources []DataSource `json:"data_sources"`
}
