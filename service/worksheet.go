package service

import (
	"checkout/metrics"
	"checkout/models"
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// Worksheet names exposed to the widget.
const (
	WorksheetAccountStatus = "Account Status"
	WorksheetActivityLog   = "Activity Log"
)

// activityLogRows caps the Activity Log worksheet snapshot.
const activityLogRows = 50

// ErrWorksheetNotFound indicates an unknown worksheet name.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// WorksheetService builds the tabular views the widget polls. Account
// ownership is not stored anywhere: it is derived from the activity log on
// every read, which is why the widget refreshes data sources after a
// transition and re-reads afterwards.
type WorksheetService struct {
	accounts *AccountService
	activity *ActivityService
}

// NewWorksheetService constructs a worksheet service
func NewWorksheetService(accounts *AccountService, activity *ActivityService) *WorksheetService {
	return &WorksheetService{accounts: accounts, activity: activity}
}

// Worksheets lists the available views. Both reference the same backing
// data source, so a client deduplicating by source identity refreshes once.
func (s *WorksheetService) Worksheets() []models.Worksheet {
	source := models.DataSource{ID: "ds-activity", Name: "Activity"}
	return []models.Worksheet{
		{Name: WorksheetAccountStatus, DataSources: []models.DataSource{source}},
		{Name: WorksheetActivityLog, DataSources: []models.DataSource{source}},
	}
}

// SummaryTable builds the summary snapshot for a worksheet. accountFilter
// narrows the Account Status view to a single account, mimicking a
// dashboard filter; empty means all accounts.
func (s *WorksheetService) SummaryTable(ctx context.Context, name, accountFilter string) (*models.DataTable, error) {
	switch name {
	case WorksheetAccountStatus:
		return s.accountStatusTable(ctx, accountFilter)
	case WorksheetActivityLog:
		return s.activityLogTable(ctx)
	default:
		return nil, ErrWorksheetNotFound
	}
}

func (s *WorksheetService) accountStatusTable(ctx context.Context, accountFilter string) (*models.DataTable, error) {
	accounts, err := s.accounts.List()
	if err != nil {
		return nil, err
	}

	table := &models.DataTable{
		Columns: []string{"Account ID", "Status", "Current User", "Last Action", "Last Activity"},
	}

	for _, account := range accounts {
		if accountFilter != "" && !strings.EqualFold(account.AccountID, accountFilter) {
			continue
		}

		owner, err := s.activity.CurrentOwner(ctx, account.AccountID)
		if err != nil {
			return nil, err
		}

		status := "Checked Out"
		if strings.EqualFold(owner, models.OwnerAvailable) {
			status = "Available"
		}

		last, err := s.activity.LastActivity(ctx, account.AccountID)
		if err != nil {
			return nil, err
		}
		lastAction, lastAt := "", ""
		var lastTime time.Time
		if last != nil {
			lastAction = last.Action
			lastTime = last.LoggedAt
			lastAt = last.LoggedAt.Format(time.RFC3339)
		}

		table.Rows = append(table.Rows, []models.Cell{
			{Value: account.AccountID, Formatted: account.AccountID},
			{Value: status, Formatted: status},
			{Value: owner, Formatted: owner},
			{Value: lastAction, Formatted: lastAction},
			{Value: lastTime, Formatted: lastAt},
		})
	}

	return table, nil
}

func (s *WorksheetService) activityLogTable(ctx context.Context) (*models.DataTable, error) {
	rows, err := s.activity.Recent(ctx, activityLogRows)
	if err != nil {
		return nil, err
	}

	table := &models.DataTable{
		Columns: []string{"Timestamp", "Account ID", "User", "Action"},
	}
	for _, row := range rows {
		ts := row.LoggedAt.Format(time.RFC3339)
		table.Rows = append(table.Rows, []models.Cell{
			{Value: row.LoggedAt, Formatted: ts},
			{Value: row.AccountID, Formatted: row.AccountID},
			{Value: row.User, Formatted: row.User},
			{Value: row.Action, Formatted: row.Action},
		})
	}
	return table, nil
}

// RefreshDataSource handles a refresh request. Views are derived live from
// the log, so there is nothing to recompute; the request is acknowledged so
// clients can await completion.
func (s *WorksheetService) RefreshDataSource(id string) error {
	for _, ws := range s.Worksheets() {
		for _, source := range ws.DataSources {
			if source.ID == id {
				metrics.DataSourceRefreshes.Inc()
				log.Printf("data source %s refreshed", id)
				return nil
			}
		}
	}
	return errors.New("unknown data source: " + id)
}
