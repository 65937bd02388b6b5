package sheet

import (
	"checkout/models"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SQLiteSheet stores activity rows in the local database. Newest-first
// ordering comes from reading by descending insertion order rather than from
// physically shifting rows.
type SQLiteSheet struct {
	db   *gorm.DB
	name string
}

// NewSQLiteSheet creates a sheet backed by the activity_entries table.
func NewSQLiteSheet(db *gorm.DB, name string) *SQLiteSheet {
	return &SQLiteSheet{db: db, name: name}
}

func (s *SQLiteSheet) Name() string {
	return s.name
}

func (s *SQLiteSheet) Append(ctx context.Context, row Row) error {
	if !s.db.WithContext(ctx).Migrator().HasTable(&models.ActivityEntry{}) {
		return ErrSheetNotFound
	}

	entry := models.ActivityEntry{
		LoggedAt:  row.LoggedAt,
		AccountID: row.AccountID,
		User:      row.User,
		Action:    row.Action,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}
	return nil
}

func (s *SQLiteSheet) Rows(ctx context.Context, limit int) ([]Row, error) {
	if !s.db.WithContext(ctx).Migrator().HasTable(&models.ActivityEntry{}) {
		return nil, ErrSheetNotFound
	}

	q := s.db.WithContext(ctx).Model(&models.ActivityEntry{}).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entries []models.ActivityEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to read activity entries: %w", err)
	}

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			LoggedAt:  e.LoggedAt,
			AccountID: e.AccountID,
			User:      e.User,
			Action:    e.Action,
		})
	}
	return rows, nil
}
