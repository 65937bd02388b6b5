package database

import (
	"checkout/config"
	"errors"
	"strings"
	"testing"
)

func TestBuildSQLiteDSN_PragmaParams(t *testing.T) {
	cfg := &config.Config{
		SQLitePragmasEnabled: true,
		SQLiteBusyTimeoutMS:  5000,
		SQLiteJournalMode:    "WAL",
		SQLiteSynchronous:    "NORMAL",
		SQLiteForeignKeys:    true,
	}

	dsn := buildSQLiteDSN("checkout.db", cfg)
	for _, want := range []string{
		"_pragma=busy_timeout%285000%29",
		"_pragma=journal_mode%28WAL%29",
		"_pragma=synchronous%28NORMAL%29",
		"_pragma=foreign_keys%281%29",
	} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("expected DSN to contain %q, got %q", want, dsn)
		}
	}
}

func TestBuildSQLiteDSN_PreservesExistingQuery(t *testing.T) {
	cfg := &config.Config{
		SQLitePragmasEnabled: true,
		SQLiteForeignKeys:    true,
	}
	dsn := buildSQLiteDSN("checkout.db?cache=shared", cfg)
	if !strings.Contains(dsn, "cache=shared") {
		t.Fatalf("expected existing query to be preserved, got %q", dsn)
	}
	if !strings.Contains(dsn, "_pragma=") {
		t.Fatalf("expected pragma params, got %q", dsn)
	}
}

func TestBuildSQLiteDSN_PragmasDisabled(t *testing.T) {
	cfg := &config.Config{SQLitePragmasEnabled: false}
	if dsn := buildSQLiteDSN("checkout.db", cfg); dsn != "checkout.db" {
		t.Fatalf("expected bare path, got %q", dsn)
	}
}

func TestSanitizePoolConfig_Bounds(t *testing.T) {
	got := sanitizePoolConfig(poolConfig{maxOpenConns: 0, maxIdleConns: 5, maxIdleSec: -1, maxLifeSec: -1})
	if got.maxOpenConns != 1 {
		t.Errorf("expected maxOpenConns clamped to 1, got %d", got.maxOpenConns)
	}
	if got.maxIdleConns != 1 {
		t.Errorf("expected maxIdleConns clamped to maxOpenConns, got %d", got.maxIdleConns)
	}
	if got.maxIdleSec != 0 || got.maxLifeSec != 0 {
		t.Errorf("expected non-negative lifetimes, got %+v", got)
	}
}

func TestClassifySQLiteError(t *testing.T) {
	busy, locked := classifySQLiteError(errors.New("SQLITE_BUSY: database is locked"))
	if !busy || locked {
		t.Fatalf("expected busy=true locked=false, got busy=%v locked=%v", busy, locked)
	}

	busy, locked = classifySQLiteError(errors.New("SQLITE_LOCKED: database table is locked"))
	if busy || !locked {
		t.Fatalf("expected busy=false locked=true, got busy=%v locked=%v", busy, locked)
	}
}
