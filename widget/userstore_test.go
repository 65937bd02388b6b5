package widget

import (
	"path/filepath"
	"testing"
)

func newTempUserStore(t *testing.T) *UserStore {
	t.Helper()
	dir := t.TempDir()
	return NewUserStoreAt(
		filepath.Join(dir, "session", "checkout_user"),
		filepath.Join(dir, "config", "checkout_user"),
	)
}

func TestUserStoreSessionOnly(t *testing.T) {
	s := newTempUserStore(t)

	if err := s.Save("alice", false); err != nil {
		t.Fatalf("save: %v", err)
	}
	name, ok := s.Get()
	if !ok || name != "alice" {
		t.Fatalf("get = %q, %v", name, ok)
	}

	// a fresh store sharing only the persistent path simulates a restart
	restarted := NewUserStoreAt(filepath.Join(t.TempDir(), "checkout_user"), s.persistentPath)
	if name, ok := restarted.Get(); ok {
		t.Errorf("session-only name survived restart: %q", name)
	}
}

func TestUserStoreRemembered(t *testing.T) {
	s := newTempUserStore(t)

	if err := s.Save("alice", true); err != nil {
		t.Fatalf("save: %v", err)
	}
	restarted := NewUserStoreAt(filepath.Join(t.TempDir(), "checkout_user"), s.persistentPath)
	name, ok := restarted.Get()
	if !ok || name != "alice" {
		t.Errorf("remembered name lost: %q, %v", name, ok)
	}
}

func TestUserStoreSessionPreferred(t *testing.T) {
	s := newTempUserStore(t)

	if err := s.Save("alice", true); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save("bob", false); err != nil {
		t.Fatalf("save: %v", err)
	}
	name, _ := s.Get()
	if name != "bob" {
		t.Errorf("session name not preferred: %q", name)
	}
}

func TestUserStoreUnrememberErasesPersistent(t *testing.T) {
	s := newTempUserStore(t)

	if err := s.Save("alice", true); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save("alice", false); err != nil {
		t.Fatalf("save: %v", err)
	}
	restarted := NewUserStoreAt(filepath.Join(t.TempDir(), "checkout_user"), s.persistentPath)
	if name, ok := restarted.Get(); ok {
		t.Errorf("unremembered name survived restart: %q", name)
	}
}

func TestUserStoreClear(t *testing.T) {
	s := newTempUserStore(t)

	if err := s.Save("alice", true); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if name, ok := s.Get(); ok {
		t.Errorf("name survived clear: %q", name)
	}
	// clearing an already-empty store is fine
	if err := s.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}
