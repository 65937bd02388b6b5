package widget

import (
	"os"
	"path/filepath"
	"strings"
)

const userFileName = "checkout_user"

// UserStore remembers who is operating the widget. The name is always kept
// for the current session; it survives restarts only when the operator asked
// to be remembered.
type UserStore struct {
	sessionPath    string
	persistentPath string
}

// NewUserStore places the session copy under the OS temp directory and the
// persistent copy under the user config directory.
func NewUserStore() (*UserStore, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &UserStore{
		sessionPath:    filepath.Join(os.TempDir(), userFileName),
		persistentPath: filepath.Join(cfgDir, "checkout", userFileName),
	}, nil
}

// NewUserStoreAt builds a store with explicit paths, mainly for tests.
func NewUserStoreAt(sessionPath, persistentPath string) *UserStore {
	return &UserStore{sessionPath: sessionPath, persistentPath: persistentPath}
}

// Save records the user name. The session copy is always written; the
// persistent copy is written only when remember is set, and cleared
// otherwise so a stale remembered name cannot resurface.
func (s *UserStore) Save(name string, remember bool) error {
	name = strings.TrimSpace(name)
	if err := writeUserFile(s.sessionPath, name); err != nil {
		return err
	}
	if remember {
		return writeUserFile(s.persistentPath, name)
	}
	if err := os.Remove(s.persistentPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Get returns the stored user name, preferring the session copy.
func (s *UserStore) Get() (string, bool) {
	if name, ok := readUserFile(s.sessionPath); ok {
		return name, true
	}
	return readUserFile(s.persistentPath)
}

// Clear forgets the user in both scopes.
func (s *UserStore) Clear() error {
	if err := os.Remove(s.sessionPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(s.persistentPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func writeUserFile(path, name string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(name), 0o600)
}

func readUserFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", false
	}
	return name, true
}
