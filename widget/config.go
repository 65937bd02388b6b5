// Package widget implements the checkout button: status reconciliation
// against a worksheet summary table, transition submission to the logging
// endpoint with a primary and a fallback transport, and the event loop that
// serializes both.
package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SettingsKey is the fixed key the widget configuration blob is stored under.
const SettingsKey = "checkoutConfig"

// ErrConfigIncomplete indicates the widget cannot operate until the operator
// finishes configuration. The submit control stays disabled; this is never
// discovered via a failed call.
var ErrConfigIncomplete = errors.New("configuration incomplete")

// Config is the widget configuration, persisted as a single JSON blob.
// The user column drives availability classification; the status column is
// read for display only.
type Config struct {
	WorksheetName   string `json:"worksheetName"`
	AccountIDColumn string `json:"accountIdColumn"`
	StatusColumn    string `json:"statusColumn"`
	UserColumn      string `json:"userColumn"`
	CurrentUser     string `json:"currentUser"`
	EndpointURL     string `json:"endpointUrl"`
	APIKey          string `json:"apiKey"`
}

// SettingsStore is the host's key/value settings store. Set with an empty
// value erases the key.
type SettingsStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// LoadConfig reads the persisted blob. ok is false when nothing is saved.
func LoadConfig(store SettingsStore) (cfg Config, ok bool, err error) {
	raw, ok, err := store.Get(SettingsKey)
	if err != nil || !ok {
		return Config{}, false, err
	}
	if strings.TrimSpace(raw) == "" {
		return Config{}, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return Config{}, false, fmt.Errorf("corrupt %s blob: %w", SettingsKey, err)
	}
	return cfg, true, nil
}

// SaveConfig persists the blob under the fixed key.
func SaveConfig(store SettingsStore, cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return store.Set(SettingsKey, string(data))
}

// ClearConfig erases the saved blob (the reset flow).
func ClearConfig(store SettingsStore) error {
	return store.Set(SettingsKey, "")
}

// Validate reports whether the mapping and credentials are complete. The
// submitter must not be wired to the UI until this passes.
func (c Config) Validate() error {
	var missing []string
	if c.WorksheetName == "" {
		missing = append(missing, "worksheetName")
	}
	if c.AccountIDColumn == "" {
		missing = append(missing, "accountIdColumn")
	}
	if c.StatusColumn == "" {
		missing = append(missing, "statusColumn")
	}
	if c.UserColumn == "" {
		missing = append(missing, "userColumn")
	}
	if c.CurrentUser == "" {
		missing = append(missing, "currentUser")
	}
	if c.EndpointURL == "" {
		missing = append(missing, "endpointUrl")
	}
	if c.APIKey == "" {
		missing = append(missing, "apiKey")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfigIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
