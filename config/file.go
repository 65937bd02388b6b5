package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of the optional config file. Zero values mean
// "not set" so partial files only override what they mention.
type fileConfig struct {
	LogLevel     string `yaml:"log_level"`
	LogFile      string `yaml:"log_file"`
	Port         int    `yaml:"port"`
	DatabaseURL  string `yaml:"database_url"`
	LogSheetName string `yaml:"log_sheet_name"`

	APIKey         string `yaml:"api_key"`
	APIKeyRequired *bool  `yaml:"api_key_required"`

	SheetBackend          string `yaml:"sheet_backend"`
	GoogleCredentialsPath string `yaml:"google_credentials"`
	GoogleSpreadsheetID   string `yaml:"google_spreadsheet_id"`

	WidgetPollSchedule *string `yaml:"widget_poll_schedule"`

	SettleDelayMS          int `yaml:"settle_delay_ms"`
	PrimaryRecheckDelayMS  int `yaml:"primary_recheck_delay_ms"`
	FallbackRecheckDelayMS int `yaml:"fallback_recheck_delay_ms"`

	NotifyEnabled *bool `yaml:"notify_enabled"`
}

// ApplyFile overlays values from a YAML config file onto cfg.
func ApplyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.LogLevel != "" {
		cfg.LogLevel = strings.ToUpper(fc.LogLevel)
	}
	if fc.LogFile != "" {
		cfg.LogFilePath = fc.LogFile
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = fc.DatabaseURL
	}
	if fc.LogSheetName != "" {
		cfg.LogSheetName = fc.LogSheetName
	}
	if fc.APIKey != "" {
		cfg.APIKey = fc.APIKey
	}
	if fc.APIKeyRequired != nil {
		cfg.APIKeyRequired = *fc.APIKeyRequired
	}
	if fc.SheetBackend != "" {
		cfg.SheetBackend = fc.SheetBackend
	}
	if fc.GoogleCredentialsPath != "" {
		cfg.GoogleCredentialsPath = fc.GoogleCredentialsPath
	}
	if fc.GoogleSpreadsheetID != "" {
		cfg.GoogleSpreadsheetID = fc.GoogleSpreadsheetID
	}
	if fc.WidgetPollSchedule != nil {
		cfg.WidgetPollSchedule = *fc.WidgetPollSchedule
	}
	if fc.SettleDelayMS != 0 {
		cfg.SettleDelayMS = fc.SettleDelayMS
	}
	if fc.PrimaryRecheckDelayMS != 0 {
		cfg.PrimaryRecheckDelayMS = fc.PrimaryRecheckDelayMS
	}
	if fc.FallbackRecheckDelayMS != 0 {
		cfg.FallbackRecheckDelayMS = fc.FallbackRecheckDelayMS
	}
	if fc.NotifyEnabled != nil {
		cfg.NotifyEnabled = *fc.NotifyEnabled
	}

	return nil
}
