package config

import (
	"checkout/version"
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Config holds checkout runtime configuration.
type Config struct {
	LogLevel    string
	LogFilePath string
	Port        int

	// Activity log storage
	DatabaseURL          string
	SQLitePragmasEnabled bool
	SQLiteBusyTimeoutMS  int
	SQLiteJournalMode    string
	SQLiteSynchronous    string
	SQLiteForeignKeys    bool
	SQLiteMaxOpenConns   int
	SQLiteMaxIdleConns   int
	SQLiteConnMaxIdleSec int
	SQLiteConnMaxLifeSec int

	// Logging endpoint behavior
	LogSheetName   string
	APIKey         string
	APIKeyRequired bool

	// Sheet backend: "sqlite" (default) or "googlesheets"
	SheetBackend          string
	GoogleCredentialsPath string
	GoogleSpreadsheetID   string

	// Widget mode
	WidgetMode         bool
	WidgetServer       string // Server URL for widget mode
	WidgetPollSchedule string // cron spec for periodic re-reconciliation; empty disables

	// Reconciliation timing
	SettleDelayMS          int
	PrimaryRecheckDelayMS  int
	FallbackRecheckDelayMS int

	NotifyEnabled bool
}

// Settings is the global configuration instance populated from environment variables and flags.
var Settings *Config

// init populates the package-level Settings with defaults sourced from environment variables.
func init() {
	Settings = &Config{
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFilePath: getEnv("LOG_FILE", "./checkout.log"),
		Port:        getEnvInt("PORT", 8970),

		DatabaseURL:          getEnv("DATABASE_URL", "checkout.db"),
		SQLitePragmasEnabled: getEnvBool("SQLITE_PRAGMAS_ENABLED", true),
		SQLiteBusyTimeoutMS:  getEnvInt("SQLITE_BUSY_TIMEOUT_MS", 5000),
		SQLiteJournalMode:    getEnv("SQLITE_JOURNAL_MODE", "WAL"),
		SQLiteSynchronous:    getEnv("SQLITE_SYNCHRONOUS", "NORMAL"),
		SQLiteForeignKeys:    getEnvBool("SQLITE_FOREIGN_KEYS", true),
		SQLiteMaxOpenConns:   getEnvInt("SQLITE_MAX_OPEN_CONNS", 1),
		SQLiteMaxIdleConns:   getEnvInt("SQLITE_MAX_IDLE_CONNS", 1),
		SQLiteConnMaxIdleSec: getEnvInt("SQLITE_CONN_MAX_IDLE_SECONDS", 300),
		SQLiteConnMaxLifeSec: getEnvInt("SQLITE_CONN_MAX_LIFETIME_SECONDS", 0),

		LogSheetName:   getEnv("LOG_SHEET_NAME", "Activity Log"),
		APIKey:         getEnv("API_KEY", ""),
		APIKeyRequired: getEnvBool("API_KEY_REQUIRED", true),

		SheetBackend:          getEnv("SHEET_BACKEND", "sqlite"),
		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),

		WidgetMode:         getEnvBool("WIDGET_MODE", false),
		WidgetPollSchedule: getEnv("WIDGET_POLL_SCHEDULE", "@every 30s"),

		SettleDelayMS:          getEnvInt("SETTLE_DELAY_MS", 100),
		PrimaryRecheckDelayMS:  getEnvInt("PRIMARY_RECHECK_DELAY_MS", 1000),
		FallbackRecheckDelayMS: getEnvInt("FALLBACK_RECHECK_DELAY_MS", 2000),

		NotifyEnabled: getEnvBool("NOTIFY_ENABLED", true),
	}
}

// ParseFlags parses command-line flags, applies the optional YAML config file,
// and lets explicitly passed flags override file values.
// It also handles --help (prints usage and exits) and --version (prints build info and exits).
func ParseFlags() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Account Checkout System\n\n")
		fmt.Fprintf(out, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
		fmt.Fprintln(out, "\nEnvironment variables:")
		fmt.Fprintln(out, "  LOG_LEVEL                  Log level (DEBUG, INFO, WARN, ERROR)")
		fmt.Fprintln(out, "  LOG_FILE                   Log file path (default ./checkout.log)")
		fmt.Fprintln(out, "  PORT                       HTTP server port (default 8970)")
		fmt.Fprintln(out, "  DATABASE_URL               SQLite database path (default checkout.db)")
		fmt.Fprintln(out, "  SQLITE_PRAGMAS_ENABLED     Enable SQLite PRAGMAs (true/false, default true)")
		fmt.Fprintln(out, "  SQLITE_BUSY_TIMEOUT_MS     SQLite busy_timeout in milliseconds (default 5000)")
		fmt.Fprintln(out, "  SQLITE_JOURNAL_MODE        SQLite journal_mode (default WAL)")
		fmt.Fprintln(out, "  SQLITE_SYNCHRONOUS         SQLite synchronous (default NORMAL)")
		fmt.Fprintln(out, "  LOG_SHEET_NAME             Activity log sheet name (default \"Activity Log\")")
		fmt.Fprintln(out, "  API_KEY                    Shared secret required on transition submissions")
		fmt.Fprintln(out, "  API_KEY_REQUIRED           Enforce the shared secret (true/false, default true)")
		fmt.Fprintln(out, "  SHEET_BACKEND              Log sheet backend: sqlite or googlesheets")
		fmt.Fprintln(out, "  GOOGLE_CREDENTIALS         Service account credentials file (googlesheets backend)")
		fmt.Fprintln(out, "  GOOGLE_SPREADSHEET_ID      Spreadsheet ID or URL (googlesheets backend)")
		fmt.Fprintln(out, "  WIDGET_POLL_SCHEDULE       Cron spec for periodic widget polls (default \"@every 30s\")")
		fmt.Fprintln(out, "  SETTLE_DELAY_MS            Delay before each table read (default 100)")
		fmt.Fprintln(out, "  PRIMARY_RECHECK_DELAY_MS   Re-check delay after a direct submission (default 1000)")
		fmt.Fprintln(out, "  FALLBACK_RECHECK_DELAY_MS  Re-check delay after a fallback submission (default 2000)")
		fmt.Fprintln(out, "  NOTIFY_ENABLED             Desktop notifications in widget mode (default true)")
	}

	port := flag.Int("port", Settings.Port, "HTTP server port (overrides PORT)")
	db := flag.String("db", Settings.DatabaseURL, "SQLite database path (overrides DATABASE_URL)")
	logLevel := flag.String("log-level", Settings.LogLevel, "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL)")
	logFile := flag.String("log-file", Settings.LogFilePath, "Log file path (overrides LOG_FILE)")
	logSheet := flag.String("log-sheet", Settings.LogSheetName, "Activity log sheet name (overrides LOG_SHEET_NAME)")
	apiKey := flag.String("api-key", Settings.APIKey, "Shared secret for transition submissions (overrides API_KEY)")
	apiKeyRequired := flag.Bool("api-key-required", Settings.APIKeyRequired, "Enforce the shared secret (overrides API_KEY_REQUIRED)")
	sheetBackend := flag.String("sheet-backend", Settings.SheetBackend, "Log sheet backend: sqlite or googlesheets (overrides SHEET_BACKEND)")
	googleCreds := flag.String("google-credentials", Settings.GoogleCredentialsPath, "Google service account credentials file (overrides GOOGLE_CREDENTIALS)")
	spreadsheetID := flag.String("google-spreadsheet", Settings.GoogleSpreadsheetID, "Google spreadsheet ID or URL (overrides GOOGLE_SPREADSHEET_ID)")
	widgetMode := flag.Bool("widget", Settings.WidgetMode, "Run the interactive checkout widget (HTTP client only, no database)")
	widgetServer := flag.String("server", "http://localhost:8970", "Server URL for widget mode")
	pollSchedule := flag.String("poll-schedule", Settings.WidgetPollSchedule, "Cron spec for periodic widget polls; empty disables (overrides WIDGET_POLL_SCHEDULE)")
	notify := flag.Bool("notify", Settings.NotifyEnabled, "Desktop notifications in widget mode (overrides NOTIFY_ENABLED)")
	configFile := flag.String("config", "", "Optional YAML config file")

	showHelp := flag.Bool("help", false, "Show help and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetBuildInfo())
		os.Exit(0)
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *configFile != "" {
		if err := ApplyFile(Settings, *configFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config file: %v\n", err)
			os.Exit(1)
		}
	}

	// Explicitly passed flags win over both environment and config file.
	passed := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { passed[f.Name] = true })

	apply := func(name string, set func()) {
		if *configFile == "" || passed[name] {
			set()
		}
	}

	apply("port", func() { Settings.Port = *port })
	apply("db", func() { Settings.DatabaseURL = *db })
	apply("log-level", func() { Settings.LogLevel = *logLevel })
	apply("log-file", func() { Settings.LogFilePath = *logFile })
	apply("log-sheet", func() { Settings.LogSheetName = *logSheet })
	apply("api-key", func() { Settings.APIKey = *apiKey })
	apply("api-key-required", func() { Settings.APIKeyRequired = *apiKeyRequired })
	apply("sheet-backend", func() { Settings.SheetBackend = *sheetBackend })
	apply("google-credentials", func() { Settings.GoogleCredentialsPath = *googleCreds })
	apply("google-spreadsheet", func() { Settings.GoogleSpreadsheetID = *spreadsheetID })
	apply("poll-schedule", func() { Settings.WidgetPollSchedule = *pollSchedule })
	apply("notify", func() { Settings.NotifyEnabled = *notify })

	Settings.WidgetMode = *widgetMode
	Settings.WidgetServer = *widgetServer
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
