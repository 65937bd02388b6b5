package main

import (
	"checkout/cli"
	"checkout/config"
	"checkout/database"
	"checkout/handlers"
	"checkout/service"
	"checkout/sheet"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables and parse CLI flags
	config.ParseFlags()

	// Widget mode is a pure HTTP client: no database, console logging
	if config.Settings.WidgetMode {
		log.SetFlags(log.Ldate | log.Ltime)
		mainWidget()
		return
	}

	logFile, err := setupLogging(config.Settings.LogFilePath)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Account checkout system starting up...")

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Select the activity log backend
	logSheet, err := buildLogSheet()
	if err != nil {
		log.Fatalf("Failed to initialize log sheet: %v", err)
	}
	log.Printf("Activity log backend: %s (sheet %q)", config.Settings.SheetBackend, logSheet.Name())

	// Initialize services
	service.InitServices(database.DB, logSheet, config.Settings.APIKey, config.Settings.APIKeyRequired)

	if !config.Settings.APIKeyRequired {
		log.Println("Warning: API key enforcement is disabled")
	}

	// Set Gin mode
	if config.Settings.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Direct Gin logs to the configured log file
	gin.DefaultWriter = log.Writer()
	gin.DefaultErrorWriter = log.Writer()
	gin.DisableConsoleColor()

	r := handlers.NewRouter()

	addr := fmt.Sprintf("0.0.0.0:%d", config.Settings.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Printf("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("System shutting down...")

	// Gracefully shut down HTTP server before closing the database
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := database.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exited")
}

// buildLogSheet selects the activity log backend from configuration
func buildLogSheet() (sheet.LogSheet, error) {
	switch config.Settings.SheetBackend {
	case "", "sqlite":
		return sheet.NewSQLiteSheet(database.DB, config.Settings.LogSheetName), nil
	case "googlesheets":
		spreadsheetID, err := sheet.ExtractSpreadsheetID(config.Settings.GoogleSpreadsheetID)
		if err != nil {
			return nil, err
		}
		return sheet.NewGoogleSheet(context.Background(),
			config.Settings.GoogleCredentialsPath, spreadsheetID, config.Settings.LogSheetName)
	default:
		return nil, fmt.Errorf("unknown sheet backend: %s", config.Settings.SheetBackend)
	}
}

// mainWidget entrypoint for widget mode (HTTP client)
func mainWidget() {
	serverURL := config.Settings.WidgetServer

	fmt.Printf("Account Checkout Widget - Connecting to %s\n", serverURL)

	cliInstance, err := cli.NewCLI(serverURL)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("\nTips:")
		fmt.Println("  1. Make sure the checkout server is running:")
		fmt.Println("     ./checkout")
		fmt.Println("  2. Or specify a different server:")
		fmt.Println("     ./checkout --widget --server http://your-server:8970")
		os.Exit(1)
	}

	// Start CLI loop (readline handles Ctrl+C automatically)
	cliInstance.Start()
}
