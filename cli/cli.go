package cli

import (
	"checkout/config"
	"checkout/widget"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
)

// CLI is the interactive widget front end. It talks to the checkout server
// over HTTP and drives the widget runtime: one button, reconciled against
// the bound worksheet.
type CLI struct {
	rl      *readline.Instance
	running bool
	client  *Client
	users   *widget.UserStore

	cfg     widget.Config
	runtime *widget.Runtime
}

// NewCLI creates the widget CLI against a running server
func NewCLI(serverURL string) (*CLI, error) {
	client := NewClient(serverURL)

	// Test connectivity
	if err := client.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("cannot connect to server: %v", err)
	}

	users, err := widget.NewUserStore()
	if err != nil {
		return nil, fmt.Errorf("cannot initialize user store: %v", err)
	}

	// Create readline instance; ignore Ctrl+C
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %v", err)
	}

	return &CLI{
		rl:      rl,
		running: true,
		client:  client,
		users:   users,
	}, nil
}

// Start runs the CLI loop
func (c *CLI) Start() {
	defer c.rl.Close()
	defer c.stopRuntime()

	c.printWelcome()

	if !c.ensureUser() {
		return
	}
	c.loadWidget()

	for c.running {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				// Ctrl+C pressed
				fmt.Println("\nUse 'exit' or 'quit' to exit gracefully.")
				continue
			}
			// EOF or other error; exit
			break
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		c.handleCommand(input)
	}
}

// printWelcome prints initial banner
func (c *CLI) printWelcome() {
	PrintBanner("Account Checkout - Widget Mode")
	fmt.Printf("\nConnected to: %s\n", c.client.BaseURL())
	fmt.Println("Type 'help' for available commands")
}

// handleCommand routes user commands
func (c *CLI) handleCommand(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "h", "?":
		c.showHelp()
	case "press", "p":
		c.handlePress()
	case "status", "st":
		c.handleStatus()
	case "configure", "config":
		c.handleConfigure()
	case "user":
		c.handleUser()
	case "refresh":
		c.handleRefresh()
	case "activity", "log":
		c.handleActivity(args)
	case "accounts":
		c.handleAccounts()
	case "reset":
		c.handleReset()
	case "clear":
		fmt.Print("\033[2J\033[H")
	case "exit", "quit", "q":
		c.running = false
	default:
		fmt.Printf("Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}
}

// showHelp prints available commands
func (c *CLI) showHelp() {
	fmt.Println()
	PrintBanner("Available Commands")
	fmt.Println()

	commands := [][]string{
		{"press, p", "Press the checkout button"},
		{"status, st", "Show the current button state"},
		{"refresh", "Refresh data sources and re-read the worksheet"},
		{"", ""},
		{"configure, config", "Configure the widget (interactive)"},
		{"user", "Change the current user"},
		{"reset", "Clear saved configuration and user"},
		{"", ""},
		{"activity [n]", "Show recent log entries (newest first)"},
		{"accounts", "List shared accounts"},
		{"", ""},
		{"clear", "Clear screen"},
		{"exit, quit, q", "Exit the program"},
	}

	for _, cmd := range commands {
		if cmd[0] != "" {
			fmt.Printf("  %-22s %s\n", cmd[0], cmd[1])
		} else {
			fmt.Println()
		}
	}
}

// ensureUser makes sure the operator has identified themselves. The name is
// kept for the session and optionally remembered across restarts.
func (c *CLI) ensureUser() bool {
	name, ok := c.users.Get()
	if !ok {
		var cancelled bool
		name, cancelled = c.promptUser()
		if cancelled || name == "" {
			fmt.Println("A user name is required to operate the widget.")
			return false
		}
	}

	if err := c.client.UpdateCurrentUser(context.Background(), name); err != nil {
		fmt.Printf("Warning: could not update current user on server: %v\n", err)
	}

	c.cfg.CurrentUser = name
	fmt.Printf("Operating as: %s\n", name)
	return true
}

// promptUser asks for a name and whether to remember it
func (c *CLI) promptUser() (string, bool) {
	name, cancelled := c.readInput("Your name", "")
	if cancelled {
		return "", true
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	remember, cancelled := c.readInput("Remember this name? (y/N)", "n")
	if cancelled {
		return "", true
	}

	if err := c.users.Save(name, strings.HasPrefix(strings.ToLower(remember), "y")); err != nil {
		fmt.Printf("Warning: could not save user name: %v\n", err)
	}
	return name, false
}

// loadWidget loads the saved configuration blob from the server and starts
// the runtime when the configuration is complete.
func (c *CLI) loadWidget() {
	saved, ok, err := widget.LoadConfig(c.client)
	if err != nil {
		fmt.Printf("Warning: could not load saved configuration: %v\n", err)
	}
	if ok {
		currentUser := c.cfg.CurrentUser
		c.cfg = saved
		if currentUser != "" {
			c.cfg.CurrentUser = currentUser
		}
	}

	if err := c.cfg.Validate(); err != nil {
		if errors.Is(err, widget.ErrConfigIncomplete) {
			fmt.Println("\nWidget is not configured yet. Run 'configure' to set it up.")
		} else {
			fmt.Printf("Configuration error: %v\n", err)
		}
		return
	}

	c.startRuntime()
}

// startRuntime builds and starts the event loop for the current config
func (c *CLI) startRuntime() {
	c.stopRuntime()

	settle := time.Duration(config.Settings.SettleDelayMS) * time.Millisecond
	primary := time.Duration(config.Settings.PrimaryRecheckDelayMS) * time.Millisecond
	fallback := time.Duration(config.Settings.FallbackRecheckDelayMS) * time.Millisecond

	rec := widget.NewReconciler(c.client, c.cfg, settle)
	notifier := widget.NewDesktopNotifier("Account Checkout", config.Settings.NotifyEnabled)
	sub := widget.NewSubmitter(widget.NewFallbackPolicy(), c.client, c.cfg, notifier, primary, fallback)

	rt := widget.NewRuntime(rec, sub, notifier, c.displayButton)
	if err := rt.Start(config.Settings.WidgetPollSchedule); err != nil {
		fmt.Printf("Error: could not start widget runtime: %v\n", err)
		return
	}
	c.runtime = rt
}

// stopRuntime stops the event loop if one is running
func (c *CLI) stopRuntime() {
	if c.runtime != nil {
		c.runtime.Stop()
		c.runtime = nil
	}
}

// displayButton renders the button state above the prompt
func (c *CLI) displayButton(st widget.ButtonState) {
	marker := " "
	if !st.Enabled {
		marker = "×"
	}
	fmt.Printf("\r[%s] %s\n", marker, st.Label)
	c.rl.Refresh()
}

func (c *CLI) handlePress() {
	if c.runtime == nil {
		fmt.Println("Widget is not configured. Run 'configure' first.")
		return
	}
	c.runtime.Press()
}

func (c *CLI) handleStatus() {
	if c.runtime == nil {
		fmt.Println("Widget is not configured. Run 'configure' first.")
		return
	}

	st := c.runtime.State()
	fmt.Printf("\nButton:    %s\n", st.Label)
	fmt.Printf("Style:     %s\n", st.Style)
	fmt.Printf("Enabled:   %v\n", st.Enabled)
	fmt.Printf("Worksheet: %s\n", c.cfg.WorksheetName)
	fmt.Printf("User:      %s\n", c.cfg.CurrentUser)
}

// handleConfigure runs the interactive configuration dialog, pre-populated
// from the saved blob
func (c *CLI) handleConfigure() {
	fmt.Println("\nWidget configuration (Ctrl+C to cancel)")

	updated := c.cfg
	fields := []struct {
		prompt string
		value  *string
	}{
		{"Worksheet name", &updated.WorksheetName},
		{"Account ID column", &updated.AccountIDColumn},
		{"Status column", &updated.StatusColumn},
		{"User column", &updated.UserColumn},
		{"Endpoint URL", &updated.EndpointURL},
		{"API key", &updated.APIKey},
	}

	for _, f := range fields {
		value, cancelled := c.readInput(f.prompt, *f.value)
		if cancelled {
			fmt.Println("Configuration cancelled.")
			return
		}
		*f.value = value
	}

	if err := updated.Validate(); err != nil {
		fmt.Printf("Configuration incomplete, not saved: %v\n", err)
		return
	}

	if err := widget.SaveConfig(c.client, updated); err != nil {
		fmt.Printf("Error: could not save configuration: %v\n", err)
		return
	}

	c.cfg = updated
	fmt.Println("Configuration saved.")
	c.startRuntime()
}

// handleUser changes the operator name
func (c *CLI) handleUser() {
	name, cancelled := c.promptUser()
	if cancelled || name == "" {
		return
	}

	if err := c.client.UpdateCurrentUser(context.Background(), name); err != nil {
		fmt.Printf("Warning: could not update current user on server: %v\n", err)
	}

	c.cfg.CurrentUser = name
	fmt.Printf("Operating as: %s\n", name)

	if c.cfg.Validate() == nil {
		c.startRuntime()
	}
}

// handleRefresh refreshes all data sources and requests a reconciliation
func (c *CLI) handleRefresh() {
	widget.RefreshAllSources(context.Background(), c.client)
	fmt.Println("Data sources refreshed.")

	if c.runtime != nil {
		c.runtime.RequestTick()
	}
}

// handleActivity prints recent log entries, newest first
func (c *CLI) handleActivity(args []string) {
	limit := 10
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := c.client.RecentActivity(context.Background(), limit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No activity recorded.")
		return
	}

	fmt.Printf("\n%-20s %-15s %-15s %s\n", "TIMESTAMP", "ACCOUNT", "USER", "ACTION")
	for _, e := range entries {
		fmt.Printf("%-20s %-15s %-15s %s\n",
			e.LoggedAt.Local().Format("2006-01-02 15:04:05"), e.AccountID, e.User, e.Action)
	}
}

// handleAccounts lists the shared account records
func (c *CLI) handleAccounts() {
	accounts, err := c.client.ListAccounts(context.Background())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts registered.")
		return
	}

	fmt.Printf("\n%-15s %s\n", "ACCOUNT ID", "DISPLAY NAME")
	for _, a := range accounts {
		fmt.Printf("%-15s %s\n", a.AccountID, a.DisplayName)
	}
}

// handleReset clears the saved configuration and the stored user name
func (c *CLI) handleReset() {
	confirm, cancelled := c.readInput("Clear saved configuration and user? (y/N)", "n")
	if cancelled || !strings.HasPrefix(strings.ToLower(confirm), "y") {
		fmt.Println("Reset cancelled.")
		return
	}

	c.stopRuntime()

	if err := widget.ClearConfig(c.client); err != nil {
		fmt.Printf("Warning: could not clear saved configuration: %v\n", err)
	}
	if err := c.users.Clear(); err != nil {
		fmt.Printf("Warning: could not clear stored user: %v\n", err)
	}

	c.cfg = widget.Config{}
	fmt.Println("Configuration cleared. Run 'configure' to set the widget up again.")
}

// readInput reads a single value with a default, supporting Ctrl+C cancel
func (c *CLI) readInput(prompt, defaultValue string) (string, bool) {
	if defaultValue != "" {
		c.rl.SetPrompt(fmt.Sprintf("%s [%s]: ", prompt, defaultValue))
	} else {
		c.rl.SetPrompt(fmt.Sprintf("%s: ", prompt))
	}

	line, err := c.rl.Readline()
	c.rl.SetPrompt("> ") // Restore default prompt

	if err != nil {
		if err == readline.ErrInterrupt {
			return "", true
		}
		return defaultValue, false
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return defaultValue, false
	}
	return input, false
}
