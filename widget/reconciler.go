package widget

import (
	"checkout/models"
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

// ButtonStyle mirrors the widget's three visual states.
type ButtonStyle string

const (
	StyleCheckout    ButtonStyle = "checkout"
	StyleCheckin     ButtonStyle = "checkin"
	StyleUnavailable ButtonStyle = "unavailable"
)

// ButtonState is the displayed state of the checkout button.
type ButtonState struct {
	Label   string
	Style   ButtonStyle
	Enabled bool
}

// Snapshot is the account record derived from row 0 of the summary table.
// It is recomputed on every tick and never persisted.
type Snapshot struct {
	AccountID string
	Status    string
	Owner     string
}

// Classify derives the button state from the owner string, case-insensitive.
// It is a pure function of owner and currentUser.
func Classify(owner, currentUser string) ButtonState {
	switch {
	case strings.EqualFold(owner, models.OwnerAvailable):
		return ButtonState{Label: "Check Out", Style: StyleCheckout, Enabled: true}
	case strings.EqualFold(owner, currentUser):
		return ButtonState{Label: "Check In", Style: StyleCheckin, Enabled: true}
	default:
		return ButtonState{Label: "Currently Checked out by " + owner, Style: StyleUnavailable, Enabled: false}
	}
}

// Reconciler polls the bound worksheet and keeps the current button state.
// A tick that cannot resolve the configured columns, or that sees an empty
// table, leaves the previous state untouched.
type Reconciler struct {
	host        Host
	cfg         Config
	settleDelay time.Duration

	mu       sync.Mutex
	state    ButtonState
	snapshot Snapshot
}

// NewReconciler builds a reconciler for the given configuration.
func NewReconciler(host Host, cfg Config, settleDelay time.Duration) *Reconciler {
	return &Reconciler{
		host:        host,
		cfg:         cfg,
		settleDelay: settleDelay,
		state:       ButtonState{Label: "Loading...", Style: StyleUnavailable, Enabled: false},
	}
}

// State returns the currently displayed button state.
func (r *Reconciler) State() ButtonState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Snapshot returns the account record from the last successful tick.
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}

// SetState overrides the displayed state (used by the submitter for its
// processing and flipped states).
func (r *Reconciler) SetState(st ButtonState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = st
}

// Tick runs one poll-and-classify cycle and returns the resulting state.
func (r *Reconciler) Tick(ctx context.Context) ButtonState {
	// Let any derived field in the host settle before reading.
	if r.settleDelay > 0 {
		select {
		case <-time.After(r.settleDelay):
		case <-ctx.Done():
			return r.State()
		}
	}

	table, err := r.host.SummaryTable(ctx, r.cfg.WorksheetName)
	if err != nil {
		log.Printf("reconciler: summary fetch failed: %v", err)
		return r.State()
	}

	accountIdx := table.ColumnIndex(r.cfg.AccountIDColumn)
	statusIdx := table.ColumnIndex(r.cfg.StatusColumn)
	userIdx := table.ColumnIndex(r.cfg.UserColumn)
	if accountIdx == -1 || statusIdx == -1 || userIdx == -1 || len(table.Rows) == 0 {
		// Column mapping does not resolve against this table, or nothing to
		// read. Skip the tick and keep the previous state.
		return r.State()
	}

	row := table.Rows[0]
	if len(row) <= accountIdx || len(row) <= statusIdx || len(row) <= userIdx {
		return r.State()
	}

	// The user column is the source of truth for availability; the status
	// column is carried for display only.
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = Snapshot{
		AccountID: row[accountIdx].Formatted,
		Status:    row[statusIdx].Formatted,
		Owner:     row[userIdx].Formatted,
	}
	r.state = Classify(r.snapshot.Owner, r.cfg.CurrentUser)
	return r.state
}
