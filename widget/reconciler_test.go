package widget

import (
	"checkout/models"
	"context"
	"errors"
	"testing"
)

type fakeHost struct {
	worksheets []models.Worksheet
	table      *models.DataTable
	tableErr   error
	refreshed  []string
	refreshErr map[string]error
}

func (h *fakeHost) Worksheets(ctx context.Context) ([]models.Worksheet, error) {
	return h.worksheets, nil
}

func (h *fakeHost) SummaryTable(ctx context.Context, worksheet string) (*models.DataTable, error) {
	if h.tableErr != nil {
		return nil, h.tableErr
	}
	return h.table, nil
}

func (h *fakeHost) RefreshDataSource(ctx context.Context, id string) error {
	h.refreshed = append(h.refreshed, id)
	if h.refreshErr != nil {
		return h.refreshErr[id]
	}
	return nil
}

func statusTable(accountID, status, user string) *models.DataTable {
	return &models.DataTable{
		Columns: []string{"Account ID", "Status", "Current User"},
		Rows: [][]models.Cell{
			{
				{Value: accountID, Formatted: accountID},
				{Value: status, Formatted: status},
				{Value: user, Formatted: user},
			},
		},
	}
}

func testConfig() Config {
	return Config{
		WorksheetName:   "Account Status",
		AccountIDColumn: "Account ID",
		StatusColumn:    "Status",
		UserColumn:      "Current User",
		CurrentUser:     "alice",
		EndpointURL:     "http://localhost:8970/",
		APIKey:          "secret",
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		owner       string
		currentUser string
		label       string
		style       ButtonStyle
		enabled     bool
	}{
		{"available", "alice", "Check Out", StyleCheckout, true},
		{"AVAILABLE", "alice", "Check Out", StyleCheckout, true},
		{"alice", "alice", "Check In", StyleCheckin, true},
		{"Alice", "alice", "Check In", StyleCheckin, true},
		{"bob", "alice", "Currently Checked out by bob", StyleUnavailable, false},
	}
	for _, tt := range tests {
		got := Classify(tt.owner, tt.currentUser)
		if got.Label != tt.label || got.Style != tt.style || got.Enabled != tt.enabled {
			t.Errorf("Classify(%q, %q) = %+v, want label=%q style=%q enabled=%v",
				tt.owner, tt.currentUser, got, tt.label, tt.style, tt.enabled)
		}
	}
}

func TestTickClassifiesFromUserColumn(t *testing.T) {
	host := &fakeHost{table: statusTable("A1", "Checked Out", "bob")}
	r := NewReconciler(host, testConfig(), 0)

	st := r.Tick(context.Background())
	if st.Style != StyleUnavailable {
		t.Fatalf("expected unavailable, got %+v", st)
	}
	if st.Label != "Currently Checked out by bob" {
		t.Errorf("unexpected label %q", st.Label)
	}

	snap := r.Snapshot()
	if snap.AccountID != "A1" || snap.Owner != "bob" || snap.Status != "Checked Out" {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	// owner flips to the current user
	host.table = statusTable("A1", "Checked Out", "ALICE")
	st = r.Tick(context.Background())
	if st.Label != "Check In" || !st.Enabled {
		t.Errorf("expected check-in state, got %+v", st)
	}

	// account is released
	host.table = statusTable("A1", "Available", "available")
	st = r.Tick(context.Background())
	if st.Label != "Check Out" || !st.Enabled {
		t.Errorf("expected check-out state, got %+v", st)
	}
}

func TestTickKeepsStateOnFetchError(t *testing.T) {
	host := &fakeHost{table: statusTable("A1", "Available", "available")}
	r := NewReconciler(host, testConfig(), 0)
	before := r.Tick(context.Background())

	host.tableErr = errors.New("connection refused")
	after := r.Tick(context.Background())
	if after != before {
		t.Errorf("state changed on fetch error: %+v -> %+v", before, after)
	}
}

func TestTickKeepsStateWhenColumnsMissing(t *testing.T) {
	host := &fakeHost{table: statusTable("A1", "Available", "available")}
	r := NewReconciler(host, testConfig(), 0)
	before := r.Tick(context.Background())

	host.table = &models.DataTable{
		Columns: []string{"Something", "Else"},
		Rows:    [][]models.Cell{{{Formatted: "x"}, {Formatted: "y"}}},
	}
	after := r.Tick(context.Background())
	if after != before {
		t.Errorf("state changed despite unresolvable columns: %+v", after)
	}
	if r.Snapshot().AccountID != "A1" {
		t.Errorf("snapshot clobbered by skipped tick: %+v", r.Snapshot())
	}
}

func TestTickKeepsStateOnEmptyTable(t *testing.T) {
	host := &fakeHost{table: statusTable("A1", "Checked Out", "bob")}
	r := NewReconciler(host, testConfig(), 0)
	before := r.Tick(context.Background())

	host.table = &models.DataTable{Columns: []string{"Account ID", "Status", "Current User"}}
	after := r.Tick(context.Background())
	if after != before {
		t.Errorf("state changed on empty table: %+v", after)
	}
}

func TestTickInitialStateBeforeFirstData(t *testing.T) {
	host := &fakeHost{tableErr: errors.New("not ready")}
	r := NewReconciler(host, testConfig(), 0)
	st := r.Tick(context.Background())
	if st.Label != "Loading..." || st.Enabled {
		t.Errorf("expected disabled loading state, got %+v", st)
	}
}

func TestRefreshAllSourcesDedupsAndSwallowsErrors(t *testing.T) {
	host := &fakeHost{
		worksheets: []models.Worksheet{
			{Name: "Account Status", DataSources: []models.DataSource{{ID: "ds-activity", Name: "Activity"}}},
			{Name: "Activity Log", DataSources: []models.DataSource{{ID: "ds-activity", Name: "Activity"}, {ID: "ds-extra", Name: "Extra"}}},
		},
		refreshErr: map[string]error{"ds-extra": errors.New("boom")},
	}

	RefreshAllSources(context.Background(), host)

	if len(host.refreshed) != 2 {
		t.Fatalf("expected 2 refreshes, got %v", host.refreshed)
	}
	if host.refreshed[0] != "ds-activity" || host.refreshed[1] != "ds-extra" {
		t.Errorf("unexpected refresh order %v", host.refreshed)
	}
}
