package widget

import (
	"checkout/models"
	"sync"
	"testing"
	"time"
)

type collectingDisplay struct {
	mu     sync.Mutex
	states []ButtonState
	waitCh chan struct{}
}

func newCollectingDisplay() *collectingDisplay {
	return &collectingDisplay{waitCh: make(chan struct{}, 16)}
}

func (d *collectingDisplay) display(st ButtonState) {
	d.mu.Lock()
	d.states = append(d.states, st)
	d.mu.Unlock()
	select {
	case d.waitCh <- struct{}{}:
	default:
	}
}

func (d *collectingDisplay) wait(t *testing.T) {
	t.Helper()
	select {
	case <-d.waitCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a display update")
	}
}

func (d *collectingDisplay) last() ButtonState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.states[len(d.states)-1]
}

func newTestRuntime(host Host, primary Transport) (*Runtime, *collectingDisplay, *recordingNotifier) {
	cfg := testConfig()
	rec := NewReconciler(host, cfg, 0)
	notifier := &recordingNotifier{}
	sub := NewSubmitter(&FallbackPolicy{Primary: primary, Fallback: &stubTransport{}}, host, cfg, notifier, 10*time.Millisecond, 20*time.Millisecond)
	disp := newCollectingDisplay()
	rt := NewRuntime(rec, sub, notifier, disp.display)
	return rt, disp, notifier
}

func TestRuntimeInitialTick(t *testing.T) {
	host := &fakeHost{table: statusTable("A1", "Available", "available")}
	rt, disp, _ := newTestRuntime(host, &stubTransport{})
	if err := rt.Start(""); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer rt.Stop()

	disp.wait(t)
	if st := disp.last(); st.Label != "Check Out" || !st.Enabled {
		t.Errorf("initial tick state = %+v", st)
	}
}

func TestRuntimePressFlipsAndRechecks(t *testing.T) {
	host := &fakeHost{
		table: statusTable("A1", "Available", "available"),
		worksheets: []models.Worksheet{
			{Name: "Account Status", DataSources: []models.DataSource{{ID: "ds-activity", Name: "Activity"}}},
		},
	}
	primary := &stubTransport{outcome: &Outcome{StatusCode: 200, Body: "Logged successfully"}}
	rt, disp, _ := newTestRuntime(host, primary)
	if err := rt.Start(""); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer rt.Stop()

	disp.wait(t) // initial tick

	// the host now reports the account as ours, matching the submission
	host.table = statusTable("A1", "Checked Out", "alice")
	rt.Press()

	deadline := time.After(2 * time.Second)
	for rt.State().Label != "Check In" {
		select {
		case <-deadline:
			t.Fatalf("state never flipped, last = %+v", rt.State())
		case <-time.After(5 * time.Millisecond):
		}
	}
	if primary.calls != 1 {
		t.Errorf("transport calls = %d", primary.calls)
	}

	// the delayed recheck re-reads the host and keeps the flipped state
	time.Sleep(50 * time.Millisecond)
	if st := rt.State(); st.Label != "Check In" {
		t.Errorf("recheck reverted state: %+v", st)
	}
}

func TestRuntimeIgnoresDisabledPress(t *testing.T) {
	host := &fakeHost{table: statusTable("A1", "Checked Out", "bob")}
	primary := &stubTransport{outcome: &Outcome{StatusCode: 200}}
	rt, disp, _ := newTestRuntime(host, primary)
	if err := rt.Start(""); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer rt.Stop()

	disp.wait(t)
	rt.Press()
	time.Sleep(50 * time.Millisecond)
	if primary.calls != 0 {
		t.Errorf("disabled press reached the transport %d times", primary.calls)
	}
}
