package widget

import (
	"checkout/models"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

type recordingNotifier struct {
	confirms []string
	errors   []string
}

func (n *recordingNotifier) Confirm(msg string) { n.confirms = append(n.confirms, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

func newTestSubmitter(primary, fallback Transport, host Host, notifier Notifier) *Submitter {
	policy := &FallbackPolicy{Primary: primary, Fallback: fallback}
	return NewSubmitter(policy, host, testConfig(), notifier, time.Second, 2*time.Second)
}

func TestSubmitSkipsWhenDisabled(t *testing.T) {
	primary := &stubTransport{outcome: &Outcome{StatusCode: 200}}
	n := &recordingNotifier{}
	s := newTestSubmitter(primary, &stubTransport{}, &fakeHost{}, n)

	res := s.Submit(context.Background(), ButtonState{Label: "Currently Checked out by bob", Style: StyleUnavailable}, "A1", func(ButtonState) {
		t.Error("display must not be called for a skipped press")
	})
	if !res.Skipped {
		t.Fatalf("expected skip, got %+v", res)
	}
	if primary.calls != 0 {
		t.Error("disabled press reached the transport")
	}
}

func TestSubmitCheckOutFlow(t *testing.T) {
	primary := &stubTransport{outcome: &Outcome{StatusCode: 200, Body: "Logged successfully"}}
	host := &fakeHost{}
	n := &recordingNotifier{}
	s := newTestSubmitter(primary, &stubTransport{}, host, n)

	var states []ButtonState
	res := s.Submit(context.Background(),
		ButtonState{Label: "Check Out", Style: StyleCheckout, Enabled: true},
		"A1",
		func(st ButtonState) { states = append(states, st) })

	if !res.Submitted || res.RecheckAfter != time.Second {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(states) != 2 {
		t.Fatalf("expected processing then flipped state, got %v", states)
	}
	if states[0].Label != "Processing..." || states[0].Enabled {
		t.Errorf("first state = %+v", states[0])
	}
	if states[1].Label != "Check In" || !states[1].Enabled {
		t.Errorf("final state = %+v", states[1])
	}
	if len(n.confirms) != 1 || !strings.Contains(n.confirms[0], "Check Out request completed successfully!") {
		t.Errorf("confirms = %v", n.confirms)
	}
}

func TestSubmitCheckInInferredFromLabel(t *testing.T) {
	primary := &stubTransport{outcome: &Outcome{StatusCode: 200}}
	s := newTestSubmitter(primary, &stubTransport{}, &fakeHost{}, &recordingNotifier{})

	var final ButtonState
	s.Submit(context.Background(),
		ButtonState{Label: "Check In", Style: StyleCheckin, Enabled: true},
		"A1",
		func(st ButtonState) { final = st })

	if final.Label != "Check Out" {
		t.Errorf("check-in must flip to check-out, got %+v", final)
	}
}

func TestSubmitRestoresStateOnHTTPError(t *testing.T) {
	primary := &stubTransport{outcome: &Outcome{StatusCode: http.StatusUnauthorized, Body: "Unauthorized: Invalid API key"}}
	n := &recordingNotifier{}
	s := newTestSubmitter(primary, &stubTransport{}, &fakeHost{}, n)

	start := ButtonState{Label: "Check Out", Style: StyleCheckout, Enabled: true}
	var states []ButtonState
	res := s.Submit(context.Background(), start, "A1", func(st ButtonState) { states = append(states, st) })

	if res.Submitted || res.RecheckAfter != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if states[len(states)-1] != start {
		t.Errorf("button not restored: %+v", states[len(states)-1])
	}
	if len(n.errors) != 1 || n.errors[0] != "Error: Unauthorized: Invalid API key" {
		t.Errorf("errors = %v", n.errors)
	}
}

func TestSubmitGenericErrorWhenBothTransportsFail(t *testing.T) {
	primary := &stubTransport{err: errors.New("refused")}
	fallback := &stubTransport{err: errors.New("also refused")}
	n := &recordingNotifier{}
	s := newTestSubmitter(primary, fallback, &fakeHost{}, n)

	start := ButtonState{Label: "Check Out", Style: StyleCheckout, Enabled: true}
	var final ButtonState
	res := s.Submit(context.Background(), start, "A1", func(st ButtonState) { final = st })

	if res.Submitted {
		t.Fatal("failed submission reported as submitted")
	}
	if final != start {
		t.Errorf("button not restored: %+v", final)
	}
	if len(n.errors) != 1 || !strings.HasPrefix(n.errors[0], "Error: ") {
		t.Errorf("errors = %v", n.errors)
	}
}

func TestSubmitFallbackUsesLongerRecheck(t *testing.T) {
	primary := &stubTransport{err: errors.New("refused")}
	fallback := &stubTransport{outcome: &Outcome{Assumed: true}}
	host := &fakeHost{worksheets: []models.Worksheet{
		{Name: "Account Status", DataSources: []models.DataSource{{ID: "ds-activity", Name: "Activity"}}},
	}}
	n := &recordingNotifier{}
	s := newTestSubmitter(primary, fallback, host, n)

	res := s.Submit(context.Background(),
		ButtonState{Label: "Check Out", Style: StyleCheckout, Enabled: true},
		"A1", func(ButtonState) {})

	if !res.Submitted || res.RecheckAfter != 2*time.Second {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(n.confirms) != 1 || !strings.Contains(n.confirms[0], "submitted successfully") {
		t.Errorf("confirms = %v", n.confirms)
	}
	if len(host.refreshed) == 0 {
		t.Error("data sources not refreshed after assumed success")
	}
}
