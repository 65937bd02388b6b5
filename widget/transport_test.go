package widget

import (
	"checkout/models"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sampleRequest() models.TransitionRequest {
	return models.TransitionRequest{
		AccountID: "A1",
		User:      "alice",
		Action:    models.ActionCheckOut,
		APIKey:    "secret",
	}
}

func TestDirectTransportPostsJSON(t *testing.T) {
	var got models.TransitionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte("Logged successfully"))
	}))
	defer srv.Close()

	outcome, err := NewDirectTransport().Submit(context.Background(), srv.URL, sampleRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.OK() || outcome.Body != "Logged successfully" {
		t.Errorf("unexpected outcome %+v", outcome)
	}
	if got.AccountID != "A1" || got.Action != models.ActionCheckOut || got.APIKey != "secret" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestDirectTransportReturnsHTTPErrorAsOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized: Invalid API key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	outcome, err := NewDirectTransport().Submit(context.Background(), srv.URL, sampleRequest())
	if err != nil {
		t.Fatalf("an HTTP error status must not be a transport error: %v", err)
	}
	if outcome.OK() {
		t.Errorf("401 reported as OK: %+v", outcome)
	}
	if outcome.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", outcome.StatusCode)
	}
}

func TestFormTransportSubmitsDiscreteFieldsAssumedSuccess(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = map[string]string{
			"accountId": r.PostFormValue("accountId"),
			"user":      r.PostFormValue("user"),
			"action":    r.PostFormValue("action"),
			"apiKey":    r.PostFormValue("apiKey"),
		}
		// the fallback path never reads this
		http.Error(w, "Sheet 'Activity Log' not found", http.StatusNotFound)
	}))
	defer srv.Close()

	outcome, err := NewFormTransport().Submit(context.Background(), srv.URL, sampleRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Assumed || !outcome.OK() {
		t.Errorf("fallback completion must be an assumed success: %+v", outcome)
	}
	if form["accountId"] != "A1" || form["user"] != "alice" || form["action"] != "Check Out" || form["apiKey"] != "secret" {
		t.Errorf("unexpected form fields %v", form)
	}
}

type stubTransport struct {
	outcome *Outcome
	err     error
	calls   int
}

func (s *stubTransport) Submit(ctx context.Context, endpointURL string, req models.TransitionRequest) (*Outcome, error) {
	s.calls++
	return s.outcome, s.err
}

func TestFallbackOnlyOnTransportError(t *testing.T) {
	primary := &stubTransport{err: errors.New("connection refused")}
	fallback := &stubTransport{outcome: &Outcome{Assumed: true}}
	policy := &FallbackPolicy{Primary: primary, Fallback: fallback}

	outcome, path, err := policy.Submit(context.Background(), "http://example/", sampleRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if path != PathFallback || !outcome.Assumed {
		t.Errorf("expected fallback path, got %v %+v", path, outcome)
	}
	if fallback.calls != 1 {
		t.Errorf("fallback called %d times", fallback.calls)
	}
}

func TestNoFallbackOnHTTPError(t *testing.T) {
	primary := &stubTransport{outcome: &Outcome{StatusCode: http.StatusBadRequest, Body: "No data received"}}
	fallback := &stubTransport{outcome: &Outcome{Assumed: true}}
	policy := &FallbackPolicy{Primary: primary, Fallback: fallback}

	outcome, path, err := policy.Submit(context.Background(), "http://example/", sampleRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if path != PathPrimary {
		t.Errorf("escalated on a completed exchange: path=%v", path)
	}
	if outcome.OK() {
		t.Errorf("400 reported as OK")
	}
	if fallback.calls != 0 {
		t.Errorf("fallback must not run after a clean HTTP rejection")
	}
}

func TestBothTransportsFailing(t *testing.T) {
	primary := &stubTransport{err: errors.New("refused")}
	fallback := &stubTransport{err: errors.New("also refused")}
	policy := &FallbackPolicy{Primary: primary, Fallback: fallback}

	_, path, err := policy.Submit(context.Background(), "http://example/", sampleRequest())
	if err == nil {
		t.Fatal("expected error when both transports fail")
	}
	if path != PathFallback {
		t.Errorf("path = %v", path)
	}
}
