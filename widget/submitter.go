package widget

import (
	"checkout/models"
	"context"
	"fmt"
	"time"
)

// Notifier surfaces confirmations and errors to the operator.
type Notifier interface {
	Confirm(message string)
	Error(message string)
}

// SubmitResult tells the runtime what to do after a submission attempt.
type SubmitResult struct {
	// Skipped is true when the button was disabled and nothing happened.
	Skipped bool
	// Submitted is true when a transition reached the endpoint (or is
	// assumed to have, on the fallback path).
	Submitted bool
	// RecheckAfter is how long to wait before re-running the reconciler so
	// the backing data source has time to refresh. Zero means no recheck.
	RecheckAfter time.Duration
}

// Submitter performs one checkout/check-in transition against the logging
// endpoint.
type Submitter struct {
	policy   *FallbackPolicy
	host     Host
	cfg      Config
	notifier Notifier

	primaryRecheckDelay  time.Duration
	fallbackRecheckDelay time.Duration
}

// NewSubmitter builds a submitter. The config must have passed Validate;
// wiring a submitter with incomplete credentials is a caller bug.
func NewSubmitter(policy *FallbackPolicy, host Host, cfg Config, notifier Notifier, primaryRecheck, fallbackRecheck time.Duration) *Submitter {
	return &Submitter{
		policy:               policy,
		host:                 host,
		cfg:                  cfg,
		notifier:             notifier,
		primaryRecheckDelay:  primaryRecheck,
		fallbackRecheckDelay: fallbackRecheck,
	}
}

// Submit runs one transition. current is the displayed button state; the
// intended action is inferred from its label ("Check Out" literally means
// check out, anything else means check in). display pushes intermediate and
// final button states to the UI.
func (s *Submitter) Submit(ctx context.Context, current ButtonState, accountID string, display func(ButtonState)) SubmitResult {
	if !current.Enabled {
		return SubmitResult{Skipped: true}
	}

	action := models.ActionCheckIn
	if current.Label == models.ActionCheckOut {
		action = models.ActionCheckOut
	}

	display(ButtonState{Label: "Processing...", Style: current.Style, Enabled: false})

	payload := models.TransitionRequest{
		AccountID: accountID,
		User:      s.cfg.CurrentUser,
		Action:    action,
		APIKey:    s.cfg.APIKey,
	}

	outcome, path, err := s.policy.Submit(ctx, s.cfg.EndpointURL, payload)
	if err != nil {
		// Both transports failed. Restore the button and surface a generic
		// error.
		display(current)
		s.notifier.Error(fmt.Sprintf("Error: %v", err))
		return SubmitResult{}
	}

	if !outcome.OK() {
		// Clean HTTP rejection from the endpoint: restore the prior state
		// and show the server's message. No fallback is attempted.
		display(current)
		msg := outcome.Body
		if msg == "" {
			msg = "Unknown error"
		}
		s.notifier.Error("Error: " + msg)
		return SubmitResult{}
	}

	// Flip to the opposite state immediately, then refresh the backing data
	// sources and schedule a delayed re-check.
	display(flippedState(action))
	RefreshAllSources(ctx, s.host)

	delay := s.primaryRecheckDelay
	verb := "completed"
	if path == PathFallback {
		delay = s.fallbackRecheckDelay
		verb = "submitted"
	}
	s.notifier.Confirm(fmt.Sprintf("%s request %s successfully!", action, verb))

	return SubmitResult{Submitted: true, RecheckAfter: delay}
}

func flippedState(action string) ButtonState {
	if action == models.ActionCheckOut {
		return ButtonState{Label: "Check In", Style: StyleCheckin, Enabled: true}
	}
	return ButtonState{Label: "Check Out", Style: StyleCheckout, Enabled: true}
}
