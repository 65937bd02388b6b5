package widget

import (
	"bytes"
	"checkout/models"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// Outcome is the result of one completed submission exchange.
type Outcome struct {
	StatusCode int
	Body       string
	// Assumed marks a fallback completion: the exchange finished but no
	// response is readable, so success is assumed.
	Assumed bool
}

// OK reports whether the outcome counts as success.
func (o *Outcome) OK() bool {
	return o.Assumed || (o.StatusCode >= 200 && o.StatusCode < 300)
}

// Transport submits one transition payload. A returned error means the
// exchange itself failed (transport level); an HTTP error status is a
// completed exchange and comes back in the Outcome.
type Transport interface {
	Submit(ctx context.Context, endpointURL string, req models.TransitionRequest) (*Outcome, error)
}

// DirectTransport is the primary path: a cross-origin POST with a JSON body.
// No timeout is applied; an unanswered request keeps the button disabled.
type DirectTransport struct {
	Client *http.Client
}

func NewDirectTransport() *DirectTransport {
	return &DirectTransport{Client: &http.Client{}}
}

func (t *DirectTransport) Submit(ctx context.Context, endpointURL string, payload models.TransitionRequest) (*Outcome, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("direct submit: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return &Outcome{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

// FormTransport is the fallback path: the same fields submitted as discrete
// form values. It mimics a hidden-frame form post, where completion is the
// only signal available, so any finished exchange is reported as an assumed
// success without reading the response.
type FormTransport struct {
	Client *http.Client
}

func NewFormTransport() *FormTransport {
	return &FormTransport{Client: &http.Client{}}
}

func (t *FormTransport) Submit(ctx context.Context, endpointURL string, payload models.TransitionRequest) (*Outcome, error) {
	form := url.Values{
		"accountId": {payload.AccountID},
		"user":      {payload.User},
		"action":    {payload.Action},
		"apiKey":    {payload.APIKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("form submit: %w", err)
	}
	resp.Body.Close()

	return &Outcome{Assumed: true}, nil
}

// SubmitPath records which transport carried a submission.
type SubmitPath string

const (
	PathPrimary  SubmitPath = "primary"
	PathFallback SubmitPath = "fallback"
)

// FallbackPolicy tries the primary transport and escalates to the fallback
// only on a transport-level failure, never on a clean HTTP error response.
type FallbackPolicy struct {
	Primary  Transport
	Fallback Transport
}

func NewFallbackPolicy() *FallbackPolicy {
	return &FallbackPolicy{
		Primary:  NewDirectTransport(),
		Fallback: NewFormTransport(),
	}
}

func (p *FallbackPolicy) Submit(ctx context.Context, endpointURL string, req models.TransitionRequest) (*Outcome, SubmitPath, error) {
	outcome, err := p.Primary.Submit(ctx, endpointURL, req)
	if err == nil {
		return outcome, PathPrimary, nil
	}

	log.Printf("primary transport failed, falling back to form submission: %v", err)

	outcome, err = p.Fallback.Submit(ctx, endpointURL, req)
	if err != nil {
		return nil, PathFallback, err
	}
	return outcome, PathFallback, nil
}
