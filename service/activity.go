package service

import (
	"checkout/metrics"
	"checkout/models"
	"checkout/sheet"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// ActivityService runs transition submissions through the logging pipeline:
// Received -> Validated -> Authorized -> Appended -> Responded. A submission
// short-circuits at validation (missing fields) or authorization (bad
// secret); storage is never touched before authorization succeeds.
type ActivityService struct {
	sheet          sheet.LogSheet
	apiKey         string
	apiKeyRequired bool
	now            func() time.Time
}

// Outcome is the plain-text response produced for a submission.
type Outcome struct {
	Code    int
	Message string
}

// NewActivityService constructs the activity logging service.
func NewActivityService(logSheet sheet.LogSheet, apiKey string, apiKeyRequired bool) *ActivityService {
	return &ActivityService{
		sheet:          logSheet,
		apiKey:         apiKey,
		apiKeyRequired: apiKeyRequired,
		now:            time.Now,
	}
}

// Process validates, authorizes, and appends one transition submission and
// returns the response to send. Re-submitting the same logical transition
// appends a second row; duplicates are accepted.
func (s *ActivityService) Process(ctx context.Context, req models.TransitionRequest) Outcome {
	req.Normalize()

	// Validate
	if req.AccountID == "" && req.User == "" && req.Action == "" {
		metrics.TransitionsRejected.WithLabelValues("missing_data").Inc()
		return Outcome{Code: http.StatusBadRequest, Message: "No data received"}
	}
	if req.AccountID == "" || req.User == "" || req.Action == "" {
		metrics.TransitionsRejected.WithLabelValues("missing_data").Inc()
		return Outcome{Code: http.StatusBadRequest, Message: "Missing required fields: accountId, user, action"}
	}
	if !strings.EqualFold(req.Action, models.ActionCheckOut) && !strings.EqualFold(req.Action, models.ActionCheckIn) {
		metrics.TransitionsRejected.WithLabelValues("bad_action").Inc()
		return Outcome{Code: http.StatusBadRequest, Message: fmt.Sprintf("Unknown action: %s", req.Action)}
	}

	// Authorize before touching storage
	if s.apiKeyRequired {
		if req.APIKey == "" || subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(s.apiKey)) != 1 {
			metrics.TransitionsRejected.WithLabelValues("unauthorized").Inc()
			return Outcome{Code: http.StatusUnauthorized, Message: "Unauthorized: Invalid API key"}
		}
	}

	// Append below the header row
	action := canonicalAction(req.Action)
	err := s.sheet.Append(ctx, sheet.Row{
		LoggedAt:  s.now(),
		AccountID: req.AccountID,
		User:      req.User,
		Action:    action,
	})
	if err != nil {
		if errors.Is(err, sheet.ErrSheetNotFound) {
			metrics.TransitionsRejected.WithLabelValues("sheet_missing").Inc()
			return Outcome{Code: http.StatusNotFound, Message: fmt.Sprintf("Sheet '%s' not found", s.sheet.Name())}
		}
		metrics.TransitionsRejected.WithLabelValues("storage_error").Inc()
		log.Printf("activity append failed: %v", err)
		return Outcome{Code: http.StatusInternalServerError, Message: "Error: " + err.Error()}
	}

	metrics.TransitionsAppended.WithLabelValues(action).Inc()
	log.Printf("logged %s of %s by %s", action, req.AccountID, req.User)
	return Outcome{Code: http.StatusOK, Message: "Logged successfully"}
}

// CurrentOwner derives the owner of an account from the newest matching log
// row: a trailing "Check Out" means that user holds it, anything else means
// the account is available.
func (s *ActivityService) CurrentOwner(ctx context.Context, accountID string) (string, error) {
	rows, err := s.sheet.Rows(ctx, 0)
	if err != nil {
		return "", err
	}

	for _, row := range rows {
		if !strings.EqualFold(row.AccountID, accountID) {
			continue
		}
		if strings.EqualFold(row.Action, models.ActionCheckOut) {
			return row.User, nil
		}
		return models.OwnerAvailable, nil
	}
	return models.OwnerAvailable, nil
}

// LastActivity returns the newest log row for an account, or nil when the
// account has no history.
func (s *ActivityService) LastActivity(ctx context.Context, accountID string) (*sheet.Row, error) {
	rows, err := s.sheet.Rows(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if strings.EqualFold(rows[i].AccountID, accountID) {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// Recent returns up to limit newest log rows.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]sheet.Row, error) {
	return s.sheet.Rows(ctx, limit)
}

// SheetName exposes the configured log sheet name.
func (s *ActivityService) SheetName() string {
	return s.sheet.Name()
}

func canonicalAction(action string) string {
	if strings.EqualFold(action, models.ActionCheckOut) {
		return models.ActionCheckOut
	}
	return models.ActionCheckIn
}
