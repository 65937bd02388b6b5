package handlers

import (
	"checkout/config"
	"checkout/database"
	"checkout/metrics"
	"checkout/models"
	"checkout/service"
	"checkout/version"
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed page.html
var infoPage []byte

// SubmitTransition is the logging endpoint: POST / with a JSON body, a
// "payload" form field holding JSON, or discrete form fields. All three are
// normalized to a TransitionRequest before validation, and the response is
// plain text with the status code carrying the outcome.
func SubmitTransition(c *gin.Context) {
	req, ok := decodeTransition(c)
	if !ok {
		metrics.EndpointRequests.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
		c.String(http.StatusBadRequest, "No data received")
		return
	}

	out := service.GlobalServices.Activity.Process(c.Request.Context(), req)
	metrics.EndpointRequests.WithLabelValues(strconv.Itoa(out.Code)).Inc()
	c.String(out.Code, out.Message)
}

// decodeTransition normalizes the three accepted request encodings.
func decodeTransition(c *gin.Context) (models.TransitionRequest, bool) {
	var req models.TransitionRequest

	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, false
		}
		return req, true
	}

	// Form data with a JSON payload field
	if payload := c.PostForm("payload"); payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return req, false
		}
		return req, true
	}

	// Discrete form fields
	req.AccountID = c.PostForm("accountId")
	req.User = c.PostForm("user")
	req.Action = c.PostForm("action")
	req.APIKey = c.PostForm("apiKey")
	if req.AccountID == "" && req.User == "" && req.Action == "" && req.APIKey == "" {
		return req, false
	}
	return req, true
}

// Preflight answers OPTIONS requests that are not CORS preflights (those are
// handled by the CORS middleware). The response carries no semantic content.
func Preflight(c *gin.Context) {
	c.String(http.StatusOK, "Options request handled")
}

// InfoPage serves the informational HTML page for humans who open the
// endpoint URL directly. Not part of the API contract.
func InfoPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", infoPage)
}

// HealthCheck reports server and database health
func HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
	defer cancel()

	dbUp := database.SQLiteUp(ctx)
	status := "ok"
	code := http.StatusOK
	if !dbUp && config.Settings.SheetBackend == "sqlite" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbUp,
		"version":  version.GetFullVersion(),
	})
}
