package handlers

import (
	"checkout/database"
	"checkout/models"
	"checkout/service"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// currentUserParameter is the settings key backing the dashboard-style
// current_user parameter the widget updates after name entry.
const currentUserParameter = "param:current_user"

// ListWorksheets lists the tabular views the widget can bind to
func ListWorksheets(c *gin.Context) {
	c.JSON(http.StatusOK, service.GlobalServices.Worksheet.Worksheets())
}

// WorksheetSummary returns the current summary table of a worksheet.
// ?account=ID narrows the Account Status view like a dashboard filter.
func WorksheetSummary(c *gin.Context) {
	name := c.Param("name")
	table, err := service.GlobalServices.Worksheet.SummaryTable(c.Request.Context(), name, c.Query("account"))
	if err != nil {
		if errors.Is(err, service.ErrWorksheetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "worksheet not found: " + name})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, table)
}

// ListDataSources lists distinct backing data sources across all worksheets
func ListDataSources(c *gin.Context) {
	seen := map[string]bool{}
	sources := []models.DataSource{}
	for _, ws := range service.GlobalServices.Worksheet.Worksheets() {
		for _, source := range ws.DataSources {
			if !seen[source.ID] {
				seen[source.ID] = true
				sources = append(sources, source)
			}
		}
	}
	c.JSON(http.StatusOK, sources)
}

// RefreshDataSource triggers a refresh of one data source
func RefreshDataSource(c *gin.Context) {
	id := c.Param("id")
	if err := service.GlobalServices.Worksheet.RefreshDataSource(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListAccounts lists the shared account records
func ListAccounts(c *gin.Context) {
	accounts, err := service.GlobalServices.Account.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// CreateAccount seeds a shared account record
func CreateAccount(c *gin.Context) {
	var req models.AccountCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	account, err := service.GlobalServices.Account.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": account.ID})
}

// DeleteAccount removes a shared account record
func DeleteAccount(c *gin.Context) {
	if err := service.GlobalServices.Account.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RecentActivity returns newest-first log rows for inspection
func RecentActivity(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	rows, err := service.GlobalServices.Activity.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	entries := make([]models.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.ActivityEntry{
			LoggedAt:  row.LoggedAt,
			AccountID: row.AccountID,
			User:      row.User,
			Action:    row.Action,
		})
	}
	c.JSON(http.StatusOK, entries)
}

// GetSetting returns a persisted settings blob (e.g. the widget config).
func GetSetting(c *gin.Context) {
	key := c.Param("key")
	value, ok, err := database.GetSetting(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "setting not found: " + key})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// PutSetting persists a settings blob under a key. An empty value erases the
// setting, matching how the original extension cleared its saved config.
func PutSetting(c *gin.Context) {
	key := c.Param("key")

	var body struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var err error
	if body.Value == "" {
		err = database.DeleteSetting(key)
	} else {
		err = database.SetSetting(key, body.Value)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetCurrentUserParameter returns the dashboard current_user parameter
func GetCurrentUserParameter(c *gin.Context) {
	value, ok, err := database.GetSetting(currentUserParameter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if !ok {
		value = ""
	}
	c.JSON(http.StatusOK, gin.H{"name": "current_user", "value": value})
}

// PutCurrentUserParameter updates the dashboard current_user parameter.
// The widget calls this after the operator identifies themselves.
func PutCurrentUserParameter(c *gin.Context) {
	var body struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := database.SetSetting(currentUserParameter, body.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated_at": time.Now().UTC()})
}
