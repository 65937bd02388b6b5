package cli

import (
	"bytes"
	"checkout/models"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the HTTP client for talking to the checkout server. It is the
// widget's host binding: it satisfies widget.Host and widget.SettingsStore.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new HTTP client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the server address the client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest executes an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}

	return resp, nil
}

// handleResponse handles an HTTP response
func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %v", err)
		}
	}

	return nil
}

// HealthCheck pings the health endpoint
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "GET", "/api/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("server unhealthy: HTTP %d", resp.StatusCode)
	}

	return nil
}

// Worksheet API

// Worksheets lists the worksheets and the data sources they reference
func (c *Client) Worksheets(ctx context.Context) ([]models.Worksheet, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/worksheets", nil)
	if err != nil {
		return nil, err
	}

	var worksheets []models.Worksheet
	if err := c.handleResponse(resp, &worksheets); err != nil {
		return nil, err
	}

	return worksheets, nil
}

// SummaryTable fetches the current summary table of one worksheet
func (c *Client) SummaryTable(ctx context.Context, worksheet string) (*models.DataTable, error) {
	path := "/api/worksheets/" + url.PathEscape(worksheet) + "/summary"
	resp, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var table models.DataTable
	if err := c.handleResponse(resp, &table); err != nil {
		return nil, err
	}

	return &table, nil
}

// RefreshDataSource triggers a refresh of one data source
func (c *Client) RefreshDataSource(ctx context.Context, id string) error {
	path := "/api/datasources/" + url.PathEscape(id) + "/refresh"
	resp, err := c.doRequest(ctx, "POST", path, nil)
	if err != nil {
		return err
	}

	return c.handleResponse(resp, nil)
}

// Settings API
//
// Get and Set implement widget.SettingsStore over /api/settings.

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get reads one settings value. ok is false when the key is not set.
func (c *Client) Get(key string) (string, bool, error) {
	resp, err := c.doRequest(context.Background(), "GET", "/api/settings/"+url.PathEscape(key), nil)
	if err != nil {
		return "", false, err
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return "", false, nil
	}

	var setting settingResponse
	if err := c.handleResponse(resp, &setting); err != nil {
		return "", false, err
	}

	return setting.Value, true, nil
}

// Set writes one settings value. An empty value erases the key.
func (c *Client) Set(key, value string) error {
	body := map[string]string{"value": value}
	resp, err := c.doRequest(context.Background(), "PUT", "/api/settings/"+url.PathEscape(key), body)
	if err != nil {
		return err
	}

	return c.handleResponse(resp, nil)
}

// Parameters API

// UpdateCurrentUser pushes the operator's name into the dashboard's
// current_user parameter
func (c *Client) UpdateCurrentUser(ctx context.Context, name string) error {
	body := map[string]string{"value": name}
	resp, err := c.doRequest(ctx, "PUT", "/api/parameters/current_user", body)
	if err != nil {
		return err
	}

	return c.handleResponse(resp, nil)
}

// Activity API

// RecentActivity fetches newest-first log entries
func (c *Client) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	path := fmt.Sprintf("/api/activity?limit=%d", limit)
	resp, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var entries []models.ActivityEntry
	if err := c.handleResponse(resp, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Accounts API

// ListAccounts lists the shared account records
func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/accounts", nil)
	if err != nil {
		return nil, err
	}

	var accounts []models.Account
	if err := c.handleResponse(resp, &accounts); err != nil {
		return nil, err
	}

	return accounts, nil
}

// CreateAccount seeds a shared account record
func (c *Client) CreateAccount(ctx context.Context, req models.AccountCreate) error {
	resp, err := c.doRequest(ctx, "POST", "/api/accounts", req)
	if err != nil {
		return err
	}

	return c.handleResponse(resp, nil)
}
