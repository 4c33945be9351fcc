package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DDLExecutor is an automated channel that can run DDL out of band. The
// management-plane API implements it; tests substitute fakes.
type DDLExecutor interface {
	ExecDDL(ctx context.Context, ddl string) error
}

// ManagementAPIClient runs DDL through the hosting platform's management
// API, for deployments where neither the application role nor an exec_ddl
// function can issue DDL directly.
type ManagementAPIClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewManagementAPIClientFromEnv builds the client from MGMT_API_URL and
// MGMT_API_KEY. Returns a nil DDLExecutor when the URL is unset; the
// orchestrator treats a nil executor as "channel unavailable". The interface
// return is deliberate: handing a typed-nil *ManagementAPIClient to the
// migrator would pass its nil check and panic on first use.
func NewManagementAPIClientFromEnv() DDLExecutor {
	baseURL := os.Getenv("MGMT_API_URL")
	if baseURL == "" {
		return nil
	}

	return &ManagementAPIClient{
		BaseURL: baseURL,
		APIKey:  os.Getenv("MGMT_API_KEY"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type mgmtQueryRequest struct {
	Query string `json:"query"`
}

// ExecDDL posts the statement to the management API's SQL endpoint.
func (c *ManagementAPIClient) ExecDDL(ctx context.Context, ddl string) error {
	body, err := json.Marshal(mgmtQueryRequest{Query: ddl})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/query", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("management api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("management api returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
