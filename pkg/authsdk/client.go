package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the credgate gateway.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges an identifier (email or username) and password for a token.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	body, err := json.Marshal(LoginRequest{Identifier: identifier, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", "", bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateToken asks the gateway whether token is currently valid.
func (c *Client) ValidateToken(ctx context.Context, token string) (*ValidateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/validate-token", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var out ValidateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes token for the remaining lifetime of the gateway process.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", "", nil, nil)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearRevocations empties the gateway's deny-list. The gateway only exposes
// this when it was started with an admin token.
func (c *Client) ClearRevocations(ctx context.Context, adminToken string) (*RevocationsClearedResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/auth/admin/revocations", "", nil,
		map[string]string{"X-Admin-Token": adminToken})
	if err != nil {
		return nil, err
	}

	var out RevocationsClearedResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
