// Package directory talks to the external clients service that owns user
// records and password hashes.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/credgate/pkg/idx"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultTimeout = 5 * time.Second

	// Cap on directory response bodies; listings are small JSON documents.
	maxBodyBytes = 4 << 20
)

var (
	// ErrUnavailable covers transport failures, timeouts and non-2xx answers.
	ErrUnavailable = errors.New("directory: unavailable")
	// ErrBadResponse means the directory answered 2xx with a body we cannot use.
	ErrBadResponse = errors.New("directory: unexpected response")
)

// UserSummary is a listing entry. It never carries a password hash.
type UserSummary struct {
	ID       idx.ExternalID `json:"id"`
	Email    string         `json:"email"`
	Username string         `json:"username"`
	Role     string         `json:"role"`
	IsActive bool           `json:"isActive"`
}

// UserDetail is the single-user view fetched with includePassword=true.
type UserDetail struct {
	UserSummary

	PasswordHash string `json:"password"`
}

type Config struct {
	BaseURL string
	Timeout time.Duration

	// RetryMax is the number of retries after the first attempt. Zero keeps
	// the fail-fast behaviour.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Client is a read-only HTTP client for the directory. Each call runs under
// its own timeout.
type Client struct {
	base    *url.URL
	timeout time.Duration
	http    *retryablehttp.Client
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("directory: invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("directory: base url must be http(s), got %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = 100 * time.Millisecond
	}
	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = cleanhttp.DefaultPooledClient()
	}

	rc := &retryablehttp.Client{
		HTTPClient:   cfg.HTTPClient,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
		RetryMax:     max(cfg.RetryMax, 0),
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.LinearJitterBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
	if cfg.Logger != nil {
		rc.Logger = cfg.Logger.With("component", "directory")
	}

	return &Client{base: base, timeout: cfg.Timeout, http: rc}, nil
}

// ListUsers fetches the full listing: GET {base} -> {"clients":[...]}.
func (c *Client) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var body struct {
		Clients []UserSummary `json:"clients"`
	}
	if err := c.get(ctx, c.base.String(), &body); err != nil {
		return nil, err
	}
	if body.Clients == nil {
		return nil, fmt.Errorf("%w: listing has no clients array", ErrBadResponse)
	}
	return body.Clients, nil
}

// GetUserWithPassword fetches one user including its password hash:
// GET {base}/{id}?includePassword=true -> {"client":{...}}. A response
// without a client object yields a zero UserDetail.
func (c *Client) GetUserWithPassword(ctx context.Context, id idx.ExternalID) (UserDetail, error) {
	u := c.base.JoinPath(url.PathEscape(id.String()))
	u.RawQuery = url.Values{"includePassword": {"true"}}.Encode()

	var body struct {
		Client *UserDetail `json:"client"`
	}
	if err := c.get(ctx, u.String(), &body); err != nil {
		return UserDetail{}, err
	}
	if body.Client == nil {
		return UserDetail{}, nil
	}
	return *body.Client, nil
}

func (c *Client) get(ctx context.Context, target string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("directory: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}
