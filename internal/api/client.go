// Package api provides a lightweight HTTP client for the thirdweb REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the default thirdweb API endpoint.
	DefaultBaseURL = "https://api.thirdweb.com"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultChainID is Ethereum mainnet.
	DefaultChainID int64 = 1

	// SDKName and SDKVersion are sent on every request.
	SDKName    = "tokenctl"
	SDKVersion = "1.0.0"
)

// Client is a lightweight thirdweb API client.
//
// A Client is not safe for concurrent use once SetAuthToken has been called;
// the CLI drives it from a single goroutine.
type Client struct {
	apiKey     string
	baseURL    string
	authToken  string
	chainID    int64
	ecosystem  Ecosystem
	httpClient *http.Client
	logger     *slog.Logger
}

// Ecosystem scopes wallets to a partner program. Both fields are optional.
type Ecosystem struct {
	ID        string
	PartnerID string
}

// NewClient creates a new API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		chainID: DefaultChainID,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithChainID sets the chain used when an operation is not given one.
func WithChainID(chainID int64) Option {
	return func(c *Client) {
		c.chainID = chainID
	}
}

// WithEcosystem attaches ecosystem headers to every request.
func WithEcosystem(eco Ecosystem) Option {
	return func(c *Client) {
		c.ecosystem = eco
	}
}

// SetAuthToken stores the bearer token used on subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

// AuthToken returns the bearer token, if any.
func (c *Client) AuthToken() string {
	return c.authToken
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	req.Header.Set("x-secret-key", c.apiKey)
	req.Header.Set("x-sdk-name", SDKName)
	req.Header.Set("x-sdk-version", SDKVersion)
	req.Header.Set("x-request-id", requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", SDKName+"/"+SDKVersion)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.ecosystem.ID != "" {
		req.Header.Set("x-ecosystem-id", c.ecosystem.ID)
		if c.ecosystem.PartnerID != "" {
			req.Header.Set("x-ecosystem-partner-id", c.ecosystem.PartnerID)
		}
	}
}

// doRaw performs an HTTP request and returns the raw 2xx body.
func (c *Client) doRaw(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	c.setHeaders(req, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorBody(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// do performs an HTTP request and decodes the JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	respBody, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// GetRaw performs a GET request and returns the raw response body.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, path, nil)
}
