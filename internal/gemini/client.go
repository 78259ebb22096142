// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/haniahealth/hania-tui/internal/model"
)

// Configuration constants for the Gemini API.
const (
	// DefaultBaseURL is the base URL for the Gemini REST API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used for all exchanges.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout bounds a single exchange. Grounded answers with
	// search and maps lookups can run long, so this is generous.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// sharedHTTPClient pools connections across all Gemini requests.
// Per-request deadlines come from the caller's context, not a client
// timeout, so a long exchange is cancelable from the UI.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// Error variables for common Gemini API failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("Gemini API key not configured")

	// ErrAuthFailed indicates the API key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")
)

// APIError represents an error response from the Gemini API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("Gemini error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("Gemini error (HTTP %d): %s", e.Status, e.Message)
}

// Client is a client for the Gemini generateContent API.
//
// The zero value is not usable; construct with NewClient. Configuration
// methods follow the builder pattern and return the client for chaining.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	logger  *zap.Logger

	// httpClient is swappable for tests; defaults to the shared
	// pooled client.
	httpClient *http.Client
}

// NewClient creates a Gemini client with the given API key.
//
// An empty key still yields a working client; Send calls fail with
// ErrNotConfigured until a key is provided.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
		httpClient: sharedHTTPClient,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithModel sets the model used for exchanges.
func (c *Client) WithModel(m string) *Client {
	if m != "" {
		c.model = m
	}
	return c
}

// WithTimeout sets the per-exchange deadline.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

// WithLogger sets the diagnostic logger.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Timeout returns the per-exchange deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// APIKeyMasked returns a loggable description of the API key. The key
// itself never appears in logs; a hash fingerprint identifies it.
func (c *Client) APIKeyMasked() string {
	if c.apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, length=%d, fingerprint=%s]", len(c.apiKey), c.keyFingerprint())
}

func (c *Client) keyFingerprint() string {
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

// Send performs one grounded exchange: history plus the new message go
// up, reply text and citations come back. The exchange is bounded by
// the client timeout on top of any deadline already on ctx.
//
// A transport or API failure returns an error. A successful exchange
// that produced no text returns the no-information fallback reply, not
// an error.
func (c *Client) Send(ctx context.Context, history []model.HistoryEntry, message string, location *LatLng) (Reply, error) {
	if !c.IsConfigured() {
		return Reply{}, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := BuildRequest(history, message, location)
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Reply{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.logger.Debug("gemini request",
		zap.String("model", c.model),
		zap.Int("history_turns", len(history)),
		zap.Bool("location_bias", location != nil),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	// Auth never travels beyond the request.
	req.Header.Del("x-goog-api-key")

	if err != nil {
		c.logger.Warn("gemini request failed", zap.Error(err), zap.Duration("duration", duration))
		return Reply{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return Reply{}, err
	}

	c.logger.Debug("gemini response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
		zap.Int("body_bytes", len(body)),
	)

	if resp.StatusCode != http.StatusOK {
		return Reply{}, c.handleErrorResponse(resp.StatusCode, body)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return Reply{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return Unpack(&genResp), nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		switch statusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Error.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error.Message)
		default:
			return &APIError{
				Status:  statusCode,
				Code:    apiErr.Error.Status,
				Message: apiErr.Error.Message,
			}
		}
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{Status: statusCode, Message: string(body)}
	}
}
