package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/otcheredev/lims-admin-console/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const maxBodySize = 10 << 20

// Config holds the LIMS API connection settings
type Config struct {
	BaseURL     string
	RefreshPath string
	Timeout     time.Duration
	Headers     http.Header
}

// Client wraps every call to the LIMS REST API: base URL, JSON headers,
// bearer token attachment and the one-shot 401 refresh-and-replay.
type Client struct {
	baseURL    string
	refreshURL string
	headers    http.Header
	http       *http.Client
	timeout    time.Duration
	tokens     TokenStore
	refreshes  singleflight.Group
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient shares one transport between session clients
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client bound to one session's token store
func New(cfg Config, tokens TokenStore, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	for k, vs := range cfg.Headers {
		headers[k] = append([]string(nil), vs...)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	refreshPath := cfg.RefreshPath
	if refreshPath == "" {
		refreshPath = "/token/refresh/"
	}

	c := &Client{
		baseURL:    baseURL,
		refreshURL: joinURL(baseURL, refreshPath),
		headers:    headers,
		http:       &http.Client{Timeout: timeout},
		timeout:    timeout,
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends an authenticated JSON request and decodes a 2xx body into out.
// A 401 triggers exactly one refresh and one replay of the request; any other
// non-2xx status is returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	access, _, err := c.tokens.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to read tokens: %w", err)
	}
	if access == "" {
		log.Warn().Str("method", method).Str("path", path).Msg("No access token, sending request unauthenticated")
	}

	status, raw, err := c.send(ctx, method, path, params, payload, access)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		fresh, err := c.refresh(ctx)
		if err != nil {
			return err
		}

		status, raw, err = c.send(ctx, method, path, params, payload, fresh)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			c.expire(ctx)
			return fmt.Errorf("%w: %w", ErrSessionExpired, &APIError{StatusCode: status, Method: method, Path: path, Body: raw})
		}
	}

	return decodeResponse(status, method, path, raw, out)
}

// DoAnonymous sends a request without token handling (login)
func (c *Client) DoAnonymous(ctx context.Context, method, path string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	status, raw, err := c.send(ctx, method, path, nil, payload, "")
	if err != nil {
		return err
	}
	return decodeResponse(status, method, path, raw, out)
}

// Tokens exposes the underlying store (login writes the initial pair)
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

func (c *Client) send(ctx context.Context, method, path string, params url.Values, payload []byte, access string) (int, []byte, error) {
	u := joinURL(c.baseURL, path)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = vs
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequests.WithLabelValues(method, metrics.StatusClass(0)).Inc()
		return 0, nil, fmt.Errorf("failed to execute %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequests.WithLabelValues(method, metrics.StatusClass(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("LIMS API call")

	return resp.StatusCode, raw, nil
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// refresh exchanges the stored refresh token for a new access token.
// A rejected exchange clears the store and yields ErrSessionExpired. The
// exchange runs detached from ctx so one aborted request cannot end the
// session for the others waiting on it.
func (c *Client) refresh(ctx context.Context) (string, error) {
	_, refreshToken, err := c.tokens.Tokens(ctx)
	if err != nil || refreshToken == "" {
		metrics.TokenRefreshes.WithLabelValues("missing").Inc()
		c.expire(ctx)
		return "", ErrSessionExpired
	}

	ch := c.refreshes.DoChan(refreshToken, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		pair, err := c.exchange(rctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if err := c.tokens.SetTokens(rctx, pair.Access, pair.Refresh); err != nil {
			return nil, fmt.Errorf("failed to store refreshed token: %w", err)
		}
		return pair, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		metrics.TokenRefreshes.WithLabelValues("cancelled").Inc()
		return "", fmt.Errorf("token refresh abandoned: %w", ctx.Err())
	case res = <-ch:
	}

	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			metrics.TokenRefreshes.WithLabelValues("cancelled").Inc()
			log.Warn().Err(res.Err).Msg("Token refresh timed out, keeping session tokens")
			return "", res.Err
		}
		metrics.TokenRefreshes.WithLabelValues("failed").Inc()
		log.Warn().Err(res.Err).Msg("Token refresh failed, clearing session tokens")
		c.expire(ctx)
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, res.Err)
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	return res.Val.(tokenPair).Access, nil
}

func (c *Client) exchange(ctx context.Context, refreshToken string) (tokenPair, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return tokenPair{}, fmt.Errorf("failed to encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return tokenPair{}, fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return tokenPair{}, fmt.Errorf("failed to execute refresh request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if resp.StatusCode != http.StatusOK {
		return tokenPair{}, &APIError{StatusCode: resp.StatusCode, Method: http.MethodPost, Path: c.refreshURL, Body: raw}
	}

	var pair tokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return tokenPair{}, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if pair.Access == "" {
		return tokenPair{}, errors.New("refresh response carried no access token")
	}
	return pair, nil
}

func (c *Client) expire(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clear session tokens")
	}
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.(json.RawMessage); ok {
		return raw, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return payload, nil
}

func decodeResponse(status int, method, path string, raw []byte, out any) error {
	if status < 200 || status >= 300 {
		return &APIError{StatusCode: status, Method: method, Path: path, Body: raw}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

func joinURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
