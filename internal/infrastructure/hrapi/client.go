// Package hrapi is the outbound HTTP client of the external HR system.
package hrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/oauth2"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/config"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

const maxResponseBytes = 16 << 20

// Config controls transport behaviour. MaxRetries counts attempts, so 1
// disables retrying.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	UserAgent  string
}

// ConfigFrom maps the external_api config section.
func ConfigFrom(c config.ExternalAPIConfig) Config {
	return Config{
		BaseURL:    c.BaseURL,
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
		Backoff:    c.Backoff,
		UserAgent:  c.UserAgent,
	}
}

// Client is immutable. Configure and WithToken return modified copies, so a
// shared client can be specialised per integration without locking.
type Client struct {
	cfg       Config
	baseURL   string
	token     string
	transport http.RoundTripper
	logger    logger.Interface
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

func NewClient(cfg Config, log logger.Interface, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Dashboard/1.0"
	}

	c := &Client{
		cfg:       cfg,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		transport: http.DefaultTransport,
		logger:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure returns a client pointed at baseURL.
func (c *Client) Configure(baseURL string) *Client {
	cp := *c
	cp.baseURL = strings.TrimRight(baseURL, "/")
	return &cp
}

// WithToken returns a client that sends token as a bearer credential. An
// empty token yields an unauthenticated client.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) HasToken() bool { return c.token != "" }

// Get issues a GET and decodes the JSON body into out when out is non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// Post issues a JSON POST and decodes the JSON body into out when out is non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	data, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) httpClient() *http.Client {
	rt := c.transport
	if c.token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"}),
			Base:   rt,
		}
	}
	return &http.Client{Transport: rt}
}

// do performs the request with retries. Network failures and 5xx are retried
// with a constant backoff; any other non-2xx ends the loop at once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	target := c.buildURL(path, query)

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		payload = data
	}

	client := c.httpClient()
	attempt := 0

	op := func() ([]byte, error) {
		attempt++
		data, err := c.attempt(ctx, client, method, target, payload)
		if err == nil {
			return data, nil
		}

		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return nil, backoff.Permanent(err)
		}
		if attempt < c.cfg.MaxRetries {
			c.logger.Warnw("external api request failed, retrying",
				"method", method,
				"url", target,
				"attempt", attempt,
				"error", err,
			)
		}
		return nil, err
	}

	data, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.cfg.Backoff)),
		backoff.WithMaxTries(uint(c.cfg.MaxRetries)),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	return data, err
}

func (c *Client) attempt(ctx context.Context, client *http.Client, method, target string, payload []byte) ([]byte, error) {
	actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(actx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: target, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{URL: target, Timeout: isTimeout(err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// errorMessage picks "message", then "error", from a JSON error body.
func errorMessage(data []byte) string {
	var body struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if s, ok := body.Message.(string); ok && s != "" {
			return s
		}
		if s, ok := body.Error.(string); ok && s != "" {
			return s
		}
	}
	return defaultAPIErrorMessage
}

func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &ResponseError{Message: fmt.Sprintf("invalid JSON response: %v", err)}
	}
	return nil
}
