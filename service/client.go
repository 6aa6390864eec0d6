package service

import (
	"bytes"
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

	"github.com/google/uuid"

	"absolute-cinema-cli/logger"
)

const (
	defaultUserAgent   = "absolute-cinema-cli"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
	errorSnippetLimit  = 8 << 10
)

// TokenSource yields the bearer token for outgoing requests. A false second
// return value means the request is sent unauthenticated.
type TokenSource interface {
	Token() (string, bool)
}

// Client wraps HTTP access to the cinema backend.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	tokens       TokenSource
	log          *logger.Logger
	maxAttempts  int
	retryBase    time.Duration
	retryCap     time.Duration
	newRequestID func() string
}

type Option func(*Client)

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log.WithComponent("api")
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "cinema api error"
	}
	if e.Body == "" {
		return fmt.Sprintf("cinema api error: %s", e.Status)
	}
	return fmt.Sprintf("cinema api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether the backend rejected the credentials.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// NewClient creates a new API client for baseURL. If httpClient is nil, a
// default client is used.
func NewClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	c := &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		userAgent:    defaultUserAgent,
		log:          logger.Discard(),
		maxAttempts:  defaultMaxAttempts,
		retryBase:    defaultRetryBase,
		retryCap:     defaultRetryCap,
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpoint(path string, query url.Values) string {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// do sends one request and decodes the response into out. out may be nil,
// a *string (raw text body), an io.Writer (raw bytes) or a JSON target.
// Only GET requests are retried.
func (c *Client) do(ctx context.Context, method string, endpoint string, body any, out any) error {
	maxAttempts := 1
	if method == http.MethodGet && c.maxAttempts > 1 {
		maxAttempts = c.maxAttempts
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}

	requestID := c.newRequestID()
	log := c.log.WithRequestID(requestID)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.tokens != nil {
			if token, ok := c.tokens.Token(); ok {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		started := time.Now()
		res, err := c.httpClient.Do(req)
		if err != nil {
			log.Debug("request failed", slog.String("method", method), slog.String("endpoint", endpoint), slog.Int("attempt", attempt), slog.String("error", err.Error()))
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}
		log.Debug("request completed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Int("status", res.StatusCode),
			slog.Duration("elapsed", time.Since(started)),
			slog.Int("attempt", attempt),
		)

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorSnippetLimit))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       strings.TrimSpace(string(snippet)),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			log.Warn("api error", slog.String("endpoint", endpoint), slog.Int("status", res.StatusCode))
			return apiErr
		}

		err = decodeBody(res.Body, out)
		_ = res.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func decodeBody(body io.Reader, out any) error {
	switch target := out.(type) {
	case nil:
		_, err := io.Copy(io.Discard, body)
		return err
	case *string:
		data, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		*target = strings.TrimSpace(string(data))
		return nil
	case io.Writer:
		_, err := io.Copy(target, body)
		return err
	default:
		err := json.NewDecoder(body).Decode(out)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
