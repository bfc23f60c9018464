package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/common"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a request when none is configured.
const DefaultTimeout = 10 * time.Second

// retryBackoff is the base delay between collection fetch attempts.
var retryBackoff = 200 * time.Millisecond

// UnauthorizedHandler runs once per 401 response, before ErrUnauthorized is
// returned to the caller.
type UnauthorizedHandler func(ctx context.Context)

// HTTPClient is the API gateway. It is safe for concurrent use.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
	log            logging.Logger
	newRequestID   func() string
	limiter        *rate.Limiter
	retries        uint64
}

type Option func(*HTTPClient)

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *HTTPClient) { c.onUnauthorized = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithRateLimit caps outbound calls at rps with the given burst. rps <= 0
// leaves calls unthrottled.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithRetries retries collection fetches up to n times when the server is
// unreachable. Mutating calls are sent once.
func WithRetries(n uint64) Option {
	return func(c *HTTPClient) { c.retries = n }
}

// WithHTTPClient replaces the underlying *http.Client (tests use the one
// from httptest).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &HTTPClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		log:          logging.Discard(),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Timeout == 0 {
		c.http.Timeout = timeout
	}
	return c
}

// do sends body (when non-nil) as JSON and decodes the envelope data into
// out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	requestID := req.Header.Get(common.RequestIDHeader)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "api call failed", "method", method, "path", path,
			"request_id", requestID, "latency", time.Since(start), "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "api call", "method", method, "path", path,
		"status", resp.StatusCode, "request_id", requestID, "latency", time.Since(start))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return c.unauthorized(ctx)
	}

	var env models.Envelope
	decodeErr := json.Unmarshal(payload, &env)

	if resp.StatusCode == http.StatusNotFound {
		if decodeErr == nil && env.Msg != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, env.Msg)
		}
		return ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && env.Code != 0 {
			return &APIError{Code: env.Code, Msg: env.Msg}
		}
		return &APIError{Code: resp.StatusCode, Msg: strings.TrimSpace(http.StatusText(resp.StatusCode))}
	}

	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if env.Code == http.StatusUnauthorized {
		return c.unauthorized(ctx)
	}
	if !env.OK() {
		return &APIError{Code: env.Code, Msg: env.Msg}
	}

	if out == nil {
		return nil
	}
	if env.Empty() {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(common.ContentTypeHeader, common.ContentTypeJSON)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeader, c.newRequestID())

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}
	return req, nil
}

func (c *HTTPClient) unauthorized(ctx context.Context) error {
	c.log.Warn(ctx, "api rejected credentials")
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return ErrUnauthorized
}

// list fetches a collection; a null data field is an empty collection.
// Transport failures are retried with exponential backoff.
func list[T any](ctx context.Context, c *HTTPClient, path string) ([]T, error) {
	var out []T
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out = nil
		err := c.do(ctx, http.MethodGet, path, nil, &out)
		if errors.Is(err, ErrUnavailable) {
			c.log.Debug(ctx, "retrying collection fetch", "path", path, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, ErrEmptyResponse) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IsUnauthorized is shorthand for errors.Is(err, ErrUnauthorized).
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
