package ratelimit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RequestBuilder constructs a fresh request for each attempt. Requests
// with bodies cannot be replayed, so the builder runs once per try.
type RequestBuilder func(ctx context.Context) (*http.Request, error)

// Client executes HTTP requests with pacing and bounded retries. All
// requests to one upstream share a Client so the limiter covers them.
type Client struct {
	httpClient *http.Client
	limiter    *Limiter
	maxRetries int
	retryDelay time.Duration
	sleep      func(context.Context, time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleep overrides the retry sleep function. Tests use this to avoid
// real delays.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
			if c.limiter != nil {
				c.limiter.sleep = sleep
			}
		}
	}
}

// NewClient creates a paced, retrying HTTP executor. maxRetries counts
// attempts after the first; zero means a single try.
func NewClient(interval time.Duration, maxRetries int, retryDelay time.Duration, opts ...Option) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    NewLimiter(interval),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Do runs the request with pacing, returning the response body on a 2xx
// status. Transient failures are retried up to the configured bound with
// a fixed delay; a 429 waits for the server's Retry-After when present.
// Permanent failures return immediately.
func (c *Client) Do(ctx context.Context, build RequestBuilder) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay
			if retryAfter := retryAfterHint(lastErr); retryAfter > 0 {
				delay = retryAfter
			}
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.attempt(ctx, build)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !Transient(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) attempt(ctx context.Context, build RequestBuilder) ([]byte, error) {
	req, err := build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Code: resp.StatusCode, Body: string(body)}
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &rateLimitedError{
				StatusError: statusErr,
				retryAfter:  parseRetryAfter(resp.Header.Get("Retry-After")),
			}
		}
		return nil, statusErr
	}
	return body, nil
}

// rateLimitedError carries the server's requested backoff alongside the
// 429 status.
type rateLimitedError struct {
	*StatusError
	retryAfter time.Duration
}

func (e *rateLimitedError) Unwrap() error { return e.StatusError }

func retryAfterHint(err error) time.Duration {
	if limited, ok := err.(*rateLimitedError); ok {
		return limited.retryAfter
	}
	return 0
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(header); err == nil {
		if wait := time.Until(when); wait > 0 {
			return wait
		}
	}
	return 0
}
