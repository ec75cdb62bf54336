package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// StatusError reports a non-success HTTP status from the upstream API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("http %d: %s", e.Code, body)
}

// Transient reports whether the error is worth retrying: network failures,
// rate limiting, and server errors. Client errors other than 429 are
// permanent and must not be retried.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusTooManyRequests {
			return true
		}
		return statusErr.Code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Connection resets and refused connections surface as *url.Error
	// wrapping an *os.SyscallError rather than a net.Error timeout.
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
