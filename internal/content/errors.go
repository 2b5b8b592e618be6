package content

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutError indicates that reading a file did not complete within
// the configured deadline.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("reading %s: timeout after %v", e.Path, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// IsTimeoutError reports whether err represents a read timeout.
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr) || errors.Is(err, context.DeadlineExceeded)
}
