package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lyricsmith/internal/services"
)

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, summarizePayloadSnippet(e.Body))
}

func (e *httpStatusError) retryable() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

type emptyContentError struct {
	Op           string
	FinishReason string
	Refusal      string
	Snippet      string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf(
		"%s: empty content (finish_reason=%q, refusal=%q, response_snippet=%s)",
		e.Op,
		e.FinishReason,
		e.Refusal,
		e.Snippet,
	)
}

// markError tags a terminal failure with the services marker callers use to
// choose a response.
func markError(op string, err error) error {
	if err == nil {
		return nil
	}
	var marker error
	var statusErr *httpStatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized, statusErr.StatusCode == http.StatusForbidden:
			marker = services.ErrConfiguration
		case statusErr.StatusCode == http.StatusTooManyRequests:
			marker = services.ErrRateLimited
		case statusErr.retryable():
			marker = services.ErrUnavailable
		}
	case errors.Is(err, context.DeadlineExceeded):
		marker = services.ErrTimeout
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			marker = services.ErrTimeout
		} else {
			marker = services.ErrUnavailable
		}
	}
	if marker == nil {
		return err
	}
	return services.Wrap(marker, "llm", op, "", err)
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
