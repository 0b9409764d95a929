package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnavailable   = errors.New("service unavailable")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// Kind classifies a failure for rendering at the HTTP boundary.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindPolicy              Kind = "policy_violation"
	KindRateLimited         Kind = "rate_limit_exceeded"
	KindUpstreamMisconfig   Kind = "upstream_misconfigured"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamRateLimited Kind = "upstream_rate_limited"
	KindInternal            Kind = "internal"
)

// Status returns the default HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindPolicy:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited, KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamMisconfig, KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a client-facing failure. Message and Details are safe to return to
// callers; Err carries the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details any
	Err     error

	// RetryAfter, when positive, is sent as the Retry-After header.
	RetryAfter time.Duration
}

// NewError creates an Error with the default status for kind.
func NewError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Status: kind.Status(), Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetails attaches structured details rendered in the error envelope.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// WithStatus overrides the HTTP status.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// WithRetryAfter sets the Retry-After hint.
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	e.RetryAfter = d
	return e
}

// WithCause records the underlying error for logging.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) && target != nil {
		return target, true
	}
	return nil, false
}

// Classify maps a marker-tagged provider error to its failure kind. Errors
// without a recognised marker are KindInternal.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return KindUpstreamMisconfig
	case errors.Is(err, ErrRateLimited):
		return KindUpstreamRateLimited
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrTimeout):
		return KindUpstreamUnavailable
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
