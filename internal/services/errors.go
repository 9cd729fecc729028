package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTimeout       = errors.New("timeout")
	ErrUnavailable   = errors.New("service unavailable")
	ErrQuota         = errors.New("quota exceeded")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// ErrorKind classifies a failed enrichment or publish attempt.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindUnavailable ErrorKind = "service_unavailable"
	KindQuota       ErrorKind = "quota_exceeded"
	KindValidation  ErrorKind = "validation_error"
	KindUnknown     ErrorKind = "unknown"
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later outcome classification. The marker should
// be one of the exported sentinel errors above.
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

// KindOf maps an error to the outcome taxonomy. Unrecognized errors are
// classified as unknown, which callers treat as retryable.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrQuota):
		return KindQuota
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindUnknown
	}
}

// Retryable reports whether a failure of the given kind may succeed on a fresh
// attempt. Validation failures are terminal for the item: the snapshot itself
// was rejected by the remote service.
func (k ErrorKind) Retryable() bool {
	return k != KindValidation
}

// Hint returns the remediation hint surfaced to the user for a failure kind.
func (k ErrorKind) Hint() string {
	switch k {
	case KindTimeout:
		return "the enrichment service took too long; re-run the item"
	case KindUnavailable:
		return "the enrichment service is unavailable; try again later"
	case KindQuota:
		return "insufficient quota; top up credits before re-running"
	case KindValidation:
		return "the item was rejected by the enrichment service; review its fields"
	case KindUnknown:
		return "unexpected failure; re-run the item"
	default:
		return ""
	}
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
