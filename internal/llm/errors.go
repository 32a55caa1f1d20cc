package llm

import (
	"errors"
	"fmt"
)

// ErrorType categorizes a provider failure.
type ErrorType int

// Provider error categories.
const (
	ErrTypeAuthentication ErrorType = iota
	ErrTypeRateLimit
	ErrTypeServiceUnavailable
	ErrTypeInvalidRequest
	ErrTypeTimeout
	ErrTypeEmptyContent
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeAuthentication:
		return "authentication error"
	case ErrTypeRateLimit:
		return "rate limit exceeded"
	case ErrTypeServiceUnavailable:
		return "service unavailable"
	case ErrTypeInvalidRequest:
		return "invalid request"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeEmptyContent:
		return "empty content"
	default:
		return "unknown error"
	}
}

// Error is a provider failure with enough context for the chain's logs.
type Error struct {
	Type       ErrorType
	Provider   string
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s: %s (status: %d)", e.Provider, e.Type.String(), e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Type.String(), e.Message)
}

// Is matches on provider and type so tests can use errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && (t.Provider == "" || e.Provider == t.Provider)
}

// ErrAllProvidersFailed is returned by the chain when every provider in the
// list failed, timed out, or produced empty content.
var ErrAllProvidersFailed = errors.New("all completion providers failed")

func newTimeoutError(provider string) *Error {
	return &Error{Type: ErrTypeTimeout, Provider: provider, Message: "request timed out"}
}

func newEmptyContentError(provider string) *Error {
	return &Error{Type: ErrTypeEmptyContent, Provider: provider, Message: "response contained no content"}
}
