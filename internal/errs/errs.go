// Package errs holds the error taxonomy shared by the gateway, services and HTTP layer.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind classifies a failure for user-facing reporting.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindMissingCredential Kind = "missing_credential"
	KindRateLimited       Kind = "rate_limited"
	KindInvalidCredential Kind = "invalid_credential"
	KindMalformedResponse Kind = "malformed_response"
	KindNoContent         Kind = "no_content"
	KindUnknown           Kind = "unknown"
)

// ErrNotFound is returned when a plan or plan item does not exist.
var ErrNotFound = errors.New("not found")

var messages = map[Kind]string{
	KindValidation:        "Please check the highlighted fields.",
	KindMissingCredential: "Please set your Gemini API key in Settings first.",
	KindRateLimited:       "Too many requests. Please wait a moment and try again.",
	KindInvalidCredential: "The configured API key was rejected. Please check it in Settings.",
	KindMalformedResponse: "The AI returned incomplete data. Please try again.",
	KindNoContent:         "The AI did not return any content. Please try again.",
	KindUnknown:           "Something went wrong. Please try again.",
}

// Error is a classified failure. Fields is set for validation errors,
// RetryAfter for rate-limit errors when the wait is known.
type Error struct {
	Kind       Kind
	Err        error
	Fields     map[string]string
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindValidation && len(e.Fields) > 0:
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return "validation: " + strings.Join(parts, "; ")
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with the given kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf builds a classified error from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Validation builds a validation error with per-field messages.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// RateLimited builds a rate-limit error carrying the remaining wait.
func RateLimited(err error, wait time.Duration) *Error {
	return &Error{Kind: KindRateLimited, Err: err, RetryAfter: wait}
}

// KindOf returns the kind of a classified error, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// UserMessage returns the short message shown to the user for err.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return messages[KindUnknown]
	}
	if e.Kind == KindRateLimited && e.RetryAfter > 0 {
		secs := int((e.RetryAfter + time.Second - 1) / time.Second)
		return fmt.Sprintf("Rate limit reached. Please wait %d seconds.", secs)
	}
	if msg, ok := messages[e.Kind]; ok {
		return msg
	}
	return messages[KindUnknown]
}
