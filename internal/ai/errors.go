package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"alcyxob/fitness-planner/internal/errs"
)

var (
	ErrNoAPIKey   = errors.New("API key not found")
	ErrNoImage    = errors.New("no image generated")
	ErrEmptyReply = errors.New("no data returned from the AI backend")
)

// classify maps a non-2xx backend reply to the error taxonomy.
func classify(status int, header http.Header, body []byte) error {
	var payload apiError
	_ = json.Unmarshal(body, &payload)

	message := http.StatusText(status)
	var apiStatus string
	var reasons []string
	if payload.Error != nil {
		if payload.Error.Message != "" {
			message = payload.Error.Message
		}
		apiStatus = payload.Error.Status
		for _, d := range payload.Error.Details {
			if d.Reason != "" {
				reasons = append(reasons, d.Reason)
			}
		}
	}
	cause := fmt.Errorf("backend returned %d: %s", status, message)

	switch {
	case status == http.StatusTooManyRequests || apiStatus == "RESOURCE_EXHAUSTED":
		return errs.RateLimited(cause, retryAfter(header))
	case status == http.StatusUnauthorized || status == http.StatusForbidden,
		apiStatus == "UNAUTHENTICATED" || apiStatus == "PERMISSION_DENIED",
		hasReason(reasons, "API_KEY_INVALID"),
		strings.Contains(message, "API key not valid"):
		return errs.New(errs.KindInvalidCredential, cause)
	default:
		return errs.New(errs.KindUnknown, cause)
	}
}

func hasReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

// retryAfter reads a Retry-After header given in seconds. Zero when absent.
func retryAfter(header http.Header) time.Duration {
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
