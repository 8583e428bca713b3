package errs

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", New(KindInvalidCredential, errors.New("403")))
	assert.Equal(t, KindInvalidCredential, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindInvalidCredential))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindUnknown))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unclassified", errors.New("boom"), messages[KindUnknown]},
		{"missing key", New(KindMissingCredential, nil), messages[KindMissingCredential]},
		{"malformed", New(KindMalformedResponse, errors.New("bad json")), messages[KindMalformedResponse]},
		{"rate limited with wait", RateLimited(nil, 1500*time.Millisecond), "Rate limit reached. Please wait 2 seconds."},
		{"rate limited no wait", RateLimited(nil, 0), messages[KindRateLimited]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	err := Validation(map[string]string{"weight": "out of range", "age": "out of range"})
	require.Equal(t, "validation: age: out of range; weight: out of range", err.Error())
	assert.Equal(t, KindValidation, KindOf(err))
}
