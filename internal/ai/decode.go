package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"alcyxob/fitness-planner/internal/errs"
)

// stripFences removes a leading ```json / ``` marker and a trailing ``` marker.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// outermost cuts s down to the span between the first opening bracket and the
// matching last closing one. Used when the model wraps JSON in prose.
func outermost(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

// ParseJSONText turns a text reply into an untyped JSON tree. Empty text is
// KindNoContent; text that is not JSON after fence stripping is KindMalformedResponse.
func ParseJSONText(text string) (any, error) {
	s := stripFences(text)
	if s == "" {
		return nil, errs.New(errs.KindNoContent, ErrEmptyReply)
	}
	var tree any
	err := json.Unmarshal([]byte(s), &tree)
	if err == nil {
		return tree, nil
	}
	if inner := outermost(s); inner != "" && inner != s {
		if json.Unmarshal([]byte(inner), &tree) == nil {
			return tree, nil
		}
	}
	return nil, errs.New(errs.KindMalformedResponse, fmt.Errorf("parse AI reply: %w", err))
}
