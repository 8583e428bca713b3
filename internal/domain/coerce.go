package domain

import (
	"strconv"
	"strings"
)

// The AI backend does not honour the requested shape reliably: sets come back as
// numbers, calories as "500 kcal", steps as one paragraph. These helpers turn any
// decoded JSON value into the expected Go type, falling back to the zero value.

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		return strings.Join(asStringList(t), ", ")
	default:
		return ""
	}
}

func asNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(leadingNumber(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// leadingNumber cuts the numeric prefix out of values like "1,200 kcal" or
// "25-30g". Thousands separators are dropped and a range keeps its lower bound.
func leadingNumber(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	end, dot := 0, false
	if strings.HasPrefix(s, "-") {
		end = 1
	}
	for ; end < len(s); end++ {
		c := s[end]
		if c == '.' && !dot {
			dot = true
			continue
		}
		if c < '0' || c > '9' {
			break
		}
	}
	return s[:end]
}

func asStringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string{}, t...)
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return []string{}
	default:
		return []string{}
	}
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}
