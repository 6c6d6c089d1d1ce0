package invoke

import (
	"encoding/json"
	"strings"
)

// ParseStructured attempts to parse a key/value payload out of free text.
// Generation backends routinely wrap JSON in prose, code fences or trailing
// commentary and occasionally drop closing brackets; this normalizes the
// common cases before giving up. If no object can be recovered, defaultValue
// is returned unchanged.
func ParseStructured(raw string, defaultValue map[string]any) map[string]any {
	candidate := extractObject(raw)
	if candidate == "" {
		return defaultValue
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err == nil {
		return out
	}

	repaired := repairObject(candidate)
	if err := json.Unmarshal([]byte(repaired), &out); err == nil {
		return out
	}

	return defaultValue
}

// extractObject cuts the text down to the outermost {...} region, stripping
// surrounding prose and markdown fences.
func extractObject(raw string) string {
	s := strings.TrimSpace(raw)
	if fenced := strings.Index(s, "```"); fenced >= 0 {
		s = s[fenced+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end > start {
		return s[start : end+1]
	}
	// No closing brace at all; let repairObject balance it.
	return s[start:]
}

// repairObject fixes minor formatting damage: trailing commas before closing
// brackets and unbalanced braces.
func repairObject(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",}", "}")
	s = strings.ReplaceAll(s, ",]", "]")
	s = strings.TrimSuffix(s, ",")

	depth := 0
	inString := false
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
			}
		}
	}
	for i := 0; i < depth; i++ {
		s += "}"
	}
	return s
}

// Field returns data[key] as T, or def when the field is absent or of the
// wrong type. JSON numbers arrive as float64; integer requests convert when
// the value is integral.
func Field[T any](data map[string]any, key string, def T) T {
	v, ok := data[key]
	if !ok || v == nil {
		return def
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	// json.Unmarshal produces float64 for all numbers.
	if f, ok := v.(float64); ok {
		var out any
		switch any(def).(type) {
		case int:
			out = int(f)
		case int64:
			out = int64(f)
		default:
			return def
		}
		if typed, ok := out.(T); ok {
			return typed
		}
	}
	return def
}

// StringField is a convenience for the most common extraction, trimming
// surrounding whitespace.
func StringField(data map[string]any, key, def string) string {
	return strings.TrimSpace(Field(data, key, def))
}
