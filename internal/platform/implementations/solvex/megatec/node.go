package megatec

import (
	"strconv"
	"strings"
)

// AsList coerces the single-vs-array ambiguity of normalized trees: one
// occurrence of a tag yields a bare value, several yield a slice. Iterating
// callers always go through AsList.
func AsList(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	default:
		return []any{v}
	}
}

// ChildMap returns value as a mapping node when it is one.
func ChildMap(value any) (map[string]any, bool) {
	m, ok := value.(map[string]any)
	return m, ok
}

// Text unwraps a normalized value to its string form: bare strings directly,
// mapping nodes through the reserved text key.
func Text(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		if text, ok := v[TextKey].(string); ok {
			return text
		}
	}
	return ""
}

// FirstString returns the first non-empty string field among names. Upstream
// shapes drift between field names (Name vs HotelName), so lookups take the
// whole candidate list.
func FirstString(node map[string]any, names ...string) string {
	for _, name := range names {
		if text := strings.TrimSpace(Text(node[name])); text != "" {
			return text
		}
	}
	return ""
}

// FirstInt parses the first field among names that holds an integer.
func FirstInt(node map[string]any, names ...string) (int, bool) {
	for _, name := range names {
		text := strings.TrimSpace(Text(node[name]))
		if text == "" {
			continue
		}
		if n, err := strconv.Atoi(text); err == nil {
			return n, true
		}
	}
	return 0, false
}

// FirstFloat parses the first field among names that holds a number.
func FirstFloat(node map[string]any, names ...string) (float64, bool) {
	for _, name := range names {
		text := strings.TrimSpace(Text(node[name]))
		if text == "" {
			continue
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
