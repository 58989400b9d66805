package goIdentity

import (
	"fmt"
	"strconv"
	"strings"
)

// SanitizeConditions coerces every candidate lookup value to a scalar
// string. Authentication-key lookups run against stores that may interpret
// structured values (arrays, maps) as query operators; flattening to strings
// closes that injection vector before conditions reach storage.
//
// It always succeeds. The returned map is the only safe value to forward to
// a [SubjectStore].
func SanitizeConditions(conditions map[string]any) map[string]string {
	out := make(map[string]string, len(conditions))
	for key, value := range conditions {
		out[key] = coerceScalar(value)
	}
	return out
}

// coerceScalar renders an arbitrary value as a plain string. Structured
// values are flattened via their default formatting; they will not match a
// stored scalar, which is the intended outcome for adversarial input.
func coerceScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// isBlankValue reports whether a raw attribute counts as blank for
// resolution purposes. Whitespace-only strings are blank.
func isBlankValue(value any) bool {
	if value == nil {
		return true
	}
	return strings.TrimSpace(coerceScalar(value)) == ""
}

// sanitizeConditions applies the package-level coercion plus the per-key
// modifiers configured for this identity kind (case folding, whitespace
// stripping) so equivalent inputs hit the same stored record.
func (e *Engine) sanitizeConditions(conditions map[string]any) map[string]string {
	out := SanitizeConditions(conditions)
	for _, key := range e.cfg.Keys.StripWhitespaceKeys {
		if v, ok := out[key]; ok {
			out[key] = strings.TrimSpace(v)
		}
	}
	for _, key := range e.cfg.Keys.CaseInsensitiveKeys {
		if v, ok := out[key]; ok {
			out[key] = strings.ToLower(v)
		}
	}
	return out
}
