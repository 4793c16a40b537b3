// Package sanitize neutralizes hostile text in request bodies before any
// validation or storage sees it.
package sanitize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Redacted replaces every matched attack signature.
const Redacted = "[SEC_REDACTED]"

// signatures are applied in order; an earlier redaction can hide a later match.
var signatures = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script.*?>.*?</script>`),
	regexp.MustCompile(`(?i)UNION\s+SELECT`),
	regexp.MustCompile(`(?i)OR\s+['"]?\d+['"]?\s*=\s*['"]?\d+`),
	regexp.MustCompile(`(?i)DROP\s+TABLE`),
	regexp.MustCompile(`(?i)truncate\s+table`),
	regexp.MustCompile(`(?i)delete\s+from`),
	regexp.MustCompile(`(?i)update\s+.*\s+set`),
	regexp.MustCompile(`;\s*--`),
	regexp.MustCompile(`(?i)\[IGNORE\s+PREVIOUS\s+INSTRUCTIONS\]`),
	regexp.MustCompile(`(?i)system\s+prompt`),
	regexp.MustCompile(`(?i)DAN\s+mode`),
	regexp.MustCompile(`(?i)xp_cmdshell`),
	regexp.MustCompile(`(?i)exec\(`),
	regexp.MustCompile(`(?i)base64_decode`),

	// Markup that only makes sense as an injection attempt.
	regexp.MustCompile(`(?i)<\s*/?\s*script\b[^>]*>?`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\bon(error|load|click|mouseover|focus)\s*=`),
	regexp.MustCompile(`(?i)<\s*(iframe|object|embed)\b`),
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// String redacts attack signatures in s and then HTML-escapes it.
// It is not idempotent: call it exactly once per raw value.
func String(s string) string {
	for _, re := range signatures {
		s = re.ReplaceAllLiteralString(s, Redacted)
	}
	return htmlEscaper.Replace(s)
}

// Value returns a copy of v with String applied to every string leaf.
// v is expected to be a decoded JSON value; other types pass through.
func Value(v any) any {
	switch t := v.(type) {
	case string:
		return String(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Value(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Value(item)
		}
		return out
	default:
		return v
	}
}

// Map is Value for the common object case.
func Map(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return Value(m).(map[string]any)
}

// ContainsRedaction reports whether the serialized form of v carries the
// redaction token, meaning an attack was detected somewhere inside it.
func ContainsRedaction(v any) bool {
	if s, ok := v.(string); ok {
		return strings.Contains(s, Redacted)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return strings.Contains(string(raw), Redacted)
}
