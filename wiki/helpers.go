package wiki

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// getString extracts a string field from a decoded JSON object
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getMap extracts a nested object field from a decoded JSON object
func getMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

// getSlice extracts an array field from a decoded JSON object
func getSlice(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key].([]interface{}); ok {
		return v
	}
	return nil
}

// getNumber extracts a numeric field; JSON numbers decode as float64
func getNumber(m map[string]interface{}, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// numOr formats a numeric field, falling back when absent
func numOr(m map[string]interface{}, key, fallback string) string {
	if n, ok := getNumber(m, key); ok {
		return strconv.FormatInt(n, 10)
	}
	return fallback
}

// strOr returns a string field, falling back when absent or empty
func strOr(m map[string]interface{}, key, fallback string) string {
	if s := getString(m, key); s != "" {
		return s
	}
	return fallback
}

// getBool extracts a boolean field; formatversion=2 booleans decode as bool,
// legacy ones as the empty string
func getBool(m map[string]interface{}, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		_, present := m[key]
		return present && v != "0"
	}
	_, present := m[key]
	return present
}

// joinInts pipe-joins a list of integers per MediaWiki list convention
func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "|")
}

// filterAllowed keeps values present in the allow-list, preserving input order.
// Unknown values are silently dropped so the remote API's own defaults apply.
func filterAllowed(values, allowed []string) []string {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	var out []string
	for _, v := range values {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}

// contains reports whether list includes value
func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// clampLimit bounds a result limit to MediaWiki's accepted range
func clampLimit(limit, min, max int) int {
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}

// rawDump renders a decoded JSON value deterministically for error reports.
// json.Marshal sorts object keys, so identical input yields identical text.
func rawDump(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// applyAdditional merges caller-supplied extra wire parameters last, so they
// win over any computed field (escape-hatch semantics).
func applyAdditional(params url.Values, extra map[string]string) {
	for k, v := range extra {
		params.Set(k, v)
	}
}

// strOrDefault returns s, or fallback when s is empty
func strOrDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// capitalize upper-cases the first letter of an ASCII label
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// underline builds a header underline matching the header's visible length
func underline(header string) string {
	return strings.Repeat("=", len([]rune(header)))
}

// rewriteSearchMatches converts MediaWiki's search highlight spans into
// plain emphasis markers for text output
func rewriteSearchMatches(snippet string) string {
	snippet = strings.ReplaceAll(snippet, `<span class="searchmatch">`, "**")
	return strings.ReplaceAll(snippet, "</span>", "**")
}

// groupThousands formats an integer with comma grouping (e.g. 1234567 -> 1,234,567)
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var sb strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
