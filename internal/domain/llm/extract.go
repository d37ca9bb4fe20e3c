package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Wrapper keys models use when they insist on returning an object instead
// of a bare array.
var wrapperKeys = []string{"transactions", "data", "results", "items"}

var objectRe = regexp.MustCompile(`\{[^{}]*"date"[^{}]*\}`)

// extractArray pulls the transaction array out of surrounding prose. It
// tries, in order: the first bracket-balanced array, an array under a known
// wrapper key inside the first brace-balanced object, the object itself as a
// single transaction, and finally regex extraction of individual objects.
func extractArray(s string) (string, bool) {
	if arr, ok := balancedSlice(s, '[', ']'); ok {
		return arr, true
	}

	if obj, ok := balancedSlice(s, '{', '}'); ok {
		var m map[string]json.RawMessage
		if err := json.Unmarshal([]byte(obj), &m); err == nil {
			for _, key := range wrapperKeys {
				if raw, present := m[key]; present && len(raw) > 0 && raw[0] == '[' {
					return string(raw), true
				}
			}
			if hasTransactionShape(m) {
				return "[" + obj + "]", true
			}
		}
	}

	return extractObjectsByRegex(s)
}

func hasTransactionShape(m map[string]json.RawMessage) bool {
	for _, key := range []string{"date", "description", "amount"} {
		if _, ok := m[key]; !ok {
			return false
		}
	}
	return true
}

// extractObjectsByRegex is the last rung: pick transaction-shaped objects
// straight out of unstructured text.
func extractObjectsByRegex(s string) (string, bool) {
	matches := objectRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return "", false
	}
	return "[" + strings.Join(matches, ",") + "]", true
}

// balancedSlice returns the first balanced open..close slice, tracking
// quoted strings so brackets inside narrations do not miscount.
func balancedSlice(s string, open, closer rune) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == open:
			if depth == 0 {
				start = i
			}
			depth++
		case r == closer:
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
