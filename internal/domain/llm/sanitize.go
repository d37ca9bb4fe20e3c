package llm

import (
	"regexp"
	"strings"
)

// Sanitize repairs the common ways model output deviates from strict JSON.
// It is idempotent: running it on already-clean JSON changes nothing, so it
// is safe to apply before every parse attempt in the recovery ladder.
func Sanitize(s string) string {
	s = stripCodeFences(s)
	s = collapseControlChars(s)
	s = normalizeQuotes(s)
	s = stripTrailingCommas(s)
	s = normalizeAmountFields(s)
	s = closeUnbalancedArray(s)
	return strings.TrimSpace(s)
}

var (
	fenceOpenRe     = regexp.MustCompile("(?m)^```[a-zA-Z]*[ \t]*\r?\n?")
	fenceCloseRe    = regexp.MustCompile("(?m)\r?\n?```[ \t]*$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

	// Matches the amount field as either a quoted or a bare value, with an
	// optional currency symbol and digit grouping. Handles both 78,791.65 and
	// 1,45,896.42 grouping. The number cannot end in a comma and the closing
	// quote is only consumed when an opening quote was matched, so a bare
	// `"amount":100,"type"` passes through untouched.
	amountFieldRe = regexp.MustCompile(`("amount"\s*:\s*)(?:"\s*(?:₹|\$|€|£|Rs\.?|INR)?\s*(-?\d+(?:,\d+)*(?:\.\d+)?)\s*"|(?:₹|\$|€|£|Rs\.?|INR)?\s*(-?\d+(?:,\d+)*(?:\.\d+)?))`)
)

func stripCodeFences(s string) string {
	s = fenceOpenRe.ReplaceAllString(s, "")
	return fenceCloseRe.ReplaceAllString(s, "")
}

// collapseControlChars replaces control characters inside quoted strings
// with spaces. Raw newlines inside narration text are the usual offender.
func collapseControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case r < 0x20:
				b.WriteByte(' ')
				continue
			}
		} else if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeQuotes converts single-quoted strings to double-quoted ones.
// A single quote only opens a string when it sits in value or key position,
// right after a structural character. Prose apostrophes ("Here's") and
// apostrophes inside double-quoted narrations never shift quote parity, so
// a second pass over the output changes nothing.
func normalizeQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	inSingle := false
	escaped := false
	prev := rune(0)
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case r == '\'' && !inDouble:
			if inSingle {
				inSingle = false
				prev = '"'
				b.WriteByte('"')
				continue
			}
			if prev == 0 || prev == '{' || prev == '[' || prev == ',' || prev == ':' {
				inSingle = true
				prev = '"'
				b.WriteByte('"')
				continue
			}
		}
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			prev = r
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripTrailingCommas(s string) string {
	for {
		next := trailingCommaRe.ReplaceAllString(s, "$1")
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeAmountFields(s string) string {
	return amountFieldRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := amountFieldRe.FindStringSubmatch(m)
		num := parts[2]
		if num == "" {
			num = parts[3]
		}
		return parts[1] + strings.ReplaceAll(num, ",", "")
	})
}

// closeUnbalancedArray truncates a cut-off array at its last complete object
// and appends the missing closers. Token-limit truncation mid-object is the
// usual cause.
func closeUnbalancedArray(s string) string {
	opens, closes := bracketCounts(s)
	if opens <= closes {
		return s
	}
	if idx := strings.LastIndex(s, "}"); idx >= 0 {
		s = s[:idx+1]
	}
	opens, closes = bracketCounts(s)
	if opens > closes {
		s = strings.TrimRight(s, ", \t\r\n") + strings.Repeat("]", opens-closes)
	}
	return s
}

// bracketCounts tallies square brackets outside quoted strings.
func bracketCounts(s string) (opens, closes int) {
	inString := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case !inString && r == '[':
			opens++
		case !inString && r == ']':
			closes++
		}
	}
	return opens, closes
}
