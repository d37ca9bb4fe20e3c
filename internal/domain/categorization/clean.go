package categorization

import (
	"regexp"
	"strings"
)

var (
	// UPI narrations look like "UPI-SWIGGY-swiggy@ybl-918xxx-ref".
	upiSegmentRe = regexp.MustCompile(`(?i)^upi[-/]`)
	vpaRe        = regexp.MustCompile(`(?i)\b[\w.]+@[a-z]+\b`)
	refTrailRe   = regexp.MustCompile(`[-/]\d{6,}\b`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// CleanDescription reduces a raw narration to a readable merchant label:
// strips the UPI prefix, VPA handles and long reference numbers, then
// title-cases the remainder.
func CleanDescription(description string) string {
	s := strings.TrimSpace(description)
	if s == "" {
		return ""
	}

	s = upiSegmentRe.ReplaceAllString(s, "")
	s = vpaRe.ReplaceAllString(s, "")
	s = refTrailRe.ReplaceAllString(s, "")
	s = strings.NewReplacer("-", " ", "/", " ", "_", " ").Replace(s)
	s = multiSpaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return strings.TrimSpace(description)
	}

	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if bankingAcronyms[w] || strings.ContainsAny(w, "0123456789") {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var bankingAcronyms = map[string]bool{
	"upi": true, "pos": true, "atm": true, "atw": true, "neft": true,
	"rtgs": true, "imps": true, "ach": true, "emi": true, "fd": true,
	"rd": true, "ecs": true,
}
