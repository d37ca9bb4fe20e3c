package parser

import (
	"fmt"
	"strings"
	"time"
)

// dateFormats covers the layouts seen across HDFC and Federal Bank
// statements. Day-first is assumed throughout; these are Indian statements.
var dateFormats = []string{
	"02/01/2006",
	"02/01/06",
	"02-01-2006",
	"02-01-06",
	"2006-01-02",
	"02 Jan 2006",
	"02 Jan 06",
	"2 Jan 2006",
}

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate normalizes a statement date string to a calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// ParseDayMonth parses a "DD MMM" fragment, attaching the given statement
// year. Federal Bank tables print transaction dates without a year.
func ParseDayMonth(s string, year int) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("not a day-month date: %q", s)
	}
	day := 0
	for _, c := range fields[0] {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("not a day-month date: %q", s)
		}
		day = day*10 + int(c-'0')
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("implausible day %d in %q", day, s)
	}
	month, ok := monthsByName[strings.ToLower(fields[1])[:min(3, len(fields[1]))]]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month in %q", s)
	}
	if year == 0 {
		year = time.Now().Year()
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}
