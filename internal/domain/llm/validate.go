package llm

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
)

// validateTransaction checks one decoded record and converts it to the
// internal shape. Amounts are stored as magnitudes; direction lives in the
// debit flag. Records failing validation are skipped by the caller, never
// fatal.
func validateTransaction(record map[string]any) (statement.RawTransaction, error) {
	var tx statement.RawTransaction

	dateStr, _ := record["date"].(string)
	if dateStr == "" {
		return tx, fmt.Errorf("missing date")
	}
	date, err := normalizeDate(dateStr)
	if err != nil {
		return tx, err
	}

	desc, _ := record["description"].(string)
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return tx, fmt.Errorf("missing description")
	}

	amount, negative, err := coerceAmount(record["amount"])
	if err != nil {
		return tx, err
	}
	if amount == 0 {
		return tx, fmt.Errorf("zero amount")
	}

	txType, _ := record["type"].(string)
	txType = strings.ToLower(strings.TrimSpace(txType))
	if txType != "credit" && txType != "debit" {
		// Infer direction from the sign the model emitted.
		if negative {
			txType = "debit"
		} else {
			txType = "credit"
		}
	}

	tx.Date = date
	tx.Description = desc
	tx.Amount = amount
	tx.IsDebit = txType == "debit"
	return tx, nil
}

// normalizeDate accepts ISO dates and slash or dash separated day-first
// dates. When both leading fields could be a month, day-first wins since
// that is how Indian statements print dates.
func normalizeDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	sep := "/"
	if strings.Contains(s, "-") {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}

	a, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	c, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}

	day, month, year := a, b, c
	switch {
	case a > 1000:
		// YYYY/MM/DD
		year, month, day = a, b, c
	case a > 12 && b <= 12:
		day, month = a, b
	case a <= 12 && b > 12:
		// Month-first slipped through; swap.
		day, month = b, a
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("implausible date %q", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// coerceAmount turns the model's amount field into a positive float,
// reporting whether the original carried a minus sign.
func coerceAmount(v any) (float64, bool, error) {
	switch val := v.(type) {
	case float64:
		if val < 0 {
			return -val, true, nil
		}
		return val, false, nil
	case string:
		s := strings.TrimSpace(val)
		for _, sym := range []string{"₹", "$", "€", "£", "Rs.", "Rs", "INR"} {
			s = strings.ReplaceAll(s, sym, "")
		}
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSpace(s)
		negative := strings.HasPrefix(s, "-")
		s = strings.TrimPrefix(s, "-")
		s = strings.TrimPrefix(s, "+")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("unparseable amount %q", val)
		}
		return f, negative, nil
	case nil:
		return 0, false, fmt.Errorf("missing amount")
	default:
		return 0, false, fmt.Errorf("unexpected amount type %T", v)
	}
}
