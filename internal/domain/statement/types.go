// Package statement defines the core transaction model shared by every
// extraction path: the deterministic bank parsers, the generic fallbacks,
// and the LLM-assisted parser.
package statement

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the canonical date layout every parser normalizes to.
const ISODate = "2006-01-02"

// Known bank identifiers attached as provenance tags.
const (
	BankHDFC    = "HDFC"
	BankFederal = "Federal Bank"
	BankGeneric = "Unknown"
)

// Account types attached as provenance tags.
const (
	AccountTypeSavings    = "savings"
	AccountTypeCreditCard = "credit_card"
)

// Confidence is a qualitative parser quality signal. It is informational
// only and never enforced downstream.
type Confidence string

const (
	ConfidenceHigh Confidence = "High"
	ConfidenceLow  Confidence = "Low"
)

// RawTransaction is one extracted transaction before categorization.
//
// Amount polarity is parser-specific: the credit-card and generic paths force
// amounts negative, the savings path derives sign from balance deltas, and the
// Federal Bank paths classify via keyword lists. IsDebit is therefore kept
// independent of the arithmetic sign of Amount.
type RawTransaction struct {
	Date        time.Time
	Description string
	Amount      float64
	IsDebit     bool
	Balance     *float64

	Bank        string
	AccountType string
	AccountName string
	Confidence  Confidence
}

// Key returns the identity tuple used for deduplication.
func (t RawTransaction) Key() string {
	return fmt.Sprintf("%s|%s|%.2f", t.Date.Format(ISODate), strings.ToLower(strings.TrimSpace(t.Description)), t.Amount)
}

// CategorizedTransaction is a RawTransaction with semantic labels attached.
// Categorization adds fields; it never rewrites date/description/amount.
type CategorizedTransaction struct {
	RawTransaction

	Category    string
	Subcategory string
}

// RowError records a single malformed row that was skipped during a scan.
// Row-level problems never abort a parse; they are collected here so the
// skip-on-error policy is observable and testable.
type RowError struct {
	Line    int
	Field   string
	Message string
	Raw     string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d, field %s: %s", e.Line, e.Field, e.Message)
}

// ParseResult is the outcome of one parser invocation over one statement.
type ParseResult struct {
	Transactions []RawTransaction
	Errors       []RowError

	TotalRows   int
	ParsedRows  int
	SkippedRows int

	// BalanceConsistent reports whether replaying the running-balance
	// arithmetic over the extracted sequence succeeded. Only set by
	// parsers that extract balances.
	BalanceConsistent bool
}

// BankParser is the capability every extraction strategy implements.
// Parse reads the file at path and returns whatever it could extract;
// malformed individual rows are skipped, whole-file failures return an error.
type BankParser interface {
	Name() string
	Parse(path string) (*ParseResult, error)
}

// Tag stamps provenance onto every transaction in the slice.
func Tag(txs []RawTransaction, bank, accountType, accountName string, confidence Confidence) {
	for i := range txs {
		if bank != "" {
			txs[i].Bank = bank
		}
		if accountType != "" {
			txs[i].AccountType = accountType
		}
		if accountName != "" {
			txs[i].AccountName = accountName
		}
		if confidence != "" {
			txs[i].Confidence = confidence
		}
	}
}

// Deduplicate removes exact (date, description, amount) duplicates,
// preserving first occurrence order.
func Deduplicate(txs []RawTransaction) []RawTransaction {
	seen := make(map[string]bool, len(txs))
	out := make([]RawTransaction, 0, len(txs))
	for _, tx := range txs {
		k := tx.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, tx)
	}
	return out
}
