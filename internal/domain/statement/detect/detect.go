// Package detect sniffs PDF statements for bank-specific markers so the
// dispatcher can pick a parser when the caller does not name a bank.
// Detectors are cheap literal-marker scans over the first few pages and are
// evaluated in a fixed priority order; the first match wins. An unreadable
// file is never an error here — it simply fails to match.
package detect

import (
	"log/slog"
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/internal/domain/statement/pdftext"
)

// sniffPages is how many leading pages are scanned for markers.
const sniffPages = 3

// Detector decides whether a statement belongs to one bank/account-type
// combination.
type Detector struct {
	Bank        string
	AccountType string
	// matches inspects the lower-cased text of the leading pages.
	matches func(lower string) bool
}

// Detect reports whether the file at path matches this detector. I/O
// failures are treated as "not this bank".
func (d Detector) Detect(path string) bool {
	text, err := pdftext.ExtractFirstPages(path, sniffPages)
	if err != nil {
		slog.Debug("detector could not read file", "bank", d.Bank, "path", path, "error", err)
		return false
	}
	return d.Match(text)
}

// Match runs the marker scan over already-extracted text.
func (d Detector) Match(text string) bool {
	return d.matches(strings.ToLower(text))
}

// Registry returns the detectors in dispatch priority order:
// HDFC credit card, HDFC savings, Federal Bank.
func Registry() []Detector {
	return []Detector{
		{
			Bank:        statement.BankHDFC,
			AccountType: statement.AccountTypeCreditCard,
			matches: func(lower string) bool {
				if !strings.Contains(lower, "hdfc") {
					return false
				}
				return strings.Contains(lower, "credit card") ||
					strings.Contains(lower, "card statement") ||
					strings.Contains(lower, "transaction description")
			},
		},
		{
			Bank:        statement.BankHDFC,
			AccountType: statement.AccountTypeSavings,
			matches: func(lower string) bool {
				if !strings.Contains(lower, "hdfc") {
					return false
				}
				return strings.Contains(lower, "savings a/c no") ||
					(strings.Contains(lower, "withdrawal amt.") && strings.Contains(lower, "deposit amt.")) ||
					strings.Contains(lower, "statement of account")
			},
		},
		{
			Bank:        statement.BankFederal,
			AccountType: statement.AccountTypeSavings,
			matches: func(lower string) bool {
				return strings.Contains(lower, "federal bank") ||
					(strings.Contains(lower, "fedbk") && strings.Contains(lower, "statement"))
			},
		},
	}
}

// DetectBank runs the registry in priority order over the file at path.
// The third return value is false when nothing matched.
func DetectBank(path string) (bank, accountType string, ok bool) {
	text, err := pdftext.ExtractFirstPages(path, sniffPages)
	if err != nil {
		slog.Debug("bank detection could not read file", "path", path, "error", err)
		return "", "", false
	}
	return DetectBankFromText(text)
}

// DetectBankFromText runs the registry over already-extracted text.
func DetectBankFromText(text string) (bank, accountType string, ok bool) {
	for _, d := range Registry() {
		if d.Match(text) {
			return d.Bank, d.AccountType, true
		}
	}
	return "", "", false
}
