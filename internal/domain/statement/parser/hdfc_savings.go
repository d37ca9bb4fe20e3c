package parser

import (
	"regexp"
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/pkg/money"
)

// savingsDateLineRe matches the first line of a savings record:
// date, narration and an optional reference number.
var savingsDateLineRe = regexp.MustCompile(`^(\d{2}/\d{2}/\d{2,4})\s+(.+?)\s*$`)

// openingBalanceRe picks up the statement's opening balance, used to seed
// the balance-delta scan for the first transaction.
var openingBalanceRe = regexp.MustCompile(`(?i)opening\s+balance[^\d]*(\d{1,3}(?:,\d{2,3})*\.\d{2})`)

// HDFCSavings parses HDFC savings-account statements. Records span two
// lines: date + narration + reference on the first, unsigned amount and
// running balance on the second.
//
// Sign inference replays the balance arithmetic: with previous balance P and
// unsigned amount A, the row is a debit when the printed balance matches
// P-A within 0.01 and a credit when it matches P+A. When neither matches the
// row falls back to balance <= P. The scan is strictly sequential — each row
// is seeded by the balance of the row before it.
type HDFCSavings struct {
	text textSource
}

// NewHDFCSavings returns a parser reading text from the PDF extractor.
func NewHDFCSavings() *HDFCSavings {
	return &HDFCSavings{text: defaultText}
}

func (p *HDFCSavings) Name() string { return "hdfc_savings" }

// Parse extracts transactions from the statement at path.
func (p *HDFCSavings) Parse(path string) (*statement.ParseResult, error) {
	text, err := p.text(path)
	if err != nil {
		return nil, err
	}
	return p.ParseText(text), nil
}

// ParseText runs the two-line balance-delta scan over raw statement text.
func (p *HDFCSavings) ParseText(text string) *statement.ParseResult {
	result := &statement.ParseResult{BalanceConsistent: true}
	lines := strings.Split(text, "\n")

	prevBalance, havePrev := 0.0, false
	if m := openingBalanceRe.FindStringSubmatch(text); m != nil {
		if f, ok := money.ExtractAmount(m[1]); ok {
			prevBalance, havePrev = f, true
		}
	}

	for i := 0; i < len(lines)-1; i++ {
		first := strings.TrimSpace(lines[i])
		m := savingsDateLineRe.FindStringSubmatch(first)
		if m == nil {
			continue
		}

		date, err := ParseDate(m[1])
		if err != nil {
			continue
		}

		second := strings.TrimSpace(lines[i+1])
		amounts := money.FindAmounts(second)
		if len(amounts) < 2 {
			result.Errors = append(result.Errors, statement.RowError{
				Line: i + 1, Field: "amount", Message: "expected amount and balance", Raw: second,
			})
			result.SkippedRows++
			result.TotalRows++
			continue
		}
		amount, balance := abs(amounts[0]), amounts[1]

		isDebit := classifyByBalanceDelta(prevBalance, havePrev, amount, balance)

		signed := amount
		if isDebit {
			signed = -amount
		}
		bal := balance

		desc := strings.Join(strings.Fields(m[2]), " ")
		result.Transactions = append(result.Transactions, statement.RawTransaction{
			Date:        date,
			Description: desc,
			Amount:      signed,
			IsDebit:     isDebit,
			Balance:     &bal,
			Bank:        statement.BankHDFC,
			AccountType: statement.AccountTypeSavings,
			Confidence:  statement.ConfidenceHigh,
		})
		result.TotalRows++
		result.ParsedRows++

		if havePrev && !money.WithinTolerance(prevBalance+signed, balance) {
			result.BalanceConsistent = false
		}
		prevBalance, havePrev = balance, true
		i++ // the amount line is consumed
	}

	return result
}

// classifyByBalanceDelta decides debit vs credit for one row. Without a
// previous balance the row defaults to debit.
func classifyByBalanceDelta(prev float64, havePrev bool, amount, balance float64) bool {
	if !havePrev {
		return true
	}
	switch {
	case money.WithinTolerance(balance, prev-amount):
		return true
	case money.WithinTolerance(balance, prev+amount):
		return false
	default:
		return balance <= prev
	}
}
