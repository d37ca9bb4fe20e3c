package parser

import (
	"strconv"
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/pkg/money"
)

// Narration keywords that identify a transaction line inside a Federal Bank
// statement table.
var federalTxnKeywords = []string{"UPI", "DEBIT", "CREDIT", "TRANSFER", "PAYMENT", "WITHDRAWAL"}

// Summary and carry-over lines excluded when hunting for the table start.
var federalSummaryMarkers = []string{"TOTAL", "SUMMARY", "BALANCE B/F", "BALANCE C/F", "BROUGHT FORWARD", "CARRIED FORWARD", "GRAND"}

// Disjoint marker lists for credit/debit classification. Ambiguous
// narrations default to debit.
var (
	federalCreditMarkers = []string{"UPI IN/", "UPIIN/", "IMPS/CR/", "NEFT CR", "NEFT/CR", "RTGS CR", "INT CR", "SALARY", "DEPOSIT", "REFUND", "CASHBACK"}
	federalDebitMarkers  = []string{"UPIOUT/", "UPI OUT/", "POS/", "ATM/", "ATMW/", "IMPS/DR", "NEFT DR", "EMI", "CHRG", "CHARGE"}
)

// maxAmountLookahead is how many lines after a description are scanned for
// the amount/balance pair.
const maxAmountLookahead = 4

// FederalTable is the table-structure Federal Bank parser. Each transaction
// occupies a "DD MMM" date line, a narration line carrying a transaction
// keyword, and then an amount and running balance within the next few lines.
type FederalTable struct {
	text textSource
}

// NewFederalTable returns a parser reading text from the PDF extractor.
func NewFederalTable() *FederalTable {
	return &FederalTable{text: defaultText}
}

func (p *FederalTable) Name() string { return "federal_table" }

// Parse extracts transactions from the statement at path.
func (p *FederalTable) Parse(path string) (*statement.ParseResult, error) {
	text, err := p.text(path)
	if err != nil {
		return nil, err
	}
	return p.ParseText(text), nil
}

// ParseText runs the strict-layout scan over raw statement text.
func (p *FederalTable) ParseText(text string) *statement.ParseResult {
	result := &statement.ParseResult{}
	lines := strings.Split(text, "\n")

	year := statementYear(text)

	start := findFederalTableStart(lines)
	if start < 0 {
		return result
	}

	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		m := dayMonthRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		date, err := ParseDayMonth(m[0], year)
		if err != nil {
			continue
		}

		// The narration follows, either on the same line after the date or
		// on the next line. It must carry a transaction keyword.
		desc := strings.TrimSpace(strings.TrimPrefix(line, m[0]))
		descLine := i
		if !containsAnyFold(desc, federalTxnKeywords) && i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if containsAnyFold(next, federalTxnKeywords) {
				desc = next
				descLine = i + 1
			}
		}
		if !containsAnyFold(desc, federalTxnKeywords) {
			continue
		}

		amount, balance, found := scanForAmountPair(lines, descLine, desc)
		if !found {
			result.Errors = append(result.Errors, statement.RowError{
				Line: descLine, Field: "amount", Message: "no amount/balance pair found", Raw: desc,
			})
			result.SkippedRows++
			result.TotalRows++
			continue
		}

		isCredit := classifyFederalNarration(desc)
		signed := abs(amount)
		if !isCredit {
			signed = -signed
		}
		bal := balance

		result.Transactions = append(result.Transactions, statement.RawTransaction{
			Date:        date,
			Description: strings.Join(strings.Fields(desc), " "),
			Amount:      signed,
			IsDebit:     !isCredit,
			Balance:     &bal,
			Bank:        statement.BankFederal,
			AccountType: statement.AccountTypeSavings,
			Confidence:  statement.ConfidenceHigh,
		})
		result.TotalRows++
		result.ParsedRows++
	}

	return result
}

// findFederalTableStart locates the first line of the transaction table:
// the header line if present, otherwise the first transaction-keyword line
// that is not a summary or total.
func findFederalTableStart(lines []string) int {
	for i, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if strings.Contains(upper, "DATE") &&
			(strings.Contains(upper, "PARTICULARS") || strings.Contains(upper, "NARRATION") || strings.Contains(upper, "WITHDRAWAL")) {
			return i + 1
		}
	}
	for i, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if containsAnyFold(upper, federalSummaryMarkers) {
			continue
		}
		if containsAnyFold(upper, federalTxnKeywords) {
			// The date line sits just above the narration line.
			if i > 0 && dayMonthRe.MatchString(strings.TrimSpace(lines[i-1])) {
				return i - 1
			}
			return i
		}
	}
	return -1
}

// scanForAmountPair looks for two decimal-formatted numbers on the
// description line or within the following lines: the first is the amount,
// the second the running balance.
func scanForAmountPair(lines []string, from int, desc string) (amount, balance float64, found bool) {
	if amounts := money.FindAmounts(desc); len(amounts) >= 2 {
		return amounts[0], amounts[1], true
	}
	var collected []float64
	for j := from + 1; j <= from+maxAmountLookahead && j < len(lines); j++ {
		collected = append(collected, money.FindAmounts(lines[j])...)
		if len(collected) >= 2 {
			return collected[0], collected[1], true
		}
		// A new transaction starting means the pair is not coming.
		if dayMonthRe.MatchString(strings.TrimSpace(lines[j])) {
			break
		}
	}
	return 0, 0, false
}

// classifyFederalNarration returns true for credits. The marker lists are
// disjoint; when neither side matches, the transaction is a debit.
func classifyFederalNarration(desc string) bool {
	upper := strings.ToUpper(desc)
	for _, m := range federalCreditMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	for _, m := range federalDebitMarkers {
		if strings.Contains(upper, m) {
			return false
		}
	}
	return false
}

// statementYear extracts the statement year from header text, falling back
// to zero (ParseDayMonth then uses the current year).
func statementYear(text string) int {
	if m := statementYearRe.FindStringSubmatch(text); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			return y
		}
	}
	return 0
}
