package parser

import (
	"regexp"
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/pkg/money"
)

// The three alternative line shapes seen in Federal Bank PDF text. They are
// tried in order and the first one producing matches wins.
var federalPatterns = []*regexp.Regexp{
	// date  description  amount
	regexp.MustCompile(`(?m)^(\d{2}-\d{2}-\d{4})\s+(.+?)\s+(\d{1,3}(?:,\d{2,3})*\.\d{2})\s*$`),
	// description wrapped onto the next line
	regexp.MustCompile(`(\d{2}-\d{2}-\d{4})\s+([^\d]+?(?:\n[^\d]+?)?)\s+(\d{1,3}(?:,\d{2,3})*\.\d{2})`),
	// trailing reference number after the amount
	regexp.MustCompile(`(?m)^(\d{2}-\d{2}-\d{4})\s+(.+?)\s+(\d{1,3}(?:,\d{2,3})*\.\d{2})\s+\d{6,}\s*$`),
}

// creditIndicators classify a Federal Bank narration as money in.
var creditIndicators = []string{"CREDIT", "DEPOSIT", "SALARY", "INTEREST", "REFUND"}

// FederalRegex is the regex-heuristic Federal Bank parser. It trades layout
// awareness for resilience: any line shaped like date/narration/amount is a
// candidate, and credit vs debit comes from keyword scanning.
type FederalRegex struct {
	text textSource
}

// NewFederalRegex returns a parser reading text from the PDF extractor.
func NewFederalRegex() *FederalRegex {
	return &FederalRegex{text: defaultText}
}

func (p *FederalRegex) Name() string { return "federal_regex" }

// Parse extracts transactions from the statement at path.
func (p *FederalRegex) Parse(path string) (*statement.ParseResult, error) {
	text, err := p.text(path)
	if err != nil {
		return nil, err
	}
	return p.ParseText(text), nil
}

// ParseText applies the alternative patterns to raw statement text.
func (p *FederalRegex) ParseText(text string) *statement.ParseResult {
	result := &statement.ParseResult{}

	var matches [][]string
	for _, re := range federalPatterns {
		if matches = re.FindAllStringSubmatch(text, -1); len(matches) > 0 {
			break
		}
	}

	for i, m := range matches {
		result.TotalRows++

		date, err := ParseDate(m[1])
		if err != nil {
			result.Errors = append(result.Errors, statement.RowError{
				Line: i, Field: "date", Message: err.Error(), Raw: m[1],
			})
			result.SkippedRows++
			continue
		}

		amount, ok := money.ExtractAmount(m[3])
		if !ok {
			result.Errors = append(result.Errors, statement.RowError{
				Line: i, Field: "amount", Message: "implausible amount", Raw: m[3],
			})
			result.SkippedRows++
			continue
		}

		desc := strings.Join(strings.Fields(m[2]), " ")
		isCredit := containsAnyFold(desc, creditIndicators)

		signed := abs(amount)
		if !isCredit {
			signed = -signed
		}

		result.Transactions = append(result.Transactions, statement.RawTransaction{
			Date:        date,
			Description: desc,
			Amount:      signed,
			IsDebit:     !isCredit,
			Bank:        statement.BankFederal,
			AccountType: statement.AccountTypeSavings,
			Confidence:  statement.ConfidenceHigh,
		})
		result.ParsedRows++
	}

	return result
}

func containsAnyFold(s string, keywords []string) bool {
	upper := strings.ToUpper(s)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
