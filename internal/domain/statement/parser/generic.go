package parser

import (
	"regexp"
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/pkg/money"
)

// The generic fallback tries these date shapes in order; the first one that
// matches any line is used for the whole document.
var genericDateRes = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+)`),
	regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})\s+(.+)`),
	regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+(.+)`),
}

// Generic is the last-resort parser for unrecognized PDF layouts. Anything
// it extracts is assumed to be an expense: amounts are forced negative and
// flagged as debits, and confidence is reported Low.
type Generic struct {
	text textSource
}

// NewGeneric returns a parser reading text from the PDF extractor.
func NewGeneric() *Generic {
	return &Generic{text: defaultText}
}

func (p *Generic) Name() string { return "generic" }

// Parse extracts transactions from the statement at path.
func (p *Generic) Parse(path string) (*statement.ParseResult, error) {
	text, err := p.text(path)
	if err != nil {
		return nil, err
	}
	return p.ParseText(text), nil
}

// ParseText applies the freeform date+amount scan to raw statement text.
func (p *Generic) ParseText(text string) *statement.ParseResult {
	result := &statement.ParseResult{}
	lines := strings.Split(text, "\n")

	re := pickDateRe(lines)
	if re == nil {
		return result
	}

	for i, line := range lines {
		m := re.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		result.TotalRows++

		date, err := ParseDate(m[1])
		if err != nil {
			result.SkippedRows++
			continue
		}

		rest := m[2]
		amounts := money.FindAmounts(rest)
		if len(amounts) == 0 {
			result.Errors = append(result.Errors, statement.RowError{
				Line: i, Field: "amount", Message: "no amount on line", Raw: rest,
			})
			result.SkippedRows++
			continue
		}
		amount := amounts[len(amounts)-1]

		desc := strings.TrimSpace(rest)
		for decimalTrailRe.MatchString(desc) {
			desc = strings.TrimSpace(decimalTrailRe.ReplaceAllString(desc, ""))
		}
		desc = strings.Join(strings.Fields(desc), " ")
		if desc == "" {
			result.SkippedRows++
			continue
		}

		result.Transactions = append(result.Transactions, statement.RawTransaction{
			Date:        date,
			Description: desc,
			Amount:      -abs(amount),
			IsDebit:     true,
			Bank:        statement.BankGeneric,
			Confidence:  statement.ConfidenceLow,
		})
		result.ParsedRows++
	}

	return result
}

// decimalTrailRe strips trailing amount figures off a narration.
var decimalTrailRe = regexp.MustCompile(`\s*-?\d{1,3}(?:,\d{2,3})*\.\d{2}\s*$`)

// pickDateRe chooses the first date shape that matches any line.
func pickDateRe(lines []string) *regexp.Regexp {
	for _, re := range genericDateRes {
		for _, line := range lines {
			if re.MatchString(strings.TrimSpace(line)) {
				return re
			}
		}
	}
	return nil
}
