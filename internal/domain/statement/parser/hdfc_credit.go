package parser

import (
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/pkg/money"
)

// HDFCCreditCard parses HDFC credit-card statements by locating the
// transaction table's header row and mapping its columns.
//
// Every amount is forced negative: card payments and reversals are not
// modeled as negative expenses in this format, so the whole table is treated
// as spend. That is a business rule of the source format, not a bug.
type HDFCCreditCard struct {
	rows rowSource
}

// NewHDFCCreditCard returns a parser reading rows from the PDF extractor.
func NewHDFCCreditCard() *HDFCCreditCard {
	return &HDFCCreditCard{rows: defaultRows}
}

func (p *HDFCCreditCard) Name() string { return "hdfc_credit_card" }

// Parse extracts transactions from the statement at path.
func (p *HDFCCreditCard) Parse(path string) (*statement.ParseResult, error) {
	rows, err := p.rows(path)
	if err != nil {
		return nil, err
	}
	return p.ParseRows(rows), nil
}

// ParseRows runs the table-structure extraction over pre-extracted rows.
func (p *HDFCCreditCard) ParseRows(rows [][]string) *statement.ParseResult {
	result := &statement.ParseResult{}

	headerIdx, cols := findCreditHeader(rows)
	if headerIdx < 0 {
		return result
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		result.TotalRows++

		if cols.date >= len(row) || cols.desc >= len(row) || cols.amount >= len(row) {
			result.SkippedRows++
			continue
		}

		date, err := ParseDate(row[cols.date])
		if err != nil {
			result.Errors = append(result.Errors, statement.RowError{
				Line: i, Field: "date", Message: err.Error(), Raw: row[cols.date],
			})
			result.SkippedRows++
			continue
		}

		amount, err := money.ParseAmount(row[cols.amount])
		if err != nil {
			result.Errors = append(result.Errors, statement.RowError{
				Line: i, Field: "amount", Message: err.Error(), Raw: row[cols.amount],
			})
			result.SkippedRows++
			continue
		}

		desc := strings.Join(strings.Fields(row[cols.desc]), " ")
		if desc == "" {
			result.SkippedRows++
			continue
		}

		result.Transactions = append(result.Transactions, statement.RawTransaction{
			Date:        date,
			Description: desc,
			Amount:      -abs(amount),
			IsDebit:     true,
			Bank:        statement.BankHDFC,
			AccountType: statement.AccountTypeCreditCard,
			Confidence:  statement.ConfidenceHigh,
		})
		result.ParsedRows++
	}

	return result
}

type creditColumns struct {
	date, desc, amount int
}

// findCreditHeader locates the row carrying the column headers and maps the
// indices of the date, description and amount columns.
func findCreditHeader(rows [][]string) (int, creditColumns) {
	for i, row := range rows {
		cols := creditColumns{date: -1, desc: -1, amount: -1}
		for j, cell := range row {
			c := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case cols.date < 0 && c == "date":
				cols.date = j
			case cols.desc < 0 && strings.Contains(c, "description"):
				cols.desc = j
			case cols.amount < 0 && strings.Contains(c, "amount"):
				cols.amount = j
			}
		}
		if cols.date >= 0 && cols.desc >= 0 && cols.amount >= 0 {
			return i, cols
		}
	}
	return -1, creditColumns{}
}
