package parser

import (
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/pkg/money"
)

// Credit/debit glyphs printed by some statement renderers.
const (
	creditGlyph = "⊕"
	debitGlyph  = "⊖"
)

// Structural is the bank-agnostic positional parser. By design it knows no
// merchant or narration keywords: it anchors on a "DD MMM" date, on the
// credit/debit glyphs when the renderer prints them, and on column positions
// inferred from the first transaction row. The intent is stability across
// months and unseen layouts, traded against per-bank precision.
//
// Output quality is measured, not enforced: the parser replays the running
// balance arithmetic across consecutive rows and reports the outcome in
// ParseResult.BalanceConsistent.
type Structural struct {
	rows rowSource
}

// NewStructural returns a parser reading rows from the PDF extractor.
func NewStructural() *Structural {
	return &Structural{rows: defaultRows}
}

func (p *Structural) Name() string { return "structural" }

// Parse extracts transactions from the statement at path.
func (p *Structural) Parse(path string) (*statement.ParseResult, error) {
	rows, err := p.rows(path)
	if err != nil {
		return nil, err
	}
	return p.ParseRows(rows), nil
}

// ParseRows runs positional extraction over pre-extracted table rows.
func (p *Structural) ParseRows(rows [][]string) *statement.ParseResult {
	result := &statement.ParseResult{}

	year := 0
	for _, row := range rows {
		if y := statementYear(strings.Join(row, " ")); y != 0 {
			year = y
			break
		}
	}

	// Column geometry comes from the first row that looks like a
	// transaction: date up front, amount and balance as the trailing
	// numeric cells. Offsets are taken from the row end so ragged
	// description widths do not shift them.
	amountFromEnd, balanceFromEnd, ok := inferAmountColumns(rows)
	if !ok {
		return result
	}

	var prevBalance *float64
	for i, row := range rows {
		if len(row) < 3 || !dayMonthRe.MatchString(row[0]) {
			continue
		}
		result.TotalRows++

		date, err := ParseDayMonth(row[0], year)
		if err != nil {
			result.SkippedRows++
			continue
		}

		amountIdx := len(row) - 1 - amountFromEnd
		balanceIdx := len(row) - 1 - balanceFromEnd
		if amountIdx < 1 || balanceIdx < 1 {
			result.SkippedRows++
			continue
		}
		amount, okA := money.ExtractAmount(row[amountIdx])
		balance, okB := money.ExtractAmount(row[balanceIdx])
		if !okA || !okB {
			result.Errors = append(result.Errors, statement.RowError{
				Line: i, Field: "amount", Message: "cells at inferred positions are not amounts", Raw: strings.Join(row, " | "),
			})
			result.SkippedRows++
			continue
		}

		low := amountIdx
		if balanceIdx < low {
			low = balanceIdx
		}
		desc := strings.Join(row[1:low], " ")
		desc = strings.ReplaceAll(desc, creditGlyph, "")
		desc = strings.ReplaceAll(desc, debitGlyph, "")

		isDebit, classified := classifyByGlyph(row)
		if !classified {
			isDebit = classifyByBalanceDelta(orZero(prevBalance), prevBalance != nil, abs(amount), balance)
		}

		signed := abs(amount)
		if isDebit {
			signed = -signed
		}
		bal := balance

		result.Transactions = append(result.Transactions, statement.RawTransaction{
			Date:        date,
			Description: strings.Join(strings.Fields(desc), " "),
			Amount:      signed,
			IsDebit:     isDebit,
			Balance:     &bal,
			Bank:        statement.BankGeneric,
			Confidence:  statement.ConfidenceHigh,
		})
		result.ParsedRows++
		prevBalance = &bal
	}

	result.BalanceConsistent = ValidateBalanceConsistency(result.Transactions)
	return result
}

// ValidateBalanceConsistency replays the balance arithmetic over the
// sequence: for every consecutive pair, previous balance plus the current
// signed amount must equal the current balance within 0.01. It is a quality
// signal; a false result does not reject the transactions.
func ValidateBalanceConsistency(txs []statement.RawTransaction) bool {
	var prev *float64
	for i := range txs {
		if txs[i].Balance == nil {
			return false
		}
		if prev != nil && !money.WithinTolerance(*prev+txs[i].Amount, *txs[i].Balance) {
			return false
		}
		prev = txs[i].Balance
	}
	return true
}

// inferAmountColumns finds, in the first transaction-shaped row, the offsets
// (counted from the row end) of the amount and balance cells.
func inferAmountColumns(rows [][]string) (amountFromEnd, balanceFromEnd int, ok bool) {
	for _, row := range rows {
		if len(row) < 3 || !dayMonthRe.MatchString(row[0]) {
			continue
		}
		var numeric []int
		for j := 1; j < len(row); j++ {
			if _, isAmt := money.ExtractAmount(row[j]); isAmt {
				numeric = append(numeric, j)
			}
		}
		if len(numeric) < 2 {
			continue
		}
		amountIdx := numeric[len(numeric)-2]
		balanceIdx := numeric[len(numeric)-1]
		return len(row) - 1 - amountIdx, len(row) - 1 - balanceIdx, true
	}
	return 0, 0, false
}

// classifyByGlyph inspects a row for the ⊕/⊖ markers. The second return
// value is false when no glyph is present.
func classifyByGlyph(row []string) (isDebit, classified bool) {
	for _, cell := range row {
		if strings.Contains(cell, debitGlyph) {
			return true, true
		}
		if strings.Contains(cell, creditGlyph) {
			return false, true
		}
	}
	return false, false
}

func orZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
