package dispatch

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/internal/domain/statement/parser"
	"github.com/nmalhotra/statement-core/internal/domain/statement/sniffer"
	"github.com/nmalhotra/statement-core/pkg/money"
)

// creditCardRow is the fixed export layout of card statement CSVs. Files
// with exactly these headers skip sniffing and unmarshal directly.
type creditCardRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Transaction Description"`
	Amount      string `csv:"Amount"`
}

// parseCSV extracts transactions from CSV bytes. Files with a single amount
// column list spends as unsigned magnitudes, so those rows are recorded as
// debits with negative amounts regardless of sign in the file. Files with
// separate withdrawal/deposit columns already encode polarity, so deposits
// stay positive credits. The returned flag reports whether the fixed card
// layout matched.
func parseCSV(data []byte) (*statement.ParseResult, bool, error) {
	if res, ok := parseCreditCardCSV(data); ok {
		return res, true, nil
	}
	res, err := parseSniffedCSV(data)
	return res, false, err
}

// parseCreditCardCSV handles the known card layout via struct unmarshal.
func parseCreditCardCSV(data []byte) (*statement.ParseResult, bool) {
	header := firstLine(data)
	if !strings.Contains(header, "Date") || !strings.Contains(header, "Transaction Description") {
		return nil, false
	}

	var rows []creditCardRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, false
	}

	result := &statement.ParseResult{}
	for i, row := range rows {
		result.TotalRows++
		line := i + 2 // header is line 1

		date, err := parser.ParseDate(strings.TrimSpace(row.Date))
		if err != nil {
			result.Errors = append(result.Errors, statement.RowError{
				Line: line, Field: "date", Message: err.Error(), Raw: row.Date,
			})
			result.SkippedRows++
			continue
		}
		amount, err := money.ParseAmount(row.Amount)
		if err != nil {
			result.Errors = append(result.Errors, statement.RowError{
				Line: line, Field: "amount", Message: err.Error(), Raw: row.Amount,
			})
			result.SkippedRows++
			continue
		}
		if amount < 0 {
			amount = -amount
		}

		result.Transactions = append(result.Transactions, statement.RawTransaction{
			Date:        date,
			Description: strings.TrimSpace(row.Description),
			Amount:      -amount,
			IsDebit:     true,
		})
		result.ParsedRows++
	}
	return result, true
}

// parseSniffedCSV handles arbitrary bank exports through layout detection.
func parseSniffedCSV(data []byte) (*statement.ParseResult, error) {
	cfg, err := sniffer.Detect(data)
	if err != nil {
		return nil, fmt.Errorf("detect csv layout: %w", err)
	}
	records, err := sniffer.ReadRecords(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("read csv records: %w", err)
	}

	roles := sniffer.SuggestColumns(cfg.Headers)
	if roles.Date < 0 {
		return nil, fmt.Errorf("no date column in headers %v", cfg.Headers)
	}

	result := &statement.ParseResult{}
	for i, record := range records {
		result.TotalRows++
		line := cfg.SkipLines + i + 2

		cell := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		dateStr := cell(roles.Date)
		if dateStr == "" {
			result.SkippedRows++
			continue
		}
		date, err := parser.ParseDate(dateStr)
		if err != nil {
			result.Errors = append(result.Errors, statement.RowError{
				Line: line, Field: "date", Message: err.Error(), Raw: dateStr,
			})
			result.SkippedRows++
			continue
		}

		amount, isDebit, ok := resolveCSVAmount(roles, cell)
		if !ok {
			result.Errors = append(result.Errors, statement.RowError{
				Line: line, Field: "amount", Message: "no parseable amount", Raw: strings.Join(record, ","),
			})
			result.SkippedRows++
			continue
		}

		tx := statement.RawTransaction{
			Date:        date,
			Description: cell(roles.Desc),
			Amount:      amount,
			IsDebit:     isDebit,
		}
		if balStr := cell(roles.Balance); balStr != "" {
			if bal, err := money.ParseAmount(balStr); err == nil {
				tx.Balance = &bal
			}
		}
		result.Transactions = append(result.Transactions, tx)
		result.ParsedRows++
	}
	return result, nil
}

// resolveCSVAmount reads either the split withdrawal/deposit pair or the
// single amount column. Single-column files carry unsigned spends and are
// treated as debits; split columns carry real polarity, so withdrawals come
// out negative and deposits positive.
func resolveCSVAmount(roles sniffer.ColumnRoles, cell func(int) string) (float64, bool, bool) {
	if roles.SplitDebitCredit {
		if s := cell(roles.Debit); s != "" {
			if v, err := money.ParseAmount(s); err == nil {
				if v < 0 {
					v = -v
				}
				return -v, true, true
			}
		}
		if s := cell(roles.Credit); s != "" {
			if v, err := money.ParseAmount(s); err == nil {
				if v < 0 {
					v = -v
				}
				return v, false, true
			}
		}
		return 0, false, false
	}

	s := cell(roles.Amount)
	if s == "" {
		return 0, false, false
	}
	v, err := money.ParseAmount(s)
	if err != nil {
		return 0, false, false
	}
	if v < 0 {
		v = -v
	}
	return -v, true, true
}

func firstLine(data []byte) string {
	s := string(data)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimRight(s, "\r")
}
