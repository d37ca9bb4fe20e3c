package dispatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/internal/domain/statement/parser"
	"github.com/nmalhotra/statement-core/internal/domain/statement/sniffer"
	"github.com/nmalhotra/statement-core/pkg/money"
)

// parseXLSX extracts transactions from a workbook. The first sheet with a
// recognizable statement header wins; rows follow the same column-role
// resolution as the CSV path.
func parseXLSX(reader io.Reader) (*statement.ParseResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := findStatementSheet(f)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets in workbook")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}

	headerIdx := findSheetHeader(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("no statement header in sheet %s", sheetName)
	}
	roles := sniffer.SuggestColumns(rows[headerIdx])
	if roles.Date < 0 {
		return nil, fmt.Errorf("no date column in sheet %s", sheetName)
	}

	result := &statement.ParseResult{}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		result.TotalRows++
		line := i + 1

		cell := func(idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
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
				Line: line, Field: "amount", Message: "no parseable amount", Raw: strings.Join(row, ","),
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

func findStatementSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	preferred := []string{"transactions", "statement", "account statement", "sheet1"}
	for _, want := range preferred {
		for _, sheet := range sheets {
			if strings.EqualFold(sheet, want) {
				return sheet
			}
		}
	}
	return sheets[0]
}

// findSheetHeader scans leading rows for one whose cells carry statement
// column names. Bank workbooks put letterhead rows above the table.
func findSheetHeader(rows [][]string) int {
	const maxScan = 20
	for i, row := range rows {
		if i > maxScan {
			break
		}
		roles := sniffer.SuggestColumns(row)
		if roles.Date >= 0 && (roles.Amount >= 0 || roles.Debit >= 0 || roles.Credit >= 0) {
			return i
		}
	}
	return -1
}
