// Package sniffer detects the shape of CSV statement exports: delimiter,
// preamble lines before the header row, and column roles. Bank portals ship
// CSVs with letterhead lines, ragged columns and either a single signed
// amount column or separate withdrawal/deposit columns; the dispatcher uses
// this detection before handing the file to the CSV parser.
package sniffer

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Header keywords seen across HDFC/Federal/generic statement exports.
var headerKeywords = []string{
	"date", "value date", "txn date", "transaction date",
	"narration", "description", "particulars", "remarks",
	"amount", "withdrawal", "deposit", "debit", "credit",
	"balance", "closing balance", "chq", "ref",
}

var (
	ErrEmptyFile      = errors.New("file is empty")
	ErrNoHeadersFound = errors.New("could not find statement headers")
)

// FileConfig is the detected layout of one CSV export.
type FileConfig struct {
	Delimiter rune
	SkipLines int
	Headers   []string
}

// ColumnRoles maps statement semantics onto column indices; -1 means the
// column was not found.
type ColumnRoles struct {
	Date    int
	Desc    int
	Amount  int
	Debit   int
	Credit  int
	Balance int

	// SplitDebitCredit is true when withdrawals and deposits live in
	// separate columns.
	SplitDebitCredit bool
}

// Detect analyzes raw CSV bytes and returns the file layout.
func Detect(data []byte) (*FileConfig, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	lines := strings.Split(string(data), "\n")
	delimiter, skip, err := findHeaderRow(lines)
	if err != nil {
		return nil, err
	}

	headerLine := cleanLine(lines[skip], skip == 0)
	r := csv.NewReader(strings.NewReader(headerLine))
	r.Comma = delimiter
	r.LazyQuotes = true
	headers, err := r.Read()
	if err != nil {
		return nil, err
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	return &FileConfig{Delimiter: delimiter, SkipLines: skip, Headers: headers}, nil
}

// SuggestColumns matches header names to statement column roles.
func SuggestColumns(headers []string) ColumnRoles {
	roles := ColumnRoles{Date: -1, Desc: -1, Amount: -1, Debit: -1, Credit: -1, Balance: -1}

	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case roles.Date < 0 && strings.Contains(h, "date"):
			roles.Date = i
		case roles.Desc < 0 && (strings.Contains(h, "narration") || strings.Contains(h, "description") ||
			strings.Contains(h, "particulars") || strings.Contains(h, "remarks")):
			roles.Desc = i
		case roles.Debit < 0 && (strings.Contains(h, "withdrawal") || strings.Contains(h, "debit")):
			roles.Debit = i
		case roles.Credit < 0 && (strings.Contains(h, "deposit") || strings.Contains(h, "credit")):
			roles.Credit = i
		case roles.Balance < 0 && strings.Contains(h, "balance"):
			roles.Balance = i
		case roles.Amount < 0 && strings.Contains(h, "amount"):
			roles.Amount = i
		}
	}

	roles.SplitDebitCredit = roles.Debit >= 0 && roles.Credit >= 0
	return roles
}

// findHeaderRow scans the leading lines for the header: the line with the
// most keyword hits wins, with column count as a tie-break. Bank exports
// put up to a dozen letterhead lines above it.
func findHeaderRow(lines []string) (rune, int, error) {
	const maxScan = 20

	bestIdx, bestScore := -1, 0
	var bestDelim rune

	for i, line := range lines {
		if i > maxScan {
			break
		}
		line = cleanLine(line, i == 0)
		if line == "" {
			continue
		}

		delimiter, count := detectDelimiter(line)
		if count < 2 {
			continue
		}

		lower := strings.ToLower(line)
		hits := 0
		for _, kw := range headerKeywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}

		score := hits*10 + count
		if score > bestScore {
			bestScore = score
			bestIdx = i
			bestDelim = delimiter
		}
	}

	if bestIdx < 0 {
		return 0, 0, ErrNoHeadersFound
	}
	return bestDelim, bestIdx, nil
}

func cleanLine(line string, firstLine bool) string {
	line = strings.TrimRight(line, "\r")
	if firstLine {
		line = strings.TrimPrefix(line, "\uFEFF")
	}
	return strings.TrimSpace(line)
}

func detectDelimiter(line string) (rune, int) {
	best, bestCount := rune(0), 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if count := strings.Count(line, string(d)); count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best, bestCount
}

// ReadRecords parses the data rows of a detected file.
func ReadRecords(data []byte, cfg *FileConfig) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = cfg.Delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var records [][]string
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line++
			continue
		}
		if line > cfg.SkipLines {
			records = append(records, record)
		}
		line++
	}
	return records, nil
}
