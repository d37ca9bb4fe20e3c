package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
)

func TestParseCreditCardCSV(t *testing.T) {
	data := []byte("Date,Transaction Description,Amount\n15/03/2024,AMAZON PURCHASE,1299.00\n16/03/2024,SWIGGY ORDER,450.50\n")

	result, ok := parseCreditCardCSV(data)
	require.True(t, ok)
	require.Len(t, result.Transactions, 2)

	first := result.Transactions[0]
	assert.Equal(t, -1299.00, first.Amount)
	assert.True(t, first.IsDebit)
	assert.Equal(t, "AMAZON PURCHASE", first.Description)
	assert.Equal(t, 2024, first.Date.Year())
}

func TestParseCreditCardCSVForcesNegative(t *testing.T) {
	// Signs in the file are ignored; spends are always debits.
	data := []byte("Date,Transaction Description,Amount\n15/03/2024,REFUND CREDIT,-500.00\n")

	result, ok := parseCreditCardCSV(data)
	require.True(t, ok)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, -500.00, result.Transactions[0].Amount)
	assert.True(t, result.Transactions[0].IsDebit)
}

func TestParseCSVSniffedSplitColumns(t *testing.T) {
	data := []byte("HDFC BANK LTD\nDate,Narration,Withdrawal Amt.,Deposit Amt.,Closing Balance\n01/03/2025,UPI-SWIGGY,450.00,,9550.00\n02/03/2025,SALARY CREDIT,,50000.00,59550.00\n")

	result, cardLayout, err := parseCSV(data)
	require.NoError(t, err)
	assert.False(t, cardLayout)
	require.Len(t, result.Transactions, 2)

	debit := result.Transactions[0]
	assert.Equal(t, -450.00, debit.Amount)
	assert.True(t, debit.IsDebit)
	require.NotNil(t, debit.Balance)
	assert.Equal(t, 9550.00, *debit.Balance)

	credit := result.Transactions[1]
	assert.Equal(t, 50000.00, credit.Amount)
	assert.False(t, credit.IsDebit)
}

func TestParseCSVBadRowsCollected(t *testing.T) {
	data := []byte("Date,Transaction Description,Amount\nnot-a-date,SOMETHING,100.00\n15/03/2024,VALID,200.00\n")

	result, ok := parseCreditCardCSV(data)
	require.True(t, ok)
	assert.Len(t, result.Transactions, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "date", result.Errors[0].Field)

	// Counters stay consistent with the error list.
	assert.Equal(t, 1, result.SkippedRows)
	assert.Equal(t, 1, result.ParsedRows)
	assert.Equal(t, 2, result.TotalRows)
}

func TestParseCSVForcedNegativePolicy(t *testing.T) {
	// Whatever the narration or magnitude, single-amount-column CSV rows
	// come out as negative debits.
	gofakeit.Seed(11)

	var sb strings.Builder
	sb.WriteString("Date,Transaction Description,Amount\n")
	const rows = 50
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "%02d/03/2024,%s %s,%.2f\n",
			i%28+1, strings.ToUpper(gofakeit.Word()), strings.ToUpper(gofakeit.Word()), gofakeit.Float64Range(1, 99999))
	}

	result, cardLayout, err := parseCSV([]byte(sb.String()))
	require.NoError(t, err)
	assert.True(t, cardLayout)
	require.Len(t, result.Transactions, rows)
	for _, tx := range result.Transactions {
		assert.Negative(t, tx.Amount)
		assert.True(t, tx.IsDebit)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	d := New(nil)
	_, err := d.ExtractTransactionsFromFile(context.Background(), "statement.docx", Options{})
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestExtractCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Transaction Description,Amount\n15/03/2024,AMAZON PURCHASE,1299.00\n"), 0o644))

	d := New(nil)
	result, err := d.ExtractTransactionsFromFile(context.Background(), path, Options{AccountName: "HDFC Regalia"})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	tx := result.Transactions[0]
	assert.Equal(t, statement.BankHDFC, tx.Bank)
	assert.Equal(t, statement.AccountTypeCreditCard, tx.AccountType)
	assert.Equal(t, "HDFC Regalia", tx.AccountName)
	assert.Equal(t, statement.ConfidenceHigh, tx.Confidence)
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(nil)
	_, err := d.ExtractTransactionsFromFile(ctx, "anything.csv", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChainFirstNonEmptyWins(t *testing.T) {
	empty := &stubParser{name: "empty", result: &statement.ParseResult{}}
	full := &stubParser{name: "full", result: &statement.ParseResult{
		Transactions: []statement.RawTransaction{{Description: "hit"}},
	}}

	c := &chain{name: "test", parsers: []statement.BankParser{empty, full}}
	result, err := c.Parse("ignored.pdf")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "hit", result.Transactions[0].Description)
}

func TestChainAllEmpty(t *testing.T) {
	c := &chain{name: "test", parsers: []statement.BankParser{
		&stubParser{name: "a", result: &statement.ParseResult{}},
		&stubParser{name: "b", result: &statement.ParseResult{}},
	}}
	result, err := c.Parse("ignored.pdf")
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
}

type stubParser struct {
	name   string
	result *statement.ParseResult
	err    error
}

func (s *stubParser) Name() string { return s.name }

func (s *stubParser) Parse(string) (*statement.ParseResult, error) { return s.result, s.err }
