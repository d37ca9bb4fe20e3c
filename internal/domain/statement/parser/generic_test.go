package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
)

func TestGeneric_ParseText(t *testing.T) {
	p := NewGeneric()

	t.Run("forces everything negative with low confidence", func(t *testing.T) {
		text := `Some Bank Statement
15/03/2024 GROCERY STORE 450.00
16/03/2024 FUEL STATION 2,100.00
`
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 2)

		for _, tx := range result.Transactions {
			assert.Negative(t, tx.Amount)
			assert.True(t, tx.IsDebit)
			assert.Equal(t, statement.ConfidenceLow, tx.Confidence)
		}
		assert.Equal(t, "GROCERY STORE", result.Transactions[0].Description)
		assert.InDelta(t, -450.00, result.Transactions[0].Amount, 0.001)
	})

	t.Run("tries alternative date formats", func(t *testing.T) {
		text := "2024-03-17 ONLINE SUBSCRIPTION 199.00\n"
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "2024-03-17", result.Transactions[0].Date.Format(statement.ISODate))
	})

	t.Run("strips trailing balance figures from the narration", func(t *testing.T) {
		text := "18/03/2024 CHAI POINT 45.00 12,345.67\n"
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "CHAI POINT", result.Transactions[0].Description)
		// The last amount on the line is taken, forced negative.
		assert.InDelta(t, -12345.67, result.Transactions[0].Amount, 0.001)
	})

	t.Run("records rows without amounts as errors", func(t *testing.T) {
		text := "19/03/2024 NOTHING NUMERIC HERE\n20/03/2024 REAL ROW 75.00\n"
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 1)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "amount", result.Errors[0].Field)
	})

	t.Run("no dates yields empty result", func(t *testing.T) {
		result := p.ParseText("free text with 100.00 but no dates")
		assert.Empty(t, result.Transactions)
	})
}

func TestParseDate(t *testing.T) {
	for _, input := range []string{"15/03/2024", "15-03-2024", "2024-03-15", "15 Mar 2024"} {
		got, err := ParseDate(input)
		require.NoError(t, err, input)
		assert.Equal(t, "2024-03-15", got.Format(statement.ISODate), input)
	}

	_, err := ParseDate("31/31/2024")
	assert.Error(t, err)
}

func TestParseDayMonth(t *testing.T) {
	got, err := ParseDayMonth("12 Mar", 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-12", got.Format(statement.ISODate))

	_, err = ParseDayMonth("45 Mar", 2024)
	assert.Error(t, err)

	_, err = ParseDayMonth("12 Xyz", 2024)
	assert.Error(t, err)
}
