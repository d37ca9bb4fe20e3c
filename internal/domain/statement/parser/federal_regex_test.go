package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
)

func TestFederalRegex_ParseText(t *testing.T) {
	p := NewFederalRegex()

	t.Run("classifies credits by narration keywords", func(t *testing.T) {
		text := `FEDERAL BANK Statement of account
01-04-2024 UPI PAYMENT TO GROCERY MART 1,250.00
02-04-2024 SALARY CREDIT ACME CORP 45,000.00
03-04-2024 INTEREST PAID 120.50
04-04-2024 POS PURCHASE ELECTRONICS 8,999.00
`
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 4)

		assert.True(t, result.Transactions[0].IsDebit)
		assert.InDelta(t, -1250.00, result.Transactions[0].Amount, 0.001)

		assert.False(t, result.Transactions[1].IsDebit)
		assert.InDelta(t, 45000.00, result.Transactions[1].Amount, 0.001)

		assert.False(t, result.Transactions[2].IsDebit, "INTEREST marks a credit")
		assert.True(t, result.Transactions[3].IsDebit)

		for _, tx := range result.Transactions {
			assert.Equal(t, statement.BankFederal, tx.Bank)
		}
	})

	t.Run("handles narration wrapped onto the next line", func(t *testing.T) {
		text := "05-04-2024 TRANSFER TO\nRECURRING DEPOSIT 10,000.00"
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "TRANSFER TO RECURRING DEPOSIT", result.Transactions[0].Description)
		assert.False(t, result.Transactions[0].IsDebit, "DEPOSIT marks a credit")
	})

	t.Run("rejects implausibly large figures", func(t *testing.T) {
		text := "06-04-2024 ODD ROW 98,76,54,32,101.23\n07-04-2024 NORMAL ROW 500.00\n"
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "NORMAL ROW", result.Transactions[0].Description)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "amount", result.Errors[0].Field)
	})

	t.Run("no matches yields empty result", func(t *testing.T) {
		result := p.ParseText("completely unrelated text")
		assert.Empty(t, result.Transactions)
	})
}
