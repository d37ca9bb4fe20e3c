package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savingsSample = `HDFC BANK Statement of account
Opening Balance 10,000.00
01/04/2024 UPI-SWIGGY-REF4251
500.00 9,500.00
02/04/2024 NEFT CR ACME CORP SALARY
25,000.00 34,500.00
03/04/2024 ATM WDL MUMBAI
2,000.00 32,500.00
`

func TestHDFCSavings_ParseText(t *testing.T) {
	p := NewHDFCSavings()

	t.Run("infers signs from balance deltas", func(t *testing.T) {
		result := p.ParseText(savingsSample)
		require.Len(t, result.Transactions, 3)

		assert.True(t, result.Transactions[0].IsDebit)
		assert.InDelta(t, -500.00, result.Transactions[0].Amount, 0.001)

		assert.False(t, result.Transactions[1].IsDebit)
		assert.InDelta(t, 25000.00, result.Transactions[1].Amount, 0.001)

		assert.True(t, result.Transactions[2].IsDebit)
		assert.InDelta(t, -2000.00, result.Transactions[2].Amount, 0.001)

		require.NotNil(t, result.Transactions[2].Balance)
		assert.InDelta(t, 32500.00, *result.Transactions[2].Balance, 0.001)
		assert.True(t, result.BalanceConsistent)
	})

	t.Run("round-trips a synthetic debit/credit sequence", func(t *testing.T) {
		type step struct {
			amount  float64
			isDebit bool
		}
		steps := []step{
			{1200.00, true}, {800.50, false}, {99.99, true}, {5000.00, false}, {43.21, true},
		}

		balance := 50000.00
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Opening Balance %.2f\n", balance))
		for i, s := range steps {
			if s.isDebit {
				balance -= s.amount
			} else {
				balance += s.amount
			}
			sb.WriteString(fmt.Sprintf("%02d/05/2024 SYNTHETIC TXN %d\n", i+1, i+1))
			sb.WriteString(fmt.Sprintf("%.2f %.2f\n", s.amount, balance))
		}

		result := p.ParseText(sb.String())
		require.Len(t, result.Transactions, len(steps))
		for i, s := range steps {
			assert.Equal(t, s.isDebit, result.Transactions[i].IsDebit, "transaction %d", i)
		}
		assert.True(t, result.BalanceConsistent)
	})

	t.Run("falls back to balance comparison when neither delta matches", func(t *testing.T) {
		text := `Opening Balance 9,500.00
05/04/2024 MYSTERY ADJUSTMENT
100.00 9,450.00
`
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 1)
		// 9500-100=9400 and 9500+100=9600 both miss 9450; balance dropped,
		// so the fallback classifies it a debit.
		assert.True(t, result.Transactions[0].IsDebit)
		assert.False(t, result.BalanceConsistent)
	})

	t.Run("records a row error when the amount line is malformed", func(t *testing.T) {
		text := `Opening Balance 1,000.00
06/04/2024 BROKEN RECORD
no numbers here
07/04/2024 GOOD RECORD
250.00 750.00
`
		result := p.ParseText(text)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "GOOD RECORD", result.Transactions[0].Description)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "amount", result.Errors[0].Field)
	})

	t.Run("empty statement yields empty result", func(t *testing.T) {
		result := p.ParseText("nothing to see")
		assert.Empty(t, result.Transactions)
	})
}
