package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
)

func TestDetectBankFromText(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantBank    string
		wantAccount string
		wantOK      bool
	}{
		{
			name:        "hdfc credit card",
			text:        "HDFC Bank Credit Card Statement\nDate Transaction Description Amount",
			wantBank:    statement.BankHDFC,
			wantAccount: statement.AccountTypeCreditCard,
			wantOK:      true,
		},
		{
			name:        "hdfc savings by account marker",
			text:        "HDFC BANK LTD\nSAVINGS A/C NO : 50100123456789",
			wantBank:    statement.BankHDFC,
			wantAccount: statement.AccountTypeSavings,
			wantOK:      true,
		},
		{
			name:        "hdfc savings by column headers",
			text:        "HDFC Bank\nWithdrawal Amt. Deposit Amt. Closing Balance",
			wantBank:    statement.BankHDFC,
			wantAccount: statement.AccountTypeSavings,
			wantOK:      true,
		},
		{
			name:        "federal bank",
			text:        "THE FEDERAL BANK LTD\nStatement of account",
			wantBank:    statement.BankFederal,
			wantAccount: statement.AccountTypeSavings,
			wantOK:      true,
		},
		{
			name:   "unknown bank",
			text:   "Some Neo Bank monthly summary",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, accountType, ok := DetectBankFromText(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantBank, bank)
				assert.Equal(t, tt.wantAccount, accountType)
			}
		})
	}
}

func TestRegistryOrder(t *testing.T) {
	reg := Registry()
	require.Len(t, reg, 3)

	// Credit card must outrank savings: an HDFC credit-card statement that
	// also says "statement of account" still routes to the card parser.
	bank, accountType, ok := DetectBankFromText(
		"HDFC Bank Credit Card Statement of account\nDate Transaction Description Amount")
	require.True(t, ok)
	assert.Equal(t, statement.BankHDFC, bank)
	assert.Equal(t, statement.AccountTypeCreditCard, accountType)
}

func TestDetectUnreadableFile(t *testing.T) {
	for _, d := range Registry() {
		assert.False(t, d.Detect("/nonexistent/statement.pdf"))
	}
	_, _, ok := DetectBank("/nonexistent/statement.pdf")
	assert.False(t, ok)
}
