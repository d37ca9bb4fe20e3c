package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	t.Run("plain header on first line", func(t *testing.T) {
		data := []byte("Date,Narration,Withdrawal Amt.,Deposit Amt.,Closing Balance\n01/03/2025,UPI-SWIGGY,450.00,,9550.00\n")

		cfg, err := Detect(data)
		require.NoError(t, err)
		assert.Equal(t, ',', int32(cfg.Delimiter))
		assert.Equal(t, 0, cfg.SkipLines)
		assert.Equal(t, []string{"Date", "Narration", "Withdrawal Amt.", "Deposit Amt.", "Closing Balance"}, cfg.Headers)
	})

	t.Run("skips letterhead preamble", func(t *testing.T) {
		data := []byte("HDFC BANK LTD\nStatement of Account\n\nDate,Narration,Amount,Balance\n01/03/2025,POS AMAZON,1299.00,8701.00\n")

		cfg, err := Detect(data)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.SkipLines)
		assert.Equal(t, []string{"Date", "Narration", "Amount", "Balance"}, cfg.Headers)
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		data := []byte("Date;Description;Amount\n01/03/2025;FUEL;500.00\n")

		cfg, err := Detect(data)
		require.NoError(t, err)
		assert.Equal(t, ';', int32(cfg.Delimiter))
	})

	t.Run("strips byte order mark", func(t *testing.T) {
		data := []byte("\uFEFFDate,Narration,Amount\n01/03/2025,POS AMAZON,1299.00\n")

		cfg, err := Detect(data)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.SkipLines)
		assert.Equal(t, []string{"Date", "Narration", "Amount"}, cfg.Headers)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Detect(nil)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("no header anywhere", func(t *testing.T) {
		_, err := Detect([]byte("just some text\nwith no columns\n"))
		assert.ErrorIs(t, err, ErrNoHeadersFound)
	})
}

func TestSuggestColumns(t *testing.T) {
	t.Run("split debit credit layout", func(t *testing.T) {
		roles := SuggestColumns([]string{"Date", "Narration", "Chq./Ref.No.", "Withdrawal Amt.", "Deposit Amt.", "Closing Balance"})

		assert.Equal(t, 0, roles.Date)
		assert.Equal(t, 1, roles.Desc)
		assert.Equal(t, 3, roles.Debit)
		assert.Equal(t, 4, roles.Credit)
		assert.Equal(t, 5, roles.Balance)
		assert.True(t, roles.SplitDebitCredit)
	})

	t.Run("single amount column", func(t *testing.T) {
		roles := SuggestColumns([]string{"Transaction Date", "Description", "Amount"})

		assert.Equal(t, 0, roles.Date)
		assert.Equal(t, 1, roles.Desc)
		assert.Equal(t, 2, roles.Amount)
		assert.False(t, roles.SplitDebitCredit)
	})

	t.Run("missing columns stay -1", func(t *testing.T) {
		roles := SuggestColumns([]string{"Foo", "Bar"})
		assert.Equal(t, -1, roles.Date)
		assert.Equal(t, -1, roles.Amount)
	})
}

func TestReadRecords(t *testing.T) {
	data := []byte("LETTERHEAD\nDate,Narration,Amount\n01/03/2025,UPI-SWIGGY,450.00\n02/03/2025,SALARY,50000.00\n")
	cfg, err := Detect(data)
	require.NoError(t, err)

	records, err := ReadRecords(data, cfg)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "UPI-SWIGGY", records[0][1])
	assert.Equal(t, "SALARY", records[1][1])
}
