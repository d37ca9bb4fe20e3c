package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "499.00", 499.00},
		{"western grouping", "1,000,000.00", 1000000.00},
		{"lakh grouping", "1,00,000.00", 100000.00},
		{"lakh grouping with paise", "1,45,896.42", 145896.42},
		{"rupee symbol", "₹2,000.50", 2000.50},
		{"rs prefix", "Rs. 350.00", 350.00},
		{"negative", "-1299.00", -1299.00},
		{"parentheses negative", "(450.25)", -450.25},
		{"credit suffix", "5,000.00 Cr", 5000.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseAmount("not a number")
		assert.Error(t, err)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseAmount("  ")
		assert.Error(t, err)
	})
}

func TestExtractAmount(t *testing.T) {
	t.Run("accepts lakh-grouped amount", func(t *testing.T) {
		got, ok := ExtractAmount("1,45,896.42")
		require.True(t, ok)
		assert.InDelta(t, 145896.42, got, 0.001)
	})

	t.Run("rejects account numbers", func(t *testing.T) {
		_, ok := ExtractAmount("9876543210123.00")
		assert.False(t, ok)
	})

	t.Run("rejects sub-paisa values", func(t *testing.T) {
		_, ok := ExtractAmount("0.00")
		assert.False(t, ok)
	})
}

func TestFindAmounts(t *testing.T) {
	line := "UPI IN/524712345678/refund 1,299.00 45,120.88"
	amounts := FindAmounts(line)
	require.Len(t, amounts, 2)
	assert.InDelta(t, 1299.00, amounts[0], 0.001)
	assert.InDelta(t, 45120.88, amounts[1], 0.001)
}

func TestFindAmountsUngrouped(t *testing.T) {
	// Four-plus integer digits without grouping commas must be matched whole,
	// not as a three-digit suffix (1200.00 is not 200.00).
	tests := []struct {
		name string
		line string
		want []float64
	}{
		{"four digits", "01/03/2025 RENT TRANSFER 1200.00 43800.00", []float64{1200.00, 43800.00}},
		{"round thousands", "NEFT CR SALARY 5000.00 48800.00", []float64{5000.00, 48800.00}},
		{"mixed grouping", "IMPS 1,45,896.42 then 7500.00", []float64{145896.42, 7500.00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := FindAmounts(tt.line)
			require.Len(t, amounts, len(tt.want))
			for i, w := range tt.want {
				assert.InDelta(t, w, amounts[i], 0.001)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(100.00, 100.005))
	assert.True(t, WithinTolerance(100.00, 100.01))
	assert.False(t, WithinTolerance(100.00, 100.02))
	assert.False(t, WithinTolerance(100.00, 150.00))
}

func TestFormatINR(t *testing.T) {
	assert.Contains(t, FormatINR(1299.00), "1,299")
}
