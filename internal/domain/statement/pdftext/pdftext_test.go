package pdftext

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frag(s string, x, y, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w}
}

func TestGroupRows(t *testing.T) {
	t.Run("splits rows by baseline and cells by gaps", func(t *testing.T) {
		texts := []pdf.Text{
			frag("15/03/2024", 40, 700, 50),
			frag("AMAZON", 150, 700, 40),
			frag(" PURCHASE", 190, 700, 50),
			frag("1,299.00", 400, 700, 40),
			frag("16/03/2024", 40, 685, 50),
			frag("SWIGGY", 150, 685, 40),
			frag("450.00", 400, 685, 35),
		}

		rows := groupRows(texts)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"15/03/2024", "AMAZON PURCHASE", "1,299.00"}, rows[0])
		assert.Equal(t, []string{"16/03/2024", "SWIGGY", "450.00"}, rows[1])
	})

	t.Run("orders rows top to bottom regardless of input order", func(t *testing.T) {
		texts := []pdf.Text{
			frag("second", 40, 650, 30),
			frag("first", 40, 700, 30),
		}
		rows := groupRows(texts)
		require.Len(t, rows, 2)
		assert.Equal(t, "first", rows[0][0])
		assert.Equal(t, "second", rows[1][0])
	})

	t.Run("tolerates slight baseline wobble", func(t *testing.T) {
		texts := []pdf.Text{
			frag("a", 40, 700, 10),
			frag("b", 60, 698.5, 10),
		}
		rows := groupRows(texts)
		require.Len(t, rows, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, groupRows(nil))
	})
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract("/nonexistent/statement.pdf")
	assert.Error(t, err)

	_, err = ExtractRows("/nonexistent/statement.pdf")
	assert.Error(t, err)
}
