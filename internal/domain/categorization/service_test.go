package categorization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
)

func newTestService(history History) *Service {
	return NewService(DefaultTaxonomy(), history, nil)
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestCategorizeIncomeShortCircuit(t *testing.T) {
	s := newTestService(nil)

	t.Run("positive amount always income", func(t *testing.T) {
		// Even a narration full of spend keywords cannot override it.
		for _, desc := range []string{"SWIGGY ORDER", "AMAZON PURCHASE", "UBER RIDE", "RANDOM"} {
			assert.Equal(t, CategoryIncome, s.Categorize(desc, floatPtr(100), nil), desc)
		}
	})

	t.Run("credit flag is income", func(t *testing.T) {
		assert.Equal(t, CategoryIncome, s.Categorize("ANYTHING", floatPtr(-5), boolPtr(false)))
	})

	t.Run("income keywords", func(t *testing.T) {
		for _, desc := range []string{"SALARY MAR 2025", "FD INTEREST", "CASHBACK OFFER", "NEFT CR AXIS"} {
			assert.Equal(t, CategoryIncome, s.Categorize(desc, nil, nil), desc)
		}
	})

	t.Run("upi with credit word", func(t *testing.T) {
		assert.Equal(t, CategoryIncome, s.Categorize("UPI/RECEIVED/ramesh@okaxis", nil, nil))
		assert.Equal(t, CategoryIncome, s.Categorize("UPI-CR-123456", nil, nil))
	})

	t.Run("upi spend is not income", func(t *testing.T) {
		got := s.Categorize("UPI-SWIGGY-swiggy@ybl", floatPtr(-450), boolPtr(true))
		assert.Equal(t, "Food & Dining", got)
	})
}

func TestCategorizeKeywordTables(t *testing.T) {
	s := newTestService(nil)
	cases := map[string]string{
		"UPI-SWIGGY-swiggy@ybl-9180":    "Food & Dining",
		"POS BLINKIT BANGALORE":         "Groceries",
		"UBER *TRIP HELP.UBER.COM":      "Transport",
		"AMAZON PAY INDIA":              "Shopping",
		"AIRTEL PREPAID RECHARGE":       "Bills & Utilities",
		"NETFLIX.COM SUBSCRIPTION":      "Entertainment",
		"APOLLO PHARMACY LTD":           "Health",
		"INDIGO 6E WEB BOOKING":         "Travel",
		"ZERODHA BROKING LTD":           "Investments",
		"ATW-1234-CASH WITHDRAWAL":      "Cash",
		"TOTALLY UNKNOWN MERCHANT 9921": CategoryMiscellaneous,
	}
	for desc, want := range cases {
		assert.Equal(t, want, s.Categorize(desc, floatPtr(-100), boolPtr(true)), desc)
	}
}

func TestCategorizeFirstDefinedWins(t *testing.T) {
	taxonomy := Taxonomy{
		{Name: "First", Keywords: []string{"shared"}},
		{Name: "Second", Keywords: []string{"shared", "only-second"}},
	}
	s := NewService(taxonomy, nil, nil)

	assert.Equal(t, "First", s.Categorize("SHARED MERCHANT", floatPtr(-1), boolPtr(true)))
	assert.Equal(t, "Second", s.Categorize("ONLY-SECOND SHOP", floatPtr(-1), boolPtr(true)))
}

func TestCategorizeHistoricalOverride(t *testing.T) {
	history := NewMemoryHistory()
	history.Record("X", "Food & Dining", "Dining Out")
	s := newTestService(history)

	t.Run("identical narration inherits category", func(t *testing.T) {
		assert.Equal(t, "Food & Dining", s.Categorize("X", floatPtr(-10), boolPtr(true)))
	})

	t.Run("match is case insensitive", func(t *testing.T) {
		assert.Equal(t, "Food & Dining", s.Categorize("x", floatPtr(-10), boolPtr(true)))
	})

	t.Run("income signal still wins over history", func(t *testing.T) {
		assert.Equal(t, CategoryIncome, s.Categorize("X", floatPtr(10), nil))
	})

	t.Run("subcategory follows history", func(t *testing.T) {
		assert.Equal(t, "Dining Out", s.CategorizeSubcategory("X", "Food & Dining"))
	})

	t.Run("correction overwrites", func(t *testing.T) {
		history.Record("X", "Groceries", "")
		assert.Equal(t, "Groceries", s.Categorize("X", floatPtr(-10), boolPtr(true)))
	})
}

func TestCategorizeSubcategory(t *testing.T) {
	s := newTestService(nil)

	assert.Equal(t, "Delivery", s.CategorizeSubcategory("UPI-SWIGGY-swiggy@ybl", "Food & Dining"))
	assert.Equal(t, "Fuel", s.CategorizeSubcategory("INDIAN OIL PETROL PUMP", "Transport"))
	assert.Equal(t, "", s.CategorizeSubcategory("KFC ORDER", "Groceries"))
	assert.Equal(t, "", s.CategorizeSubcategory("ANYTHING", "NoSuchCategory"))
}

func TestCategorizeTransaction(t *testing.T) {
	s := newTestService(nil)

	debit := statement.RawTransaction{Description: "UPI-ZOMATO-order", Amount: -320, IsDebit: true}
	got := s.CategorizeTransaction(debit)
	assert.Equal(t, "Food & Dining", got.Category)
	assert.Equal(t, "Delivery", got.Subcategory)

	credit := statement.RawTransaction{Description: "SALARY CREDIT", Amount: 50000, IsDebit: false}
	assert.Equal(t, CategoryIncome, s.CategorizeTransaction(credit).Category)
}

func TestCategorizeAll(t *testing.T) {
	s := newTestService(nil)
	out := s.CategorizeAll([]statement.RawTransaction{
		{Description: "UBER TRIP", Amount: -230, IsDebit: true},
		{Description: "SALARY", Amount: 50000, IsDebit: false},
	})
	assert.Len(t, out, 2)
	assert.Equal(t, "Transport", out[0].Category)
	assert.Equal(t, CategoryIncome, out[1].Category)
}

func TestCleanDescription(t *testing.T) {
	cases := map[string]string{
		"UPI-SWIGGY-swiggy@ybl-918273645":   "Swiggy",
		"POS 1234 AMAZON INDIA":             "POS 1234 Amazon India",
		"NEFT-AXIS0001234-RAMESH-987654321": "NEFT AXIS0001234 Ramesh",
		"":                                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanDescription(in), in)
	}
}
