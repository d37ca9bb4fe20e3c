package llm

import (
	"context"
	"strings"
)

// Categories the model is allowed to answer with.
var allowedCategories = map[string]string{
	"income":        "Income",
	"food":          "Food",
	"groceries":     "Groceries",
	"transport":     "Transport",
	"shopping":      "Shopping",
	"bills":         "Bills",
	"entertainment": "Entertainment",
	"health":        "Health",
	"travel":        "Travel",
	"education":     "Education",
	"transfers":     "Transfers",
	"other":         "Other",
}

// CategorizeTransaction asks the model for a category. Any failure or
// off-menu answer falls back to "Other"; categorization is advisory and
// never blocks extraction.
func (c *Client) CategorizeTransaction(ctx context.Context, description string, amount float64) string {
	raw, err := c.Complete(ctx, categorizePrompt(description, amount), c.cfg.CategorizeTimeout)
	if err != nil {
		c.logger.Warn("model categorization failed", "error", err)
		return "Other"
	}

	answer := strings.ToLower(strings.TrimSpace(raw))
	answer = strings.Trim(answer, `"'.`)
	if category, ok := allowedCategories[answer]; ok {
		return category
	}
	// Models sometimes answer in a sentence; take the first known word.
	for _, word := range strings.Fields(answer) {
		if category, ok := allowedCategories[strings.Trim(word, `"'.,`)]; ok {
			return category
		}
	}
	return "Other"
}
