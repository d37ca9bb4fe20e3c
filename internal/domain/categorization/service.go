// Package categorization assigns a category and subcategory to each
// transaction from its narration, amount and debit flag. Matching is rule
// driven: an income short-circuit, a historical narration lookup, then
// ordered keyword tables with "Miscellaneous" as the floor. Categorization
// never fails; absence of a match degrades to the default.
package categorization

import (
	"log/slog"
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
)

// Service wires the keyword engine to the historical lookup.
type Service struct {
	engine  *Engine
	history History
	logger  *slog.Logger
}

// NewService builds a categorizer. A nil history disables the lookup step.
func NewService(taxonomy Taxonomy, history History, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:  NewEngine(taxonomy),
		history: history,
		logger:  logger,
	}
}

// Categorize picks the category for one narration. The amount and debit
// pointers are optional; when present they drive the income short-circuit,
// which overrides everything else.
func (s *Service) Categorize(description string, amount *float64, isDebit *bool) string {
	if amount != nil && *amount > 0 {
		return CategoryIncome
	}
	if isDebit != nil && !*isDebit {
		return CategoryIncome
	}

	lower := strings.ToLower(description)
	if containsAny(lower, incomeKeywords) {
		return CategoryIncome
	}
	if strings.Contains(lower, "upi") && containsAnyWord(lower, upiCreditWords) {
		return CategoryIncome
	}

	if s.history != nil {
		if category, _, ok := s.history.Lookup(description); ok {
			return category
		}
	}

	if category := s.engine.MatchCategory(description); category != "" {
		return category
	}
	return CategoryMiscellaneous
}

// CategorizeSubcategory resolves the second level for an already-chosen
// category. History wins over keywords; no match yields "".
func (s *Service) CategorizeSubcategory(description, category string) string {
	if s.history != nil {
		if histCategory, sub, ok := s.history.Lookup(description); ok && histCategory == category && sub != "" {
			return sub
		}
	}
	return s.engine.MatchSubcategory(description, category)
}

// CategorizeTransaction applies both levels to one raw transaction.
func (s *Service) CategorizeTransaction(tx statement.RawTransaction) statement.CategorizedTransaction {
	amount := tx.Amount
	isDebit := tx.IsDebit
	category := s.Categorize(tx.Description, &amount, &isDebit)
	return statement.CategorizedTransaction{
		RawTransaction: tx,
		Category:       category,
		Subcategory:    s.CategorizeSubcategory(tx.Description, category),
	}
}

// CategorizeAll runs the whole extracted batch through the rules.
func (s *Service) CategorizeAll(txs []statement.RawTransaction) []statement.CategorizedTransaction {
	out := make([]statement.CategorizedTransaction, len(txs))
	counts := make(map[string]int)
	for i, tx := range txs {
		out[i] = s.CategorizeTransaction(tx)
		counts[out[i].Category]++
	}
	s.logger.Debug("batch categorized", "transactions", len(txs), "categories", len(counts))
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// containsAnyWord matches whole tokens, so "cr" does not hit inside
// "crockery".
func containsAnyWord(s string, words []string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '/' || r == '-' || r == '_' || r == ':' || r == '.'
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
