package categorization

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// Engine matches narration text against the taxonomy keyword tables in a
// single pass using an Aho-Corasick automaton. When several categories hit
// the same narration, the one defined first in the taxonomy wins.
type Engine struct {
	mu       sync.RWMutex
	taxonomy Taxonomy
	matcher  *ahocorasick.Matcher
	patterns []string
	// categoryRank maps matcher pattern index to taxonomy position.
	categoryRank []int
}

// NewEngine builds the automaton from a taxonomy.
func NewEngine(taxonomy Taxonomy) *Engine {
	e := &Engine{}
	e.Build(taxonomy)
	return e
}

// Build reconstructs the automaton. Callable again when the taxonomy is
// reloaded.
func (e *Engine) Build(taxonomy Taxonomy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.taxonomy = taxonomy
	e.patterns = e.patterns[:0]
	e.categoryRank = e.categoryRank[:0]

	for rank, cat := range taxonomy {
		for _, kw := range cat.Keywords {
			e.patterns = append(e.patterns, strings.ToLower(kw))
			e.categoryRank = append(e.categoryRank, rank)
		}
	}

	if len(e.patterns) == 0 {
		e.matcher = nil
		return
	}
	e.matcher = ahocorasick.NewStringMatcher(e.patterns)
}

// MatchCategory returns the first-defined category whose keyword table hits
// the description, or "" when nothing matches.
func (e *Engine) MatchCategory(description string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil {
		return ""
	}

	hits := e.matcher.Match([]byte(strings.ToLower(description)))
	best := -1
	for _, patternIdx := range hits {
		rank := e.categoryRank[patternIdx]
		if best < 0 || rank < best {
			best = rank
		}
	}
	if best < 0 {
		return ""
	}
	return e.taxonomy[best].Name
}

// MatchSubcategory resolves the second level inside an already-chosen
// category. Empty string means no subcategory applies.
func (e *Engine) MatchSubcategory(description, category string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	lower := strings.ToLower(description)
	for _, cat := range e.taxonomy {
		if cat.Name != category {
			continue
		}
		for _, sub := range cat.Subcategories {
			for _, kw := range sub.Keywords {
				if strings.Contains(lower, strings.ToLower(kw)) {
					return sub.Name
				}
			}
		}
		return ""
	}
	return ""
}

// Keywords returns every pattern in taxonomy order, used by the suggestion
// index and the fuzzy matcher.
func (e *Engine) Keywords() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.patterns))
	copy(out, e.patterns)
	return out
}
