package categorization

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FuzzyMatch is one near-miss keyword hit with its edit distance.
type FuzzyMatch struct {
	Keyword  string
	Category string
	Distance int
}

// FuzzyMatcher catches misspelled merchant tokens in narrations, e.g.
// "SWIGY" still resolving to the Swiggy keyword. It complements the exact
// automaton; the service consults it only when suggesting, never during
// hard categorization.
type FuzzyMatcher struct {
	mu       sync.RWMutex
	keywords []fuzzyKeyword
}

type fuzzyKeyword struct {
	keyword  string
	category string
}

// NewFuzzyMatcher indexes every taxonomy keyword.
func NewFuzzyMatcher(taxonomy Taxonomy) *FuzzyMatcher {
	fm := &FuzzyMatcher{}
	fm.Build(taxonomy)
	return fm
}

func (fm *FuzzyMatcher) Build(taxonomy Taxonomy) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fm.keywords = fm.keywords[:0]
	for _, cat := range taxonomy {
		for _, kw := range cat.Keywords {
			fm.keywords = append(fm.keywords, fuzzyKeyword{
				keyword:  strings.ToLower(kw),
				category: cat.Name,
			})
		}
	}
}

// Match ranks keywords near the query by Levenshtein distance, closest
// first, capped at limit results.
func (fm *FuzzyMatcher) Match(query string, limit int) []FuzzyMatch {
	fm.mu.RLock()
	defer fm.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []FuzzyMatch
	for _, fk := range fm.keywords {
		if !fuzzy.Match(query, fk.keyword) && !fuzzy.Match(fk.keyword, query) {
			continue
		}
		matches = append(matches, FuzzyMatch{
			Keyword:  fk.keyword,
			Category: fk.category,
			Distance: fuzzy.LevenshteinDistance(query, fk.keyword),
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
