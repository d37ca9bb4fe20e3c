package categorization

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// SuggestDoc is one indexed taxonomy keyword.
type SuggestDoc struct {
	Keyword     string `json:"keyword"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Suggestion is one ranked answer to a Suggest query.
type Suggestion struct {
	Keyword     string
	Category    string
	Subcategory string
	Score       float64
}

// SuggestIndex backs the category-suggestion surface with a full-text
// index over taxonomy keywords. Queries tolerate typos via fuzzy term
// matching and rank by relevance.
type SuggestIndex struct {
	mu    sync.RWMutex
	index bleve.Index
	path  string
}

// NewSuggestIndex creates the index, in memory when path is empty,
// persistent otherwise.
func NewSuggestIndex(path string) (*SuggestIndex, error) {
	si := &SuggestIndex{path: path}

	var index bleve.Index
	var err error
	switch {
	case path == "":
		index, err = bleve.NewMemOnly(suggestMapping())
	default:
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
				return nil, fmt.Errorf("create index directory: %w", mkdirErr)
			}
			index, err = bleve.New(path, suggestMapping())
		} else {
			index, err = bleve.Open(path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open suggestion index: %w", err)
	}

	si.index = index
	return si, nil
}

func suggestMapping() mapping.IndexMapping {
	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = simple.Name

	exactField := bleve.NewTextFieldMapping()
	exactField.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("keyword", keywordField)
	doc.AddFieldMappingsAt("category", exactField)
	doc.AddFieldMappingsAt("subcategory", exactField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Reindex replaces the index contents with the given taxonomy.
func (si *SuggestIndex) Reindex(taxonomy Taxonomy) error {
	si.mu.Lock()
	defer si.mu.Unlock()

	batch := si.index.NewBatch()
	for _, cat := range taxonomy {
		for _, kw := range cat.Keywords {
			id := cat.Name + "/" + kw
			if err := batch.Index(id, SuggestDoc{Keyword: kw, Category: cat.Name}); err != nil {
				return fmt.Errorf("index %s: %w", id, err)
			}
		}
		for _, sub := range cat.Subcategories {
			for _, kw := range sub.Keywords {
				id := cat.Name + "/" + sub.Name + "/" + kw
				if err := batch.Index(id, SuggestDoc{Keyword: kw, Category: cat.Name, Subcategory: sub.Name}); err != nil {
					return fmt.Errorf("index %s: %w", id, err)
				}
			}
		}
	}
	return si.index.Batch(batch)
}

// Suggest returns ranked category suggestions for a free-text query.
func (si *SuggestIndex) Suggest(query string, limit int) ([]Suggestion, error) {
	si.mu.RLock()
	defer si.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}

	match := bleve.NewMatchQuery(query)
	match.SetField("keyword")

	fuzzyQ := bleve.NewFuzzyQuery(query)
	fuzzyQ.SetField("keyword")
	fuzzyQ.SetFuzziness(1)

	prefix := bleve.NewPrefixQuery(query)
	prefix.SetField("keyword")

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(match, fuzzyQ, prefix), limit, 0, false)
	req.Fields = []string{"keyword", "category", "subcategory"}

	res, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", query, err)
	}

	suggestions := make([]Suggestion, 0, len(res.Hits))
	for _, hit := range res.Hits {
		s := Suggestion{Score: hit.Score}
		if v, ok := hit.Fields["keyword"].(string); ok {
			s.Keyword = v
		}
		if v, ok := hit.Fields["category"].(string); ok {
			s.Category = v
		}
		if v, ok := hit.Fields["subcategory"].(string); ok {
			s.Subcategory = v
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

// Close releases the underlying index.
func (si *SuggestIndex) Close() error {
	si.mu.Lock()
	defer si.mu.Unlock()
	return si.index.Close()
}
