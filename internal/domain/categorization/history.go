package categorization

import (
	"strings"
	"sync"
)

// History is the read-only view over previously categorized transactions.
// Once a user corrects a category, future identical narrations inherit the
// fix through this lookup without another keyword pass. The persistence
// layer behind it belongs to the caller; the engine never writes through
// this interface.
type History interface {
	// Lookup returns the category and subcategory recorded for an
	// identical narration, matched case-insensitively.
	Lookup(description string) (category, subcategory string, ok bool)
}

// MemoryHistory is an in-process History backed by a map. The caller seeds
// it from its transaction store and refreshes it on its own schedule.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries map[string]historyEntry
}

type historyEntry struct {
	category    string
	subcategory string
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: make(map[string]historyEntry)}
}

// Record remembers the category chosen for a narration. Later records for
// the same narration overwrite earlier ones, which is how user corrections
// propagate.
func (h *MemoryHistory) Record(description, category, subcategory string) {
	key := normalizeKey(description)
	if key == "" || category == "" {
		return
	}
	h.mu.Lock()
	h.entries[key] = historyEntry{category: category, subcategory: subcategory}
	h.mu.Unlock()
}

func (h *MemoryHistory) Lookup(description string) (string, string, bool) {
	h.mu.RLock()
	entry, ok := h.entries[normalizeKey(description)]
	h.mu.RUnlock()
	if !ok {
		return "", "", false
	}
	return entry.category, entry.subcategory, true
}

// Len reports how many distinct narrations are remembered.
func (h *MemoryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

func normalizeKey(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}
