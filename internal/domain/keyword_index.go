package domain

import "strings"

// KeywordIndex maps lowercased keywords and aliases to their owning trend
// while preserving insertion order, so matching can iterate deterministically
// and resolve score ties in favor of the earliest-inserted keyword.
//
// When the same keyword is inserted for two trends, the most recent trend
// wins but the keyword keeps its original position.
type KeywordIndex struct {
	keys   []string
	trends map[string]*Trend
}

func NewKeywordIndex() *KeywordIndex {
	return &KeywordIndex{trends: make(map[string]*Trend)}
}

// Add registers a keyword or alias for a trend. Keys are lowercased.
func (idx *KeywordIndex) Add(keyword string, t *Trend) {
	key := strings.ToLower(keyword)
	if _, ok := idx.trends[key]; !ok {
		idx.keys = append(idx.keys, key)
	}
	idx.trends[key] = t
}

// Keywords returns all keys in insertion order.
func (idx *KeywordIndex) Keywords() []string {
	return idx.keys
}

// Trend looks up the owning trend for a keyword (case-insensitive).
func (idx *KeywordIndex) Trend(keyword string) (*Trend, bool) {
	t, ok := idx.trends[strings.ToLower(keyword)]
	return t, ok
}

func (idx *KeywordIndex) Len() int {
	return len(idx.keys)
}
