package match

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"trendwatch/internal/domain"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

const (
	// DefaultThreshold is the starting fuzzy acceptance bar. Lower casts a
	// wider net, higher is more precise. Runtime-adjustable within
	// [MinThreshold, MaxThreshold].
	DefaultThreshold = 60
	MinThreshold     = 30
	MaxThreshold     = 90

	substringScore = 95
	symbolScore    = 90
	// Partial-ratio matches are more prone to false positives, so they
	// must clear the threshold by an extra margin.
	partialMargin = 10
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// Normalize strips everything but letters, digits and spaces, collapses
// whitespace runs and lowercases, so "Vibe-Codoor!!" and "vibe codoor"
// compare equal.
func Normalize(s string) string {
	cleaned := nonAlphanumeric.ReplaceAllString(s, "")
	return strings.ToLower(strings.Join(strings.Fields(cleaned), " "))
}

// Result is an accepted association between a feed entity and a trend.
type Result struct {
	Trend   *domain.Trend
	Keyword string
	Score   int
}

// Candidate is a diagnostic scoring row produced by TestMatch.
type Candidate struct {
	Keyword    string `json:"keyword"`
	Trend      string `json:"trend"`
	TokenSort  int    `json:"token_sort"`
	Partial    int    `json:"partial"`
	Ratio      int    `json:"ratio"`
	WouldMatch bool   `json:"would_match"`
}

// Matcher scores entity names against a keyword corpus using layered
// strategies: substring containment, symbol equality, token-sort ratio and
// partial ratio. Safe for concurrent use.
type Matcher struct {
	mu        sync.Mutex
	threshold int
}

func NewMatcher() *Matcher {
	return &Matcher{threshold: DefaultThreshold}
}

// Threshold returns the active fuzzy acceptance bar.
func (m *Matcher) Threshold() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// AdjustThreshold clamps and sets the fuzzy acceptance bar, returning the
// effective value.
func (m *Matcher) AdjustThreshold(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n < MinThreshold {
		n = MinThreshold
	}
	if n > MaxThreshold {
		n = MaxThreshold
	}
	m.threshold = n
	return m.threshold
}

// Match scores the entity against every keyword in the index and returns
// the single best accepted candidate, or nil when nothing clears its
// threshold. Ties go to the earliest-inserted keyword.
//
// The symbol comparison deliberately uses the raw lowercased symbol, not
// the normalized form; the original system behaves this way and changing it
// would shift which tickers match.
func (m *Matcher) Match(name, symbol string, idx *domain.KeywordIndex) *Result {
	if idx == nil || idx.Len() == 0 {
		return nil
	}
	threshold := m.Threshold()
	nameClean := Normalize(name)
	symbolLower := strings.ToLower(symbol)

	var best *Result
	for _, keyword := range idx.Keywords() {
		keywordClean := Normalize(keyword)
		score, ok := scoreKeyword(keywordClean, nameClean, symbolLower, threshold)
		if !ok {
			continue
		}
		if best == nil || score > best.Score {
			trend, _ := idx.Trend(keyword)
			best = &Result{Trend: trend, Keyword: keyword, Score: score}
		}
	}
	return best
}

// scoreKeyword applies the strategies in priority order; the first one that
// applies decides the candidate score.
func scoreKeyword(keywordClean, nameClean, symbolLower string, threshold int) (int, bool) {
	if keywordClean == "" {
		return 0, false
	}
	if strings.Contains(nameClean, keywordClean) || strings.Contains(keywordClean, nameClean) {
		return substringScore, true
	}
	if keywordClean == symbolLower {
		return symbolScore, true
	}
	if score := fuzzy.TokenSortRatio(keywordClean, nameClean); score >= threshold {
		return score, true
	}
	if score := fuzzy.PartialRatio(keywordClean, nameClean); score >= threshold+partialMargin {
		return score, true
	}
	return 0, false
}

// TestMatch reruns the fuzzy scorers for every keyword without the
// acceptance gate and returns candidates within 10 points of the active
// threshold, flagged with whether they would currently match. A tuning
// aid, not a production decision path.
func (m *Matcher) TestMatch(name string, idx *domain.KeywordIndex) []Candidate {
	threshold := m.Threshold()
	nameClean := Normalize(name)

	var candidates []Candidate
	for _, keyword := range idx.Keywords() {
		keywordClean := Normalize(keyword)
		c := Candidate{
			Keyword:   keyword,
			TokenSort: fuzzy.TokenSortRatio(keywordClean, nameClean),
			Partial:   fuzzy.PartialRatio(keywordClean, nameClean),
			Ratio:     fuzzy.Ratio(keywordClean, nameClean),
		}
		if trend, ok := idx.Trend(keyword); ok {
			c.Trend = trend.Keyword
		}
		max := maxScore(c)
		if max < threshold-10 {
			continue
		}
		c.WouldMatch = max >= threshold
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return maxScore(candidates[i]) > maxScore(candidates[j])
	})
	return candidates
}

func maxScore(c Candidate) int {
	max := c.TokenSort
	if c.Partial > max {
		max = c.Partial
	}
	if c.Ratio > max {
		max = c.Ratio
	}
	return max
}
