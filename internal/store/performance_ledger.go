package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"trendwatch/internal/domain"
)

const coinsFile = "coin_performance.json"

type coinsDocument struct {
	LastCoinID   int64                                `json:"last_coin_id"`
	Coins        []*domain.CoinRecord                 `json:"coins"`
	MetaAnalysis map[string]*domain.NarrativeAnalysis `json:"meta_analysis"`
}

// CoinInput carries the free-text fields for a new performance record.
// Only Name, Narrative, PeakMcap and TimeToPeak are required.
type CoinInput struct {
	Name        string
	Narrative   string
	PeakMcap    string
	TimeToPeak  string
	Notes       string
	CoinAddress string
	EntryMcap   string
	ExitMcap    string
}

// PerformanceLedger owns historical coin outcome records and the derived
// per-narrative aggregates, persisted as one JSON document.
type PerformanceLedger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewPerformanceLedger opens the ledger under dir, creating the directory
// and an empty document if absent. A corrupt document is a fatal error.
func NewPerformanceLedger(dir string) (*PerformanceLedger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	l := &PerformanceLedger{
		path: filepath.Join(dir, coinsFile),
		now:  time.Now,
	}
	if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
		empty := &coinsDocument{Coins: []*domain.CoinRecord{}, MetaAnalysis: map[string]*domain.NarrativeAnalysis{}}
		if err := writeJSON(l.path, empty); err != nil {
			return nil, fmt.Errorf("init performance ledger: %w", err)
		}
	}
	if _, err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *PerformanceLedger) load() (*coinsDocument, error) {
	var doc coinsDocument
	if err := readJSON(l.path, &doc); err != nil {
		return nil, fmt.Errorf("load performance ledger: %w", err)
	}
	return &doc, nil
}

func (l *PerformanceLedger) save(doc *coinsDocument) error {
	if err := writeJSON(l.path, doc); err != nil {
		return fmt.Errorf("save performance ledger: %w", err)
	}
	return nil
}

// AddCoin records a coin outcome. The name is upper-cased, the narrative is
// normalized to lower_snake_case, and the magnitude/duration fields are
// parsed best-effort (0 when unparseable). Aggregates are recomputed in the
// same write.
func (l *PerformanceLedger) AddCoin(in CoinInput) (*domain.CoinRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.load()
	if err != nil {
		return nil, err
	}

	doc.LastCoinID++
	coin := &domain.CoinRecord{
		ID:              doc.LastCoinID,
		Name:            strings.ToUpper(in.Name),
		Narrative:       domain.NormalizeNarrative(in.Narrative),
		PeakMcap:        in.PeakMcap,
		PeakMcapNumeric: ParseMarketCap(in.PeakMcap),
		TimeToPeak:      in.TimeToPeak,
		TimeToPeakHours: ParseHours(in.TimeToPeak),
		Notes:           in.Notes,
		CoinAddress:     in.CoinAddress,
		EntryMcap:       in.EntryMcap,
		ExitMcap:        in.ExitMcap,
		RecordedAt:      l.now(),
	}
	doc.Coins = append(doc.Coins, coin)
	doc.MetaAnalysis = recompute(doc.Coins)

	if err := l.save(doc); err != nil {
		return nil, err
	}
	return coin, nil
}

// recompute rebuilds the full per-narrative aggregate map from scratch.
// Count covers every record in a narrative; the mcap stats only cover
// records whose peak parsed to a positive value, and a narrative with no
// such record gets no entry at all.
func recompute(coins []*domain.CoinRecord) map[string]*domain.NarrativeAnalysis {
	byNarrative := make(map[string][]*domain.CoinRecord)
	for _, c := range coins {
		byNarrative[c.Narrative] = append(byNarrative[c.Narrative], c)
	}

	analysis := make(map[string]*domain.NarrativeAnalysis)
	for narrative, group := range byNarrative {
		var mcaps, times []float64
		for _, c := range group {
			if c.PeakMcapNumeric > 0 {
				mcaps = append(mcaps, c.PeakMcapNumeric)
			}
			if c.TimeToPeakHours > 0 {
				times = append(times, c.TimeToPeakHours)
			}
		}
		if len(mcaps) == 0 {
			continue
		}
		sort.Float64s(mcaps)

		// Median is the upper-middle element for even-length samples, by
		// contract. [100,200,300,400] suggests a 300 ceiling, not 250.
		median := mcaps[len(mcaps)/2]

		a := &domain.NarrativeAnalysis{
			Count:             len(group),
			AvgPeakMcap:       mean(mcaps),
			MinPeakMcap:       mcaps[0],
			MaxPeakMcap:       mcaps[len(mcaps)-1],
			MedianPeakMcap:    median,
			SuggestedCeiling:  FormatMarketCap(median),
			SuggestedHoldTime: "unknown",
		}
		if len(times) > 0 {
			a.AvgTimeToPeakHours = mean(times)
			a.SuggestedHoldTime = FormatHours(a.AvgTimeToPeakHours)
		}
		analysis[narrative] = a
	}
	return analysis
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// GetAllCoins returns coin records newest first, optionally filtered by
// narrative (normalized before comparison).
func (l *PerformanceLedger) GetAllCoins(narrative string) ([]*domain.CoinRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	coins := doc.Coins
	if narrative != "" {
		want := domain.NormalizeNarrative(narrative)
		filtered := make([]*domain.CoinRecord, 0, len(coins))
		for _, c := range coins {
			if c.Narrative == want {
				filtered = append(filtered, c)
			}
		}
		coins = filtered
	} else {
		coins = append([]*domain.CoinRecord(nil), coins...)
	}
	sort.SliceStable(coins, func(i, j int) bool {
		return coins[i].RecordedAt.After(coins[j].RecordedAt)
	})
	return coins, nil
}

// MetaAnalysis returns the cached aggregate for one narrative, or nil when
// the narrative has no analysis yet.
func (l *PerformanceLedger) MetaAnalysis(narrative string) (*domain.NarrativeAnalysis, error) {
	all, err := l.AllMetaAnalyses()
	if err != nil {
		return nil, err
	}
	return all[domain.NormalizeNarrative(narrative)], nil
}

// AllMetaAnalyses returns the full narrative→aggregate mapping.
func (l *PerformanceLedger) AllMetaAnalyses() (map[string]*domain.NarrativeAnalysis, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	if doc.MetaAnalysis == nil {
		return map[string]*domain.NarrativeAnalysis{}, nil
	}
	return doc.MetaAnalysis, nil
}

// NarrativeSummary builds a human-readable report for one narrative.
// Absent narratives report "no data" instead of failing.
func (l *PerformanceLedger) NarrativeSummary(narrative string) (string, error) {
	a, err := l.MetaAnalysis(narrative)
	if err != nil {
		return "", err
	}
	if a == nil {
		return fmt.Sprintf("No data yet for '%s' narrative.", narrative), nil
	}
	return fmt.Sprintf(
		"%s Analysis (%d coins)\n"+
			"- Suggested ceiling: %s\n"+
			"- Range: %s - %s\n"+
			"- Suggested hold time: %s",
		displayNarrative(narrative), a.Count,
		a.SuggestedCeiling,
		FormatMarketCap(a.MinPeakMcap), FormatMarketCap(a.MaxPeakMcap),
		a.SuggestedHoldTime,
	), nil
}

// OverallSummary builds a report across all narratives, busiest first.
func (l *PerformanceLedger) OverallSummary() (string, error) {
	all, err := l.AllMetaAnalyses()
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "No coin performance data recorded yet.", nil
	}

	narratives := make([]string, 0, len(all))
	for n := range all {
		narratives = append(narratives, n)
	}
	sort.Slice(narratives, func(i, j int) bool {
		if all[narratives[i]].Count != all[narratives[j]].Count {
			return all[narratives[i]].Count > all[narratives[j]].Count
		}
		return narratives[i] < narratives[j]
	})

	lines := []string{"Meta Analysis Summary", ""}
	for _, n := range narratives {
		a := all[n]
		lines = append(lines, fmt.Sprintf(
			"%s (%d coins): Ceiling ~%s, Hold ~%s",
			displayNarrative(n), a.Count, a.SuggestedCeiling, a.SuggestedHoldTime,
		))
	}
	return strings.Join(lines, "\n"), nil
}

// displayNarrative turns "ai_agents" into "Ai Agents".
func displayNarrative(narrative string) string {
	words := strings.Split(strings.ReplaceAll(domain.NormalizeNarrative(narrative), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DeleteCoin removes a record and recomputes the aggregates. Reports
// whether anything was removed.
func (l *PerformanceLedger) DeleteCoin(id int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.load()
	if err != nil {
		return false, err
	}
	kept := doc.Coins[:0]
	for _, c := range doc.Coins {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(doc.Coins) {
		return false, nil
	}
	doc.Coins = kept
	doc.MetaAnalysis = recompute(doc.Coins)
	if err := l.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// SearchCoins does a case-insensitive substring search over name and notes.
func (l *PerformanceLedger) SearchCoins(query string) ([]*domain.CoinRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var results []*domain.CoinRecord
	for _, c := range doc.Coins {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Notes), q) {
			results = append(results, c)
		}
	}
	return results, nil
}
