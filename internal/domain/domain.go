package domain

import (
	"strings"
	"time"
)

// Trend is a tracked keyword or phrase representing a narrative to watch
// for in the feed of newly graduated coins.
type Trend struct {
	ID          int64     `json:"id"`
	Keyword     string    `json:"keyword"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Aliases     []string  `json:"aliases"`
	Priority    int       `json:"priority"`
	Active      bool      `json:"active"`
	MatchCount  int       `json:"match_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MatchRecord is an append-only log entry linking a tracked trend to an
// observed feed entity.
type MatchRecord struct {
	TrendID        int64     `json:"trend_id"`
	CoinName       string    `json:"coin_name"`
	CoinAddress    string    `json:"coin_address"`
	MatchedKeyword string    `json:"matched_keyword"`
	MatchedAt      time.Time `json:"matched_at"`
}

// CoinRecord is a historical performance record for one coin, grouped by
// narrative for aggregate analysis. The raw peak_mcap / time_to_peak strings
// are kept alongside their parsed numeric forms.
type CoinRecord struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Narrative       string    `json:"narrative"`
	PeakMcap        string    `json:"peak_mcap"`
	PeakMcapNumeric float64   `json:"peak_mcap_numeric"`
	TimeToPeak      string    `json:"time_to_peak"`
	TimeToPeakHours float64   `json:"time_to_peak_hours"`
	Notes           string    `json:"notes"`
	CoinAddress     string    `json:"coin_address"`
	EntryMcap       string    `json:"entry_mcap"`
	ExitMcap        string    `json:"exit_mcap"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// NarrativeAnalysis is the derived aggregate for one narrative. It is fully
// recomputed on every coin add or delete, never updated incrementally.
type NarrativeAnalysis struct {
	Count              int     `json:"count"`
	AvgPeakMcap        float64 `json:"avg_peak_mcap"`
	MinPeakMcap        float64 `json:"min_peak_mcap"`
	MaxPeakMcap        float64 `json:"max_peak_mcap"`
	MedianPeakMcap     float64 `json:"median_peak_mcap"`
	AvgTimeToPeakHours float64 `json:"avg_time_to_peak_hours"`
	SuggestedCeiling   string  `json:"suggested_ceiling"`
	SuggestedHoldTime  string  `json:"suggested_hold_time"`
}

// FeedEntity is an item observed from the external feed.
type FeedEntity struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
}

// NormalizeNarrative lowercases a narrative label and replaces spaces with
// underscores so "AI Agents" and "ai_agents" land in the same group.
func NormalizeNarrative(narrative string) string {
	return strings.ReplaceAll(strings.ToLower(narrative), " ", "_")
}
