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

const trendsFile = "trends.json"

// ErrDuplicateTrend is returned by AddTrend together with the conflicting
// existing trend. Callers treat it as a non-fatal outcome, not a failure.
var ErrDuplicateTrend = errors.New("trend already exists")

type trendsDocument struct {
	LastTrendID  int64                 `json:"last_trend_id"`
	Trends       []*domain.Trend       `json:"trends"`
	MatchedCoins []*domain.MatchRecord `json:"matched_coins"`
}

// TrendStore owns trend records and the match log, persisted as one JSON
// document. All operations re-read the document so external single-writer
// tools (trendctl) stay visible without a restart.
type TrendStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewTrendStore opens the store under dir, creating the directory and an
// empty document if absent. A document that exists but cannot be parsed is
// a fatal error here; there is no partial recovery.
func NewTrendStore(dir string) (*TrendStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &TrendStore{
		path: filepath.Join(dir, trendsFile),
		now:  time.Now,
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		empty := &trendsDocument{Trends: []*domain.Trend{}, MatchedCoins: []*domain.MatchRecord{}}
		if err := writeJSON(s.path, empty); err != nil {
			return nil, fmt.Errorf("init trends store: %w", err)
		}
	}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *TrendStore) load() (*trendsDocument, error) {
	var doc trendsDocument
	if err := readJSON(s.path, &doc); err != nil {
		return nil, fmt.Errorf("load trends store: %w", err)
	}
	return &doc, nil
}

func (s *TrendStore) save(doc *trendsDocument) error {
	if err := writeJSON(s.path, doc); err != nil {
		return fmt.Errorf("save trends store: %w", err)
	}
	return nil
}

func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}

// AddTrend creates a new trend. Keywords must be unique case-insensitively;
// on collision the existing trend is returned with ErrDuplicateTrend.
// Aliases are not part of the uniqueness check.
func (s *TrendStore) AddTrend(keyword, description, source string, aliases []string, priority int) (*domain.Trend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, t := range doc.Trends {
		if strings.EqualFold(t.Keyword, keyword) {
			return t, ErrDuplicateTrend
		}
	}

	if source == "" {
		source = "manual"
	}
	if aliases == nil {
		aliases = []string{}
	}

	now := s.now()
	doc.LastTrendID++
	t := &domain.Trend{
		ID:          doc.LastTrendID,
		Keyword:     keyword,
		Description: description,
		Source:      source,
		Aliases:     aliases,
		Priority:    clampPriority(priority),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	doc.Trends = append(doc.Trends, t)

	if err := s.save(doc); err != nil {
		return nil, err
	}
	return t, nil
}

// GetAllTrends returns trends sorted by descending priority. The sort is
// stable, so equal priorities keep their stored order.
func (s *TrendStore) GetAllTrends(activeOnly bool) ([]*domain.Trend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return sortedTrends(doc.Trends, activeOnly), nil
}

func sortedTrends(trends []*domain.Trend, activeOnly bool) []*domain.Trend {
	out := make([]*domain.Trend, 0, len(trends))
	for _, t := range trends {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// GetTrend returns the trend with the given id, or nil if absent.
func (s *TrendStore) GetTrend(id int64) (*domain.Trend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, t := range doc.Trends {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

// UpdateTrend merges the supplied fields into an existing trend. Keys that
// are not trend attributes are silently ignored. Returns nil when the id is
// unknown.
func (s *TrendStore) UpdateTrend(id int64, fields map[string]any) (*domain.Trend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, t := range doc.Trends {
		if t.ID != id {
			continue
		}
		applyTrendFields(t, fields)
		t.UpdatedAt = s.now()
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, nil
}

func applyTrendFields(t *domain.Trend, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "keyword":
			if v, ok := value.(string); ok {
				t.Keyword = v
			}
		case "description":
			if v, ok := value.(string); ok {
				t.Description = v
			}
		case "source":
			if v, ok := value.(string); ok {
				t.Source = v
			}
		case "aliases":
			if v, ok := toStringSlice(value); ok {
				t.Aliases = v
			}
		case "priority":
			if v, ok := toInt(value); ok {
				t.Priority = clampPriority(v)
			}
		case "active":
			if v, ok := value.(bool); ok {
				t.Active = v
			}
		}
	}
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// DeactivateTrend soft-removes a trend so it no longer contributes to the
// matching corpus. Reports whether the trend existed.
func (s *TrendStore) DeactivateTrend(id int64) (bool, error) {
	t, err := s.UpdateTrend(id, map[string]any{"active": false})
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

// DeleteTrend permanently removes a trend. Reports whether anything was
// removed. The match log keeps its entries; history outlives the trend.
func (s *TrendStore) DeleteTrend(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	kept := doc.Trends[:0]
	for _, t := range doc.Trends {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(doc.Trends) {
		return false, nil
	}
	doc.Trends = kept
	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// GetAllKeywords flattens keyword plus aliases of every active trend into
// the matching corpus, in priority order.
func (s *TrendStore) GetAllKeywords() ([]string, error) {
	trends, err := s.GetAllTrends(true)
	if err != nil {
		return nil, err
	}
	var keywords []string
	for _, t := range trends {
		keywords = append(keywords, t.Keyword)
		keywords = append(keywords, t.Aliases...)
	}
	return keywords, nil
}

// KeywordIndex builds the keyword→trend lookup over active trends, keyed
// case-insensitively and ordered by trend priority then insertion.
func (s *TrendStore) KeywordIndex() (*domain.KeywordIndex, error) {
	trends, err := s.GetAllTrends(true)
	if err != nil {
		return nil, err
	}
	idx := domain.NewKeywordIndex()
	for _, t := range trends {
		idx.Add(t.Keyword, t)
		for _, alias := range t.Aliases {
			idx.Add(alias, t)
		}
	}
	return idx, nil
}

// RecordMatch increments the trend's match counter and appends a match-log
// entry. Both effects commit in a single document write; no observer sees
// one without the other.
func (s *TrendStore) RecordMatch(trendID int64, coinName, coinAddress, matchedKeyword string) (*domain.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, t := range doc.Trends {
		if t.ID == trendID {
			t.MatchCount++
			break
		}
	}
	record := &domain.MatchRecord{
		TrendID:        trendID,
		CoinName:       coinName,
		CoinAddress:    coinAddress,
		MatchedKeyword: matchedKeyword,
		MatchedAt:      s.now(),
	}
	doc.MatchedCoins = append(doc.MatchedCoins, record)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return record, nil
}

// RecentMatches returns up to limit match-log entries, newest first.
func (s *TrendStore) RecentMatches(limit int) ([]*domain.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	matches := make([]*domain.MatchRecord, len(doc.MatchedCoins))
	copy(matches, doc.MatchedCoins)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchedAt.After(matches[j].MatchedAt)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// SearchTrends does a case-insensitive substring search over keyword,
// description and aliases, across both active and inactive trends.
func (s *TrendStore) SearchTrends(query string) ([]*domain.Trend, error) {
	trends, err := s.GetAllTrends(false)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var results []*domain.Trend
	for _, t := range trends {
		if trendMatchesQuery(t, q) {
			results = append(results, t)
		}
	}
	return results, nil
}

func trendMatchesQuery(t *domain.Trend, q string) bool {
	if strings.Contains(strings.ToLower(t.Keyword), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, alias := range t.Aliases {
		if strings.Contains(strings.ToLower(alias), q) {
			return true
		}
	}
	return false
}
