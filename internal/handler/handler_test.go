package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trendwatch/internal/domain"
	"trendwatch/internal/match"
	"trendwatch/internal/service"
	"trendwatch/internal/store"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type stubProvider struct {
	entities []domain.FeedEntity
	err      error
}

func (s *stubProvider) FetchGraduated(ctx context.Context) ([]domain.FeedEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entities, nil
}

func newTestRouter(t *testing.T, apiKey string, provider service.FeedProvider) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	trends, err := store.NewTrendStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewTrendStore: %v", err)
	}
	ledger, err := store.NewPerformanceLedger(t.TempDir())
	if err != nil {
		t.Fatalf("NewPerformanceLedger: %v", err)
	}
	if provider == nil {
		provider = &stubProvider{}
	}
	feed := service.NewFeedService(tracer, provider, nil)

	h := New(tracer, trends, ledger, match.NewMatcher(), feed, apiKey)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, h
}

func doJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, "", nil)

	w := doJSON(r, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestTrendLifecycleOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t, "", nil)

	w := doJSON(r, http.MethodPost, "/api/trends", gin.H{
		"keyword":  "vibe coding",
		"aliases":  []string{"vibecoding"},
		"priority": 4,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created domain.Trend
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created trend: %v", err)
	}

	w = doJSON(r, http.MethodPost, "/api/trends", gin.H{"keyword": "VIBE CODING"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/trends", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var listed []domain.Trend
	json.Unmarshal(w.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].Keyword != "vibe coding" {
		t.Fatalf("unexpected list %+v", listed)
	}

	w = doJSON(r, http.MethodPatch, "/api/trends/1", gin.H{"priority": 9}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", w.Code)
	}
	var updated domain.Trend
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Priority != 5 {
		t.Fatalf("priority should clamp to 5, got %d", updated.Priority)
	}

	w = doJSON(r, http.MethodPatch, "/api/trends/999", gin.H{"priority": 1}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("update missing: expected 404, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/trends/1/deactivate", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/trends", nil, nil)
	json.Unmarshal(w.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Fatalf("active list should be empty after deactivation, got %+v", listed)
	}

	w = doJSON(r, http.MethodGet, "/api/trends?active_only=false", nil, nil)
	json.Unmarshal(w.Body.Bytes(), &listed)
	if len(listed) != 1 {
		t.Fatalf("full list should include deactivated trend, got %+v", listed)
	}

	w = doJSON(r, http.MethodDelete, "/api/trends/1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	w = doJSON(r, http.MethodDelete, "/api/trends/1", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("double delete: expected 404, got %d", w.Code)
	}
}

func TestAPIKeyAuthGuardsWrites(t *testing.T) {
	r, _ := newTestRouter(t, "secret", nil)

	w := doJSON(r, http.MethodPost, "/api/trends", gin.H{"keyword": "x"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing key: expected 401, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/trends", gin.H{"keyword": "x"}, map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong key: expected 403, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/trends", gin.H{"keyword": "x"}, map[string]string{"X-API-Key": "secret"})
	if w.Code != http.StatusCreated {
		t.Fatalf("valid key: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Reads stay open.
	w = doJSON(r, http.MethodGet, "/api/trends", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("read: expected 200, got %d", w.Code)
	}
}

func TestCoinEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, "", nil)

	w := doJSON(r, http.MethodPost, "/api/coins", gin.H{
		"name":         "goatseus",
		"narrative":    "AI Agents",
		"peak_mcap":    "500M",
		"time_to_peak": "3 days",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add coin: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var coin domain.CoinRecord
	json.Unmarshal(w.Body.Bytes(), &coin)
	if coin.Name != "GOATSEUS" || coin.Narrative != "ai_agents" {
		t.Fatalf("unexpected coin %+v", coin)
	}

	w = doJSON(r, http.MethodPost, "/api/coins", gin.H{"name": "incomplete"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: expected 400, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/narratives/ai%20agents", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("narrative: expected 200, got %d", w.Code)
	}
	var analysis domain.NarrativeAnalysis
	json.Unmarshal(w.Body.Bytes(), &analysis)
	if analysis.Count != 1 || analysis.SuggestedCeiling != "$500M" {
		t.Fatalf("unexpected analysis %+v", analysis)
	}

	w = doJSON(r, http.MethodGet, "/api/narratives/unheard_of", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown narrative: expected 404, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/summary", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", w.Code)
	}

	w = doJSON(r, http.MethodDelete, "/api/coins/1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete coin: expected 200, got %d", w.Code)
	}
	w = doJSON(r, http.MethodDelete, "/api/coins/1", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("double delete: expected 404, got %d", w.Code)
	}
}

func TestThresholdEndpoints(t *testing.T) {
	r, h := newTestRouter(t, "", nil)

	w := doJSON(r, http.MethodGet, "/api/engine/threshold", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPut, "/api/engine/threshold", gin.H{"threshold": 99}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d", w.Code)
	}
	var resp map[string]int
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["threshold"] != match.MaxThreshold {
		t.Fatalf("expected clamp to %d, got %d", match.MaxThreshold, resp["threshold"])
	}
	if h.matcher.Threshold() != match.MaxThreshold {
		t.Fatalf("matcher not updated, got %d", h.matcher.Threshold())
	}
}

func TestTestMatchEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, "", nil)

	doJSON(r, http.MethodPost, "/api/trends", gin.H{"keyword": "vibe coding"}, nil)

	w := doJSON(r, http.MethodPost, "/api/engine/test-match", gin.H{"name": "Vibe Codoor"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Threshold  int               `json:"threshold"`
		Candidates []match.Candidate `json:"candidates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Candidates) != 1 || resp.Candidates[0].Keyword != "vibe coding" {
		t.Fatalf("unexpected candidates %+v", resp.Candidates)
	}
	if !resp.Candidates[0].WouldMatch {
		t.Fatal("expected would_match true")
	}
}

func TestLatestFeedEndpoint(t *testing.T) {
	provider := &stubProvider{entities: []domain.FeedEntity{{Name: "Vibe Codoor", Symbol: "VIBE", Address: "addr1"}}}
	r, _ := newTestRouter(t, "", provider)

	w := doJSON(r, http.MethodGet, "/api/feed/latest", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entities []domain.FeedEntity
	json.Unmarshal(w.Body.Bytes(), &entities)
	if len(entities) != 1 || entities[0].Address != "addr1" {
		t.Fatalf("unexpected entities %+v", entities)
	}
}

func TestLatestFeedEndpointUpstreamError(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream down")}
	r, _ := newTestRouter(t, "", provider)

	w := doJSON(r, http.MethodGet, "/api/feed/latest", nil, nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}
