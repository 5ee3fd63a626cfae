package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTestPumpFunProvider(baseURL string) *PumpFunProvider {
	return &PumpFunProvider{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
		tracer:  sdktrace.NewTracerProvider().Tracer("test"),
		limiter: NewRateLimiter(100, time.Millisecond),
	}
}

func TestFetchGraduatedParsesMintPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/coins/graduated") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "50" {
			t.Errorf("unexpected limit %s", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"mint": "mint1", "name": "Vibe Codoor", "symbol": "VIBE"},
			{"address": "legacy2", "name": "Old Style", "symbol": "OLD"}
		]`))
	}))
	defer srv.Close()

	p := newTestPumpFunProvider(srv.URL)
	entities, err := p.FetchGraduated(context.Background())
	if err != nil {
		t.Fatalf("FetchGraduated: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	if entities[0].Address != "mint1" || entities[0].Name != "Vibe Codoor" || entities[0].Symbol != "VIBE" {
		t.Fatalf("unexpected first entity %+v", entities[0])
	}
	if entities[1].Address != "legacy2" {
		t.Fatalf("address fallback failed: %+v", entities[1])
	}
}

func TestFetchGraduatedRejectsNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := newTestPumpFunProvider(srv.URL)
	if _, err := p.FetchGraduated(context.Background()); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestFetchGraduatedRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": "object"}`))
	}))
	defer srv.Close()

	p := newTestPumpFunProvider(srv.URL)
	if _, err := p.FetchGraduated(context.Background()); err == nil {
		t.Fatal("expected error on malformed body")
	}
}
