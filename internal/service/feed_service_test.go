package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"trendwatch/internal/domain"

	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type fakeProvider struct {
	entities []domain.FeedEntity
	err      error
	calls    int
}

func (f *fakeProvider) FetchGraduated(ctx context.Context) ([]domain.FeedEntity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entities, nil
}

type fakeRedis struct {
	store   map[string]string
	setErr  error
	getMiss bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: make(map[string]string)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		cmd := redis.NewStatusCmd(ctx)
		cmd.SetErr(f.setErr)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		f.store[key] = string(v)
	case string:
		f.store[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getMiss {
		return redis.NewStringResult("", redis.Nil)
	}
	v, ok := f.store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestPollFetchesAndCaches(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{entities: []domain.FeedEntity{{Name: "Vibe Codoor", Symbol: "VIBE", Address: "addr1"}}}
	cache := newFakeRedis()
	svc := NewFeedService(sdktrace.NewTracerProvider().Tracer("test"), provider, cache)

	entities, err := svc.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(entities) != 1 || entities[0].Address != "addr1" {
		t.Fatalf("unexpected entities %+v", entities)
	}

	cached, ok := cache.store["feed:graduated"]
	if !ok {
		t.Fatal("expected snapshot cached under feed:graduated")
	}
	var decoded []domain.FeedEntity
	if err := json.Unmarshal([]byte(cached), &decoded); err != nil {
		t.Fatalf("cached snapshot not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "Vibe Codoor" {
		t.Fatalf("unexpected cached snapshot %+v", decoded)
	}
}

func TestPollPropagatesProviderError(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: errors.New("upstream down")}
	svc := NewFeedService(sdktrace.NewTracerProvider().Tracer("test"), provider, newFakeRedis())

	if _, err := svc.Poll(context.Background()); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestPollSurvivesCacheWriteFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{entities: []domain.FeedEntity{{Name: "A", Symbol: "A", Address: "a"}}}
	cache := newFakeRedis()
	cache.setErr = errors.New("redis down")
	svc := NewFeedService(sdktrace.NewTracerProvider().Tracer("test"), provider, cache)

	entities, err := svc.Poll(context.Background())
	if err != nil {
		t.Fatalf("cache failure must not fail the poll: %v", err)
	}
	if len(entities) != 1 {
		t.Fatalf("unexpected entities %+v", entities)
	}
}

func TestLatestPrefersCache(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{entities: []domain.FeedEntity{{Name: "FRESH", Symbol: "F", Address: "f"}}}
	cache := newFakeRedis()
	snapshot, _ := json.Marshal([]domain.FeedEntity{{Name: "CACHED", Symbol: "C", Address: "c"}})
	cache.store["feed:graduated"] = string(snapshot)
	svc := NewFeedService(sdktrace.NewTracerProvider().Tracer("test"), provider, cache)

	entities, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(entities) != 1 || entities[0].Name != "CACHED" {
		t.Fatalf("expected cached snapshot, got %+v", entities)
	}
	if provider.calls != 0 {
		t.Fatalf("cache hit must not call upstream, got %d calls", provider.calls)
	}
}

func TestLatestFallsBackToPollOnMiss(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{entities: []domain.FeedEntity{{Name: "FRESH", Symbol: "F", Address: "f"}}}
	cache := newFakeRedis()
	cache.getMiss = true
	svc := NewFeedService(sdktrace.NewTracerProvider().Tracer("test"), provider, cache)

	entities, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(entities) != 1 || entities[0].Name != "FRESH" {
		t.Fatalf("expected live poll result, got %+v", entities)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", provider.calls)
	}
}

func TestLatestWithoutRedisPollsDirectly(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{entities: []domain.FeedEntity{{Name: "FRESH", Symbol: "F", Address: "f"}}}
	svc := NewFeedService(sdktrace.NewTracerProvider().Tracer("test"), provider, nil)

	entities, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(entities) != 1 {
		t.Fatalf("unexpected entities %+v", entities)
	}
}
