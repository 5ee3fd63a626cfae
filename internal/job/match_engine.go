package job

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"trendwatch/internal/domain"
	"trendwatch/internal/match"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/trace"
)

// EngineState reflects the engine lifecycle: Stopped or Running.
type EngineState int32

const (
	StateStopped EngineState = iota
	StateRunning
)

// FeedSource supplies newly observed entities. Errors are downgraded to a
// logged warning and an empty batch for the cycle.
type FeedSource interface {
	Poll(ctx context.Context) ([]domain.FeedEntity, error)
}

// TrendSource supplies the matching corpus and records accepted matches.
type TrendSource interface {
	KeywordIndex() (*domain.KeywordIndex, error)
	RecordMatch(trendID int64, coinName, coinAddress, matchedKeyword string) (*domain.MatchRecord, error)
}

// MatchCallback runs inline on the polling goroutine after a match is
// recorded. A blocking callback delays the next poll by exactly that
// amount; hand off asynchronously if slow.
type MatchCallback func(ctx context.Context, entity domain.FeedEntity, trend *domain.Trend, matchedKeyword string, score int)

// MatchEngine runs the poll→dedup→match→record→callback cycle as a single
// goroutine. The seen-set lives in process memory only: after a restart,
// previously matched entities become eligible again. Known limitation.
type MatchEngine struct {
	tracer  trace.Tracer
	clock   clockwork.Clock
	feed    FeedSource
	trends  TrendSource
	matcher *match.Matcher
	onMatch MatchCallback
	seen    map[string]struct{}
	state   atomic.Int32
}

func NewMatchEngine(
	tracer trace.Tracer,
	clock clockwork.Clock,
	feed FeedSource,
	trends TrendSource,
	matcher *match.Matcher,
	onMatch MatchCallback,
) *MatchEngine {
	return &MatchEngine{
		tracer:  tracer,
		clock:   clock,
		feed:    feed,
		trends:  trends,
		matcher: matcher,
		onMatch: onMatch,
		seen:    make(map[string]struct{}),
	}
}

// Start blocks, polling the feed every interval until Stop is called or ctx
// is cancelled. Stop is observed once per iteration, after the sleep, so
// shutdown can lag by up to one full interval. A second Start while running
// is a no-op.
func (e *MatchEngine) Start(ctx context.Context, interval time.Duration) {
	if !e.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return
	}
	log.Printf("Match engine started (polling every %s)", interval)

	for e.State() == StateRunning {
		e.runCycle(ctx)

		select {
		case <-ctx.Done():
			e.state.Store(int32(StateStopped))
			log.Println("Match engine stopped")
			return
		case <-e.clock.After(interval):
		}
	}
	log.Println("Match engine stopped")
}

// Stop requests a cooperative shutdown. An in-flight cycle is never
// interrupted.
func (e *MatchEngine) Stop() {
	e.state.Store(int32(StateStopped))
}

func (e *MatchEngine) State() EngineState {
	return EngineState(e.state.Load())
}

func (e *MatchEngine) runCycle(ctx context.Context) {
	ctx, span := e.tracer.Start(ctx, "match-engine.cycle")
	defer span.End()

	entities, err := e.feed.Poll(ctx)
	if err != nil {
		log.Printf("feed poll error, skipping cycle: %v", err)
		return
	}
	if len(entities) == 0 {
		return
	}

	idx, err := e.trends.KeywordIndex()
	if err != nil {
		log.Printf("keyword index error, skipping cycle: %v", err)
		return
	}
	if idx.Len() == 0 {
		return
	}

	for _, entity := range entities {
		if _, ok := e.seen[entity.Address]; ok {
			continue
		}
		result := e.matcher.Match(entity.Name, entity.Symbol, idx)
		if result == nil {
			continue
		}
		e.seen[entity.Address] = struct{}{}

		if _, err := e.trends.RecordMatch(result.Trend.ID, entity.Name, entity.Address, result.Keyword); err != nil {
			log.Printf("record match error for %q: %v", entity.Name, err)
		}
		log.Printf("MATCH: %q matched trend %q via %q (score %d)",
			entity.Name, result.Trend.Keyword, result.Keyword, result.Score)

		if e.onMatch != nil {
			e.onMatch(ctx, entity, result.Trend, result.Keyword, result.Score)
		}
	}
}
