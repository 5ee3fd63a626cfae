package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"trendwatch/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const (
	feedCacheKey = "feed:graduated"
	feedCacheTTL = 55 * time.Second
)

// FeedProvider fetches the upstream feed of newly graduated coins.
type FeedProvider interface {
	FetchGraduated(ctx context.Context) ([]domain.FeedEntity, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// FeedService fronts the feed provider with an optional Redis snapshot
// cache, so the HTTP surface can show the latest batch without burning an
// upstream call. Cache failures are logged and never fatal.
type FeedService struct {
	tracer   trace.Tracer
	provider FeedProvider
	redis    RedisClient
}

func NewFeedService(tracer trace.Tracer, provider FeedProvider, redisClient RedisClient) *FeedService {
	return &FeedService{
		tracer:   tracer,
		provider: provider,
		redis:    redisClient,
	}
}

// Poll fetches a fresh batch from upstream and refreshes the snapshot
// cache. The match engine polls through here.
func (s *FeedService) Poll(ctx context.Context) ([]domain.FeedEntity, error) {
	ctx, span := s.tracer.Start(ctx, "feed-service.poll")
	defer span.End()

	entities, err := s.provider.FetchGraduated(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		data, err := json.Marshal(entities)
		if err == nil {
			if err := s.redis.Set(ctx, feedCacheKey, data, feedCacheTTL).Err(); err != nil {
				log.Printf("feed cache write error: %v", err)
			}
		}
	}
	return entities, nil
}

// Latest returns the cached snapshot when present, falling back to a live
// poll on a miss.
func (s *FeedService) Latest(ctx context.Context) ([]domain.FeedEntity, error) {
	ctx, span := s.tracer.Start(ctx, "feed-service.latest")
	defer span.End()

	if s.redis != nil {
		data, err := s.redis.Get(ctx, feedCacheKey).Bytes()
		switch {
		case err == nil:
			var entities []domain.FeedEntity
			if err := json.Unmarshal(data, &entities); err != nil {
				return nil, fmt.Errorf("decode cached feed: %w", err)
			}
			return entities, nil
		case !errors.Is(err, redis.Nil):
			log.Printf("feed cache read error: %v", err)
		}
	}
	return s.Poll(ctx)
}
