package handler

import (
	"trendwatch/internal/match"
	"trendwatch/internal/service"
	"trendwatch/internal/store"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer  trace.Tracer
	trends  *store.TrendStore
	ledger  *store.PerformanceLedger
	matcher *match.Matcher
	feed    *service.FeedService
	apiKey  string
}

func New(
	tracer trace.Tracer,
	trends *store.TrendStore,
	ledger *store.PerformanceLedger,
	matcher *match.Matcher,
	feed *service.FeedService,
	apiKey string,
) *Handler {
	return &Handler{
		tracer:  tracer,
		trends:  trends,
		ledger:  ledger,
		matcher: matcher,
		feed:    feed,
		apiKey:  apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/trends", h.ListTrends)
	api.GET("/trends/search", h.SearchTrends)
	api.GET("/matches", h.RecentMatches)
	api.GET("/coins", h.ListCoins)
	api.GET("/coins/search", h.SearchCoins)
	api.GET("/narratives", h.AllNarrativeAnalyses)
	api.GET("/narratives/:narrative", h.NarrativeAnalysis)
	api.GET("/narratives/:narrative/summary", h.NarrativeSummary)
	api.GET("/summary", h.OverallSummary)
	api.GET("/feed/latest", h.LatestFeed)
	api.GET("/engine/threshold", h.GetThreshold)
	api.POST("/engine/test-match", h.TestMatch)

	protected := api.Group("")
	protected.Use(APIKeyAuth(h.apiKey))
	protected.POST("/trends", h.AddTrend)
	protected.PATCH("/trends/:id", h.UpdateTrend)
	protected.POST("/trends/:id/deactivate", h.DeactivateTrend)
	protected.DELETE("/trends/:id", h.DeleteTrend)
	protected.POST("/coins", h.AddCoin)
	protected.DELETE("/coins/:id", h.DeleteCoin)
	protected.PUT("/engine/threshold", h.AdjustThreshold)
}
