package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"trendwatch/internal/bot"
	"trendwatch/internal/cache"
	"trendwatch/internal/config"
	"trendwatch/internal/domain"
	"trendwatch/internal/handler"
	"trendwatch/internal/job"
	"trendwatch/internal/match"
	"trendwatch/internal/provider"
	"trendwatch/internal/service"
	"trendwatch/internal/store"
	"trendwatch/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "trendwatch/docs"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	initRedisFunc            = cache.InitRedis
	initTracerFunc           = tracing.InitTracer
	newTrendStoreFunc        = store.NewTrendStore
	newPerformanceLedgerFunc = store.NewPerformanceLedger
	newFeedProviderFunc      = func(tracer trace.Tracer) service.FeedProvider {
		return provider.NewPumpFunProvider(tracer)
	}
	newFeedServiceFunc     = service.NewFeedService
	newMatchEngineFunc     = job.NewMatchEngine
	startEngineFunc        = func(e *job.MatchEngine, ctx context.Context, interval time.Duration) { go e.Start(ctx, interval) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Trendwatch API
// @version         1.0
// @description     Watches newly graduated coins and matches them against tracked trend keywords.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("REDIS_URL", cfg.RedisURL)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	trends, err := newTrendStoreFunc(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open trend store: %v", err)
	}
	ledger, err := newPerformanceLedgerFunc(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open performance ledger: %v", err)
	}

	matcher := match.NewMatcher()
	matcher.AdjustThreshold(cfg.MatchThreshold)

	feedProvider := newFeedProviderFunc(tracer)
	var feedCache service.RedisClient
	if cache.Client != nil {
		feedCache = cache.Client
	}
	feedService := newFeedServiceFunc(tracer, feedProvider, feedCache)

	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	tgBot := startTelegramBotFunc(trends, ledger, cfg.TelegramChatID)

	onMatch := func(ctx context.Context, entity domain.FeedEntity, trend *domain.Trend, matchedKeyword string, score int) {
		tgBot.SendMatchAlert(entity, trend, matchedKeyword, score)
	}

	engine := newMatchEngineFunc(tracer, clockwork.NewRealClock(), feedService, trends, matcher, onMatch)
	startEngineFunc(engine, ctx, time.Duration(cfg.FeedPollSecs)*time.Second)

	h := newHandlerFunc(tracer, trends, ledger, matcher, feedService, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("trendwatch"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	engine.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
