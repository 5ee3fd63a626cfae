// Command mcp serves the trendwatch tool surface over stdio for MCP
// clients. It shares the same data directory as the server, so tools see
// the live trend and coin documents.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trendwatch/internal/config"
	"trendwatch/internal/match"
	"trendwatch/internal/mcp"
	"trendwatch/internal/store"

	"github.com/joho/godotenv"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	newTrendStoreFunc        = store.NewTrendStore
	newPerformanceLedgerFunc = store.NewPerformanceLedger
	runServerFunc            = func(s *mcp.Server, ctx context.Context) error { return s.Run(ctx) }
)

func main() {
	loadEnvFunc()

	// MCP speaks JSON-RPC on stdout; keep log output on stderr only.
	log.SetOutput(os.Stderr)

	cfg := loadConfigFunc()

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mcp.NewServer(trends, ledger, matcher)
	if err := runServerFunc(srv, ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
