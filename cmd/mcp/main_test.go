package main

import (
	"context"
	"testing"
	"time"

	"trendwatch/internal/config"
	"trendwatch/internal/mcp"
)

func TestMainBootstrap(t *testing.T) {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origRun := runServerFunc
	defer func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		runServerFunc = origRun
	}()

	dataDir := t.TempDir()
	ran := make(chan struct{})

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{DataDir: dataDir, MatchThreshold: 60}
	}
	runServerFunc = func(s *mcp.Server, ctx context.Context) error {
		close(ran)
		return nil
	}

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}

	select {
	case <-ran:
	default:
		t.Fatal("mcp server was never run")
	}
}
