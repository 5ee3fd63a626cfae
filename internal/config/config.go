package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TelegramBotToken string
	TelegramChatID   int64
	RedisURL         string

	DataDir        string
	FeedPollSecs   int
	MatchThreshold int

	HTTPPort int
	APIKey   string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIKey:           os.Getenv("API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, match alerts disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, feed caching disabled")
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		} else {
			log.Printf("Warning: invalid TELEGRAM_CHAT_ID=%q, match alerts disabled", v)
		}
	}

	cfg.DataDir = strings.TrimSpace(os.Getenv("DATA_DIR"))
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}

	cfg.FeedPollSecs = 60
	if v := os.Getenv("FEED_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FeedPollSecs = n
		}
	}

	cfg.MatchThreshold = 60
	if v := strings.TrimSpace(os.Getenv("MATCH_THRESHOLD")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MatchThreshold = n
		}
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	return cfg
}
