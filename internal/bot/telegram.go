package bot

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"trendwatch/internal/domain"
	"trendwatch/internal/store"

	tele "gopkg.in/telebot.v3"
)

// Bot is the Telegram front door: a few read/write commands for managing
// trends from chat, plus the alert sender the match engine calls when a
// graduated coin hits a tracked trend.
type Bot struct {
	bot       *tele.Bot
	alertChat int64
}

func StartTelegramBot(trends *store.TrendStore, ledger *store.PerformanceLedger, alertChatID int64) *Bot {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/trends", func(c tele.Context) error {
		list, err := trends.GetAllTrends(true)
		if err != nil {
			return c.Send(fmt.Sprintf("Error listing trends: %v", err))
		}
		if len(list) == 0 {
			return c.Send("No trends tracked yet. Use /addtrend <keyword>")
		}
		lines := make([]string, 0, len(list))
		for _, t := range list {
			lines = append(lines, fmt.Sprintf("#%d [P%d] %s (%d matches)", t.ID, t.Priority, t.Keyword, t.MatchCount))
		}
		return c.Send(strings.Join(lines, "\n"))
	})

	b.Handle("/addtrend", func(c tele.Context) error {
		keyword := strings.TrimSpace(strings.Join(c.Args(), " "))
		if keyword == "" {
			return c.Send("Usage: /addtrend <keyword>")
		}
		t, err := trends.AddTrend(keyword, "", "telegram", nil, 3)
		if err == store.ErrDuplicateTrend {
			return c.Send(fmt.Sprintf("Already tracking %q (id %d)", t.Keyword, t.ID))
		}
		if err != nil {
			return c.Send(fmt.Sprintf("Error adding trend: %v", err))
		}
		return c.Send(fmt.Sprintf("Tracking %q (id %d, priority %d)", t.Keyword, t.ID, t.Priority))
	})

	b.Handle("/matches", func(c tele.Context) error {
		matches, err := trends.RecentMatches(10)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching matches: %v", err))
		}
		if len(matches) == 0 {
			return c.Send("No matches recorded yet.")
		}
		lines := make([]string, 0, len(matches))
		for _, m := range matches {
			lines = append(lines, fmt.Sprintf("%s via %q (%s)", m.CoinName, m.MatchedKeyword, m.MatchedAt.Format("Jan 2 15:04")))
		}
		return c.Send(strings.Join(lines, "\n"))
	})

	b.Handle("/meta", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			summary, err := ledger.OverallSummary()
			if err != nil {
				return c.Send(fmt.Sprintf("Error building summary: %v", err))
			}
			return c.Send(summary)
		}
		summary, err := ledger.NarrativeSummary(strings.Join(args, " "))
		if err != nil {
			return c.Send(fmt.Sprintf("Error building summary: %v", err))
		}
		return c.Send(summary)
	})

	log.Println("Telegram bot started")
	go b.Start()

	return &Bot{bot: b, alertChat: alertChatID}
}

// SendMatchAlert notifies the configured chat about a fresh match. A no-op
// when no alert chat is configured.
func (b *Bot) SendMatchAlert(entity domain.FeedEntity, trend *domain.Trend, matchedKeyword string, score int) {
	if b == nil || b.alertChat == 0 {
		return
	}
	msg := fmt.Sprintf(
		"TREND MATCH\n%s ($%s)\nTrend: %s (via %q, score %d)\nAddress: %s",
		entity.Name, entity.Symbol, trend.Keyword, matchedKeyword, score, entity.Address,
	)
	if _, err := b.bot.Send(tele.ChatID(b.alertChat), msg); err != nil {
		log.Printf("failed to send match alert: %v", err)
	}
}
