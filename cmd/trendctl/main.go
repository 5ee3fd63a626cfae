// Command trendctl manages the trend store and performance ledger from the
// shell, working against the same data directory as the server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"trendwatch/internal/store"

	"github.com/joho/godotenv"
)

const (
	cmdAdd        = "add"
	cmdList       = "list"
	cmdSearch     = "search"
	cmdRemove     = "remove"
	cmdDeactivate = "deactivate"
	cmdMatches    = "matches"
	cmdKeywords   = "keywords"
	cmdAddCoin    = "addcoin"
	cmdCoins      = "coins"
	cmdMeta       = "meta"
)

var (
	loadEnvFunc              = godotenv.Load
	newTrendStoreFunc        = store.NewTrendStore
	newPerformanceLedgerFunc = store.NewPerformanceLedger
)

func main() {
	loadEnvFunc()

	if len(os.Args) < 2 {
		log.Fatalf("usage: trendctl [add|list|search|remove|deactivate|matches|keywords|addcoin|coins|meta] ...")
	}

	dataDir := os.Getenv("DATA_DIR")
	if strings.TrimSpace(dataDir) == "" {
		dataDir = "./data"
	}

	trends, err := newTrendStoreFunc(dataDir)
	if err != nil {
		log.Fatalf("open trend store: %v", err)
	}
	ledger, err := newPerformanceLedgerFunc(dataDir)
	if err != nil {
		log.Fatalf("open performance ledger: %v", err)
	}

	switch os.Args[1] {
	case cmdAdd:
		runAdd(trends, os.Args[2:])
	case cmdList:
		runList(trends, os.Args[2:])
	case cmdSearch:
		runSearch(trends, os.Args[2:])
	case cmdRemove:
		runRemove(trends, os.Args[2:])
	case cmdDeactivate:
		runDeactivate(trends, os.Args[2:])
	case cmdMatches:
		runMatches(trends, os.Args[2:])
	case cmdKeywords:
		runKeywords(trends)
	case cmdAddCoin:
		runAddCoin(ledger, os.Args[2:])
	case cmdCoins:
		runCoins(ledger, os.Args[2:])
	case cmdMeta:
		runMeta(ledger, os.Args[2:])
	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}
}

func runAdd(trends *store.TrendStore, args []string) {
	fs := flag.NewFlagSet(cmdAdd, flag.ExitOnError)
	description := fs.String("description", "", "context about the trend")
	source := fs.String("source", "manual", "where the trend was found")
	aliases := fs.String("aliases", "", "comma-separated alternative spellings")
	priority := fs.Int("priority", 3, "priority 1-5")
	fs.Parse(args)

	if fs.NArg() < 1 {
		log.Fatal("usage: trendctl add <keyword> [flags]")
	}
	keyword := fs.Arg(0)

	trend, err := trends.AddTrend(keyword, *description, *source, splitAliases(*aliases), *priority)
	if errors.Is(err, store.ErrDuplicateTrend) {
		log.Fatalf("trend %q already exists (id %d)", trend.Keyword, trend.ID)
	}
	if err != nil {
		log.Fatalf("add trend: %v", err)
	}
	fmt.Printf("added trend #%d %q (priority %d)\n", trend.ID, trend.Keyword, trend.Priority)
}

func runList(trends *store.TrendStore, args []string) {
	fs := flag.NewFlagSet(cmdList, flag.ExitOnError)
	all := fs.Bool("all", false, "include deactivated trends")
	fs.Parse(args)

	list, err := trends.GetAllTrends(!*all)
	if err != nil {
		log.Fatalf("list trends: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("no trends tracked")
		return
	}
	for _, t := range list {
		status := "active"
		if !t.Active {
			status = "inactive"
		}
		fmt.Printf("#%d [p%d %s] %s", t.ID, t.Priority, status, t.Keyword)
		if len(t.Aliases) > 0 {
			fmt.Printf(" (aka %s)", strings.Join(t.Aliases, ", "))
		}
		if t.MatchCount > 0 {
			fmt.Printf(" — %d matches", t.MatchCount)
		}
		fmt.Println()
	}
}

func runSearch(trends *store.TrendStore, args []string) {
	if len(args) < 1 {
		log.Fatal("usage: trendctl search <query>")
	}
	list, err := trends.SearchTrends(strings.Join(args, " "))
	if err != nil {
		log.Fatalf("search trends: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("no trends matched")
		return
	}
	for _, t := range list {
		fmt.Printf("#%d %s — %s\n", t.ID, t.Keyword, t.Description)
	}
}

func runRemove(trends *store.TrendStore, args []string) {
	id := parseID(args, "trendctl remove <id>")
	removed, err := trends.DeleteTrend(id)
	if err != nil {
		log.Fatalf("remove trend: %v", err)
	}
	if !removed {
		log.Fatalf("no trend with id %d", id)
	}
	fmt.Printf("removed trend #%d\n", id)
}

func runDeactivate(trends *store.TrendStore, args []string) {
	id := parseID(args, "trendctl deactivate <id>")
	ok, err := trends.DeactivateTrend(id)
	if err != nil {
		log.Fatalf("deactivate trend: %v", err)
	}
	if !ok {
		log.Fatalf("no trend with id %d", id)
	}
	fmt.Printf("deactivated trend #%d\n", id)
}

func runMatches(trends *store.TrendStore, args []string) {
	fs := flag.NewFlagSet(cmdMatches, flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of matches to show")
	fs.Parse(args)

	matches, err := trends.RecentMatches(*limit)
	if err != nil {
		log.Fatalf("recent matches: %v", err)
	}
	if len(matches) == 0 {
		fmt.Println("no matches recorded")
		return
	}
	for _, m := range matches {
		fmt.Printf("%s  %s matched %q (trend #%d)\n",
			m.MatchedAt.Format("2006-01-02 15:04"), m.CoinName, m.MatchedKeyword, m.TrendID)
	}
}

func runKeywords(trends *store.TrendStore) {
	keywords, err := trends.GetAllKeywords()
	if err != nil {
		log.Fatalf("keywords: %v", err)
	}
	for _, k := range keywords {
		fmt.Println(k)
	}
}

func runAddCoin(ledger *store.PerformanceLedger, args []string) {
	fs := flag.NewFlagSet(cmdAddCoin, flag.ExitOnError)
	narrative := fs.String("narrative", "", "narrative category, e.g. 'ai agents'")
	peak := fs.String("peak", "", "peak market cap, e.g. '500M'")
	timeToPeak := fs.String("time", "", "time to peak, e.g. '3 days'")
	notes := fs.String("notes", "", "free-form notes")
	address := fs.String("address", "", "coin contract address")
	entry := fs.String("entry", "", "entry market cap")
	exit := fs.String("exit", "", "exit market cap")
	fs.Parse(args)

	if fs.NArg() < 1 || *narrative == "" || *peak == "" || *timeToPeak == "" {
		log.Fatal("usage: trendctl addcoin <name> -narrative <n> -peak <mcap> -time <dur> [flags]")
	}

	coin, err := ledger.AddCoin(store.CoinInput{
		Name:        fs.Arg(0),
		Narrative:   *narrative,
		PeakMcap:    *peak,
		TimeToPeak:  *timeToPeak,
		Notes:       *notes,
		CoinAddress: *address,
		EntryMcap:   *entry,
		ExitMcap:    *exit,
	})
	if err != nil {
		log.Fatalf("add coin: %v", err)
	}
	fmt.Printf("recorded %s under %q (peak %s)\n",
		coin.Name, coin.Narrative, store.FormatMarketCap(coin.PeakMcapNumeric))
}

func runCoins(ledger *store.PerformanceLedger, args []string) {
	fs := flag.NewFlagSet(cmdCoins, flag.ExitOnError)
	narrative := fs.String("narrative", "", "filter by narrative")
	fs.Parse(args)

	coins, err := ledger.GetAllCoins(*narrative)
	if err != nil {
		log.Fatalf("list coins: %v", err)
	}
	if len(coins) == 0 {
		fmt.Println("no coins recorded")
		return
	}
	for _, c := range coins {
		fmt.Printf("#%d %s [%s] peak %s in %s\n",
			c.ID, c.Name, c.Narrative, c.PeakMcap, c.TimeToPeak)
	}
}

func runMeta(ledger *store.PerformanceLedger, args []string) {
	if len(args) > 0 {
		summary, err := ledger.NarrativeSummary(strings.Join(args, " "))
		if err != nil {
			log.Fatalf("narrative summary: %v", err)
		}
		fmt.Println(summary)
		return
	}
	summary, err := ledger.OverallSummary()
	if err != nil {
		log.Fatalf("overall summary: %v", err)
	}
	fmt.Println(summary)
}

func parseID(args []string, usage string) int64 {
	if len(args) < 1 {
		log.Fatalf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		log.Fatalf("invalid id %q", args[0])
	}
	return id
}

func splitAliases(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	aliases := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			aliases = append(aliases, trimmed)
		}
	}
	return aliases
}
