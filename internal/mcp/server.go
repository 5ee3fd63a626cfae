// Package mcp exposes the trend store, performance ledger and match
// diagnostics as MCP tools, so an external AI assistant can read and write
// the same state the engine works against.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"trendwatch/internal/match"
	"trendwatch/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	server  *sdk.Server
	trends  *store.TrendStore
	ledger  *store.PerformanceLedger
	matcher *match.Matcher
}

func NewServer(trends *store.TrendStore, ledger *store.PerformanceLedger, matcher *match.Matcher) *Server {
	s := &Server{
		server:  sdk.NewServer(&sdk.Implementation{Name: "trendwatch", Version: "1.0.0"}, nil),
		trends:  trends,
		ledger:  ledger,
		matcher: matcher,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

func textResult(text string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}
}

func jsonResult(v any) (*sdk.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}

type addTrendInput struct {
	Keyword     string   `json:"keyword" jsonschema:"the trend keyword to track, e.g. 'vibe coding'"`
	Description string   `json:"description,omitempty" jsonschema:"context about this trend"`
	Source      string   `json:"source,omitempty" jsonschema:"where this trend was found"`
	Aliases     []string `json:"aliases,omitempty" jsonschema:"alternative spellings or variations"`
	Priority    int      `json:"priority,omitempty" jsonschema:"priority 1-5, higher is more important"`
}

type listTrendsInput struct {
	ActiveOnly *bool `json:"active_only,omitempty" jsonschema:"only return active trends (default true)"`
}

type trendIDInput struct {
	TrendID int64 `json:"trend_id" jsonschema:"the trend id"`
}

type updateTrendInput struct {
	TrendID     int64     `json:"trend_id" jsonschema:"the trend id to update"`
	Keyword     *string   `json:"keyword,omitempty"`
	Description *string   `json:"description,omitempty"`
	Source      *string   `json:"source,omitempty"`
	Aliases     *[]string `json:"aliases,omitempty"`
	Priority    *int      `json:"priority,omitempty"`
	Active      *bool     `json:"active,omitempty"`
}

type queryInput struct {
	Query string `json:"query" jsonschema:"search query"`
}

type limitInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"max results (default 20)"`
}

type addCoinInput struct {
	Name        string `json:"name" jsonschema:"coin name or ticker"`
	Narrative   string `json:"narrative" jsonschema:"meta category, e.g. ai_agents, animal, celebrity"`
	PeakMcap    string `json:"peak_mcap" jsonschema:"peak market cap reached, e.g. '500M'"`
	TimeToPeak  string `json:"time_to_peak" jsonschema:"time to reach peak, e.g. '3 days'"`
	Notes       string `json:"notes,omitempty"`
	CoinAddress string `json:"coin_address,omitempty"`
	EntryMcap   string `json:"entry_mcap,omitempty"`
	ExitMcap    string `json:"exit_mcap,omitempty"`
}

type narrativeInput struct {
	Narrative string `json:"narrative,omitempty" jsonschema:"narrative to analyze; empty for all"`
}

type coinIDInput struct {
	CoinID int64 `json:"coin_id" jsonschema:"the coin record id"`
}

type listCoinsInput struct {
	Narrative string `json:"narrative,omitempty" jsonschema:"optional narrative filter"`
}

type testMatchInput struct {
	Name string `json:"name" jsonschema:"coin name to score against tracked trends"`
}

type thresholdInput struct {
	Threshold int `json:"threshold" jsonschema:"new fuzzy threshold, clamped to 30-90"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "add_trend",
		Description: "Add a new trend/keyword to track for coin matching",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in addTrendInput) (*sdk.CallToolResult, any, error) {
		t, err := s.trends.AddTrend(in.Keyword, in.Description, in.Source, in.Aliases, in.Priority)
		if errors.Is(err, store.ErrDuplicateTrend) {
			res, jerr := jsonResult(map[string]any{"error": "trend already exists", "existing": t})
			return res, nil, jerr
		}
		if err != nil {
			return nil, nil, err
		}
		res, err := jsonResult(t)
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "list_trends",
		Description: "List all tracked trends sorted by priority",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in listTrendsInput) (*sdk.CallToolResult, any, error) {
		activeOnly := in.ActiveOnly == nil || *in.ActiveOnly
		trends, err := s.trends.GetAllTrends(activeOnly)
		if err != nil {
			return nil, nil, err
		}
		res, err := jsonResult(trends)
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "update_trend",
		Description: "Update a trend's details; omitted fields are left unchanged",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in updateTrendInput) (*sdk.CallToolResult, any, error) {
		fields := map[string]any{}
		if in.Keyword != nil {
			fields["keyword"] = *in.Keyword
		}
		if in.Description != nil {
			fields["description"] = *in.Description
		}
		if in.Source != nil {
			fields["source"] = *in.Source
		}
		if in.Aliases != nil {
			fields["aliases"] = *in.Aliases
		}
		if in.Priority != nil {
			fields["priority"] = *in.Priority
		}
		if in.Active != nil {
			fields["active"] = *in.Active
		}
		t, err := s.trends.UpdateTrend(in.TrendID, fields)
		if err != nil {
			return nil, nil, err
		}
		if t == nil {
			return textResult(fmt.Sprintf("Trend %d not found", in.TrendID)), nil, nil
		}
		res, err := jsonResult(t)
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "remove_trend",
		Description: "Permanently delete a trend",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in trendIDInput) (*sdk.CallToolResult, any, error) {
		ok, err := s.trends.DeleteTrend(in.TrendID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return textResult(fmt.Sprintf("Trend %d not found", in.TrendID)), nil, nil
		}
		return textResult(fmt.Sprintf("Trend %d deleted", in.TrendID)), nil, nil
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "deactivate_trend",
		Description: "Soft-remove a trend from the matching corpus; it stays searchable",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in trendIDInput) (*sdk.CallToolResult, any, error) {
		ok, err := s.trends.DeactivateTrend(in.TrendID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return textResult(fmt.Sprintf("Trend %d not found", in.TrendID)), nil, nil
		}
		return textResult(fmt.Sprintf("Trend %d deactivated", in.TrendID)), nil, nil
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "search_trends",
		Description: "Search trends by keyword, description or alias",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in queryInput) (*sdk.CallToolResult, any, error) {
		results, err := s.trends.SearchTrends(in.Query)
		if err != nil {
			return nil, nil, err
		}
		res, err := jsonResult(results)
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_recent_matches",
		Description: "Get recent coin matches, newest first",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in limitInput) (*sdk.CallToolResult, any, error) {
		matches, err := s.trends.RecentMatches(in.Limit)
		if err != nil {
			return nil, nil, err
		}
		res, err := jsonResult(matches)
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "add_coin_data",
		Description: "Record a coin performance outcome for narrative analysis",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in addCoinInput) (*sdk.CallToolResult, any, error) {
		coin, err := s.ledger.AddCoin(store.CoinInput{
			Name:        in.Name,
			Narrative:   in.Narrative,
			PeakMcap:    in.PeakMcap,
			TimeToPeak:  in.TimeToPeak,
			Notes:       in.Notes,
			CoinAddress: in.CoinAddress,
			EntryMcap:   in.EntryMcap,
			ExitMcap:    in.ExitMcap,
		})
		if err != nil {
			return nil, nil, err
		}
		res, err := jsonResult(coin)
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "list_coin_data",
		Description: "List coin performance records, optionally filtered by narrative",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in listCoinsInput) (*sdk.CallToolResult, any, error) {
		coins, err := s.ledger.GetAllCoins(in.Narrative)
		if err != nil {
			return nil, nil, err
		}
		res, err := jsonResult(coins)
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "search_coin_data",
		Description: "Search coin records by name or notes",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in queryInput) (*sdk.CallToolResult, any, error) {
		results, err := s.ledger.SearchCoins(in.Query)
		if err != nil {
			return nil, nil, err
		}
		res, err := jsonResult(results)
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "delete_coin_data",
		Description: "Delete a coin performance record",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in coinIDInput) (*sdk.CallToolResult, any, error) {
		ok, err := s.ledger.DeleteCoin(in.CoinID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return textResult(fmt.Sprintf("Coin record %d not found", in.CoinID)), nil, nil
		}
		return textResult(fmt.Sprintf("Coin record %d deleted", in.CoinID)), nil, nil
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_narrative_analysis",
		Description: "Get the aggregate analysis for one narrative, or all narratives",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in narrativeInput) (*sdk.CallToolResult, any, error) {
		if in.Narrative == "" {
			all, err := s.ledger.AllMetaAnalyses()
			if err != nil {
				return nil, nil, err
			}
			res, err := jsonResult(all)
			return res, nil, err
		}
		summary, err := s.ledger.NarrativeSummary(in.Narrative)
		if err != nil {
			return nil, nil, err
		}
		return textResult(summary), nil, nil
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_meta_summary",
		Description: "Get the performance summary across all narratives",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in struct{}) (*sdk.CallToolResult, any, error) {
		summary, err := s.ledger.OverallSummary()
		if err != nil {
			return nil, nil, err
		}
		return textResult(summary), nil, nil
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "test_trend_match",
		Description: "Score a coin name against all tracked keywords without recording anything; tuning aid",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in testMatchInput) (*sdk.CallToolResult, any, error) {
		idx, err := s.trends.KeywordIndex()
		if err != nil {
			return nil, nil, err
		}
		res, err := jsonResult(map[string]any{
			"threshold":  s.matcher.Threshold(),
			"candidates": s.matcher.TestMatch(in.Name, idx),
		})
		return res, nil, err
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "set_match_threshold",
		Description: "Adjust the fuzzy match threshold (clamped to 30-90)",
	}, func(ctx context.Context, req *sdk.CallToolRequest, in thresholdInput) (*sdk.CallToolResult, any, error) {
		return textResult(fmt.Sprintf("Match threshold set to %d", s.matcher.AdjustThreshold(in.Threshold))), nil, nil
	})
}
