package mcp

import (
	"context"
	"strings"
	"testing"

	"trendwatch/internal/match"
	"trendwatch/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	trends, err := store.NewTrendStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewTrendStore: %v", err)
	}
	ledger, err := store.NewPerformanceLedger(t.TempDir())
	if err != nil {
		t.Fatalf("NewPerformanceLedger: %v", err)
	}
	return NewServer(trends, ledger, match.NewMatcher())
}

func connect(t *testing.T, s *Server) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdk.NewInMemoryTransports()
	if _, err := s.server.Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *sdk.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	var out strings.Builder
	for _, content := range res.Content {
		if text, ok := content.(*sdk.TextContent); ok {
			out.WriteString(text.Text)
		}
	}
	return out.String()
}

func TestToolsAreRegistered(t *testing.T) {
	s := newTestServer(t)
	session := connect(t, s)

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"add_trend", "list_trends", "update_trend", "remove_trend",
		"deactivate_trend", "search_trends", "get_recent_matches",
		"add_coin_data", "list_coin_data", "search_coin_data",
		"delete_coin_data", "get_narrative_analysis", "get_meta_summary",
		"test_trend_match", "set_match_threshold",
	} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}

func TestAddAndListTrendsOverMCP(t *testing.T) {
	s := newTestServer(t)
	session := connect(t, s)

	out := callTool(t, session, "add_trend", map[string]any{
		"keyword":  "vibe coding",
		"priority": 4,
	})
	if !strings.Contains(out, `"keyword": "vibe coding"`) {
		t.Fatalf("unexpected add_trend output: %s", out)
	}

	out = callTool(t, session, "add_trend", map[string]any{"keyword": "VIBE CODING"})
	if !strings.Contains(out, "trend already exists") {
		t.Fatalf("expected duplicate notice, got: %s", out)
	}

	out = callTool(t, session, "list_trends", map[string]any{})
	if !strings.Contains(out, "vibe coding") {
		t.Fatalf("unexpected list_trends output: %s", out)
	}
}

func TestCoinAnalysisOverMCP(t *testing.T) {
	s := newTestServer(t)
	session := connect(t, s)

	callTool(t, session, "add_coin_data", map[string]any{
		"name":         "goatseus",
		"narrative":    "ai agents",
		"peak_mcap":    "500M",
		"time_to_peak": "3 days",
	})

	out := callTool(t, session, "get_narrative_analysis", map[string]any{"narrative": "ai agents"})
	if !strings.Contains(out, "Suggested ceiling: $500M") {
		t.Fatalf("unexpected analysis: %s", out)
	}

	out = callTool(t, session, "get_meta_summary", map[string]any{})
	if !strings.Contains(out, "Meta Analysis Summary") {
		t.Fatalf("unexpected summary: %s", out)
	}
}

func TestThresholdToolClamps(t *testing.T) {
	s := newTestServer(t)
	session := connect(t, s)

	out := callTool(t, session, "set_match_threshold", map[string]any{"threshold": 99})
	if !strings.Contains(out, "90") {
		t.Fatalf("expected clamp to 90, got: %s", out)
	}
	if s.matcher.Threshold() != match.MaxThreshold {
		t.Fatalf("matcher not updated: %d", s.matcher.Threshold())
	}
}
