package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trendwatch/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const pumpFunBaseURL = "https://frontend-api.pump.fun"

// graduatedPageSize is how many recently graduated coins each poll asks for.
const graduatedPageSize = 50

// PumpFunProvider fetches coins that graduated from pump.fun to Raydium.
// These are the entities the match engine screens against tracked trends.
type PumpFunProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewPumpFunProvider creates a provider with built-in rate limiting.
// Rate limited to 10 requests per minute (one token every 6 seconds).
func NewPumpFunProvider(tracer trace.Tracer) *PumpFunProvider {
	return &PumpFunProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: pumpFunBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(10, 6*time.Second),
	}
}

// FetchGraduated fetches the latest page of graduated coins.
func (p *PumpFunProvider) FetchGraduated(ctx context.Context) ([]domain.FeedEntity, error) {
	_, span := p.tracer.Start(ctx, "pumpfun.fetch-graduated")
	defer span.End()

	url := fmt.Sprintf("%s/coins/graduated?limit=%d&offset=0", p.baseURL, graduatedPageSize)

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch graduated coins: %w", err)
	}

	// Response shape: [{"mint": "...", "name": "...", "symbol": "..."}, ...]
	// Older payloads carry "address" instead of "mint".
	var raw []struct {
		Mint    string `json:"mint"`
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse graduated coins: %w", err)
	}

	entities := make([]domain.FeedEntity, 0, len(raw))
	for _, coin := range raw {
		address := coin.Mint
		if address == "" {
			address = coin.Address
		}
		entities = append(entities, domain.FeedEntity{
			Name:    coin.Name,
			Symbol:  coin.Symbol,
			Address: address,
		})
	}
	return entities, nil
}

func (p *PumpFunProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pump.fun API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
