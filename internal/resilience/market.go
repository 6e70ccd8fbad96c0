package resilience

import (
	"context"

	"earnings-bot/internal/market"
)

// ResilientMarketClient wraps a market.Client with a circuit breaker.
// When the market data source starts failing wholesale, remaining
// tickers in a pass fail fast instead of each waiting out an HTTP
// timeout.
type ResilientMarketClient struct {
	client  market.Client
	breaker *CircuitBreaker
}

var _ market.Client = (*ResilientMarketClient)(nil)

// NewResilientMarketClient wraps client with default breaker settings.
func NewResilientMarketClient(client market.Client) *ResilientMarketClient {
	return &ResilientMarketClient{
		client:  client,
		breaker: NewCircuitBreaker("market", DefaultCircuitBreakerConfig()),
	}
}

// QuoteSummary fetches the per-ticker market data under the breaker.
func (c *ResilientMarketClient) QuoteSummary(ctx context.Context, ticker string) (market.Summary, error) {
	return ExecuteWithResult(c.breaker, ctx, func() (market.Summary, error) {
		return c.client.QuoteSummary(ctx, ticker)
	})
}

// State exposes the breaker state for logging.
func (c *ResilientMarketClient) State() CircuitState {
	return c.breaker.State()
}
