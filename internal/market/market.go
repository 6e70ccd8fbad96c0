// Package market provides access to the external market data source.
package market

import (
	"context"
	"time"
)

// Summary carries the slice of per-ticker market data the bot consumes:
// the company's display name and its earnings calendar. EarningsDates
// are in the source's own order; the source is assumed to return them
// ascending.
type Summary struct {
	CompanyName   string
	EarningsDates []time.Time
}

// Client defines the market data operation the bot depends on. One call
// covers both the profile and the calendar so a polling pass costs a
// single request per ticker.
type Client interface {
	QuoteSummary(ctx context.Context, ticker string) (Summary, error)
}
