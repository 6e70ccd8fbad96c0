// Package detect normalizes market data into candidate earnings events.
package detect

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	apperrors "earnings-bot/internal/errors"
	"earnings-bot/internal/market"
	"earnings-bot/internal/models"
)

// sourceLinkTemplate composes the event link deterministically from the
// ticker.
const sourceLinkTemplate = "https://finance.yahoo.com/quote/%s/events?p=%s"

// Detector queries the market data source and produces candidate events.
type Detector struct {
	market market.Client
	logger zerolog.Logger
}

// New creates a Detector backed by the given market data client.
func New(client market.Client, logger zerolog.Logger) *Detector {
	return &Detector{market: client, logger: logger}
}

// Detect returns the latest earnings event for a ticker, or nil when the
// calendar has no entries. The last calendar entry is taken as the
// latest date; the source is assumed (not verified) to return entries in
// ascending order. Market data failures are returned as DetectionError
// for the caller to treat as "no event detected" this cycle.
func (d *Detector) Detect(ctx context.Context, ticker, companyName string) (*models.EarningsEvent, error) {
	summary, err := d.market.QuoteSummary(ctx, ticker)
	if err != nil {
		return nil, apperrors.NewDetectionError(ticker, err)
	}
	if len(summary.EarningsDates) == 0 {
		d.logger.Debug().Str("ticker", ticker).Msg("no upcoming earnings")
		return nil, nil
	}

	name := summary.CompanyName
	if name == "" {
		name = companyName
	}
	if name == "" {
		name = ticker
	}

	latest := summary.EarningsDates[len(summary.EarningsDates)-1]

	return &models.EarningsEvent{
		Ticker:         ticker,
		CompanyName:    name,
		Period:         models.QuarterOfMonth(latest.Month()),
		FiscalYear:     latest.Year(),
		DisclosureDate: latest,
		SourceLink:     fmt.Sprintf(sourceLinkTemplate, ticker, ticker),
	}, nil
}
