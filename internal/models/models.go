// Package models provides domain models for the earnings bot.
package models

import (
	"fmt"
	"time"
)

// Quarter represents a fiscal quarter label.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// QuarterOfMonth maps a calendar month to its civil quarter
// (Jan-Mar = Q1, Apr-Jun = Q2, Jul-Sep = Q3, Oct-Dec = Q4).
// This is the calendar convention, not the company's own fiscal
// calendar; companies with non-calendar fiscal years are misclassified.
func QuarterOfMonth(m time.Month) Quarter {
	switch {
	case m <= time.March:
		return Q1
	case m <= time.June:
		return Q2
	case m <= time.September:
		return Q3
	default:
		return Q4
	}
}

// EventKey identifies one earnings disclosure for deduplication.
// At most one processed record may exist per key.
type EventKey struct {
	Ticker     string
	Period     Quarter
	FiscalYear int
}

// String returns the key in ticker/period/year form for logs.
func (k EventKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Ticker, k.Period, k.FiscalYear)
}

// EarningsEvent describes one earnings disclosure detected for a ticker.
// Events are constructed fresh on each detection pass and never mutated.
type EarningsEvent struct {
	Ticker         string
	CompanyName    string
	Period         Quarter
	FiscalYear     int
	DisclosureDate time.Time
	SourceLink     string
}

// Key returns the dedup key for the event.
func (e EarningsEvent) Key() EventKey {
	return EventKey{Ticker: e.Ticker, Period: e.Period, FiscalYear: e.FiscalYear}
}

// ProcessedRecord is durable proof that an event was fully handled.
// Records are created only after a thread has been published in full
// and are never updated or deleted.
type ProcessedRecord struct {
	Ticker      string    `json:"ticker"`
	Period      Quarter   `json:"quarter"`
	FiscalYear  int       `json:"year"`
	Link        string    `json:"link"`
	ProcessedAt time.Time `json:"timestamp"`
}

// Key returns the dedup key for the record.
func (r ProcessedRecord) Key() EventKey {
	return EventKey{Ticker: r.Ticker, Period: r.Period, FiscalYear: r.FiscalYear}
}

// SummaryThread is an ordered sequence of post bodies derived from one
// event. It is produced by the generator, consumed immediately by the
// publisher, and not persisted.
type SummaryThread struct {
	Event EarningsEvent
	Posts []string
}
