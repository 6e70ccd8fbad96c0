// Package universe loads the ticker universe from a CSV index file.
package universe

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	apperrors "earnings-bot/internal/errors"
)

// Company maps a ticker symbol to its display name. Column headers
// follow the combined-indexes CSV layout.
type Company struct {
	Ticker string `csv:"Ticker"`
	Name   string `csv:"Company Name"`
}

// Universe is the ordered set of companies to poll. Iteration order is
// file order, so passes are deterministic.
type Universe struct {
	companies []Company
}

// Load reads the universe CSV at path. Rows with an empty ticker are
// skipped; duplicate tickers keep their first occurrence.
func Load(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening universe file: %w", err)
	}
	defer f.Close()

	var rows []*Company
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing universe file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(rows))
	companies := make([]Company, 0, len(rows))
	for _, row := range rows {
		ticker := strings.TrimSpace(row.Ticker)
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		name := strings.TrimSpace(row.Name)
		if name == "" {
			name = ticker
		}
		companies = append(companies, Company{Ticker: ticker, Name: name})
	}

	if len(companies) == 0 {
		return nil, apperrors.ErrUniverseEmpty
	}

	return &Universe{companies: companies}, nil
}

// FromCompanies builds a universe from an in-memory list, for tests and
// embedding callers.
func FromCompanies(companies []Company) *Universe {
	return &Universe{companies: companies}
}

// Companies returns the companies in pass order.
func (u *Universe) Companies() []Company {
	return u.companies
}

// Len returns the number of companies in the universe.
func (u *Universe) Len() int {
	return len(u.companies)
}
