package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// YahooClient implements Client against the Yahoo Finance quote-summary
// endpoint.
type YahooClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = (*YahooClient)(nil)

// NewYahooClient creates a market data client. An empty baseURL uses the
// public Yahoo Finance endpoint.
func NewYahooClient(baseURL string) *YahooClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &YahooClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// quoteSummary mirrors the slice of the response the bot consumes.
type quoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"price"`
			CalendarEvents struct {
				Earnings struct {
					EarningsDate []struct {
						Raw int64 `json:"raw"`
					} `json:"earningsDate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummary fetches the company display name and earnings calendar
// for a ticker in one request. An empty calendar is not an error.
func (c *YahooClient) QuoteSummary(ctx context.Context, ticker string) (Summary, error) {
	summary, err := c.fetchSummary(ctx, ticker)
	if err != nil {
		return Summary{}, err
	}
	result := summary.QuoteSummary.Result[0]

	name := result.Price.LongName
	if name == "" {
		name = result.Price.ShortName
	}

	entries := result.CalendarEvents.Earnings.EarningsDate
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if e.Raw == 0 {
			continue
		}
		dates = append(dates, time.Unix(e.Raw, 0).UTC())
	}

	return Summary{CompanyName: name, EarningsDates: dates}, nil
}

func (c *YahooClient) fetchSummary(ctx context.Context, ticker string) (*quoteSummary, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price%%2CcalendarEvents",
		c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating quote request: %w", err)
	}
	req.Header.Set("User-Agent", "earnings-bot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching quote summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("quote summary for %s returned %s: %s",
			ticker, resp.Status, strings.TrimSpace(string(payload)))
	}

	var summary quoteSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decoding quote summary: %w", err)
	}

	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary for %s: %s", ticker, summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quote summary for %s: empty result", ticker)
	}

	return &summary, nil
}
