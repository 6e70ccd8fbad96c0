package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const summaryBody = `{
  "quoteSummary": {
    "result": [
      {
        "price": {"longName": "Acme Corporation", "shortName": "Acme"},
        "calendarEvents": {
          "earnings": {
            "earningsDate": [
              {"raw": 1714521600},
              {"raw": 1722470400}
            ]
          }
        }
      }
    ],
    "error": null
  }
}`

func TestQuoteSummary(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/v10/finance/quoteSummary/ACME" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(summaryBody))
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)
	summary, err := client.QuoteSummary(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("QuoteSummary: %v", err)
	}
	if summary.CompanyName != "Acme Corporation" {
		t.Errorf("unexpected name: %s", summary.CompanyName)
	}
	if len(summary.EarningsDates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(summary.EarningsDates))
	}
	want := time.Unix(1722470400, 0).UTC()
	if !summary.EarningsDates[1].Equal(want) {
		t.Errorf("expected %v, got %v", want, summary.EarningsDates[1])
	}
	// Profile and calendar come from the same response.
	if requests.Load() != 1 {
		t.Errorf("expected 1 request, got %d", requests.Load())
	}
}

func TestQuoteSummaryShortNameFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{"price":{"shortName":"Acme"},"calendarEvents":{"earnings":{"earningsDate":[{"raw": 1714521600}]}}}],"error":null}}`))
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)
	summary, err := client.QuoteSummary(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("QuoteSummary: %v", err)
	}
	if summary.CompanyName != "Acme" {
		t.Errorf("expected shortName fallback, got %q", summary.CompanyName)
	}
}

func TestQuoteSummaryEmptyCalendar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{"price":{"longName":"Acme"},"calendarEvents":{"earnings":{"earningsDate":[]}}}],"error":null}}`))
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)
	summary, err := client.QuoteSummary(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("QuoteSummary: %v", err)
	}
	if len(summary.EarningsDates) != 0 {
		t.Fatalf("expected no dates, got %d", len(summary.EarningsDates))
	}
}

func TestQuoteSummaryHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)
	if _, err := client.QuoteSummary(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error on HTTP 404")
	}
}

func TestQuoteSummaryAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer server.Close()

	client := NewYahooClient(server.URL)
	if _, err := client.QuoteSummary(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error on API error payload")
	}
}
