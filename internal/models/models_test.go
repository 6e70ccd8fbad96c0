package models

import (
	"testing"
	"time"
)

func TestQuarterOfMonth(t *testing.T) {
	cases := []struct {
		month time.Month
		want  Quarter
	}{
		{time.January, Q1},
		{time.March, Q1},
		{time.April, Q2},
		{time.June, Q2},
		{time.July, Q3},
		{time.September, Q3},
		{time.October, Q4},
		{time.December, Q4},
	}

	for _, tc := range cases {
		if got := QuarterOfMonth(tc.month); got != tc.want {
			t.Errorf("QuarterOfMonth(%s) = %s, want %s", tc.month, got, tc.want)
		}
	}
}

func TestEventAndRecordShareKey(t *testing.T) {
	event := EarningsEvent{
		Ticker:     "ACME",
		Period:     Q2,
		FiscalYear: 2024,
	}
	record := ProcessedRecord{
		Ticker:     "ACME",
		Period:     Q2,
		FiscalYear: 2024,
	}

	if event.Key() != record.Key() {
		t.Errorf("event key %v != record key %v", event.Key(), record.Key())
	}
	if event.Key().String() != "ACME/Q2/2024" {
		t.Errorf("unexpected key string: %s", event.Key().String())
	}
}
