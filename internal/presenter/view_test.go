package presenter

import (
	"testing"
	"time"

	"StockPulse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(suggestion string) *model.StockSnapshot {
	return &model.StockSnapshot{
		Symbol:        "RELIANCE.NS",
		LTP:           2874.35,
		Avg50:         2801.2,
		Avg200:        2650,
		PseudoRSI:     57.4,
		ChangePercent: 0.456,
		Volume:        12345678,
		Entry:         2850,
		Target:        150000,
		StopLoss:      1000,
		Suggestion:    suggestion,
		Reason:        "Holding above the 50-day average",
		News: []model.NewsItem{
			{Title: "Q2 results", Link: "https://example.com/q2", PubDate: "Tue, 14 Oct 2025 04:30:00 +0000"},
			{Title: "Undated", Link: "https://example.com/u", PubDate: "sometime"},
		},
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, BadgePositive, Classify("BUY"))
	assert.Equal(t, BadgeAlert, Classify("SELL"))
	assert.Equal(t, BadgeNeutral, Classify("HOLD"))
	assert.Equal(t, BadgeNeutral, Classify("buy"), "matching is case-sensitive")
	assert.Equal(t, BadgeNeutral, Classify(""))
}

func TestAlertFor(t *testing.T) {
	alert, ok := AlertFor(sampleSnapshot("BUY"))
	require.True(t, ok)
	assert.Equal(t, model.AlertPositive, alert.Kind)
	assert.Equal(t, BuyMessage, alert.Message)

	alert, ok = AlertFor(sampleSnapshot("SELL"))
	require.True(t, ok)
	assert.Equal(t, model.AlertNegative, alert.Kind)
	assert.Equal(t, SellMessage, alert.Message)

	for _, s := range []string{"HOLD", "Sell", "STRONG BUY", ""} {
		_, ok := AlertFor(sampleSnapshot(s))
		assert.False(t, ok, s)
	}
}

func TestBuildMetrics(t *testing.T) {
	got := BuildMetrics(sampleSnapshot("HOLD"))

	assert.Equal(t, []Metric{
		{"Current Price", "₹2874.35"},
		{"50 Day Avg", "₹2801.2"},
		{"200 Day Avg", "₹2650"},
		{"RSI", "57.4"},
		{"Change %", "0.46%"},
		{"Volume", "1.23Cr"},
		{"Entry", "2.85K"},
		{"Target", "1.50L"},
		{"StopLoss", "1000"},
	}, got)
}

func TestBuildMetrics_PricesNeverAbbreviated(t *testing.T) {
	snap := sampleSnapshot("HOLD")
	snap.LTP = 25000000
	got := BuildMetrics(snap)
	assert.Equal(t, "₹25000000", got[0].Value)
}

func TestBuildView(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+30*60)
	status := model.SessionStatus{NextOpen: time.Date(2025, time.October, 14, 9, 15, 0, 0, loc)}

	v := BuildView(sampleSnapshot("SELL"), status, loc)

	assert.Equal(t, "📴 Market is closed. It will open on Tuesday, 14 Oct at 9:15 AM", v.Banner)
	assert.Equal(t, BadgeAlert, v.Badge)
	assert.Equal(t, "SELL", v.Suggestion)
	require.NotNil(t, v.Chart)
	assert.Equal(t, "RELIANCE.NS Price Trend", v.Chart.Title)
	assert.Equal(t, []model.TrendPoint{
		{Label: "200-Day Avg", Value: 2650},
		{Label: "50-Day Avg", Value: 2801.2},
		{Label: "Current", Value: 2874.35},
	}, v.Chart.Points)
	require.Len(t, v.News, 2)
	assert.Equal(t, "14 Oct 2025, 10:00", v.News[0].Published)
	assert.Equal(t, "sometime", v.News[1].Published)
}

func TestBuildView_NoSnapshot(t *testing.T) {
	v := BuildView(nil, model.SessionStatus{Open: true}, nil)
	assert.Empty(t, v.Banner)
	assert.Nil(t, v.Snapshot)
	assert.Nil(t, v.Chart)
	assert.Empty(t, v.Metrics)
}
