// Package presenter turns a fetched snapshot and the session status into the
// dashboard view model.
package presenter

import (
	"strconv"
	"time"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
	"StockPulse/internal/session"
)

// BadgeCategory is the visual treatment of the recommendation badge.
type BadgeCategory string

const (
	BadgeAlert    BadgeCategory = "alert"
	BadgePositive BadgeCategory = "positive"
	BadgeNeutral  BadgeCategory = "neutral"
)

// User-facing texts.
const (
	ErrorMessage = "Stock not found or API error"
	BuyMessage   = "📈 Good time to BUY!"
	SellMessage  = "📉 Consider SELLING!"
)

// CurrencySymbol prefixes raw price fields.
const CurrencySymbol = "₹"

// NewsTimeLayout is used for news items whose pubDate parses.
const NewsTimeLayout = "02 Jan 2006, 15:04"

// Metric is one labelled line of the metric list.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Chart is what the charting collaborator receives.
type Chart struct {
	Title  string             `json:"title"`
	Points []model.TrendPoint `json:"points"`
}

// NewsEntry is a news item ready for display.
type NewsEntry struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// View is the complete dashboard view model.
type View struct {
	Banner     string               `json:"banner,omitempty"`
	Session    model.SessionStatus  `json:"session"`
	Snapshot   *model.StockSnapshot `json:"snapshot"`
	Metrics    []Metric             `json:"metrics,omitempty"`
	Suggestion string               `json:"suggestion,omitempty"`
	Badge      BadgeCategory        `json:"badge,omitempty"`
	Reason     string               `json:"reason,omitempty"`
	Chart      *Chart               `json:"chart,omitempty"`
	News       []NewsEntry          `json:"news,omitempty"`
	Error      string               `json:"error,omitempty"`
	Loading    bool                 `json:"loading"`
	UpdatedAt  time.Time            `json:"updated_at,omitempty"`
}

// Classify maps a suggestion to its badge. Matching is exact and
// case-sensitive.
func Classify(suggestion string) BadgeCategory {
	switch suggestion {
	case model.SuggestionSell:
		return BadgeAlert
	case model.SuggestionBuy:
		return BadgePositive
	default:
		return BadgeNeutral
	}
}

// AlertFor returns the alert a snapshot warrants: positive for BUY, negative
// for SELL, none otherwise.
func AlertFor(snap *model.StockSnapshot) (model.Alert, bool) {
	switch snap.Suggestion {
	case model.SuggestionBuy:
		return model.Alert{Kind: model.AlertPositive, Message: BuyMessage, Symbol: snap.Symbol}, true
	case model.SuggestionSell:
		return model.Alert{Kind: model.AlertNegative, Message: SellMessage, Symbol: snap.Symbol}, true
	default:
		return model.Alert{}, false
	}
}

// FailureAlert is emitted once per failed search.
func FailureAlert(symbol string) model.Alert {
	return model.Alert{Kind: model.AlertNegative, Message: ErrorMessage, Symbol: symbol}
}

// BuildMetrics renders the metric list. Prices stay raw; volume and the
// entry/target/stop-loss levels go through FormatMagnitude.
func BuildMetrics(snap *model.StockSnapshot) []Metric {
	return []Metric{
		{"Current Price", CurrencySymbol + calculator.FormatRaw(snap.LTP)},
		{"50 Day Avg", CurrencySymbol + calculator.FormatRaw(snap.Avg50)},
		{"200 Day Avg", CurrencySymbol + calculator.FormatRaw(snap.Avg200)},
		{"RSI", calculator.FormatRaw(snap.PseudoRSI)},
		{"Change %", strconv.FormatFloat(snap.ChangePercent, 'f', 2, 64) + "%"},
		{"Volume", calculator.FormatMagnitude(snap.Volume)},
		{"Entry", calculator.FormatMagnitude(snap.Entry)},
		{"Target", calculator.FormatMagnitude(snap.Target)},
		{"StopLoss", calculator.FormatMagnitude(snap.StopLoss)},
	}
}

// ChartFor builds the trend chart input for a snapshot.
func ChartFor(snap *model.StockSnapshot) *Chart {
	return &Chart{
		Title:  snap.Symbol + " Price Trend",
		Points: calculator.BuildTrend(snap),
	}
}

// BuildView assembles the view model. snap may be nil, in which case only the
// session part is filled. News times are shown in loc.
func BuildView(snap *model.StockSnapshot, status model.SessionStatus, loc *time.Location) View {
	v := View{
		Banner:  session.Banner(status),
		Session: status,
	}
	if snap == nil {
		return v
	}
	v.Snapshot = snap
	v.Metrics = BuildMetrics(snap)
	v.Suggestion = snap.Suggestion
	v.Badge = Classify(snap.Suggestion)
	v.Reason = snap.Reason
	v.Chart = ChartFor(snap)
	for _, n := range snap.News {
		entry := NewsEntry{Title: n.Title, Link: n.Link, Published: n.PubDate}
		if t, ok := n.PublishedAt(); ok {
			if loc != nil {
				t = t.In(loc)
			}
			entry.Published = t.Format(NewsTimeLayout)
		}
		v.News = append(v.News, entry)
	}
	return v
}
