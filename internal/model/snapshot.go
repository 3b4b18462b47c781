package model

import "time"

// Suggestion values the stock service is known to return. Anything else is
// treated as neutral.
const (
	SuggestionBuy  = "BUY"
	SuggestionSell = "SELL"
	SuggestionHold = "HOLD"
)

// NewsItem is a headline attached to a snapshot by the stock service.
type NewsItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	PubDate string `json:"pubDate"`
}

// PublishedAt parses PubDate. The stock service relays RSS dates, so RFC1123Z
// is tried before RFC3339.
func (n NewsItem) PublishedAt() (time.Time, bool) {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, n.PubDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StockSnapshot is the full set of metrics and the recommendation for one
// symbol at one point in time. It is never mutated after it is received.
type StockSnapshot struct {
	Symbol        string     `json:"symbol"`
	LTP           float64    `json:"ltp"`
	Avg50         float64    `json:"avg50"`
	Avg200        float64    `json:"avg200"`
	PseudoRSI     float64    `json:"pseudoRSI"`
	ChangePercent float64    `json:"changePercent"`
	Volume        float64    `json:"volume"`
	Entry         float64    `json:"entry"`
	Target        float64    `json:"target"`
	StopLoss      float64    `json:"stopLoss"`
	Suggestion    string     `json:"suggestion"`
	Reason        string     `json:"reason"`
	News          []NewsItem `json:"news,omitempty"`
}
