package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeStale     = "stale"
	OutcomeCancelled = "cancelled"
)

var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "stockpulse_searches_total", Help: "Dashboard searches by outcome"},
		[]string{"outcome"},
	)
	SuggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "stockpulse_suggestions_total", Help: "Suggestions received, by badge category"},
		[]string{"badge"},
	)
	AlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "stockpulse_alerts_total", Help: "Alerts dispatched to notification sinks"},
		[]string{"kind"},
	)
	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stockpulse_fetch_duration_seconds",
		Help:    "Latency of snapshot fetches",
		Buckets: prometheus.DefBuckets,
	})
	MarketOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "stockpulse_market_open", Help: "1 while the exchange session is open"},
	)
	WSClients = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "stockpulse_ws_clients", Help: "Connected websocket clients"},
	)
)

func init() {
	prometheus.MustRegister(SearchesTotal, SuggestionsTotal, AlertsTotal, FetchDuration, MarketOpen, WSClients)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetMarketOpen mirrors the session status into the gauge.
func SetMarketOpen(open bool) {
	if open {
		MarketOpen.Set(1)
		return
	}
	MarketOpen.Set(0)
}
