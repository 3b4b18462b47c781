package notifier

import (
	"context"

	"StockPulse/internal/model"
	"StockPulse/internal/presenter"

	"github.com/rs/zerolog"
)

// Multi dispatches every alert to all sinks, each on its own goroutine.
type Multi []presenter.Sink

func (m Multi) Notify(ctx context.Context, alert model.Alert) {
	for _, s := range m {
		go s.Notify(ctx, alert)
	}
}

// LogSink writes alerts to the log.
type LogSink struct {
	Log zerolog.Logger
}

func (l LogSink) Notify(_ context.Context, alert model.Alert) {
	l.Log.Info().Str("kind", string(alert.Kind)).Str("symbol", alert.Symbol).Msg(alert.Message)
}
