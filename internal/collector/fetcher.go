package collector

import (
	"context"
	"errors"

	"StockPulse/internal/model"
)

var (
	// ErrNotFound is returned when the stock service does not know the symbol.
	ErrNotFound = errors.New("symbol not found")
	// ErrUpstream is returned for any other non-success response.
	ErrUpstream = errors.New("stock service error")
)

// Fetcher defines the interface for fetching a stock snapshot.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, symbol string) (*model.StockSnapshot, error)
	Name() string
}
