package collector

import (
	"context"
	"fmt"
	"sync"

	"StockPulse/internal/model"
)

// MockFetcher returns controllable fixed snapshots for development and testing.
type MockFetcher struct {
	mu        sync.Mutex
	Snapshots map[string]*model.StockSnapshot
	Err       error
	calls     []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSnapshot(ctx context.Context, symbol string) (*model.StockSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, symbol)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	snap, ok := m.Snapshots[symbol]
	if !ok {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNotFound)
	}
	cp := *snap
	return &cp, nil
}

// Calls returns the symbols requested so far.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
