package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockPulse/internal/model"

	"golang.org/x/time/rate"
)

// StockAPIFetcher implements Fetcher against the stock service REST API.
type StockAPIFetcher struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewStockAPIFetcher creates a fetcher with optional proxy support. A
// non-positive ratePerSec disables rate limiting.
func NewStockAPIFetcher(baseURL, proxyURL string, timeout time.Duration, ratePerSec float64, burst int) *StockAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	var limiter *rate.Limiter
	if ratePerSec > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	return &StockAPIFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Limiter: limiter,
	}
}

func (f *StockAPIFetcher) Name() string { return "stockapi" }

// FetchSnapshot requests /api/stocks/{symbol}. The symbol is path-escaped but
// its case is kept as typed.
func (f *StockAPIFetcher) FetchSnapshot(ctx context.Context, symbol string) (*model.StockSnapshot, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	endpoint := fmt.Sprintf("%s/api/stocks/%s", f.BaseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetch snapshot %s: %w", symbol, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch snapshot %s: %w: status %d, body: %s", symbol, ErrUpstream, resp.StatusCode, string(body))
	}

	var wire snapshotPayload
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return wire.toModel()
}
