package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"QuantPilot/internal/model"
)

var (
	// ErrNotFound means the provider has no data for the symbol.
	ErrNotFound = errors.New("symbol not found")
	// ErrRateLimited means the provider refused the call because of its quota.
	ErrRateLimited = errors.New("market data rate limit reached")
	// ErrUnsupported means the provider does not offer the requested dataset.
	ErrUnsupported = errors.New("not supported by provider")
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns at most days bars, ascending by date.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	FetchFundamentals(ctx context.Context, symbol string) (model.Fundamentals, error)
	Name() string
}

// NewFetcher builds the Fetcher for a provider name: "alphavantage",
// "yahoo" or "mock".
func NewFetcher(provider, apiKey, proxyURL string, perMinute int) (Fetcher, error) {
	switch provider {
	case "alphavantage":
		if apiKey == "" {
			return nil, errors.New("alphavantage requires an API key")
		}
		return NewAlphaVantageFetcher(apiKey, proxyURL, perMinute), nil
	case "yahoo":
		return NewYahooFetcher(proxyURL), nil
	case "mock":
		return &MockFetcher{}, nil
	}
	return nil, fmt.Errorf("unknown data provider %q", provider)
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// lastN keeps the most recent n bars.
func lastN(bars []model.PriceBar, n int) []model.PriceBar {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
