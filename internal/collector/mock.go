package collector

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"QuantPilot/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols present in Bars are served from it; others get generated bars
// unless Strict is set.
type MockFetcher struct {
	Price  float64
	Bars   map[string][]model.PriceBar
	Strict bool
	// Err, when set, is returned by every call.
	Err error
	// End is the date of the last generated bar; zero means today.
	End time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return lastN(bars, days), nil
	}
	if m.Strict {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	return generateMockBars(m.basePrice(symbol), days, m.End), nil
}

func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	bars, err := m.FetchDailyBars(ctx, symbol, 252)
	if err != nil {
		return model.Quote{}, err
	}
	if len(bars) == 0 {
		return model.Quote{}, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	last := bars[len(bars)-1]
	prev := 0.0
	if len(bars) > 1 {
		prev = bars[len(bars)-2].Close
	}
	return model.NewQuote(strings.ToUpper(symbol), last.Close, prev, last.Volume, time.Now()), nil
}

func (m *MockFetcher) FetchFundamentals(_ context.Context, symbol string) (model.Fundamentals, error) {
	if m.Err != nil {
		return model.Fundamentals{}, m.Err
	}
	return model.Fundamentals{
		Symbol:      strings.ToUpper(symbol),
		PERatio:     null.FloatFrom(21.5),
		EPS:         null.FloatFrom(4.2),
		Beta:        null.FloatFrom(1.1),
		MarketCap:   null.IntFrom(1_000_000_000),
		Name:        strings.ToUpper(symbol),
		Sector:      "N/A",
		Industry:    "N/A",
		Description: "N/A",
	}, nil
}

func (m *MockFetcher) basePrice(symbol string) float64 {
	if m.Price > 0 {
		return m.Price
	}
	// Spread symbols over 50..250 so generated portfolios are not identical.
	sum := 0
	for _, r := range symbol {
		sum += int(r)
	}
	return 50 + float64(sum%200)
}

// generateMockBars draws a gently trending sine wave so every indicator has
// something to react to.
func generateMockBars(basePrice float64, count int, end time.Time) []model.PriceBar {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.03*math.Sin(float64(i)/6))
		bars[i] = model.PriceBar{
			Date:   end.AddDate(0, 0, -(count - 1 - i)).Format(model.DateLayout),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
