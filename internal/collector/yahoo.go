package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"QuantPilot/internal/calculator"
	"QuantPilot/internal/model"
)

// DefaultYahooURL is the Yahoo Finance chart endpoint.
const DefaultYahooURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
// It offers no fundamentals.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: DefaultYahooURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}

// atOr is at with a fallback for null or missing entries.
func atOr(vs []*float64, i int, fallback float64) float64 {
	if i >= len(vs) || vs[i] == nil {
		return fallback
	}
	return *vs[i]
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, rng string) ([]model.PriceBar, error) {
	u := fmt.Sprintf("%s%s?interval=1d&range=%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s: %w", chart.Chart.Error.Description, ErrNotFound)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s: no data returned: %w", symbol, ErrNotFound)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))
	seen := make(map[string]bool, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // null bars (holidays etc.)
		}
		date := time.Unix(ts, 0).UTC().Format(model.DateLayout)
		if seen[date] {
			continue
		}
		seen[date] = true
		bars = append(bars, model.PriceBar{
			Date:   date,
			Open:   atOr(quote.Open, i, c),
			High:   atOr(quote.High, i, c),
			Low:    atOr(quote.Low, i, c),
			Close:  c,
			Volume: uint64(at(quote.Volume, i)),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: no data returned: %w", symbol, ErrNotFound)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	rng := "10y"
	switch {
	case days <= 21:
		rng = "1mo"
	case days <= 63:
		rng = "3mo"
	case days <= 126:
		rng = "6mo"
	case days <= 252:
		rng = "1y"
	case days <= 504:
		rng = "2y"
	case days <= 1260:
		rng = "5y"
	}
	bars, err := f.fetchChart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	return lastN(bars, days), nil
}

// FetchQuote derives the quote from the last year of daily bars: the last
// close is the price and the one before it the previous close.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	bars, err := f.fetchChart(ctx, symbol, "1y")
	if err != nil {
		return model.Quote{}, err
	}
	last := bars[len(bars)-1]
	prev := 0.0
	if len(bars) > 1 {
		prev = bars[len(bars)-2].Close
	}
	q := model.NewQuote(strings.ToUpper(symbol), last.Close, prev, last.Volume, time.Now())
	if h, l, err := calculator.Calculate52WeekRange(bars); err == nil {
		q.High52w, q.Low52w = h, l
	}
	return q, nil
}

func (f *YahooFetcher) FetchFundamentals(_ context.Context, symbol string) (model.Fundamentals, error) {
	return model.Fundamentals{}, fmt.Errorf("yahoo fundamentals for %s: %w", symbol, ErrUnsupported)
}
