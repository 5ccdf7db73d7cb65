package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"QuantPilot/internal/model"
)

// DefaultAlphaVantageURL is the Alpha Vantage query endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage REST API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	// limiter paces outgoing calls to stay under the free-tier quota.
	limiter *rate.Limiter
}

// NewAlphaVantageFetcher creates a fetcher allowing perMinute calls per
// minute. perMinute <= 0 disables pacing.
func NewAlphaVantageFetcher(apiKey, proxyURL string, perMinute int) *AlphaVantageFetcher {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
	return &AlphaVantageFetcher{
		BaseURL: DefaultAlphaVantageURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		limiter: limiter,
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// query performs one API call and returns the decoded JSON object.
// Quota notes in the payload are reported as ErrRateLimited.
func (f *AlphaVantageFetcher) query(ctx context.Context, params url.Values) (map[string]any, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	params.Set("apikey", f.APIKey)
	u := f.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "quantpilot/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage %s: %w", params.Get("function"), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if _, ok := raw["Note"]; ok {
		return nil, ErrRateLimited
	}
	if _, ok := raw["Information"]; ok {
		return nil, ErrRateLimited
	}
	return raw, nil
}

// FetchDailyBars reads TIME_SERIES_DAILY with the full output size and
// keeps the last days bars.
func (f *AlphaVantageFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", "full")
	raw, err := f.query(ctx, params)
	if err != nil {
		return nil, err
	}

	series, ok := raw["Time Series (Daily)"].(map[string]any)
	if !ok || len(series) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}

	bars := make([]model.PriceBar, 0, len(series))
	for date, v := range series {
		fields, ok := v.(map[string]any)
		if !ok {
			continue
		}
		bar := model.PriceBar{
			Date:   date,
			Open:   parseFloat(fields["1. open"]),
			High:   parseFloat(fields["2. high"]),
			Low:    parseFloat(fields["3. low"]),
			Close:  parseFloat(fields["4. close"]),
			Volume: uint64(parseDecimal(fields["5. volume"]).IntPart()),
		}
		if bar.Close == 0 {
			continue
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return lastN(bars, days), nil
}

// FetchQuote reads GLOBAL_QUOTE. The 52-week range comes from OVERVIEW
// when available and falls back to the price.
func (f *AlphaVantageFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	raw, err := f.query(ctx, params)
	if err != nil {
		return model.Quote{}, err
	}
	if gq, ok := raw["Global Quote"].(map[string]any); !ok || len(gq) == 0 {
		return model.Quote{}, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}

	price := parseFloat(globalQuoteField(raw, "05. price"))
	if price <= 0 {
		return model.Quote{}, fmt.Errorf("%s: invalid price: %w", symbol, ErrNotFound)
	}
	prevClose := parseFloat(globalQuoteField(raw, "08. previous close"))
	volume := parseDecimal(globalQuoteField(raw, "06. volume")).IntPart()

	q := model.NewQuote(strings.ToUpper(symbol), price, prevClose, uint64(volume), time.Now())
	q.High52w, q.Low52w = price, price

	fund, err := f.FetchFundamentals(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] %s overview unavailable, 52-week range defaults to price: %v", symbol, err)
		return q, nil
	}
	if fund.Week52High.Valid && fund.Week52High.Float64 > 0 {
		q.High52w = fund.Week52High.Float64
	}
	if fund.Week52Low.Valid && fund.Week52Low.Float64 > 0 {
		q.Low52w = fund.Week52Low.Float64
	}
	return q, nil
}

// FetchFundamentals reads the OVERVIEW endpoint.
func (f *AlphaVantageFetcher) FetchFundamentals(ctx context.Context, symbol string) (model.Fundamentals, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)
	raw, err := f.query(ctx, params)
	if err != nil {
		return model.Fundamentals{}, err
	}
	if s, _ := raw["Symbol"].(string); s == "" {
		return model.Fundamentals{}, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}

	var marketCap null.Int
	if d, ok := decimalField(raw["MarketCapitalization"]); ok {
		marketCap = null.IntFrom(d.IntPart())
	}
	return model.Fundamentals{
		Symbol:          strings.ToUpper(symbol),
		PERatio:         nullFloat(raw["PERatio"]),
		PSRatio:         nullFloat(raw["PriceToSalesRatioTTM"]),
		PBRatio:         nullFloat(raw["PriceToBookRatio"]),
		EPS:             nullFloat(raw["EPS"]),
		ROE:             nullFloat(raw["ReturnOnEquityTTM"]),
		ROIC:            nullFloat(raw["ReturnOnCapitalEmployedTTM"]),
		OperatingMargin: nullFloat(raw["OperatingMarginTTM"]),
		ProfitMargin:    nullFloat(raw["ProfitMargin"]),
		DebtToEquity:    nullFloat(raw["DebtToEquity"]),
		CurrentRatio:    nullFloat(raw["CurrentRatio"]),
		QuickRatio:      nullFloat(raw["QuickRatio"]),
		RevenueGrowth:   nullFloat(raw["RevenuePerShareTTM"]),
		DividendYield:   nullFloat(raw["DividendYield"]),
		PayoutRatio:     nullFloat(raw["PayoutRatio"]),
		MarketCap:       marketCap,
		BookValue:       nullFloat(raw["BookValue"]),
		Beta:            nullFloat(raw["Beta"]),
		Week52High:      nullFloat(raw["52WeekHigh"]),
		Week52Low:       nullFloat(raw["52WeekLow"]),
		Name:            stringOr(raw["Name"], strings.ToUpper(symbol)),
		Sector:          stringOr(raw["Sector"], "N/A"),
		Industry:        stringOr(raw["Industry"], "N/A"),
		Description:     stringOr(raw["Description"], "N/A"),
	}, nil
}

// globalQuoteField extracts one field of the "Global Quote" object.
func globalQuoteField(raw map[string]any, field string) any {
	v, err := jsonpath.Get(fmt.Sprintf(`$["Global Quote"][%q]`, field), raw)
	if err != nil {
		return nil
	}
	return v
}

// decimalField parses a numeric string. Alpha Vantage writes "None" or "-"
// for missing values.
func decimalField(v any) (decimal.Decimal, bool) {
	s, ok := v.(string)
	if !ok {
		return decimal.Zero, false
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" || s == "None" || s == "-" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseDecimal(v any) decimal.Decimal {
	d, _ := decimalField(v)
	return d
}

func parseFloat(v any) float64 {
	return parseDecimal(v).InexactFloat64()
}

func nullFloat(v any) null.Float {
	d, ok := decimalField(v)
	if !ok {
		return null.Float{}
	}
	return null.FloatFrom(d.InexactFloat64())
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" && s != "None" {
		return s
	}
	return fallback
}
