package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"QuantPilot/internal/alert"
	"QuantPilot/internal/assistant"
	"QuantPilot/internal/collector"
	"QuantPilot/internal/model"
	"QuantPilot/internal/recorder"
	"QuantPilot/internal/store"
)

type fakeAssistant struct {
	last assistant.Request
}

func (f *fakeAssistant) Chat(_ context.Context, req assistant.Request) (string, error) {
	f.last = req
	return "hold steady", nil
}

type testEnv struct {
	server  *Server
	fetcher *collector.MockFetcher
	ai      *fakeAssistant
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	alerts, err := alert.NewManager(st)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	rec, err := recorder.NewSQLiteRecorder(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	fetcher := &collector.MockFetcher{Price: 100, End: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)}
	ai := &fakeAssistant{}
	srv := NewServer(collector.NewCollector(fetcher, 0.02), st, alerts, ai, rec, Options{
		RateLimit: 1000,
		RateBurst: 1000,
		Analytics: collector.AnalyticsRequest{Period: "6mo", Benchmark: "SPY"},
	})
	return &testEnv{server: srv, fetcher: fetcher, ai: ai}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.server.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func (e *testEnv) savePortfolio(t *testing.T, holdings ...model.Holding) {
	t.Helper()
	if err := store.SavePortfolio(e.server.Store, model.Portfolio{Holdings: holdings}); err != nil {
		t.Fatal(err)
	}
}

func TestHealthAndMiddleware(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	w = e.do(t, http.MethodOptions, "/api/stocks/quote", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(newIPLimiter(1, 2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestStockEndpoints(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/stocks/quote", map[string]string{"symbol": "aapl"})
	if w.Code != http.StatusOK {
		t.Fatalf("quote status = %d: %s", w.Code, w.Body.String())
	}
	if q := decode[model.Quote](t, w); q.Symbol != "AAPL" || q.Price <= 0 {
		t.Errorf("quote = %+v", q)
	}

	w = e.do(t, http.MethodPost, "/api/stocks/historical", map[string]any{"symbol": "MSFT"})
	hist := decode[struct {
		Symbol string           `json:"symbol"`
		Data   []model.PriceBar `json:"data"`
	}](t, w)
	if hist.Symbol != "MSFT" || len(hist.Data) != defaultHistoryDays {
		t.Errorf("historical = %s with %d bars", hist.Symbol, len(hist.Data))
	}

	w = e.do(t, http.MethodGet, "/api/stocks/fundamentals?symbol=ibm", nil)
	if f := decode[model.Fundamentals](t, w); w.Code != http.StatusOK || f.Symbol != "IBM" {
		t.Errorf("fundamentals status = %d symbol = %q", w.Code, f.Symbol)
	}

	w = e.do(t, http.MethodPost, "/api/indicators/timeseries", map[string]any{"symbol": "AAPL", "days": 120})
	ts := decode[struct {
		Data []model.IndicatorPoint `json:"data"`
	}](t, w)
	if len(ts.Data) != 120 {
		t.Fatalf("indicator points = %d, want one per bar", len(ts.Data))
	}
	if ts.Data[0].SMA20.Valid || !ts.Data[119].SMA50.Valid {
		t.Error("SMA validity does not follow available history")
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*collector.MockFetcher)
		body  any
		want  int
	}{
		{"missing symbol", nil, map[string]string{}, http.StatusBadRequest},
		{"empty body", nil, nil, http.StatusBadRequest},
		{"not found", func(m *collector.MockFetcher) { m.Strict = true }, map[string]string{"symbol": "ZZZZ"}, http.StatusNotFound},
		{"rate limited", func(m *collector.MockFetcher) { m.Err = collector.ErrRateLimited }, map[string]string{"symbol": "AAPL"}, http.StatusTooManyRequests},
		{"upstream failure", func(m *collector.MockFetcher) { m.Err = context.DeadlineExceeded }, map[string]string{"symbol": "AAPL"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(e.fetcher)
			}
			w := e.do(t, http.MethodPost, "/api/stocks/quote", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestSignals(t *testing.T) {
	e := newTestEnv(t)
	point := map[string]any{"price": 100, "rsi": 25.0}
	w := e.do(t, http.MethodPost, "/api/indicators/signals", map[string]any{"symbol": "AAPL", "data": point})
	res := decode[struct {
		Signals []model.Signal `json:"signals"`
	}](t, w)
	if len(res.Signals) != 1 || res.Signals[0].Type != model.SignalBullish {
		t.Errorf("signals = %+v", res.Signals)
	}

	w = e.do(t, http.MethodPost, "/api/indicators/signals", map[string]any{"symbol": "AAPL"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"signals":[`) {
		t.Errorf("latest signals = %d %s", w.Code, w.Body.String())
	}
}

func TestPortfolioRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/portfolio", nil)
	if p := decode[model.Portfolio](t, w); len(p.Holdings) != 0 {
		t.Fatalf("initial portfolio = %+v", p)
	}

	body := model.Portfolio{Holdings: []model.Holding{{Symbol: "aapl", Quantity: 10, Price: 100, AvgCost: 90}}}
	if w = e.do(t, http.MethodPut, "/api/portfolio", body); w.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", w.Code, w.Body.String())
	}
	p := decode[model.Portfolio](t, e.do(t, http.MethodGet, "/api/portfolio", nil))
	if len(p.Holdings) != 1 || p.Holdings[0].Symbol != "AAPL" || p.UpdatedAt.IsZero() {
		t.Errorf("stored portfolio = %+v", p)
	}

	bad := model.Portfolio{Holdings: []model.Holding{{Symbol: "AAPL", Quantity: 0}}}
	if w = e.do(t, http.MethodPut, "/api/portfolio", bad); w.Code != http.StatusBadRequest {
		t.Errorf("zero quantity status = %d", w.Code)
	}
}

func TestPortfolioAnalytics(t *testing.T) {
	e := newTestEnv(t)
	if w := e.do(t, http.MethodPost, "/api/portfolio/analytics", nil); w.Code != http.StatusBadRequest {
		t.Errorf("empty portfolio status = %d", w.Code)
	}

	e.savePortfolio(t,
		model.Holding{Symbol: "AAPL", Quantity: 10, Price: 100},
		model.Holding{Symbol: "MSFT", Quantity: 10, Price: 100},
	)
	w := e.do(t, http.MethodPost, "/api/portfolio/analytics", map[string]string{"period": "3mo"})
	if w.Code != http.StatusOK {
		t.Fatalf("analytics status = %d: %s", w.Code, w.Body.String())
	}
	res := decode[model.AnalyticsResult](t, w)
	if res.Volatility <= 0 {
		t.Errorf("volatility = %v", res.Volatility)
	}

	hist := decode[struct {
		History []recorder.AnalyticsSnapshot `json:"history"`
	}](t, e.do(t, http.MethodGet, "/api/portfolio/history", nil))
	if len(hist.History) != 1 || hist.History[0].Period != "3mo" || hist.History[0].Benchmark != "SPY" {
		t.Errorf("history = %+v", hist.History)
	}

	w = e.do(t, http.MethodPost, "/api/portfolio/benchmark", nil)
	cmp := decode[model.BenchmarkComparison](t, w)
	if len(cmp.Points) != 126 || cmp.Points[0].PortfolioIndexed != 100 || cmp.Points[0].BenchmarkIndexed != 100 {
		t.Errorf("comparison has %d points, first %+v", len(cmp.Points), cmp.Points)
	}
}

func TestAnalyticsInsufficientData(t *testing.T) {
	e := newTestEnv(t)
	bar := []model.PriceBar{{Date: "2024-06-28", Close: 100}}
	e.fetcher.Strict = true
	e.fetcher.Bars = map[string][]model.PriceBar{"AAPL": bar, "SPY": bar}
	e.savePortfolio(t, model.Holding{Symbol: "AAPL", Quantity: 1, Price: 100})

	if w := e.do(t, http.MethodPost, "/api/portfolio/analytics", nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}

	// Allocation rules still apply without analytics.
	w := e.do(t, http.MethodPost, "/api/recommendations", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "diversify") {
		t.Errorf("recommendations = %d %s", w.Code, w.Body.String())
	}
}

func TestChat(t *testing.T) {
	e := newTestEnv(t)
	e.savePortfolio(t, model.Holding{Symbol: "AAPL", Quantity: 10, Price: 100})

	w := e.do(t, http.MethodPost, "/api/ai/chat", map[string]string{"message": "How am I doing?", "selectedStock": "aapl"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "hold steady") {
		t.Fatalf("chat = %d %s", w.Code, w.Body.String())
	}
	if e.ai.last.SelectedStock != "AAPL" || len(e.ai.last.Portfolio) != 1 || e.ai.last.Latest == nil {
		t.Errorf("assistant request = %+v", e.ai.last)
	}

	if w = e.do(t, http.MethodPost, "/api/ai/chat", map[string]string{"message": ""}); w.Code != http.StatusBadRequest {
		t.Errorf("empty message status = %d", w.Code)
	}

	e.server.Assistant = assistant.Unavailable{}
	if w = e.do(t, http.MethodPost, "/api/ai/chat", map[string]string{"message": "hi"}); w.Code != http.StatusServiceUnavailable {
		t.Errorf("unconfigured status = %d", w.Code)
	}
}

func TestAlertEndpoints(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/alerts", map[string]any{"symbol": "aapl", "targetPrice": 150, "condition": "above"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decode[model.PriceAlert](t, w)

	w = e.do(t, http.MethodPost, "/api/alerts", map[string]any{"symbol": "AAPL", "targetPrice": -1, "condition": "above"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid alert status = %d", w.Code)
	}

	list := decode[struct {
		Alerts []model.PriceAlert `json:"alerts"`
	}](t, e.do(t, http.MethodGet, "/api/alerts", nil))
	if len(list.Alerts) != 1 || list.Alerts[0].ID != created.ID {
		t.Errorf("alerts = %+v", list.Alerts)
	}

	if w = e.do(t, http.MethodDelete, "/api/alerts/"+created.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w = e.do(t, http.MethodDelete, "/api/alerts/"+created.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", w.Code)
	}
}

func TestWebsocketStreamsAlerts(t *testing.T) {
	e := newTestEnv(t)
	ts := httptest.NewServer(e.server.Router)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The subscription is registered after the upgrade completes.
	deadline := time.Now().Add(2 * time.Second)
	for e.server.Alerts.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := e.server.Alerts.Add("AAPL", 1, model.ConditionAbove); err != nil {
		t.Fatal(err)
	}
	if _, err := e.server.Alerts.Check(context.Background(), e.server.Collector); err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt alert.Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Alert.Symbol != "AAPL" || evt.Price <= 0 {
		t.Errorf("event = %+v", evt)
	}
}
