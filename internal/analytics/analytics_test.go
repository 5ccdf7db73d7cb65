package analytics

import (
	"errors"
	"math"
	"testing"
	"time"

	"QuantPilot/internal/model"
)

func bars(closes ...float64) []model.PriceBar {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		out[i] = model.PriceBar{
			Date:  start.AddDate(0, 0, i).Format(model.DateLayout),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return out
}

var wavy = []float64{100, 103, 101, 104, 99, 102, 107, 105, 110, 108, 111, 106}

func TestStats(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(xs); got != 5 {
		t.Errorf("Mean = %v, want 5", got)
	}
	if got := StdDev(xs); got != 2 {
		t.Errorf("StdDev = %v, want 2 (population)", got)
	}
	if got := Covariance(xs, xs); got != Variance(xs) {
		t.Errorf("Cov(x,x) = %v, want Var(x) = %v", got, Variance(xs))
	}
	// Only -0.1 and -0.2 contribute, over all four returns.
	got := DownsideDeviation([]float64{0.1, -0.1, 0.3, -0.2}, 0)
	want := math.Sqrt((0.01 + 0.04) / 4)
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("DownsideDeviation = %v, want %v", got, want)
	}
	if Mean(nil) != 0 || StdDev(nil) != 0 || DownsideDeviation(nil, 0) != 0 {
		t.Error("empty input should give zeros")
	}
}

func TestPortfolioReturns_IdenticalSeries(t *testing.T) {
	holdings := map[string][]model.PriceBar{"A": bars(wavy...), "B": bars(wavy...)}
	got := PortfolioReturns(holdings, map[string]float64{"A": 0.6, "B": 0.4})
	want := Returns(wavy)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Errorf("step %d: %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPortfolioReturns_LeadingAlignment(t *testing.T) {
	holdings := map[string][]model.PriceBar{
		"A": bars(100, 110, 121, 133.1),
		"B": bars(50, 55),
	}
	got := PortfolioReturns(holdings, map[string]float64{"A": 0.5, "B": 0.5})
	if len(got) != 1 || math.Abs(got[0]-0.1) > 1e-12 {
		t.Errorf("got %v, want [0.1]", got)
	}
}

func TestWealthCurveRoundTrip(t *testing.T) {
	returns := Returns(wavy)
	curve := WealthCurve(returns)
	if total := TotalReturn(returns); math.Abs(curve[len(curve)-1]-1-total) > 1e-12 {
		t.Errorf("curve end %v does not match total return %v", curve[len(curve)-1], total)
	}
	back := ValuesToReturns(curve)
	for i := range returns {
		if rel := math.Abs(back[i]-returns[i]) / math.Max(math.Abs(returns[i]), 1e-12); rel > 1e-9 {
			t.Errorf("step %d: %v, want %v", i, back[i], returns[i])
		}
	}
}

func TestBetaAlpha_AgainstItself(t *testing.T) {
	r := Returns(wavy)
	beta, alpha := BetaAlpha(r, r)
	if math.Abs(beta-1) > 1e-12 || math.Abs(alpha) > 1e-15 {
		t.Errorf("beta=%v alpha=%v, want 1 and 0", beta, alpha)
	}
	if c := Correlation(r, r); math.Abs(c-1) > 1e-12 {
		t.Errorf("correlation = %v, want 1", c)
	}
	if te := TrackingError(r, r); te != 0 {
		t.Errorf("tracking error = %v, want 0", te)
	}
}

func TestBetaAlpha_FlatBenchmark(t *testing.T) {
	flat := []float64{0.25, 0.25, 0.25}
	beta, alpha := BetaAlpha([]float64{0.01, 0.02, -0.01}, flat)
	if beta != 1 {
		t.Errorf("beta = %v, want 1", beta)
	}
	if want := Mean([]float64{0.01, 0.02, -0.01}) - 0.25; math.Abs(alpha-want) > 1e-15 {
		t.Errorf("alpha = %v, want %v", alpha, want)
	}
	if c := Correlation([]float64{0.01, 0.02, -0.01}, flat); c != 0 {
		t.Errorf("correlation = %v, want 0", c)
	}
}

func TestBetaAlpha_TrailingWindow(t *testing.T) {
	port := []float64{0.5, 0.01, 0.02, 0.03}
	bench := []float64{0.01, 0.02, 0.03}
	beta, alpha := BetaAlpha(port, bench)
	if math.Abs(beta-1) > 1e-12 || math.Abs(alpha) > 1e-15 {
		t.Errorf("beta=%v alpha=%v, want the leading outlier ignored", beta, alpha)
	}
}

func TestRatios_DegenerateDenominators(t *testing.T) {
	constant := []float64{0.01, 0.01, 0.01, 0.01}
	if s := SharpeRatio(constant, 0.02, 252); s != 0 {
		t.Errorf("Sharpe = %v, want 0", s)
	}
	if s := SortinoRatio(constant, 0.02, 252); s != 0 {
		t.Errorf("Sortino = %v, want 0", s)
	}
	if dd := MaxDrawdown(constant); dd != 0 {
		t.Errorf("MaxDrawdown = %v, want 0 for a rising curve", dd)
	}
	if c := CalmarRatio(12, 0); c != 0 {
		t.Errorf("Calmar = %v, want 0", c)
	}
	if ir := InformationRatio(10, 5, 0); ir != 0 {
		t.Errorf("IR = %v, want 0", ir)
	}
	if a := AnnualizedReturn(0.1, 0, 252); a != 0 {
		t.Errorf("annualized = %v, want 0", a)
	}
}

func TestRatios_KnownValues(t *testing.T) {
	r := []float64{0.01, -0.02, 0.03, 0}
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"sharpe", SharpeRatio(r, 0.02, 252), 4.3329106584505945},
		{"sortino", SortinoRatio(r, 0.02, 252), 7.811265775524029},
		{"tracking error", TrackingError([]float64{0.01, 0.02, 0.03}, []float64{0, 0, 0}), 0.00816496580927726},
		{"correlation", Correlation([]float64{0.1, -0.1, 0.05}, []float64{0.02, -0.02, 0.03}), 0.9078412990032035},
		{"information ratio", InformationRatio(12, 4, 2.5), 3.2},
		{"information ratio underperforming", InformationRatio(4, 12, 2.5), -3.2},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMaxDrawdown(t *testing.T) {
	// 1 -> 1.1 -> 0.88 -> 0.968: deepest fall is 0.88/1.1 - 1 = -20%.
	got := MaxDrawdown([]float64{0.1, -0.2, 0.1})
	if math.Abs(got+20) > 1e-9 {
		t.Errorf("MaxDrawdown = %v, want -20", got)
	}
}

func TestTotalAndAnnualizedReturn(t *testing.T) {
	total := TotalReturn([]float64{0.1, 0.1})
	if math.Abs(total-0.21) > 1e-12 {
		t.Errorf("total = %v, want 0.21 (compounded)", total)
	}
	if a := AnnualizedReturn(0.21, 2, 1); math.Abs(a-0.1) > 1e-12 {
		t.Errorf("annualized = %v, want 0.1", a)
	}
}

func TestCompute(t *testing.T) {
	holdings := map[string][]model.PriceBar{"A": bars(wavy...), "B": bars(wavy...)}
	weights := map[string]float64{"A": 0.6, "B": 0.4}
	res, err := Compute(holdings, weights, bars(wavy...), 0.02, 252)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Beta-1) > 1e-9 || math.Abs(res.Alpha) > 1e-9 {
		t.Errorf("beta=%v alpha=%v against an identical benchmark", res.Beta, res.Alpha)
	}
	if want := (wavy[len(wavy)-1]/wavy[0] - 1) * 100; math.Abs(res.TotalReturn-want) > 1e-9 {
		t.Errorf("total return = %v, want %v", res.TotalReturn, want)
	}
	if res.MaxDrawdown >= 0 {
		t.Errorf("max drawdown = %v, want negative", res.MaxDrawdown)
	}
	if want := res.AnnualizedReturn / math.Abs(res.MaxDrawdown); math.Abs(res.CalmarRatio-want) > 1e-9 {
		t.Errorf("calmar = %v, want %v", res.CalmarRatio, want)
	}
	if res.Volatility <= 0 || res.DownsideDeviation <= 0 {
		t.Errorf("volatility=%v downside=%v, want positive", res.Volatility, res.DownsideDeviation)
	}
}

func TestCompute_InsufficientData(t *testing.T) {
	tests := []struct {
		name      string
		holdings  map[string][]model.PriceBar
		benchmark []model.PriceBar
	}{
		{"no holdings", map[string][]model.PriceBar{}, bars(1, 2, 3)},
		{"single bar", map[string][]model.PriceBar{"A": bars(1)}, bars(1, 2, 3)},
		{"short benchmark", map[string][]model.PriceBar{"A": bars(1, 2, 3)}, bars(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.holdings, map[string]float64{"A": 1}, tt.benchmark, 0.02, 252)
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("err = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestCompareBenchmark(t *testing.T) {
	holdings := map[string][]model.PriceBar{"A": bars(100, 110, 120, 130)}
	benchmark := bars(200, 210, 220)
	cmp, err := CompareBenchmark(holdings, map[string]float64{"A": 1}, benchmark)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmp.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(cmp.Points))
	}
	if cmp.Points[0].PortfolioIndexed != 100 || cmp.Points[0].BenchmarkIndexed != 100 {
		t.Errorf("first point %+v, want both at 100", cmp.Points[0])
	}
	if math.Abs(cmp.PortfolioReturn-20) > 1e-9 || math.Abs(cmp.BenchmarkReturn-10) > 1e-9 {
		t.Errorf("returns %v/%v, want 20/10", cmp.PortfolioReturn, cmp.BenchmarkReturn)
	}
	if math.Abs(cmp.Outperformance-10) > 1e-9 {
		t.Errorf("outperformance = %v, want 10", cmp.Outperformance)
	}
	if cmp.Points[2].Date != benchmark[2].Date {
		t.Errorf("date = %s, want %s", cmp.Points[2].Date, benchmark[2].Date)
	}

	if _, err := CompareBenchmark(holdings, map[string]float64{"A": 1}, bars(1)); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestCompareBenchmark_RelativeMetrics(t *testing.T) {
	// Portfolio returns 10%, -10%, 5%; benchmark returns 2%, -2%, 3%.
	holdings := map[string][]model.PriceBar{"A": bars(100, 110, 99, 103.95)}
	benchmark := bars(200, 204, 199.92, 205.9176)
	cmp, err := CompareBenchmark(holdings, map[string]float64{"A": 1}, benchmark)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"portfolio return", cmp.PortfolioReturn, 3.95},
		{"benchmark return", cmp.BenchmarkReturn, 2.9588},
		{"tracking error", cmp.TrackingError, 6.599663291074441},
		{"information ratio", cmp.InformationRatio, 0.1501894803240237},
		{"beta", cmp.Beta, 3.5714285714285654},
		{"alpha", cmp.Alpha, -1.9047619047618938},
		{"correlation", cmp.Correlation, 0.9078412990032035},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestCompareBenchmark_TooShort(t *testing.T) {
	holdings := map[string][]model.PriceBar{"A": bars(100, 110)}
	if _, err := CompareBenchmark(holdings, map[string]float64{"A": 1}, bars(1)); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestPeriodsPerYear(t *testing.T) {
	tests := map[string]float64{"1mo": 12, "3mo": 4, "6mo": 2, "1y": 252, "": 252}
	for period, want := range tests {
		if got := PeriodsPerYear(period); got != want {
			t.Errorf("PeriodsPerYear(%q) = %v, want %v", period, got, want)
		}
	}
}
