package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/guregu/null/v6"

	"QuantPilot/internal/model"
)

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "warning: cannot render markdown: %v\n", err)
	fmt.Println(md)
}

func fmtNull(f null.Float) string {
	if !f.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", f.Float64)
}

func quotesMarkdown(quotes []model.Quote) string {
	var b strings.Builder
	b.WriteString("# Quotes\n\n")
	b.WriteString("| Symbol | Price | Change | Change % | 52w Low | 52w High | Volume |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, q := range quotes {
		fmt.Fprintf(&b, "| %s | %.2f | %+.2f | %+.2f%% | %.2f | %.2f | %d |\n",
			q.Symbol, q.Price, q.Change, q.ChangePercent, q.Low52w, q.High52w, q.Volume)
	}
	return b.String()
}

// indicatorsMarkdown shows the last n points, newest first, and the signals
// of the latest one.
func indicatorsMarkdown(symbol string, points []model.IndicatorPoint, n int, signals []model.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s indicators\n\n", symbol)
	b.WriteString("| Date | Price | SMA20 | SMA50 | RSI | MACD | Signal | Hist | BB Lower | BB Upper | %K |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for i := len(points) - 1; i >= 0 && i >= len(points)-n; i-- {
		p := points[i]
		fmt.Fprintf(&b, "| %s | %.2f | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Date, p.Price, fmtNull(p.SMA20), fmtNull(p.SMA50), fmtNull(p.RSI),
			fmtNull(p.MACD), fmtNull(p.Signal), fmtNull(p.Histogram),
			fmtNull(p.BollingerLower), fmtNull(p.BollingerUpper), fmtNull(p.Stochastic))
	}
	b.WriteString("\n## Signals\n\n")
	if len(signals) == 0 {
		b.WriteString("No signal on the latest bar.\n")
	}
	for _, s := range signals {
		fmt.Fprintf(&b, "- **%s** (%s, %.0f%%): %s\n", s.Indicator, s.Type, s.Confidence*100, s.Message)
	}
	return b.String()
}

func analyticsMarkdown(period, benchmark string, res model.AnalyticsResult, cmp *model.BenchmarkComparison, recs []model.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio analytics (%s vs %s)\n\n", period, benchmark)
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	rows := []struct {
		name  string
		value string
	}{
		{"Total return", fmt.Sprintf("%.2f%%", res.TotalReturn)},
		{"Annualized return", fmt.Sprintf("%.2f%%", res.AnnualizedReturn)},
		{"Volatility", fmt.Sprintf("%.2f%%", res.Volatility)},
		{"Downside deviation", fmt.Sprintf("%.2f%%", res.DownsideDeviation)},
		{"Max drawdown", fmt.Sprintf("%.2f%%", res.MaxDrawdown)},
		{"Sharpe ratio", fmt.Sprintf("%.2f", res.SharpeRatio)},
		{"Sortino ratio", fmt.Sprintf("%.2f", res.SortinoRatio)},
		{"Calmar ratio", fmt.Sprintf("%.2f", res.CalmarRatio)},
		{"Beta", fmt.Sprintf("%.2f", res.Beta)},
		{"Alpha", fmt.Sprintf("%.2f%%", res.Alpha)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.name, r.value)
	}

	if cmp != nil {
		fmt.Fprintf(&b, "\n## Against %s\n\n", benchmark)
		fmt.Fprintf(&b, "- Portfolio %.2f%%, benchmark %.2f%%, outperformance %+.2f%%\n",
			cmp.PortfolioReturn, cmp.BenchmarkReturn, cmp.Outperformance)
		fmt.Fprintf(&b, "- Correlation %.2f, tracking error %.2f%%, information ratio %.2f\n",
			cmp.Correlation, cmp.TrackingError, cmp.InformationRatio)
	}

	if len(recs) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "- **%s** (%s): %s %s\n", r.Title, r.Priority, r.Description, r.Action)
		}
	}
	return b.String()
}
