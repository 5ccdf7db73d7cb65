package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"QuantPilot/internal/model"
)

// FormatAlertTriggered formats a fired price alert.
func FormatAlertTriggered(a model.PriceAlert, price float64) string {
	arrow := "📈"
	if a.Condition == model.ConditionBelow {
		arrow = "📉"
	}
	return fmt.Sprintf("%s <b>Price alert: %s</b>\nPrice %.2f is %s target %.2f",
		arrow, html.EscapeString(a.Symbol), price, a.Condition, a.TargetPrice)
}

// FormatAnalyticsReport formats portfolio analytics and recommendations.
func FormatAnalyticsReport(res model.AnalyticsResult, period, benchmark string, recs []model.Recommendation, at time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>QuantPilot report</b> | %s\n", at.Format("2006-01-02"))
	fmt.Fprintf(&b, "Period %s vs %s\n\n", html.EscapeString(period), html.EscapeString(benchmark))

	fmt.Fprintf(&b, "Total return: %+.2f%%\n", res.TotalReturn)
	fmt.Fprintf(&b, "Annualized: %+.2f%%\n", res.AnnualizedReturn)
	fmt.Fprintf(&b, "Volatility: %.2f%%\n", res.Volatility)
	fmt.Fprintf(&b, "Max drawdown: %.2f%%\n\n", res.MaxDrawdown)

	b.WriteString("📈 <b>Risk-adjusted:</b>\n")
	fmt.Fprintf(&b, "  Sharpe %.2f | Sortino %.2f | Calmar %.2f\n", res.SharpeRatio, res.SortinoRatio, res.CalmarRatio)
	fmt.Fprintf(&b, "  Beta %.2f | Alpha %+.3f%%\n", res.Beta, res.Alpha)

	if len(recs) > 0 {
		b.WriteString("\n💡 <b>Recommendations:</b>\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", r.Priority, html.EscapeString(r.Title), html.EscapeString(r.Action))
		}
	}
	return b.String()
}

// FormatAlertList formats all alerts for display.
func FormatAlertList(alerts []model.PriceAlert) string {
	if len(alerts) == 0 {
		return "🔔 No price alerts set."
	}
	var b strings.Builder
	b.WriteString("🔔 <b>Price alerts</b>\n\n")
	for _, a := range alerts {
		status := "active"
		if a.Triggered {
			status = "triggered"
			if a.TriggeredAt != nil {
				status += " " + a.TriggeredAt.Format("2006-01-02 15:04")
			}
		}
		fmt.Fprintf(&b, "%s %s %.2f (%s)\n", html.EscapeString(a.Symbol), a.Condition, a.TargetPrice, status)
	}
	return b.String()
}

// FormatPortfolio formats holdings with market value and unrealized gain.
func FormatPortfolio(p model.Portfolio) string {
	if len(p.Holdings) == 0 {
		return "📦 Portfolio is empty."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Portfolio</b>\n\n")
	total := 0.0
	for _, h := range p.Holdings {
		value := h.Price * h.Quantity
		total += value
		gain := 0.0
		if h.AvgCost > 0 {
			gain = (h.Price - h.AvgCost) / h.AvgCost * 100
		}
		fmt.Fprintf(&b, "%s: %g @ %.2f = %.2f (%+.1f%%)\n", html.EscapeString(h.Symbol), h.Quantity, h.Price, value, gain)
	}
	fmt.Fprintf(&b, "\nTotal value: %.2f\n", total)
	if !p.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "Updated: %s\n", p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}
