package assistant

import (
	"fmt"
	"strings"

	"QuantPilot/internal/model"
)

const advisorPreamble = `You are an expert financial advisor and seasoned trader with 20+ years of experience.

When responding:
1. Keep responses SHORT and FOCUSED - maximum 3-4 key points
2. Use clear, direct language - no excessive markdown or formatting
3. Reference specific metrics only when relevant
4. Give one primary recommendation or insight
5. Mention 1-2 risks or considerations
6. End with a clear actionable suggestion`

// PortfolioContext summarizes holdings with share counts, prices and each
// position's share of the total value.
func PortfolioContext(holdings []model.Holding) string {
	if len(holdings) == 0 {
		return "The user has no holdings in their portfolio yet."
	}
	total := 0.0
	for _, h := range holdings {
		total += h.Price * h.Quantity
	}
	var b strings.Builder
	b.WriteString("Portfolio Summary:\n")
	for _, h := range holdings {
		alloc := 0.0
		if total > 0 {
			alloc = h.Price * h.Quantity / total * 100
		}
		fmt.Fprintf(&b, "%s: %g shares @ $%.2f (%.1f%% of portfolio)\n", h.Symbol, h.Quantity, h.Price, alloc)
	}
	fmt.Fprintf(&b, "Total Portfolio Value: $%.2f", total)
	return b.String()
}

// technicalContext describes the focus symbol and its latest indicator reading.
func technicalContext(symbol string, p *model.IndicatorPoint) string {
	if symbol == "" {
		return "No specific stock selected for detailed analysis."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Currently analyzing %s with focus on technical indicators.", symbol)
	if p == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "\nLatest close %.2f on %s", p.Price, p.Date)
	if p.RSI.Valid {
		fmt.Fprintf(&b, ", RSI %.2f", p.RSI.Float64)
	}
	if p.SMA20.Valid {
		fmt.Fprintf(&b, ", SMA20 %.2f", p.SMA20.Float64)
	}
	if p.SMA50.Valid {
		fmt.Fprintf(&b, ", SMA50 %.2f", p.SMA50.Float64)
	}
	if p.MACD.Valid && p.Signal.Valid {
		fmt.Fprintf(&b, ", MACD %.3f vs signal %.3f", p.MACD.Float64, p.Signal.Float64)
	}
	b.WriteString(".")
	return b.String()
}

// SystemPrompt assembles the instruction sent ahead of the user's message.
func SystemPrompt(req Request) string {
	symbols := "Empty"
	if len(req.Portfolio) > 0 {
		names := make([]string, len(req.Portfolio))
		for i, h := range req.Portfolio {
			names[i] = h.Symbol
		}
		symbols = strings.Join(names, ", ")
	}

	var b strings.Builder
	b.WriteString(advisorPreamble)
	fmt.Fprintf(&b, "\n\nCurrent Portfolio: %s\n", symbols)
	if req.SelectedStock != "" {
		fmt.Fprintf(&b, "Current Focus: %s\n", req.SelectedStock)
	}
	b.WriteString("\n")
	b.WriteString(PortfolioContext(req.Portfolio))
	b.WriteString("\n\n")
	b.WriteString(technicalContext(req.SelectedStock, req.Latest))
	return b.String()
}
