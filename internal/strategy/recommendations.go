package strategy

import (
	"strings"

	"QuantPilot/internal/model"
)

// Allocation bounds, in percent of portfolio value.
const (
	MaxAllocation     = 40.0
	MinAllocation     = 5.0
	MinPositions      = 5
	ReviewReturnFloor = -5.0
)

// Recommend produces portfolio-level suggestions. result may be nil when
// analytics are unavailable, in which case the performance rule is skipped.
func Recommend(holdings []model.Holding, result *model.AnalyticsResult) []model.Recommendation {
	recs := []model.Recommendation{}

	if off := offTargetSymbols(holdings); len(off) > 0 {
		recs = append(recs, model.Recommendation{
			Type:        "rebalance",
			Title:       "Portfolio Rebalancing",
			Description: strings.Join(off, ", ") + " positions are outside optimal allocation ranges",
			Action:      "Review and rebalance to maintain risk profile",
			Priority:    model.PriorityMedium,
		})
	}

	if len(holdings) < MinPositions {
		recs = append(recs, model.Recommendation{
			Type:        "diversify",
			Title:       "Increase Diversification",
			Description: "Current portfolio has limited diversification. Consider adding positions across different sectors.",
			Action:      "Add 2-3 positions in uncorrelated assets",
			Priority:    model.PriorityMedium,
		})
	}

	if result != nil && result.TotalReturn < ReviewReturnFloor {
		recs = append(recs, model.Recommendation{
			Type:        "review",
			Title:       "Portfolio Review Recommended",
			Description: "Recent performance is underperforming benchmarks. Review strategy and holdings.",
			Action:      "Analyze underperforming positions",
			Priority:    model.PriorityHigh,
		})
	}

	if losers := unrealizedLosses(holdings); len(losers) > 0 {
		recs = append(recs, model.Recommendation{
			Type:        "tax",
			Title:       "Tax-Loss Harvesting Opportunity",
			Description: strings.Join(losers, ", ") + " show unrealized losses that could be harvested for tax benefits.",
			Action:      "Consider selling at-loss positions and rebalancing",
			Priority:    model.PriorityLow,
		})
	}

	return recs
}

// offTargetSymbols lists holdings whose share of market value is above
// MaxAllocation or below MinAllocation percent.
func offTargetSymbols(holdings []model.Holding) []string {
	total := 0.0
	for _, h := range holdings {
		total += h.Price * h.Quantity
	}
	if total <= 0 {
		return nil
	}
	var out []string
	for _, h := range holdings {
		alloc := h.Price * h.Quantity / total * 100
		if alloc > MaxAllocation || alloc < MinAllocation {
			out = append(out, h.Symbol)
		}
	}
	return out
}

func unrealizedLosses(holdings []model.Holding) []string {
	var out []string
	for _, h := range holdings {
		if h.AvgCost > 0 && h.Price > 0 && h.Price < h.AvgCost {
			out = append(out, h.Symbol)
		}
	}
	return out
}
