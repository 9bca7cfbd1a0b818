// Package aggregate derives portfolio totals from a position set and a
// category filter, and memoizes the result per filter.
package aggregate

import (
	"strings"

	"PortfolioDesk/internal/calculator"
	"PortfolioDesk/internal/model"
)

// IsAll reports whether filter selects the whole portfolio.
func IsAll(filter string) bool {
	f := strings.TrimSpace(filter)
	return f == "" || strings.EqualFold(f, model.FilterAll)
}

// Filter returns the positions whose category matches filter, ignoring case.
func Filter(positions []model.Position, filter string) []model.Position {
	if IsAll(filter) {
		return positions
	}
	f := strings.TrimSpace(filter)
	out := make([]model.Position, 0, len(positions))
	for _, p := range positions {
		if strings.EqualFold(p.Category, f) {
			out = append(out, p)
		}
	}
	return out
}

// Aggregate computes the view for filter. The input slice is not modified.
func Aggregate(positions []model.Position, filter string) *model.AggregateView {
	view := &model.AggregateView{
		Filter:    filter,
		Positions: Filter(positions, filter),
	}

	for _, p := range view.Positions {
		view.TotalCost += p.CostBasis
		view.TotalValue += p.CurrentValue
		for i := range view.PeriodTotals {
			view.PeriodTotals[i].Delta += p.Deltas[i]
		}
	}
	view.ProfitLoss = view.TotalValue - view.TotalCost
	view.ReturnPercent = calculator.Percent(view.ProfitLoss, view.TotalCost)

	for i, period := range model.Periods {
		s := &view.PeriodTotals[i]
		s.Period = period
		s.Prior = view.TotalValue - s.Delta
		s.Percent = calculator.Percent(s.Delta, s.Prior)
	}

	seen := make(map[string]int)
	for _, p := range positions {
		view.PortfolioValue += p.CurrentValue
		view.PortfolioCost += p.CostBasis

		i, ok := seen[p.Category]
		if !ok {
			i = len(view.Categories)
			seen[p.Category] = i
			view.Categories = append(view.Categories, model.CategoryTotal{Category: p.Category})
		}
		view.Categories[i].Count++
		view.Categories[i].ProfitLoss += calculator.ProfitLoss(p)
	}
	return view
}

// Weight is the share of the whole portfolio held in p, in percent.
// portfolioValue must be the unfiltered current total.
func Weight(p model.Position, portfolioValue float64) float64 {
	return calculator.Percent(p.CurrentValue, portfolioValue)
}
