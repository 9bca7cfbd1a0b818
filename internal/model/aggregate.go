package model

import "time"

// FilterAll selects every position regardless of category.
const FilterAll = "ALL"

// PeriodSummary is the portfolio-level movement for one trailing window.
type PeriodSummary struct {
	Period  Period
	Delta   float64
	Prior   float64
	Percent float64
}

// CategoryTotal is the profit/loss of one category over the whole portfolio.
type CategoryTotal struct {
	Category   string
	Count      int
	ProfitLoss float64
}

// AggregateView is derived from the position set and a category filter.
// It is never persisted.
type AggregateView struct {
	Filter        string
	Positions     []Position
	TotalCost     float64
	TotalValue    float64
	ProfitLoss    float64
	ReturnPercent float64

	// Portfolio-wide figures, independent of Filter.
	PortfolioValue float64
	PortfolioCost  float64
	Categories     []CategoryTotal
	PeriodTotals   [PeriodCount]PeriodSummary
}

// TrendPoint is one synthesized monthly sample.
type TrendPoint struct {
	Month      time.Time
	Value      float64
	ProfitLoss float64
}
