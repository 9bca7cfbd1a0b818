// Package trend produces the 12-month series shown in the detail view.
//
// The feed carries no price history, so LinearEstimator interpolates between
// cost basis and current value. The result is an estimate for display and
// must not be read as historical data. A future history-backed Estimator can
// replace it without touching aggregation.
package trend

import (
	"time"

	"PortfolioDesk/internal/model"
)

// Months is the number of samples in a trend series.
const Months = 12

// Estimator produces a monthly series for a position.
type Estimator interface {
	Estimate(p model.Position, now time.Time) []model.TrendPoint
	// Estimated reports whether the series is synthesized rather than observed.
	Estimated() bool
}

// LinearEstimator interpolates linearly from cost basis (oldest month) to
// current value (current month).
type LinearEstimator struct{}

func (LinearEstimator) Estimated() bool { return true }

func (LinearEstimator) Estimate(p model.Position, now time.Time) []model.TrendPoint {
	y, m, _ := now.Date()
	current := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())

	points := make([]model.TrendPoint, Months)
	for i := range points {
		v := p.CostBasis + (p.CurrentValue-p.CostBasis)*float64(i)/float64(Months-1)
		if i == Months-1 {
			v = p.CurrentValue
		}
		points[i] = model.TrendPoint{
			Month:      current.AddDate(0, i-(Months-1), 0),
			Value:      v,
			ProfitLoss: v - p.CostBasis,
		}
	}
	return points
}
