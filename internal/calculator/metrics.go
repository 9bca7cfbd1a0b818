package calculator

import (
	"math"
	"time"

	"PortfolioDesk/internal/model"
)

// ProfitLoss is current value minus cost basis.
func ProfitLoss(p model.Position) float64 {
	return p.CurrentValue - p.CostBasis
}

// ReturnPercent is profit/loss over cost basis, in percent. Zero cost yields 0.
func ReturnPercent(p model.Position) float64 {
	return Percent(ProfitLoss(p), p.CostBasis)
}

// Percent returns part/whole*100, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// DailyPercent approximates the one-day move as a percent of yesterday's value.
func DailyPercent(p model.Position) float64 {
	daily := p.Delta(model.Daily)
	return Percent(daily, p.CurrentValue-daily)
}

// Quantity returns the unit count. The feed does not always carry one, so it
// falls back to cost basis over the purchase price (or current value) and
// finally to 1.
func Quantity(p model.Position) float64 {
	if p.Quantity > 0 {
		return p.Quantity
	}
	ref := p.UnitPurchasePrice
	if ref <= 0 {
		ref = p.CurrentValue
	}
	if ref == 0 {
		return 1
	}
	q := math.Floor(p.CostBasis / ref)
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return 1
	}
	return q
}

// UnitCost is the cost basis per unit.
func UnitCost(p model.Position) float64 {
	return p.CostBasis / Quantity(p)
}

// UnitPrice is the current value per unit.
func UnitPrice(p model.Position) float64 {
	return p.CurrentValue / Quantity(p)
}

// PeriodLadder walks back from the current value through the periods from
// shortest to longest. Each step's end value is the running value before
// its own delta is removed. Profit/loss is always measured against the
// cost basis.
func PeriodLadder(p model.Position) [model.PeriodCount]model.LadderStep {
	var ladder [model.PeriodCount]model.LadderStep
	running := p.CurrentValue
	for i, period := range model.Periods {
		delta := p.Delta(period)
		ladder[i] = model.LadderStep{
			Period:     period,
			Delta:      delta,
			EndValue:   running,
			ProfitLoss: running - p.CostBasis,
		}
		running -= delta
	}
	return ladder
}

// Derive computes every per-position metric shown in the detail view.
func Derive(p model.Position, now time.Time) model.PositionMetrics {
	qty := Quantity(p)
	unitCost := p.CostBasis / qty
	unitPrice := p.CurrentValue / qty
	days, known := HoldingDays(p.AcquisitionDate, now)
	return model.PositionMetrics{
		ProfitLoss:     ProfitLoss(p),
		ReturnPercent:  ReturnPercent(p),
		DailyPercent:   DailyPercent(p),
		Quantity:       qty,
		UnitCost:       unitCost,
		UnitPrice:      unitPrice,
		UnitProfitLoss: unitPrice - unitCost,
		HoldingDays:    days,
		HoldingKnown:   known,
		Ladder:         PeriodLadder(p),
	}
}
