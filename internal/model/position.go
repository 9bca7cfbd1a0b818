package model

// Period identifies one of the trailing windows carried by the feed.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	SemiAnnual
	Annual
)

// PeriodCount is the number of trailing windows.
const PeriodCount = 6

// Periods lists the windows from shortest to longest.
var Periods = [PeriodCount]Period{Daily, Weekly, Monthly, Quarterly, SemiAnnual, Annual}

var periodLabels = [PeriodCount]string{"Günlük", "Haftalık", "Aylık", "3 Aylık", "6 Aylık", "1 Yıllık"}

// Label returns the display name of the period.
func (p Period) Label() string {
	if p < 0 || int(p) >= PeriodCount {
		return ""
	}
	return periodLabels[p]
}

// Position is one tracked holding as delivered by the feed.
type Position struct {
	Name              string
	Category          string
	CostBasis         float64
	CurrentValue      float64
	Deltas            [PeriodCount]float64
	Quantity          float64 // 0 when the feed has no adet column
	UnitPurchasePrice float64 // 0 when absent
	AcquisitionDate   string  // raw D.M.YYYY text
}

// Delta returns the signed change attributed to period p.
func (p Position) Delta(period Period) float64 {
	return p.Deltas[period]
}

// LadderStep is one rung of the chained period walk-back.
type LadderStep struct {
	Period     Period
	Delta      float64
	EndValue   float64
	ProfitLoss float64
}

// PositionMetrics bundles everything derived from a single Position.
type PositionMetrics struct {
	ProfitLoss     float64
	ReturnPercent  float64
	DailyPercent   float64
	Quantity       float64
	UnitCost       float64
	UnitPrice      float64
	UnitProfitLoss float64
	HoldingDays    int
	HoldingKnown   bool
	Ladder         [PeriodCount]LadderStep
}
