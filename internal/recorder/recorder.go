package recorder

import "time"

// RefreshSnapshot holds the portfolio totals captured after a successful refresh.
type RefreshSnapshot struct {
	Mode          string // "bootstrap", "background" or "manual"
	Positions     int
	TotalCost     float64
	TotalValue    float64
	ProfitLoss    float64
	DailyDelta    float64
	ReturnPercent float64
}

// AlertEvent records an alert rule that started firing.
type AlertEvent struct {
	Name         string
	Reasons      string // comma separated reason codes
	CurrentValue float64
	ProfitLoss   float64
	DailyPercent float64
}

// SnapshotRow is a stored RefreshSnapshot with its timestamp.
type SnapshotRow struct {
	At time.Time
	RefreshSnapshot
}

// Recorder persists refresh and alert history for later analysis.
type Recorder interface {
	RecordRefresh(snap *RefreshSnapshot) error
	RecordAlert(evt *AlertEvent) error
	RecentRefreshes(limit int) ([]SnapshotRow, error)
	Close() error
}
