package model

// AlertRule holds the user thresholds for one position. Nil fields are unset.
type AlertRule struct {
	MinCurrentValue *float64 `json:"minDeger,omitempty"`
	MinProfitLoss   *float64 `json:"minKz,omitempty"`
	MinDailyPercent *float64 `json:"minGunlukYuzde,omitempty"`
}

// Empty reports whether the rule sets no threshold at all.
func (r AlertRule) Empty() bool {
	return r.MinCurrentValue == nil && r.MinProfitLoss == nil && r.MinDailyPercent == nil
}

// AlertReason names which threshold was crossed.
type AlertReason string

const (
	ReasonCurrentValue AlertReason = "DEGER"
	ReasonProfitLoss   AlertReason = "KZ"
	ReasonDailyPercent AlertReason = "GUNLUK_YUZDE"
)

// AlertHit is the outcome of a rule that fired on a render pass.
type AlertHit struct {
	Name    string
	Reasons []AlertReason
	Value   float64
	Fresh   bool // first pass on which this name fired
}
