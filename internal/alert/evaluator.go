package alert

import (
	"sync"

	"PortfolioDesk/internal/calculator"
	"PortfolioDesk/internal/model"
)

// Check reports which thresholds of rule p meets. Bounds are inclusive.
func Check(p model.Position, rule model.AlertRule) []model.AlertReason {
	var reasons []model.AlertReason
	if rule.MinCurrentValue != nil && p.CurrentValue >= *rule.MinCurrentValue {
		reasons = append(reasons, model.ReasonCurrentValue)
	}
	if rule.MinProfitLoss != nil && calculator.ProfitLoss(p) >= *rule.MinProfitLoss {
		reasons = append(reasons, model.ReasonProfitLoss)
	}
	if rule.MinDailyPercent != nil && calculator.DailyPercent(p) >= *rule.MinDailyPercent {
		reasons = append(reasons, model.ReasonDailyPercent)
	}
	return reasons
}

// Evaluate checks every position that has a rule, in position order.
// It never looks at any category filter.
func Evaluate(positions []model.Position, rules map[string]model.AlertRule) []model.AlertHit {
	var hits []model.AlertHit
	for _, p := range positions {
		rule, ok := rules[p.Name]
		if !ok || rule.Empty() {
			continue
		}
		if reasons := Check(p, rule); len(reasons) > 0 {
			hits = append(hits, model.AlertHit{Name: p.Name, Reasons: reasons, Value: p.CurrentValue})
		}
	}
	return hits
}

// Tracker remembers which names fired on the previous pass so a crossing
// is pushed once while it stays in effect.
type Tracker struct {
	mu   sync.Mutex
	prev map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{prev: make(map[string]bool)}
}

// Mark sets Fresh on hits that did not fire on the previous pass and
// records the current set.
func (t *Tracker) Mark(hits []model.AlertHit) []model.AlertHit {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := make(map[string]bool, len(hits))
	for i := range hits {
		cur[hits[i].Name] = true
		hits[i].Fresh = !t.prev[hits[i].Name]
	}
	t.prev = cur
	return hits
}

// Forget drops name from the previous set, e.g. after its rule is deleted.
func (t *Tracker) Forget(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.prev, name)
}
