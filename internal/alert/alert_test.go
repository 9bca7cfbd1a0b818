package alert

import (
	"os"
	"path/filepath"
	"testing"

	"PortfolioDesk/internal/logger"
	"PortfolioDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestCheck_CurrentValueBoundary(t *testing.T) {
	rule := model.AlertRule{MinCurrentValue: f(100000)}

	hit := model.Position{Name: "ABC", CostBasis: 1, CurrentValue: 100000}
	assert.Equal(t, []model.AlertReason{model.ReasonCurrentValue}, Check(hit, rule))

	miss := model.Position{Name: "ABC", CostBasis: 1, CurrentValue: 99999.99}
	assert.Empty(t, Check(miss, rule))
}

func TestCheck_AnyThreshold(t *testing.T) {
	p := model.Position{Name: "ABC", CostBasis: 10000, CurrentValue: 12500}
	p.Deltas[model.Daily] = 200

	assert.Equal(t, []model.AlertReason{model.ReasonProfitLoss},
		Check(p, model.AlertRule{MinCurrentValue: f(20000), MinProfitLoss: f(2500)}))
	assert.Equal(t, []model.AlertReason{model.ReasonDailyPercent},
		Check(p, model.AlertRule{MinDailyPercent: f(1.6)}))
	assert.Empty(t, Check(p, model.AlertRule{MinDailyPercent: f(1.7)}))
	assert.Empty(t, Check(p, model.AlertRule{}))
}

func TestEvaluate_IgnoresPositionsWithoutRules(t *testing.T) {
	positions := []model.Position{
		{Name: "A", Category: "Hisse", CostBasis: 1, CurrentValue: 10},
		{Name: "B", Category: "Fon", CostBasis: 1, CurrentValue: 10},
		{Name: "C", Category: "Fon", CostBasis: 1, CurrentValue: 10},
	}
	rules := map[string]model.AlertRule{
		"B":     {MinCurrentValue: f(5)},
		"C":     {MinCurrentValue: f(50)},
		"Ghost": {MinCurrentValue: f(0)},
		"A":     {},
	}

	hits := Evaluate(positions, rules)
	require.Len(t, hits, 1)
	assert.Equal(t, "B", hits[0].Name)
}

func TestTracker(t *testing.T) {
	tr := NewTracker()

	hits := tr.Mark([]model.AlertHit{{Name: "A"}, {Name: "B"}})
	assert.True(t, hits[0].Fresh)
	assert.True(t, hits[1].Fresh)

	hits = tr.Mark([]model.AlertHit{{Name: "A"}})
	assert.False(t, hits[0].Fresh, "still firing")

	hits = tr.Mark([]model.AlertHit{{Name: "A"}, {Name: "B"}})
	assert.False(t, hits[0].Fresh)
	assert.True(t, hits[1].Fresh, "B cleared and fired again")

	tr.Forget("A")
	hits = tr.Mark([]model.AlertHit{{Name: "A"}})
	assert.True(t, hits[0].Fresh)
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "alerts.json")
	s := LoadStore(path, logger.Nop())
	assert.Empty(t, s.All())

	require.NoError(t, s.Save("ABC", model.AlertRule{MinCurrentValue: f(100000), MinDailyPercent: f(2)}))
	require.NoError(t, s.Save("XYZ", model.AlertRule{MinProfitLoss: f(-500)}))

	reloaded := LoadStore(path, logger.Nop())
	rule, ok := reloaded.Get("ABC")
	require.True(t, ok)
	assert.Equal(t, 100000.0, *rule.MinCurrentValue)
	assert.Nil(t, rule.MinProfitLoss)
	assert.Equal(t, 2.0, *rule.MinDailyPercent)
	assert.Equal(t, []string{"ABC", "XYZ"}, reloaded.Names())

	require.NoError(t, reloaded.Delete("XYZ"))
	require.NoError(t, reloaded.Save("ABC", model.AlertRule{}))
	assert.Empty(t, LoadStore(path, logger.Nop()).All(), "empty rule deletes the entry")
}

func TestStore_CorruptBlobIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := LoadStore(path, logger.Nop())
	assert.Empty(t, s.All())

	require.NoError(t, s.Save("ABC", model.AlertRule{MinProfitLoss: f(1)}))
	assert.Len(t, LoadStore(path, logger.Nop()).All(), 1)
}
