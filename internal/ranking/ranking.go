package ranking

import (
	"sort"
	"strings"

	"PortfolioDesk/internal/calculator"
	"PortfolioDesk/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Key selects the ordering of the position list.
type Key string

const (
	Default        Key = "default"
	ProfitLossDesc Key = "kz-desc"
	ProfitLossAsc  Key = "kz-asc"
	CostDesc       Key = "maliyet-desc"
	ValueDesc      Key = "deger-desc"
	NameAsc        Key = "ad-asc"
	NameDesc       Key = "ad-desc"
)

// Option is a selectable key with its display label.
type Option struct {
	Key   Key
	Label string
}

// Keys lists the keys offered by the sort selector, in display order.
func Keys() []Option {
	return []Option{
		{Default, "Varsayılan"},
		{ProfitLossDesc, "K/Z (yüksek → düşük)"},
		{ProfitLossAsc, "K/Z (düşük → yüksek)"},
		{CostDesc, "Maliyet (yüksek → düşük)"},
		{ValueDesc, "Güncel değer (yüksek → düşük)"},
		{NameAsc, "Ad (A → Z)"},
		{NameDesc, "Ad (Z → A)"},
	}
}

// Sort returns a stably ordered copy of positions. Unknown keys keep feed order.
func Sort(positions []model.Position, key Key) []model.Position {
	out := make([]model.Position, len(positions))
	copy(out, positions)

	less := lessFunc(key)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func lessFunc(key Key) func(a, b model.Position) bool {
	switch key {
	case ProfitLossDesc:
		return func(a, b model.Position) bool { return calculator.ProfitLoss(a) > calculator.ProfitLoss(b) }
	case ProfitLossAsc:
		return func(a, b model.Position) bool { return calculator.ProfitLoss(a) < calculator.ProfitLoss(b) }
	case CostDesc:
		return func(a, b model.Position) bool { return a.CostBasis > b.CostBasis }
	case ValueDesc:
		return func(a, b model.Position) bool { return a.CurrentValue > b.CurrentValue }
	case NameAsc:
		c := collate.New(language.Turkish)
		return func(a, b model.Position) bool { return c.CompareString(a.Name, b.Name) < 0 }
	case NameDesc:
		c := collate.New(language.Turkish)
		return func(a, b model.Position) bool { return c.CompareString(a.Name, b.Name) > 0 }
	default:
		return nil
	}
}

// FilterByName keeps positions whose name contains query, ignoring case
// under Turkish folding rules.
func FilterByName(positions []model.Position, query string) []model.Position {
	q := strings.TrimSpace(query)
	if q == "" {
		return positions
	}
	lower := cases.Lower(language.Turkish)
	q = lower.String(q)
	out := make([]model.Position, 0, len(positions))
	for _, p := range positions {
		if strings.Contains(lower.String(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}
