package dashboard

import (
	"strings"
	"time"

	"PortfolioDesk/internal/aggregate"
	"PortfolioDesk/internal/calculator"
	"PortfolioDesk/internal/format"
	"PortfolioDesk/internal/model"
	"PortfolioDesk/internal/notifier"
	"PortfolioDesk/internal/ranking"
)

// NoticeWindow is how long a transient notice stays on the page.
const NoticeWindow = 10 * time.Second

// Query is the user's current selection on the main page.
type Query struct {
	Filter string
	Sort   ranking.Key
	Search string
}

// Card is one summary figure.
type Card struct {
	Label     string
	Value     string
	Sub       string
	Direction string
}

// Bucket is a category filter button with its portfolio-wide subtotal.
type Bucket struct {
	Filter     string
	Label      string
	Slug       string
	Count      int
	ProfitLoss string
	Direction  string
	Active     bool
}

// TickerItem is one entry of the scrolling daily movers strip.
type TickerItem struct {
	Name      string
	Arrow     string
	Percent   string
	Direction string
}

// Row is one line of the ranked position list.
type Row struct {
	Name         string
	Category     string
	CategorySlug string
	Cost         string
	Value        string
	ProfitLoss   string
	Return       string
	Daily        string
	Weight       string
	Direction    string
	Alert        bool
	AlertText    string
}

// AlertNotice is the page notice for a rule that is currently firing.
type AlertNotice struct {
	Name    string
	Reasons string
	Value   string
}

// Home is the view model of the main page.
type Home struct {
	Query       Query
	SortOptions []ranking.Option
	Loaded      bool
	UpdatedAt   string

	Cards   []Card
	Periods []Card
	Buckets []Bucket
	Ticker  []TickerItem
	Rows    []Row

	Alerts  []AlertNotice
	Notices []Notice

	RefreshEnabled  bool
	RefreshInterval string
}

// Home builds the main page for q. Alerts are evaluated on every call.
func (s *State) Home(q Query) *Home {
	if q.Filter == "" {
		q.Filter = model.FilterAll
	}
	h := &Home{
		Query:       q,
		SortOptions: ranking.Keys(),
		Loaded:      s.Loaded(),
		Notices:     s.Notices(NoticeWindow),
	}
	if !h.Loaded {
		return h
	}
	h.UpdatedAt = s.UpdatedAt().Format("02.01.2006 15:04:05")

	view := s.View(q.Filter)
	hits := s.EvaluateAlerts()
	firing := make(map[string]model.AlertHit, len(hits))
	for _, hit := range hits {
		firing[hit.Name] = hit
		h.Alerts = append(h.Alerts, AlertNotice{
			Name:    hit.Name,
			Reasons: notifier.ReasonText(hit.Reasons),
			Value:   format.Currency(hit.Value),
		})
	}

	daily := view.PeriodTotals[model.Daily]
	h.Cards = []Card{
		{Label: "Toplam Maliyet", Value: format.Currency(view.TotalCost), Sub: pluralPositions(len(view.Positions))},
		{Label: "Güncel Değer", Value: format.Currency(view.TotalValue), Direction: format.Direction(view.ProfitLoss)},
		{Label: "Toplam K/Z", Value: format.SignedCurrency(view.ProfitLoss), Sub: format.Percent(view.ReturnPercent), Direction: format.Direction(view.ProfitLoss)},
		{Label: "Günlük", Value: format.SignedCurrency(daily.Delta), Sub: format.Percent(daily.Percent), Direction: format.Direction(daily.Delta)},
	}
	for _, ps := range view.PeriodTotals {
		h.Periods = append(h.Periods, Card{
			Label:     ps.Period.Label(),
			Value:     format.SignedCurrency(ps.Delta),
			Sub:       format.Percent(ps.Percent),
			Direction: format.Direction(ps.Delta),
		})
	}

	h.Buckets = append(h.Buckets, Bucket{
		Filter:     model.FilterAll,
		Label:      "Tümü",
		Slug:       "tumu",
		Count:      len(s.Positions()),
		ProfitLoss: format.SignedCurrency(view.PortfolioValue - view.PortfolioCost),
		Direction:  format.Direction(view.PortfolioValue - view.PortfolioCost),
		Active:     aggregate.IsAll(q.Filter),
	})
	for _, c := range view.Categories {
		h.Buckets = append(h.Buckets, Bucket{
			Filter:     c.Category,
			Label:      c.Category,
			Slug:       format.Slug(c.Category),
			Count:      c.Count,
			ProfitLoss: format.SignedCurrency(c.ProfitLoss),
			Direction:  format.Direction(c.ProfitLoss),
			Active:     strings.EqualFold(strings.TrimSpace(q.Filter), c.Category),
		})
	}

	for _, p := range s.Positions() {
		pct := calculator.DailyPercent(p)
		h.Ticker = append(h.Ticker, TickerItem{
			Name:      p.Name,
			Arrow:     format.Arrow(pct),
			Percent:   format.Percent(pct),
			Direction: format.Direction(pct),
		})
	}

	for _, p := range ranking.Sort(ranking.FilterByName(view.Positions, q.Search), q.Sort) {
		pl := calculator.ProfitLoss(p)
		row := Row{
			Name:         p.Name,
			Category:     p.Category,
			CategorySlug: format.Slug(p.Category),
			Cost:         format.Currency(p.CostBasis),
			Value:        format.Currency(p.CurrentValue),
			ProfitLoss:   format.SignedCurrency(pl),
			Return:       format.Percent(calculator.ReturnPercent(p)),
			Daily:        format.Percent(calculator.DailyPercent(p)),
			Weight:       format.Share(aggregate.Weight(p, view.PortfolioValue)),
			Direction:    format.Direction(pl),
		}
		if hit, ok := firing[p.Name]; ok {
			row.Alert = true
			row.AlertText = notifier.ReasonText(hit.Reasons)
		}
		h.Rows = append(h.Rows, row)
	}
	return h
}

// LadderRow is one formatted step of the period walk-back.
type LadderRow struct {
	Period     string
	Delta      string
	EndValue   string
	ProfitLoss string
	Direction  string
}

// RuleForm holds the current thresholds as form field values.
type RuleForm struct {
	MinCurrentValue string
	MinProfitLoss   string
	MinDailyPercent string
	Set             bool
}

// Detail is the view model of the position panel.
type Detail struct {
	Name      string
	Category  string
	Cards     []Card
	Units     []Card
	Ladder    []LadderRow
	Holding   string
	Acquired  string
	Rule      RuleForm
	Alert     *AlertNotice
	Estimated bool
	Notices   []Notice
}

// Detail builds the panel for the named position.
func (s *State) Detail(name string) (*Detail, bool) {
	p, ok := s.Find(name)
	if !ok {
		return nil, false
	}
	m := calculator.Derive(p, s.now())

	d := &Detail{
		Name:      p.Name,
		Category:  p.Category,
		Holding:   format.Days(m.HoldingDays, m.HoldingKnown),
		Acquired:  p.AcquisitionDate,
		Estimated: s.estimated(),
		Notices:   s.Notices(NoticeWindow),
	}
	d.Cards = []Card{
		{Label: "Maliyet", Value: format.Currency(p.CostBasis)},
		{Label: "Güncel Değer", Value: format.Currency(p.CurrentValue), Direction: format.Direction(m.ProfitLoss)},
		{Label: "K/Z", Value: format.SignedCurrency(m.ProfitLoss), Sub: format.Percent(m.ReturnPercent), Direction: format.Direction(m.ProfitLoss)},
		{Label: "Günlük", Value: format.SignedCurrency(p.Delta(model.Daily)), Sub: format.Percent(m.DailyPercent), Direction: format.Direction(m.DailyPercent)},
	}
	d.Units = []Card{
		{Label: "Adet", Value: format.Quantity(m.Quantity)},
		{Label: "Birim Maliyet", Value: format.UnitCurrency(m.UnitCost)},
		{Label: "Birim Fiyat", Value: format.UnitCurrency(m.UnitPrice)},
		{Label: "Birim K/Z", Value: format.UnitCurrency(m.UnitProfitLoss), Direction: format.Direction(m.UnitProfitLoss)},
	}
	for _, step := range m.Ladder {
		d.Ladder = append(d.Ladder, LadderRow{
			Period:     step.Period.Label(),
			Delta:      format.SignedCurrency(step.Delta),
			EndValue:   format.Currency(step.EndValue),
			ProfitLoss: format.SignedCurrency(step.ProfitLoss),
			Direction:  format.Direction(step.ProfitLoss),
		})
	}

	if rule, ok := s.rules.Get(p.Name); ok {
		d.Rule = RuleForm{
			MinCurrentValue: formValue(rule.MinCurrentValue),
			MinProfitLoss:   formValue(rule.MinProfitLoss),
			MinDailyPercent: formValue(rule.MinDailyPercent),
			Set:             true,
		}
	}
	for _, hit := range s.EvaluateAlerts() {
		if hit.Name == p.Name {
			d.Alert = &AlertNotice{Name: hit.Name, Reasons: notifier.ReasonText(hit.Reasons), Value: format.Currency(hit.Value)}
			break
		}
	}
	return d, true
}

func (s *State) estimated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.estimator.Estimated()
}

func pluralPositions(n int) string {
	return format.Amount(float64(n)) + " pozisyon"
}
