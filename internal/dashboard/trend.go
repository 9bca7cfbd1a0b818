package dashboard

import (
	"PortfolioDesk/internal/model"
	"PortfolioDesk/internal/trend"
)

// TrendSeries is a position's 12-month series and whether it is synthesized.
type TrendSeries struct {
	Position  model.Position
	Points    []model.TrendPoint
	Estimated bool
}

// SetEstimator swaps the trend source, e.g. for a history-backed one.
func (s *State) SetEstimator(e trend.Estimator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estimator = e
}

// Trend returns the series for the named position.
func (s *State) Trend(name string) (*TrendSeries, bool) {
	p, ok := s.Find(name)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	est := s.estimator
	s.mu.Unlock()
	return &TrendSeries{
		Position:  p,
		Points:    est.Estimate(p, s.now()),
		Estimated: est.Estimated(),
	}, true
}
