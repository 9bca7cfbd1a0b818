// Package dashboard owns the application state and turns it into the view
// models the web layer renders.
package dashboard

import (
	"sync"
	"time"

	"PortfolioDesk/internal/aggregate"
	"PortfolioDesk/internal/alert"
	"PortfolioDesk/internal/logger"
	"PortfolioDesk/internal/metrics"
	"PortfolioDesk/internal/model"
	"PortfolioDesk/internal/trend"
)

// CrossingFunc is called once for each alert rule that starts firing.
type CrossingFunc func(hit model.AlertHit, p model.Position)

// State is the single coordinator for the position set and everything
// derived from it. Readers and the refresh writer are serialized by mu.
type State struct {
	mu        sync.Mutex
	positions []model.Position
	cache     *aggregate.Cache
	loaded    bool
	updatedAt time.Time

	fetchSeq   uint64
	appliedSeq uint64

	rules     *alert.Store
	tracker   *alert.Tracker
	notices   *noticeBoard
	estimator trend.Estimator
	metrics   *metrics.Metrics
	log       *logger.Logger
	crossing  CrossingFunc
	now       func() time.Time
}

// NewState creates an empty state backed by the given rule store.
func NewState(rules *alert.Store, m *metrics.Metrics, log *logger.Logger) *State {
	return &State{
		cache:     aggregate.NewCache(),
		rules:     rules,
		tracker:   alert.NewTracker(),
		notices:   newNoticeBoard(32),
		estimator: trend.LinearEstimator{},
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// OnCrossing registers the callback for newly firing alerts.
func (s *State) OnCrossing(fn CrossingFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crossing = fn
}

// Rules exposes the alert rule store.
func (s *State) Rules() *alert.Store { return s.rules }

// BeginFetch numbers a fetch before it is issued.
func (s *State) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	return s.fetchSeq
}

// Replace installs a new position set and drops every memoized aggregate in
// the same critical section. The last response to arrive wins even when it
// belongs to an older fetch; stale reports whether that happened.
func (s *State) Replace(seq uint64, positions []model.Position) (stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale = seq < s.appliedSeq
	if stale {
		s.log.Warn().Uint64("seq", seq).Uint64("applied", s.appliedSeq).
			Msg("older fetch overwrote newer data")
		if s.metrics != nil {
			s.metrics.StaleWrites.Inc()
		}
	}
	s.appliedSeq = seq
	s.positions = positions
	s.cache.Invalidate()
	s.loaded = true
	s.updatedAt = s.now()

	if s.metrics != nil {
		s.metrics.Positions.Set(float64(len(positions)))
		total := 0.0
		for _, p := range positions {
			total += p.CurrentValue
		}
		s.metrics.PortfolioValue.Set(total)
	}
	return stale
}

// Loaded reports whether any position set has been installed yet.
func (s *State) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// UpdatedAt is the time of the last replacement.
func (s *State) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Positions returns the current set in feed order. Callers must not modify it.
func (s *State) Positions() []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positions
}

// Find returns the position named name.
func (s *State) Find(name string) (model.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.positions {
		if p.Name == name {
			return p, true
		}
	}
	return model.Position{}, false
}

// View returns the memoized aggregate for filter.
func (s *State) View(filter string) *model.AggregateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(filter)
}

func (s *State) viewLocked(filter string) *model.AggregateView {
	if s.metrics != nil {
		before, _ := s.cache.Stats()
		v := s.cache.Get(s.positions, filter)
		after, _ := s.cache.Stats()
		result := "miss"
		if after > before {
			result = "hit"
		}
		s.metrics.CacheLookups.WithLabelValues(result).Inc()
		return v
	}
	return s.cache.Get(s.positions, filter)
}

// EvaluateAlerts runs every stored rule against the full position set,
// ignoring any category filter. Newly firing rules go to the crossing
// callback once; every hit is returned for display.
func (s *State) EvaluateAlerts() []model.AlertHit {
	s.mu.Lock()
	positions := s.positions
	crossing := s.crossing
	s.mu.Unlock()

	hits := s.tracker.Mark(alert.Evaluate(positions, s.rules.All()))
	for _, h := range hits {
		if !h.Fresh {
			continue
		}
		if s.metrics != nil {
			s.metrics.AlertHits.Inc()
		}
		if crossing != nil {
			for _, p := range positions {
				if p.Name == h.Name {
					crossing(h, p)
					break
				}
			}
		}
	}
	return hits
}

// SaveRule stores a rule and persists it immediately.
func (s *State) SaveRule(name string, rule model.AlertRule) error {
	if err := s.rules.Save(name, rule); err != nil {
		return err
	}
	if rule.Empty() {
		s.tracker.Forget(name)
	}
	return nil
}

// DeleteRule removes a rule and persists the change immediately.
func (s *State) DeleteRule(name string) error {
	if err := s.rules.Delete(name); err != nil {
		return err
	}
	s.tracker.Forget(name)
	return nil
}

// Post adds a transient notice for the page.
func (s *State) Post(kind NoticeKind, text string) {
	s.notices.post(Notice{Kind: kind, Text: text, At: s.now()})
}

// Notices returns notices posted within window, newest first.
func (s *State) Notices(window time.Duration) []Notice {
	return s.notices.since(s.now().Add(-window))
}
