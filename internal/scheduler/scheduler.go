package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"PortfolioDesk/internal/calculator"
	"PortfolioDesk/internal/collector"
	"PortfolioDesk/internal/dashboard"
	"PortfolioDesk/internal/logger"
	"PortfolioDesk/internal/metrics"
	"PortfolioDesk/internal/model"
	"PortfolioDesk/internal/notifier"
	"PortfolioDesk/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Refresh modes, also used as the metrics "mode" label.
const (
	ModeBootstrap  = "bootstrap"
	ModeBackground = "background"
	ModeManual     = "manual"
)

// Scheduler runs the feed refreshes: the bootstrap loop, the periodic
// background job and manual refreshes.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	State     *dashboard.State
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Ctx       context.Context

	// BootstrapRetry is the fixed delay between failed bootstrap attempts.
	BootstrapRetry time.Duration

	log      *logger.Logger
	mu       sync.Mutex
	entry    cron.EntryID
	interval time.Duration
	running  bool
	stopped  bool
	now      func() time.Time
}

// NewScheduler creates a new Scheduler. No background job is registered
// until Configure is called.
func NewScheduler(ctx context.Context, col *collector.Collector, st *dashboard.State, n notifier.Notifier, rec recorder.Recorder, m *metrics.Metrics, log *logger.Logger) *Scheduler {
	return &Scheduler{
		Cron:           cron.New(),
		Collector:      col,
		State:          st,
		Notifier:       n,
		Recorder:       rec,
		Metrics:        m,
		Ctx:            ctx,
		BootstrapRetry: 1200 * time.Millisecond,
		log:            log.WithComponent("scheduler"),
		now:            time.Now,
	}
}

// Configure (re)registers the background refresh at the given interval.
// Any earlier registration is removed first, so at most one job exists.
func (s *Scheduler) Configure(interval time.Duration) error {
	if interval < time.Second {
		return fmt.Errorf("refresh interval %s is below 1s", interval)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked()
	id, err := s.Cron.AddFunc("@every "+interval.String(), s.backgroundTask)
	if err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.entry = id
	s.interval = interval
	s.log.Info().Dur("interval", interval).Msg("background refresh enabled")
	return nil
}

// Disable removes the background refresh, if any.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry != 0 {
		s.log.Info().Msg("background refresh disabled")
	}
	s.removeLocked()
}

func (s *Scheduler) removeLocked() {
	if s.entry != 0 {
		s.Cron.Remove(s.entry)
		s.entry = 0
	}
}

// Status reports whether background refresh is on and its last interval.
func (s *Scheduler) Status() (enabled bool, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry != 0, s.interval
}

// Start starts the cron scheduler. It is a no-op once Stop has been called.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.running {
		return
	}
	s.Cron.Start()
	s.running = true
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.running = false
	s.mu.Unlock()

	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// Running reports whether the cron scheduler is started.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Bootstrap fetches until the first success, waiting BootstrapRetry between
// attempts. Each failure is logged and shown to the user. It only gives up
// when ctx is cancelled.
func (s *Scheduler) Bootstrap(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		err := s.refresh(ctx, ModeBootstrap)
		if err == nil {
			s.log.Info().Int("attempt", attempt).Msg("initial data loaded")
			s.trySend(notifier.FormatRefreshed(len(s.State.Positions()), s.State.UpdatedAt()))
			return nil
		}
		s.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", s.BootstrapRetry).Msg("initial load failed")
		s.State.Post(dashboard.NoticeWarning, "Veriler alınamadı, yeniden deneniyor…")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.BootstrapRetry):
		}
	}
}

// RefreshNow runs a manual refresh and returns its error to the caller.
func (s *Scheduler) RefreshNow(ctx context.Context) error {
	if err := s.refresh(ctx, ModeManual); err != nil {
		s.State.Post(dashboard.NoticeWarning, "Yenileme başarısız: "+describe(err))
		return err
	}
	s.announce()
	return nil
}

// backgroundTask refreshes silently on failure; the previous set stays.
func (s *Scheduler) backgroundTask() {
	if err := s.refresh(s.Ctx, ModeBackground); err != nil {
		s.log.Warn().Err(err).Msg("background refresh failed, keeping previous data")
		return
	}
	s.announce()
}

// refresh performs one fetch. The network round trip happens outside the
// state lock; only the replacement is serialized.
func (s *Scheduler) refresh(ctx context.Context, mode string) error {
	seq := s.State.BeginFetch()
	start := s.now()
	positions, err := s.Collector.Collect(ctx)
	s.Metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.Metrics.Refreshes.WithLabelValues(mode, resultLabel(err)).Inc()
		return err
	}
	s.Metrics.Refreshes.WithLabelValues(mode, metrics.ResultOK).Inc()

	s.State.Replace(seq, positions)
	s.log.Info().Str("mode", mode).Int("positions", len(positions)).Uint64("seq", seq).Msg("positions refreshed")

	s.recordSnapshot(mode)
	s.State.EvaluateAlerts()
	return nil
}

func (s *Scheduler) recordSnapshot(mode string) {
	view := s.State.View(model.FilterAll)
	if err := s.Recorder.RecordRefresh(&recorder.RefreshSnapshot{
		Mode:          mode,
		Positions:     len(view.Positions),
		TotalCost:     view.TotalCost,
		TotalValue:    view.TotalValue,
		ProfitLoss:    view.ProfitLoss,
		DailyDelta:    view.PeriodTotals[model.Daily].Delta,
		ReturnPercent: view.ReturnPercent,
	}); err != nil {
		s.log.Error().Err(err).Msg("record refresh")
	}
}

func (s *Scheduler) announce() {
	n := len(s.State.Positions())
	s.State.Post(dashboard.NoticeSuccess, fmt.Sprintf("Veriler güncellendi (%d pozisyon)", n))
}

// PushCrossing notifies and records an alert rule that started firing.
// It is registered as the state's crossing callback.
func (s *Scheduler) PushCrossing(hit model.AlertHit, p model.Position) {
	s.trySend(notifier.FormatAlertHit(hit))

	codes := make([]string, len(hit.Reasons))
	for i, r := range hit.Reasons {
		codes[i] = string(r)
	}
	if err := s.Recorder.RecordAlert(&recorder.AlertEvent{
		Name:         hit.Name,
		Reasons:      strings.Join(codes, ","),
		CurrentValue: p.CurrentValue,
		ProfitLoss:   calculator.ProfitLoss(p),
		DailyPercent: calculator.DailyPercent(p),
	}); err != nil {
		s.log.Error().Err(err).Msg("record alert")
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	// Commands may arrive as "/ozet@botname".
	if i := strings.IndexByte(command, '@'); i > 0 {
		command = command[:i]
	}
	switch command {
	case "/ozet", "özet":
		if !s.State.Loaded() {
			return "⏳ Veriler henüz yüklenmedi"
		}
		return notifier.FormatSummary(s.State.View(model.FilterAll), s.State.UpdatedAt())
	case "/alarmlar", "alarmlar":
		return notifier.FormatAlerts(s.State.EvaluateAlerts())
	case "/yenile", "yenile":
		if err := s.RefreshNow(s.Ctx); err != nil {
			return "❌ Yenileme başarısız: " + describe(err)
		}
		return notifier.FormatRefreshed(len(s.State.Positions()), s.State.UpdatedAt())
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := notifier.SendWithRetry(s.Ctx, s.Notifier, text, 3, s.log); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, collector.ErrParse):
		return metrics.ResultParse
	case errors.Is(err, collector.ErrNoData):
		return metrics.ResultNoData
	default:
		return metrics.ResultTransport
	}
}

// describe turns a collection error into a short Turkish message.
func describe(err error) string {
	switch {
	case errors.Is(err, collector.ErrParse):
		return "veri çözümlenemedi"
	case errors.Is(err, collector.ErrNoData):
		return "veri boş"
	default:
		return "bağlantı hatası"
	}
}
