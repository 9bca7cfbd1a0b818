package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"PortfolioDesk/internal/alert"
	"PortfolioDesk/internal/collector"
	"PortfolioDesk/internal/dashboard"
	"PortfolioDesk/internal/logger"
	"PortfolioDesk/internal/metrics"
	"PortfolioDesk/internal/model"
	"PortfolioDesk/internal/recorder"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = "urun,tur,toplamYatirim,guncelDeger,gunluk\n" +
	"ABC,Hisse,\"10.000\",\"12.500\",200\n" +
	"XYZ,Fon,\"5.000\",\"4.000\",-50\n"

const feedUpdated = "urun,tur,toplamYatirim,guncelDeger,gunluk\n" +
	"ABC,Hisse,\"10.000\",\"13.000\",700\n"

type memNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (m *memNotifier) Send(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, text)
	return nil
}

func (m *memNotifier) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

type memRecorder struct {
	recorder.NoopRecorder
	mu        sync.Mutex
	refreshes []recorder.RefreshSnapshot
	alerts    []recorder.AlertEvent
}

func (r *memRecorder) RecordRefresh(s *recorder.RefreshSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes = append(r.refreshes, *s)
	return nil
}

func (r *memRecorder) RecordAlert(e *recorder.AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, *e)
	return nil
}

type fixture struct {
	sched   *Scheduler
	state   *dashboard.State
	fetcher *collector.MockFetcher
	notes   *memNotifier
	rec     *memRecorder
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, data string) *fixture {
	t.Helper()
	log := logger.Nop()
	m := metrics.New()
	store := alert.LoadStore(filepath.Join(t.TempDir(), "alerts.json"), log)
	st := dashboard.NewState(store, m, log)
	f := collector.NewMockFetcher([]byte(data))
	notes := &memNotifier{}
	rec := &memRecorder{}

	s := NewScheduler(context.Background(), collector.NewCollector(f), st, notes, rec, m, log)
	s.BootstrapRetry = 10 * time.Millisecond
	st.OnCrossing(s.PushCrossing)
	return &fixture{sched: s, state: st, fetcher: f, notes: notes, rec: rec, metrics: m}
}

func TestBootstrapRetriesUntilSuccess(t *testing.T) {
	fx := newFixture(t, feed)
	fx.fetcher.Set(nil, errors.New("connection refused"))

	go func() {
		for fx.fetcher.Calls() < 3 {
			time.Sleep(2 * time.Millisecond)
		}
		fx.fetcher.Set([]byte(feed), nil)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, fx.sched.Bootstrap(ctx))

	assert.True(t, fx.state.Loaded())
	assert.Len(t, fx.state.Positions(), 2)
	assert.GreaterOrEqual(t, fx.fetcher.Calls(), 4)

	notices := fx.state.Notices(time.Minute)
	require.NotEmpty(t, notices)
	assert.Equal(t, dashboard.NoticeWarning, notices[0].Kind)

	failed := testutil.ToFloat64(fx.metrics.Refreshes.WithLabelValues(ModeBootstrap, metrics.ResultTransport))
	assert.GreaterOrEqual(t, failed, 3.0)
}

func TestBootstrapStopsOnCancel(t *testing.T) {
	fx := newFixture(t, feed)
	fx.fetcher.Set(nil, errors.New("down"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, fx.sched.Bootstrap(ctx), context.DeadlineExceeded)
	assert.False(t, fx.state.Loaded())
}

func TestFailedBackgroundRefreshKeepsData(t *testing.T) {
	fx := newFixture(t, feed)
	require.NoError(t, fx.sched.Bootstrap(context.Background()))
	before := fx.state.Positions()
	noticesBefore := len(fx.state.Notices(time.Minute))

	fx.fetcher.Set([]byte("urun,tur\n"), nil)
	fx.sched.backgroundTask()

	assert.Equal(t, before, fx.state.Positions())
	assert.Len(t, fx.state.Notices(time.Minute), noticesBefore, "background failures are silent")
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.Refreshes.WithLabelValues(ModeBackground, metrics.ResultNoData)))
}

func TestBackgroundRefreshReplacesAndAnnounces(t *testing.T) {
	fx := newFixture(t, feed)
	require.NoError(t, fx.sched.Bootstrap(context.Background()))
	first := fx.state.View(model.FilterAll)

	fx.fetcher.Set([]byte(feedUpdated), nil)
	fx.sched.backgroundTask()

	view := fx.state.View(model.FilterAll)
	assert.NotSame(t, first, view, "replacement invalidates memoized views")
	assert.Equal(t, 13000.0, view.TotalValue)
	assert.Contains(t, fx.state.Notices(time.Minute)[0].Text, "güncellendi")
	require.Len(t, fx.rec.refreshes, 2)
	assert.Equal(t, ModeBackground, fx.rec.refreshes[1].Mode)
	assert.Equal(t, 700.0, fx.rec.refreshes[1].DailyDelta)
}

func TestConfigureKeepsSingleEntry(t *testing.T) {
	fx := newFixture(t, feed)

	require.NoError(t, fx.sched.Configure(time.Minute))
	require.NoError(t, fx.sched.Configure(30*time.Second))
	require.NoError(t, fx.sched.Configure(2*time.Minute))
	assert.Len(t, fx.sched.Cron.Entries(), 1)

	enabled, interval := fx.sched.Status()
	assert.True(t, enabled)
	assert.Equal(t, 2*time.Minute, interval)

	fx.sched.Disable()
	assert.Empty(t, fx.sched.Cron.Entries())
	enabled, _ = fx.sched.Status()
	assert.False(t, enabled)

	assert.Error(t, fx.sched.Configure(500*time.Millisecond))
	assert.Empty(t, fx.sched.Cron.Entries())
}

func TestStartAfterStopIsIgnored(t *testing.T) {
	fx := newFixture(t, feed)

	fx.sched.Start()
	assert.True(t, fx.sched.Running())
	fx.sched.Stop()
	assert.False(t, fx.sched.Running())

	fx.sched.Start()
	assert.False(t, fx.sched.Running(), "a stopped scheduler stays stopped")
}

func TestCrossingPushedOnce(t *testing.T) {
	fx := newFixture(t, feed)
	threshold := 12000.0
	require.NoError(t, fx.state.SaveRule("ABC", model.AlertRule{MinCurrentValue: &threshold}))

	require.NoError(t, fx.sched.Bootstrap(context.Background()))
	require.NoError(t, fx.sched.RefreshNow(context.Background()))

	msgs := fx.notes.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "Alarm", "crossings are pushed before the startup message")
	assert.Contains(t, msgs[1], "güncellendi")
	require.Len(t, fx.rec.alerts, 1, "a rule that stays in effect is pushed once")
	assert.Equal(t, "ABC", fx.rec.alerts[0].Name)
	assert.Equal(t, "DEGER", fx.rec.alerts[0].Reasons)
	assert.Equal(t, 2500.0, fx.rec.alerts[0].ProfitLoss)
}

func TestHandleCommand(t *testing.T) {
	fx := newFixture(t, feed)
	assert.Contains(t, fx.sched.HandleCommand("/ozet"), "henüz")

	require.NoError(t, fx.sched.Bootstrap(context.Background()))
	assert.Contains(t, fx.sched.HandleCommand("/ozet@PortfolioDeskBot"), "Portföy Özeti")
	assert.Contains(t, fx.sched.HandleCommand("/alarmlar"), "yok")
	assert.Contains(t, fx.sched.HandleCommand("/yenile"), "2 pozisyon")
	assert.Contains(t, fx.sched.HandleCommand("/nope"), "/ozet")

	fx.fetcher.Set(nil, errors.New("down"))
	assert.Contains(t, fx.sched.HandleCommand("/yenile"), "bağlantı hatası")
}
