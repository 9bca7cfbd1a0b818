package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PortfolioDesk/internal/alert"
	"PortfolioDesk/internal/collector"
	"PortfolioDesk/internal/config"
	"PortfolioDesk/internal/dashboard"
	"PortfolioDesk/internal/logger"
	"PortfolioDesk/internal/metrics"
	"PortfolioDesk/internal/notifier"
	"PortfolioDesk/internal/recorder"
	"PortfolioDesk/internal/scheduler"
	"PortfolioDesk/internal/web"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.New("info").Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Logging.Level)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Msg("PortfolioDesk starting")

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.Feed.URL != "" {
		fetcher = collector.NewHTTPFetcher(cfg.Feed.URL, cfg.Proxy, cfg.Feed.Timeout)
	} else {
		fetcher = collector.NewFileFetcher(cfg.Feed.Path)
	}
	log.Info().Str("source", fetcher.Name()).Msg("feed configured")
	col := collector.NewCollector(fetcher)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log.WithComponent("recorder"))
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init Telegram notifier
	var (
		notes notifier.Notifier = notifier.NoopNotifier{}
		tn    *notifier.TelegramNotifier
	)
	if cfg.Telegram.Enabled {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log.WithComponent("telegram"))
		if err != nil {
			log.Warn().Err(err).Msg("telegram unavailable, notifications disabled")
		} else {
			notes = tn
		}
	}

	m := metrics.New()
	rules := alert.LoadStore(cfg.Alerts.StateFile, log.WithComponent("alerts"))
	state := dashboard.NewState(rules, m, log.WithComponent("state"))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, state, notes, rec, m, log)
	sched.BootstrapRetry = cfg.Refresh.BootstrapRetry
	state.OnCrossing(sched.PushCrossing)
	if cfg.Refresh.Enabled {
		if err := sched.Configure(cfg.Refresh.Interval); err != nil {
			log.Fatal().Err(err).Msg("register refresh task")
		}
	}

	srv, err := web.NewServer(cfg.Web.Addr, state, sched, rec, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init web server")
	}
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("web server stopped")
		}
	}()

	// The page renders a loading state until the first fetch lands.
	go func() {
		if err := sched.Bootstrap(ctx); err != nil || ctx.Err() != nil {
			return
		}
		sched.Start()
	}()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	log.Info().Str("addr", cfg.Web.Addr).Msg("PortfolioDesk is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	sched.Stop()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("web server shutdown")
	}
	log.Info().Msg("PortfolioDesk stopped")
}
