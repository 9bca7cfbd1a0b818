package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"PortfolioDesk/internal/dashboard"
	"PortfolioDesk/internal/logger"
	"PortfolioDesk/internal/metrics"
	"PortfolioDesk/internal/recorder"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Refresher controls the background refresh and runs manual ones.
type Refresher interface {
	Configure(interval time.Duration) error
	Disable()
	Status() (enabled bool, interval time.Duration)
	RefreshNow(ctx context.Context) error
}

type Server struct {
	httpServer *http.Server
	state      *dashboard.State
	refresher  Refresher
	history    recorder.Recorder
	metrics    *metrics.Metrics
	templates  *template.Template
	logger     *logger.Logger
}

func NewServer(addr string, st *dashboard.State, ref Refresher, rec recorder.Recorder, m *metrics.Metrics, log *logger.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pathEscape": url.PathEscape,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		state:     st,
		refresher: ref,
		history:   rec,
		metrics:   m,
		templates: tmpl,
		logger:    log.WithComponent("web"),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, nil
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Route("/pozisyon/{name}", func(r chi.Router) {
		r.Get("/", s.handleDetail)
		r.Get("/grafik.png", s.handleChart)
		r.Post("/alarm", s.handleSaveRule)
		r.Post("/alarm/sil", s.handleDeleteRule)
	})
	r.Post("/yenile", s.handleRefreshSettings)
	r.Post("/yenile/simdi", s.handleRefreshNow)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoCache)
		r.Get("/ozet", s.handleAPISummary)
		r.Get("/pozisyonlar", s.handleAPIPositions)
		r.Get("/pozisyon/{name}/trend", s.handleAPITrend)
		r.Get("/gecmis", s.handleAPIHistory)
	})

	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/health", s.handleHealth)
	return r
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("web server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
