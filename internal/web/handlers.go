package web

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"PortfolioDesk/internal/dashboard"
	"PortfolioDesk/internal/ranking"
	"PortfolioDesk/internal/trend"

	"github.com/go-chi/chi/v5"
)

type homePage struct {
	*dashboard.Home
}

type detailPage struct {
	*dashboard.Detail
	ChartURL string
}

func queryFrom(r *http.Request) dashboard.Query {
	q := r.URL.Query()
	return dashboard.Query{
		Filter: q.Get("tur"),
		Sort:   ranking.Key(q.Get("sirala")),
		Search: q.Get("ara"),
	}
}

// positionName returns the decoded {name} path segment. chi matches on
// RawPath when it is set, so only then is the segment still escaped.
func positionName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw
	}
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func detailURL(name string) string {
	return "/pozisyon/" + url.PathEscape(name)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home := s.state.Home(queryFrom(r))
	enabled, interval := s.refresher.Status()
	home.RefreshEnabled = enabled
	if interval > 0 {
		home.RefreshInterval = interval.String()
	}
	s.render(w, "index", homePage{Home: home})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	name := positionName(r)
	d, ok := s.state.Detail(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, "detail", detailPage{Detail: d, ChartURL: detailURL(name) + "/grafik.png"})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	series, ok := s.state.Trend(positionName(r))
	if !ok {
		http.NotFound(w, r)
		return
	}
	png, err := trend.RenderPNG(series.Position.Name, series.Points, series.Position.CostBasis)
	if err != nil {
		s.logger.Error().Err(err).Str("name", series.Position.Name).Msg("render chart")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) handleSaveRule(w http.ResponseWriter, r *http.Request) {
	name := positionName(r)
	if _, ok := s.state.Find(name); !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	rule, err := dashboard.ParseRule(r.PostForm.Get("minDeger"), r.PostForm.Get("minKz"), r.PostForm.Get("minGunlukYuzde"))
	if err != nil {
		s.state.Post(dashboard.NoticeWarning, "Geçersiz eşik: "+err.Error())
		http.Redirect(w, r, detailURL(name), http.StatusSeeOther)
		return
	}
	if err := s.state.SaveRule(name, rule); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("save alert rule")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if rule.Empty() {
		s.state.Post(dashboard.NoticeInfo, "Alarm kaldırıldı: "+name)
	} else {
		s.state.Post(dashboard.NoticeSuccess, "Alarm kaydedildi: "+name)
	}
	http.Redirect(w, r, detailURL(name), http.StatusSeeOther)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	name := positionName(r)
	if err := s.state.DeleteRule(name); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("delete alert rule")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.state.Post(dashboard.NoticeInfo, "Alarm kaldırıldı: "+name)
	http.Redirect(w, r, detailURL(name), http.StatusSeeOther)
}

// parseInterval accepts a Go duration ("90s", "5m") or whole seconds.
func parseInterval(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func (s *Server) handleRefreshSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("etkin") == "" {
		s.refresher.Disable()
		s.state.Post(dashboard.NoticeInfo, "Otomatik yenileme kapatıldı")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	_, current := s.refresher.Status()
	interval := current
	if raw := r.PostForm.Get("aralik"); raw != "" {
		d, err := parseInterval(raw)
		if err != nil {
			s.state.Post(dashboard.NoticeWarning, "Geçersiz aralık: "+raw)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		interval = d
	}
	if err := s.refresher.Configure(interval); err != nil {
		s.state.Post(dashboard.NoticeWarning, "Yenileme ayarlanamadı: "+err.Error())
	} else {
		s.state.Post(dashboard.NoticeInfo, "Otomatik yenileme: her "+interval.String())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRefreshNow(w http.ResponseWriter, r *http.Request) {
	if err := s.refresher.RefreshNow(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("manual refresh failed")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": s.state.Loaded(),
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("execute template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
