package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"PortfolioDesk/internal/aggregate"
	"PortfolioDesk/internal/calculator"
	"PortfolioDesk/internal/format"
	"PortfolioDesk/internal/model"
	"PortfolioDesk/internal/ranking"
)

type periodJSON struct {
	Period  string  `json:"period"`
	Delta   float64 `json:"delta"`
	Percent float64 `json:"percent"`
}

type categoryJSON struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	ProfitLoss float64 `json:"profitLoss"`
}

type summaryJSON struct {
	Filter        string         `json:"filter"`
	Positions     int            `json:"positions"`
	TotalCost     float64        `json:"totalCost"`
	TotalValue    float64        `json:"totalValue"`
	ProfitLoss    float64        `json:"profitLoss"`
	ReturnPercent float64        `json:"returnPercent"`
	Periods       []periodJSON   `json:"periods"`
	Categories    []categoryJSON `json:"categories"`
	UpdatedAt     string         `json:"updatedAt,omitempty"`
}

type positionJSON struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	CostBasis     float64 `json:"costBasis"`
	CurrentValue  float64 `json:"currentValue"`
	ProfitLoss    float64 `json:"profitLoss"`
	ReturnPercent float64 `json:"returnPercent"`
	DailyPercent  float64 `json:"dailyPercent"`
	Weight        float64 `json:"weight"`
}

type trendPointJSON struct {
	Month             string  `json:"month"`
	Value             float64 `json:"value"`
	ProfitLoss        float64 `json:"profitLoss"`
	ProfitLossPercent string  `json:"profitLossPercent"`
}

type trendJSON struct {
	Name      string           `json:"name"`
	Estimated bool             `json:"estimated"`
	Points    []trendPointJSON `json:"points"`
}

type snapshotJSON struct {
	At            string  `json:"at"`
	Mode          string  `json:"mode"`
	Positions     int     `json:"positions"`
	TotalCost     float64 `json:"totalCost"`
	TotalValue    float64 `json:"totalValue"`
	ProfitLoss    float64 `json:"profitLoss"`
	DailyDelta    float64 `json:"dailyDelta"`
	ReturnPercent float64 `json:"returnPercent"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) notLoaded(w http.ResponseWriter) bool {
	if s.state.Loaded() {
		return false
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "data not loaded yet"})
	return true
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	if s.notLoaded(w) {
		return
	}
	q := queryFrom(r)
	if q.Filter == "" {
		q.Filter = model.FilterAll
	}
	view := s.state.View(q.Filter)

	out := summaryJSON{
		Filter:        q.Filter,
		Positions:     len(view.Positions),
		TotalCost:     view.TotalCost,
		TotalValue:    view.TotalValue,
		ProfitLoss:    view.ProfitLoss,
		ReturnPercent: view.ReturnPercent,
		UpdatedAt:     s.state.UpdatedAt().Format(time.RFC3339),
	}
	for _, ps := range view.PeriodTotals {
		out.Periods = append(out.Periods, periodJSON{Period: ps.Period.Label(), Delta: ps.Delta, Percent: ps.Percent})
	}
	for _, c := range view.Categories {
		out.Categories = append(out.Categories, categoryJSON{Category: c.Category, Count: c.Count, ProfitLoss: c.ProfitLoss})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIPositions(w http.ResponseWriter, r *http.Request) {
	if s.notLoaded(w) {
		return
	}
	q := queryFrom(r)
	if q.Filter == "" {
		q.Filter = model.FilterAll
	}
	view := s.state.View(q.Filter)

	out := make([]positionJSON, 0, len(view.Positions))
	for _, p := range ranking.Sort(ranking.FilterByName(view.Positions, q.Search), q.Sort) {
		out = append(out, positionJSON{
			Name:          p.Name,
			Category:      p.Category,
			CostBasis:     p.CostBasis,
			CurrentValue:  p.CurrentValue,
			ProfitLoss:    calculator.ProfitLoss(p),
			ReturnPercent: calculator.ReturnPercent(p),
			DailyPercent:  calculator.DailyPercent(p),
			Weight:        aggregate.Weight(p, view.PortfolioValue),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPITrend(w http.ResponseWriter, r *http.Request) {
	series, ok := s.state.Trend(positionName(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "position not found"})
		return
	}
	out := trendJSON{Name: series.Position.Name, Estimated: series.Estimated}
	for _, pt := range series.Points {
		out.Points = append(out.Points, trendPointJSON{
			Month:             pt.Month.Format("2006-01"),
			Value:             pt.Value,
			ProfitLoss:        pt.ProfitLoss,
			ProfitLossPercent: format.PercentPrecise(calculator.Percent(pt.ProfitLoss, series.Position.CostBasis)),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 1000 {
		limit = v
	}
	rows, err := s.history.RecentRefreshes(limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("read refresh history")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	out := make([]snapshotJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotJSON{
			At:            row.At.Format(time.RFC3339),
			Mode:          row.Mode,
			Positions:     row.Positions,
			TotalCost:     row.TotalCost,
			TotalValue:    row.TotalValue,
			ProfitLoss:    row.ProfitLoss,
			DailyDelta:    row.DailyDelta,
			ReturnPercent: row.ReturnPercent,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
