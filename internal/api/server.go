package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/metrics"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/store"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/syncer"
)

const (
	// MaxGridDaysRange is the maximum number of days allowed in a grid request.
	MaxGridDaysRange = 92
)

// Server exposes the agenda over HTTP JSON.
type Server struct {
	db         *store.DB
	engine     *syncer.Engine
	logger     *zerolog.Logger
	limiter    *rate.Limiter
	defaultVis model.Visibility
}

// NewServer creates the API server. perSecond/burst bound the request rate
// across all clients.
func NewServer(db *store.DB, engine *syncer.Engine, logger *zerolog.Logger, perSecond float64, burst int, vis model.Visibility) *Server {
	return &Server{
		db:         db,
		engine:     engine,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		defaultVis: vis,
	}
}

// Router returns the HTTP handler with all agenda routes mounted.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/agenda/grid", s.handleGrid)
	mux.HandleFunc("/api/agenda/day", s.handleDay)
	mux.HandleFunc("/api/agenda/day/close", s.handleDayClose)
	mux.HandleFunc("/api/agenda/day/waitlist", s.handleDayWaitlist)
	mux.HandleFunc("/api/agenda/day/export", s.handleDayExport)
	mux.HandleFunc("/api/leaves", s.handleLeaves)
	mux.HandleFunc("/api/appointments", s.handleAppointments)
	mux.HandleFunc("/api/waitlist", s.handleWaitlist)
	return s.rateLimit(mux)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GridResponse is the response for GET /api/agenda/grid.
type GridResponse struct {
	Days   []syncer.GridDay `json:"days"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleGrid classifies every day of a date range and returns badge counts.
// GET /api/agenda/grid?start=YYYY-MM-DD&end=YYYY-MM-DD[&worker_id=N]
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_grid")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	start, end, err := parseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vctx, err := parseViewContext(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := GridResponse{Days: s.engine.Grid(start, end, vctx, s.visibility(r))}
	resp.Period.Start = start.Format(model.DateFormat)
	resp.Period.End = end.Format(model.DateFormat)
	writeJSON(w, http.StatusOK, resp)
}

// handleDay opens the detail view for one day: it returns the aggregated
// DayView and (re)starts the fine-grained waitlist refresh for that date.
// GET /api/agenda/day?date=YYYY-MM-DD[&worker_id=N]
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_day")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vctx, err := parseViewContext(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.engine.OpenDay(r.Context(), day, vctx)
	if err != nil {
		s.logger.Error().Err(err).Str("date", day.Format(model.DateFormat)).Msg("open day failed")
		writeError(w, http.StatusBadGateway, "day view unavailable")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleDayClose closes the detail view and stops its refresh timer.
// POST /api/agenda/day/close
func (s *Server) handleDayClose(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_day_close")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}
	s.engine.CloseDay()
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// handleDayWaitlist returns the individual waiting clients for one date.
// GET /api/agenda/day/waitlist?date=YYYY-MM-DD
func (s *Server) handleDayWaitlist(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_day_waitlist")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := s.db.GetWaitlistRequests(r.Context(), day)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch waitlist requests failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// visibility applies show_closures/show_leaves/show_weekly_off query
// overrides on top of the configured defaults.
func (s *Server) visibility(r *http.Request) model.Visibility {
	vis := s.defaultVis
	q := r.URL.Query()
	if v := q.Get("show_closures"); v != "" {
		vis.ShowClosures = v != "0" && v != "false"
	}
	if v := q.Get("show_leaves"); v != "" {
		vis.ShowLeaves = v != "0" && v != "false"
	}
	if v := q.Get("show_weekly_off"); v != "" {
		vis.ShowWeeklyOff = v != "0" && v != "false"
	}
	return vis
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format; expected YYYY-MM-DD")
	}
	return d, nil
}

func parseDateRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start and end are required")
	}
	if start, err = time.Parse(model.DateFormat, startStr); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start format; expected YYYY-MM-DD")
	}
	if end, err = time.Parse(model.DateFormat, endStr); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end format; expected YYYY-MM-DD")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start must be before or equal to end")
	}
	// Both endpoints are inclusive, so a span of N-1 gaps covers N days.
	if end.Sub(start) > (MaxGridDaysRange-1)*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds %d days", MaxGridDaysRange)
	}
	return start, end, nil
}

func parseViewContext(r *http.Request) (model.ViewContext, error) {
	raw := r.URL.Query().Get("worker_id")
	if raw == "" {
		return model.SalonWide(), nil
	}
	var id int64
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id <= 0 {
		return model.ViewContext{}, fmt.Errorf("invalid worker_id")
	}
	return model.ForWorker(id), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
