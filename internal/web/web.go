package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"relcal/daterange"
	"relcal/internal/calendar"
	"relcal/internal/config"
	"relcal/internal/ics"
	appLog "relcal/internal/log"
	"relcal/internal/model"
)

// Server exposes the range calculators over HTTP.
type Server struct {
	cfg     *config.Config
	calc    *daterange.Calculator
	offset  time.Duration
	reports []calendar.Report
	mux     *http.ServeMux
}

// NewServer constructs a new Server. calc supplies the clock used when a
// request carries no reference instant.
func NewServer(cfg *config.Config, calc *daterange.Calculator) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	offset, err := cfg.OffsetDuration()
	if err != nil {
		return nil, err
	}
	reports, err := calendar.ReportsFromConfig(cfg.Reports)
	if err != nil {
		return nil, err
	}
	if calc == nil {
		calc = daterange.Default
	}
	s := &Server{
		cfg:     cfg,
		calc:    calc,
		offset:  offset,
		reports: reports,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s, nil
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured. An empty
// username or password disables it.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="relcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Serve listens on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/kinds", s.handleKinds)
	s.mux.HandleFunc("GET /api/range", s.handleRange)
	s.mux.HandleFunc("GET /api/week", s.handleWeek)
	s.mux.HandleFunc("GET /api/weeks", s.handleWeeks)
	s.mux.HandleFunc("GET /api/reports", s.handleReports)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, daterange.Kinds())
}

// handleRange computes one or more named ranges.
//
// GET /api/range?name=last_week&name=yesterday&offset=-04:00&at=2014-10-23T04:55:34Z&format=ics
//   - name:   range kind, repeatable (default yesterday)
//   - offset: offset from UTC (default from config)
//   - at:     reference instant (default now)
//   - format: json (default) or ics
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offset := s.offset
	if v := q.Get("offset"); v != "" {
		d, err := daterange.ParseOffset(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		offset = d
	}

	var ref *time.Time
	if v := q.Get("at"); v != "" {
		t, err := ics.ParseTime(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ref = &t
	}

	names := q["name"]
	if len(names) == 0 {
		names = []string{string(daterange.Yesterday)}
	}

	windows := make([]model.Window, 0, len(names))
	for _, name := range names {
		kind, err := daterange.ParseKind(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rng, err := s.calc.Compute(kind, offset, ref)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		windows = append(windows, model.FromRange(string(kind), rng))
	}

	appLog.Debug("api range request", "names", len(names), "offset", daterange.FormatOffset(offset))

	switch q.Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, windows)
	case "ics":
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(ics.Export(windows, s.now())))
	default:
		writeError(w, http.StatusBadRequest, "format must be json or ics")
	}
}

// handleWeek returns the bounds of one week. GET /api/week?year=2015&week=1
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	year, ok := requireInt(w, r, "year")
	if !ok {
		return
	}
	week, ok := requireInt(w, r, "week")
	if !ok {
		return
	}
	wk, err := calendar.Week(year, week)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

// handleWeeks lists every week of a year. GET /api/weeks?year=2015
func (s *Server) handleWeeks(w http.ResponseWriter, r *http.Request) {
	year, ok := requireInt(w, r, "year")
	if !ok {
		return
	}
	weeks, err := calendar.WeeksOfYear(year)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, weeks)
}

// handleReports plans the next runs of every configured report.
// GET /api/reports?n=3&after=2014-10-23T00:00:00Z
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n := parseIntDefault(q.Get("n"), 1)

	after := s.now()
	if v := q.Get("after"); v != "" {
		t, err := ics.ParseTime(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		after = t
	}

	planner := calendar.Planner{Calc: s.calc, Offset: s.offset}
	runs, err := planner.Plan(s.reports, after, n)
	if err != nil {
		appLog.Error("api reports: plan failed", err)
		writeError(w, http.StatusInternalServerError, "failed to plan reports")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) now() time.Time {
	if s.calc.Now != nil {
		return s.calc.Now()
	}
	return time.Now().UTC()
}

func requireInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	v := r.URL.Query().Get(key)
	n, err := strconv.Atoi(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, key+" must be an integer")
		return 0, false
	}
	return n, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
