package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iko-commits/gantt-chart-pro/internal/cpm"
	"github.com/iko-commits/gantt-chart-pro/internal/logging"
	"github.com/iko-commits/gantt-chart-pro/internal/scenario"
)

// ScheduleView is the body of GET /schedule.
type ScheduleView struct {
	Active   *scenario.Scenario `json:"active,omitempty"`
	Schedule *scenario.Snapshot `json:"schedule"`
}

// CreateScenarioRequest is the body of POST /scenarios.
type CreateScenarioRequest struct {
	Title      string   `json:"title"`
	ActivityID int      `json:"activity_id"`
	DeltaDays  *float64 `json:"delta_days"`
}

// DomainView is the body of GET /domain.
type DomainView struct {
	cpm.Domain
	Ticks []cpm.Day `json:"ticks"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Server serves the schedule and the scenario library over HTTP.
type Server struct {
	lib     *scenario.Library
	padding float64
	logger  *slog.Logger
	router  *mux.Router
}

// New creates a server over the library. padding is the time-domain padding
// in days. A nil logger discards output.
func New(lib *scenario.Library, padding float64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		lib:     lib,
		padding: padding,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// Router returns the configured router for use with http.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/schedule", s.handleSchedule).Methods("GET")
	s.router.HandleFunc("/baseline", s.handleBaseline).Methods("GET")
	s.router.HandleFunc("/domain", s.handleDomain).Methods("GET")

	s.router.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	s.router.HandleFunc("/scenarios", s.handleCreateScenario).Methods("POST")
	s.router.HandleFunc("/scenarios/{id}", s.handleDeleteScenario).Methods("DELETE")
	s.router.HandleFunc("/scenarios/{id}/activate", s.handleActivate).Methods("POST")
	s.router.HandleFunc("/reset", s.handleReset).Methods("POST")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ganttpro viewer: GET /schedule, /baseline, /domain, /scenarios\n"))
	}).Methods("GET")

	s.router.Use(s.loggingMiddleware)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	view := ScheduleView{Schedule: s.lib.View()}
	if active, ok := s.lib.Active(); ok {
		view.Active = &active
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.lib.Baseline())
}

func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	step := 7
	if v := r.URL.Query().Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "step must be a positive number of days")
			return
		}
		step = n
	}

	d, ok := cpm.ScheduleDomain(s.lib.View().Result, s.padding)
	if !ok {
		s.respondError(w, http.StatusNotFound, "schedule has no activities")
		return
	}
	ticks := cpm.NewLinearScale(d, 0, 1).Ticks(step)
	s.respondJSON(w, http.StatusOK, DomainView{Domain: d, Ticks: ticks})
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	list := s.lib.List()
	if list == nil {
		list = []scenario.Scenario{}
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var req CreateScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.DeltaDays == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "delta_days is required")
		return
	}

	sc, err := s.lib.Save(req.Title, req.ActivityID, *req.DeltaDays)
	if err != nil {
		var verr *scenario.ValidationError
		switch {
		case errors.Is(err, scenario.ErrLibraryFull):
			s.respondError(w, http.StatusConflict, err.Error())
		case errors.As(err, &verr):
			logging.FromContext(r.Context()).Info("scenario rejected", "reason", verr.Reason, "activity", req.ActivityID)
			s.respondError(w, http.StatusUnprocessableEntity, verr.Error())
		default:
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusCreated, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.lib.Remove(id); err != nil {
		s.respondLibraryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	snap, err := s.lib.Activate(id)
	if err != nil {
		s.respondLibraryError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.lib.Reset())
}

func (s *Server) respondLibraryError(w http.ResponseWriter, err error) {
	if errors.Is(err, scenario.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorBody{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		logger := s.logger.With("method", r.Method, "path", r.URL.Path)
		r = r.WithContext(logging.WithLogger(r.Context(), logger))
		next.ServeHTTP(rec, r)
		logger.Debug("request",
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// Start launches the viewer on addr in the background and shuts it down
// when ctx is cancelled. Returns the base URL (e.g. "http://localhost:7171").
func (s *Server) Start(ctx context.Context, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("viewer stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("http://localhost:%d", port), nil
}

// IsPortOpen checks if something is listening on the given address.
func IsPortOpen(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
