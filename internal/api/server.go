// SPDX-License-Identifier: MIT

// Package api exposes the session facade over HTTP: session lifecycle,
// shortlist generation and selection, plus health and metrics endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/log"
	"github.com/tripstep/tripstep/internal/session"
)

// Server routes facade requests to the session coordinator.
type Server struct {
	coord *session.Coordinator
	cfg   config.APIConfig
}

// NewServer builds the HTTP facade.
func NewServer(coord *session.Coordinator, cfg config.APIConfig) *Server {
	return &Server{coord: coord, cfg: cfg}
}

// Router assembles the chi router with request IDs, per-request deadlines
// and rate limiting.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestDeadline))
	if s.cfg.RateLimitEnabled && s.cfg.RateLimitPerMin > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/session", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleSessionInfo)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/options", s.handleOptions)
			r.Post("/select", s.handleSelect)
		})
	})
	return r
}

// requestID attaches a request id to the context so log lines correlate.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := log.ContextWithRequestID(r.Context(), id)
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createSessionRequest struct {
	City          string  `json:"city"`
	StartPOI      string  `json:"start_poi"`
	DurationHours float64 `json:"duration_hours"`
	Budget        float64 `json:"budget"`
	UserInput     string  `json:"user_input,omitempty"`
	Weather       string  `json:"weather,omitempty"`
	UserID        string  `json:"user_id,omitempty"`

	ReturnDeadlineHours float64 `json:"return_deadline_hours,omitempty"`
	ReturnPlace         string  `json:"return_place,omitempty"`
}

type createSessionResponse struct {
	SessionID string           `json:"session_id"`
	State     *session.Summary `json:"state"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.NewReasonError(domain.RInvalidInput, "malformed JSON body", err))
		return
	}

	init := session.InitRequest{
		City:          req.City,
		StartPOI:      req.StartPOI,
		DurationHours: req.DurationHours,
		Budget:        req.Budget,
		UserInput:     req.UserInput,
		Weather:       req.Weather,
		UserID:        req.UserID,
	}
	if req.ReturnPlace != "" && req.ReturnDeadlineHours > 0 {
		place, err := s.coord.ResolvePOI(r.Context(), req.City, req.ReturnPlace)
		if err != nil {
			writeError(w, r, err)
			return
		}
		init.ReturnBy = &domain.ReturnConstraint{
			DeadlineHours: req.ReturnDeadlineHours,
			Place:         place,
		}
	}

	sess, err := s.coord.Initialize(r.Context(), init)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := s.coord.Info(sess.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: sess.ID, State: sum})
}

type optionsResponse struct {
	Options     []*domain.CandidateOption `json:"options"`
	Degraded    []domain.DegradedStage    `json:"degraded,omitempty"`
	EmptyReason domain.EmptyReason        `json:"empty_reason,omitempty"`
	State       *session.Summary          `json:"state"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := log.ContextWithSessionID(r.Context(), id)

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, r, domain.NewReasonError(domain.RInvalidInput, "k must be a positive integer", nil))
			return
		}
		k = v
	}

	res, sum, err := s.coord.NextOptions(ctx, id, k)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{
		Options:     res.Options,
		Degraded:    res.Degraded,
		EmptyReason: res.EmptyReason,
		State:       sum,
	})
}

type selectRequest struct {
	OptionIndex *int   `json:"option_index,omitempty"`
	OptionID    string `json:"option_id,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

type selectResponse struct {
	Selected *domain.CandidateOption `json:"selected"`
	State    *session.Summary        `json:"state"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := log.ContextWithSessionID(r.Context(), id)

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.NewReasonError(domain.RInvalidInput, "malformed JSON body", err))
		return
	}

	chosen, sum, err := s.coord.Select(ctx, id, session.SelectRequest{
		OptionIndex: req.OptionIndex,
		OptionID:    req.OptionID,
		Mode:        domain.TransportMode(req.Mode),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectResponse{Selected: chosen, State: sum})
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	sum, err := s.coord.Info(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.coord.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
