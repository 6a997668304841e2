package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/launchgate/launchgate/internal/config"
	"github.com/launchgate/launchgate/internal/engine"
	"github.com/launchgate/launchgate/internal/metrics"
	"github.com/launchgate/launchgate/internal/rules"
	"github.com/launchgate/launchgate/internal/signal"
)

// Reloader triggers a configuration refresh; satisfied by the serve command
type Reloader interface {
	ReloadConfig() error
}

// Server exposes the engine over HTTP: POST /evaluate, GET /health,
// GET /metrics, POST /config/reload
type Server struct {
	engine   *engine.Engine
	metrics  *metrics.Registry
	reloader Reloader
	limiters *ipLimiters
	logger   zerolog.Logger
	server   *http.Server
}

// ipLimiters hands out one token bucket per client IP so a single noisy
// caller cannot starve the rest. Buckets are created on first sight of an IP
// and kept for the life of the server.
type ipLimiters struct {
	mu    sync.Mutex
	byIP  map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

func newIPLimiters(perSecond float64, burst int) *ipLimiters {
	return &ipLimiters{
		byIP:  make(map[string]*rate.Limiter),
		limit: rate.Limit(perSecond),
		burst: burst,
	}
}

// allow reports whether the caller behind remoteAddr has budget left
func (l *ipLimiters) allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	l.mu.Lock()
	lim, ok := l.byIP[host]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.byIP[host] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// NewServer wires the router and timeouts from serve-mode configuration
func NewServer(cfg config.ServerConfig, eng *engine.Engine, m *metrics.Registry, reloader Reloader, logger zerolog.Logger) *Server {
	s := &Server{
		engine:   eng,
		metrics:  m,
		reloader: reloader,
		limiters: newIPLimiters(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		logger:   logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/config/reload", s.handleReload).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the server stops
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// EvaluateRequest is the POST /evaluate payload: the signal bundle plus the
// upstream rug-probability and data-confidence estimates
type EvaluateRequest struct {
	Bundle         *signal.Bundle `json:"bundle"`
	RugProbability float64        `json:"rug_probability"`
	DataConfidence float64        `json:"data_confidence"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !s.limiters.allow(r.RemoteAddr) {
		s.metrics.RateLimitedCalls.Inc()
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("malformed request: %v", err))
		return
	}
	if req.Bundle == nil || req.Bundle.Mint == "" {
		writeError(w, http.StatusUnprocessableEntity, "bundle with mint is required")
		return
	}

	eval, err := s.engine.Evaluate(req.Bundle, req.RugProbability, req.DataConfidence)
	if err != nil {
		s.logger.Error().Err(err).Str("mint", req.Bundle.Mint).Msg("evaluation failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.ObserveEvaluation(string(eval.Decision.Action), failedRuleKeys(eval.Outcomes), eval.Duration)
	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.engine.CurrentSnapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"config_loaded_at": snap.LoadedAt,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	if s.reloader == nil {
		writeError(w, http.StatusNotImplemented, "reload not configured")
		return
	}
	if err := s.reloader.ReloadConfig(); err != nil {
		s.metrics.ConfigReloads.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.ConfigReloads.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func failedRuleKeys(outcomes []rules.Outcome) []string {
	var failed []string
	for _, out := range outcomes {
		if !out.Passed {
			failed = append(failed, out.RuleKey)
		}
	}
	return failed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
