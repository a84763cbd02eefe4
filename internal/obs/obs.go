// Package obs exposes the decision log as Prometheus metrics and a
// small HTTP surface, promoting prometheus/client_golang and
// justinas/alice from indirect, unused dependencies in the teacher's
// go.mod into the core's only outward-facing observability component.
package obs

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trackresolve/core/internal/model"
)

// Metrics holds every counter/histogram the core updates per resolved
// intent.
type Metrics struct {
	Accepted   prometheus.Counter
	Rejected   *prometheus.CounterVec
	FinalScore prometheus.Histogram
	RungsUsed  prometheus.Histogram
}

// NewMetrics registers the core's metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Accepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "trackresolve_accepted_total",
			Help: "Total intents that resolved to an accepted candidate.",
		}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trackresolve_rejected_total",
			Help: "Total rejected candidates by reason.",
		}, []string{"reason"}),
		FinalScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trackresolve_final_score",
			Help:    "Distribution of accepted candidates' final_score.",
			Buckets: prometheus.LinearBuckets(0.78, 0.02, 11),
		}),
		RungsUsed: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trackresolve_rungs_used",
			Help:    "Number of query rungs tried before a decision.",
			Buckets: prometheus.LinearBuckets(0, 1, 7),
		}),
	}
}

// Observe records one DecisionEdge's outcome.
func (m *Metrics) Observe(edge model.DecisionEdge) {
	if edge.AcceptedCandidate != nil {
		m.Accepted.Inc()
		m.FinalScore.Observe(edge.AcceptedCandidate.FinalScore)
	}
	for _, cand := range edge.RejectedTopN {
		if cand.RejectionReason != "" {
			m.Rejected.WithLabelValues(cand.RejectionReason).Inc()
		}
	}
	m.RungsUsed.Observe(float64(len(edge.RungsTried)))
}

// Server exposes /metrics and a minimal /decisions log endpoint,
// chained through alice the way a production HTTP surface would layer
// request logging and recovery middleware.
type Server struct {
	mux *http.ServeMux
	log *slog.Logger

	mu      []model.DecisionEdge
	maxKept int
}

// NewServer builds an obs HTTP server backed by reg's metric registry.
func NewServer(reg *prometheus.Registry, log *slog.Logger) *Server {
	s := &Server{mux: http.NewServeMux(), log: log, maxKept: 200}

	chain := alice.New(s.loggingMiddleware, s.recoveryMiddleware)
	s.mux.Handle("/metrics", chain.Then(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	s.mux.Handle("/decisions", chain.ThenFunc(s.handleDecisions))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// Record appends edge to the in-memory decision log the /decisions
// endpoint serves, capped at maxKept most recent entries.
func (s *Server) Record(edge model.DecisionEdge) {
	s.mu = append(s.mu, edge)
	if len(s.mu) > s.maxKept {
		s.mu = s.mu[len(s.mu)-s.maxKept:]
	}
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.mu); err != nil {
		s.log.Error("encoding decision log", "error", err)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic in handler", "recovered", rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
