package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all Prometheus metrics for LaunchGate
type Registry struct {
	Decisions        *prometheus.CounterVec
	RuleFailures     *prometheus.CounterVec
	EvaluationTime   prometheus.Histogram
	ConfigReloads    *prometheus.CounterVec
	RateLimitedCalls prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates the metrics registry with all LaunchGate collectors
func NewRegistry() *Registry {
	r := &Registry{
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchgate_decisions_total",
				Help: "Total trade-gating decisions by action",
			},
			[]string{"action"},
		),
		RuleFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchgate_rule_failures_total",
				Help: "Total failing rule outcomes by rule key",
			},
			[]string{"rule"},
		),
		EvaluationTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "launchgate_evaluation_seconds",
				Help:    "Duration of one full pipeline evaluation",
				Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
			},
		),
		ConfigReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchgate_config_reloads_total",
				Help: "Configuration reload attempts by result",
			},
			[]string{"result"},
		),
		RateLimitedCalls: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "launchgate_rate_limited_total",
				Help: "Evaluate requests rejected by the rate limiter",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	r.registry.MustRegister(
		r.Decisions,
		r.RuleFailures,
		r.EvaluationTime,
		r.ConfigReloads,
		r.RateLimitedCalls,
	)
	return r
}

// Gatherer exposes the underlying registry for promhttp
func (r *Registry) Gatherer() *prometheus.Registry {
	return r.registry
}

// ObserveEvaluation records one evaluation's action, failures, and duration
func (r *Registry) ObserveEvaluation(action string, failedRules []string, d time.Duration) {
	r.Decisions.WithLabelValues(action).Inc()
	for _, rule := range failedRules {
		r.RuleFailures.WithLabelValues(rule).Inc()
	}
	r.EvaluationTime.Observe(d.Seconds())
}
