// Package metrics provides Prometheus metrics collection for askhub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for askhub.
type Collector struct {
	// Navigation metrics
	NavDecisions *prometheus.CounterVec
	NavDenials   *prometheus.CounterVec

	// Remote collection metrics
	RemoteCalls    *prometheus.CounterVec
	RemoteDuration *prometheus.HistogramVec

	// List controller metrics
	ListMutations *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a collector registered against the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered against the given registry
// (tests use a fresh registry to avoid duplicate registration).
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		NavDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "askhub",
				Name:      "nav_decisions_total",
				Help:      "Total number of route access decisions by outcome",
			},
			[]string{"kind"},
		),
		NavDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "askhub",
				Name:      "nav_denials_total",
				Help:      "Total number of guard denials by reason",
			},
			[]string{"reason"},
		),
		RemoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "askhub",
				Name:      "remote_calls_total",
				Help:      "Total number of remote collection calls",
			},
			[]string{"collection", "op", "outcome"},
		),
		RemoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "askhub",
				Name:      "remote_call_duration_seconds",
				Help:      "Remote collection call duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"collection", "op"},
		),
		ListMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "askhub",
				Name:      "list_mutations_total",
				Help:      "Total number of list controller mutations by outcome",
			},
			[]string{"collection", "op", "outcome"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "askhub",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "askhub",
				Name:      "config_reload_errors_total",
				Help:      "Total number of failed config reloads",
			},
		),
	}
}
