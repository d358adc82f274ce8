// Package metrics holds the Prometheus collectors of the valuation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Quote outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	Quotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stonktronk_quotes_total",
			Help: "Price provider queries by outcome",
		},
		[]string{"outcome"},
	)

	Evaluations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stonktronk_evaluations_total",
			Help: "Completed portfolio evaluations",
		},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stonktronk_evaluation_duration_seconds",
			Help:    "Wall time of a portfolio evaluation",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	StoreSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stonktronk_store_saves_total",
			Help: "Portfolio store writes by result",
		},
		[]string{"result"},
	)
)

// SaveResult labels a store write.
func SaveResult(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
