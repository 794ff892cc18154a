// Package metrics declares the prometheus series recorded at each
// engine boundary: counters and histograms via promauto, labeled for
// per-year and per-status breakdowns.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconciliationRuns counts reconciliation invocations by year and
	// outcome (ok/error), mirroring securities_function_calls_total.
	ReconciliationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxrecon_reconciliation_runs_total",
			Help: "Reconciliation invocations by tax year and outcome",
		},
		[]string{"year", "status"},
	)

	// SaleResultsProduced histograms how many SaleResults one
	// reconciliation run emits.
	SaleResultsProduced = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxrecon_sale_results_produced",
			Help:    "SaleResults produced per reconciliation run",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"year"},
	)

	// WarningsEmitted histograms warning counts per reconciliation run.
	WarningsEmitted = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxrecon_warnings_emitted",
			Help:    "Warnings emitted per reconciliation run",
			Buckets: []float64{0, 1, 2, 5, 10, 25},
		},
		[]string{"year"},
	)

	// EstimatorInvocations counts estimator calls made through the CLI's
	// timed wrapper; the strategy engine's internal delta calls are not
	// counted.
	EstimatorInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxrecon_estimator_invocations_total",
			Help: "Estimator calls by year and caller (baseline/report)",
		},
		[]string{"year", "caller"},
	)

	// EstimatorDuration times one Estimate call.
	EstimatorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxrecon_estimator_duration_seconds",
			Help:    "Estimator call duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"caller"},
	)

	// RecommendationsRanked counts StrategyRecommendations produced, by
	// priority bucket, so an operator can see the CRITICAL/HIGH split.
	RecommendationsRanked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxrecon_recommendations_ranked_total",
			Help: "StrategyRecommendations produced by priority",
		},
		[]string{"priority"},
	)
)

// RecordReconciliation records the outcome of one reconciliation run.
func RecordReconciliation(year int, status string, saleResults, warnings int) {
	yearLabel := strconv.Itoa(year)
	ReconciliationRuns.WithLabelValues(yearLabel, status).Inc()
	SaleResultsProduced.WithLabelValues(yearLabel).Observe(float64(saleResults))
	WarningsEmitted.WithLabelValues(yearLabel).Observe(float64(warnings))
}

// RecordEstimator records one estimator invocation and its duration.
func RecordEstimator(year int, caller string, durationSeconds float64) {
	EstimatorInvocations.WithLabelValues(strconv.Itoa(year), caller).Inc()
	EstimatorDuration.WithLabelValues(caller).Observe(durationSeconds)
}

// RecordRecommendation tallies one ranked StrategyRecommendation.
func RecordRecommendation(priority string) {
	RecommendationsRanked.WithLabelValues(priority).Inc()
}
