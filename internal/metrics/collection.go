package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

type prometheusMetrics struct {
	actions          prometheus.CounterVec
	setsCompleted    prometheus.CounterVec
	undos            prometheus.Counter
	undoneEntries    prometheus.Counter
	score            prometheus.GaugeVec
	sets             prometheus.GaugeVec
	storeElapsedTime prometheus.HistogramVec
	storeFailures    prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	actions := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_actions_total",
			Help: "Confirmed operator actions by category and code",
		}, []string{"category", "code"})

	setsCompleted := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_sets_completed_total",
			Help: "Completed sets by winning team",
		}, []string{"team"})

	undos := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "courtside_undo_total",
			Help: "Undo operations performed",
		})

	undoneEntries := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "courtside_undone_entries_total",
			Help: "Log entries removed by undo, markers included",
		})

	score := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "courtside_score",
			Help: "Current set score by team",
		}, []string{"team"})

	sets := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "courtside_sets_won",
			Help: "Sets won in the current match by team",
		}, []string{"team"})

	//nolint:promlinter
	storeElapsedTime := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtside_store_elapsed_time_ms",
			Help:    "A histogram of store transaction elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"op"})

	storeFailures := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_store_failures_total",
			Help: "Store operations that failed",
		}, []string{"op"})

	return prometheusMetrics{
		actions:          *actions,
		setsCompleted:    *setsCompleted,
		undos:            undos,
		undoneEntries:    undoneEntries,
		score:            *score,
		sets:             *sets,
		storeElapsedTime: *storeElapsedTime,
		storeFailures:    *storeFailures,
	}
}

func (metrics prometheusMetrics) ActionRecorded(code types.ActionCode) {
	metrics.actions.With(prometheus.Labels{"category": code.Category(), "code": string(code)}).Inc()
}

func (metrics prometheusMetrics) SetCompleted(winner types.Team) {
	metrics.setsCompleted.With(prometheus.Labels{"team": string(winner)}).Inc()
}

func (metrics prometheusMetrics) UndoPerformed(popped int) {
	metrics.undos.Inc()
	metrics.undoneEntries.Add(float64(popped))
}

func (metrics prometheusMetrics) ScoreChanged(s types.MatchState) {
	metrics.score.With(prometheus.Labels{"team": string(types.TeamHome)}).Set(float64(s.ScoreHome))
	metrics.score.With(prometheus.Labels{"team": string(types.TeamAway)}).Set(float64(s.ScoreAway))
	metrics.sets.With(prometheus.Labels{"team": string(types.TeamHome)}).Set(float64(s.SetsHome))
	metrics.sets.With(prometheus.Labels{"team": string(types.TeamAway)}).Set(float64(s.SetsAway))
}

func (metrics prometheusMetrics) AddStoreElapsedTime(op string, elapsed time.Duration) {
	metrics.storeElapsedTime.With(prometheus.Labels{"op": op}).Observe(float64(elapsed.Milliseconds()))
}

func (metrics prometheusMetrics) StoreFailed(op string) {
	metrics.storeFailures.With(prometheus.Labels{"op": op}).Inc()
}
