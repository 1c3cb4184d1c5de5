// Package metrics exposes scorer activity as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// ScorerMetrics receives events from the scoring session.
type ScorerMetrics interface {
	ActionRecorded(code types.ActionCode)
	SetCompleted(winner types.Team)
	UndoPerformed(popped int)
	ScoreChanged(s types.MatchState)
	AddStoreElapsedTime(op string, elapsed time.Duration)
	StoreFailed(op string)
}

// NewMetrics registers the scorer collectors on registry.
func NewMetrics(registry *prometheus.Registry) ScorerMetrics {
	return setupPrometheusMetrics(registry)
}

// NewNoop returns a ScorerMetrics that discards every event.
func NewNoop() ScorerMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ActionRecorded(types.ActionCode)           {}
func (noopMetrics) SetCompleted(types.Team)                   {}
func (noopMetrics) UndoPerformed(int)                         {}
func (noopMetrics) ScoreChanged(types.MatchState)             {}
func (noopMetrics) AddStoreElapsedTime(string, time.Duration) {}
func (noopMetrics) StoreFailed(string)                        {}
