// Package metrics exposes selection and cache activity as Prometheus
// collectors.
package metrics

import (
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"verigraph/internal/selection"
)

const namespace = "verigraph"

// Failure kinds used as the "kind" label.
const (
	KindCycle            = "cycle"
	KindUnknownReference = "unknown_reference"
	KindOther            = "other"
)

// Metrics implements selection.Observer and cache.Observer.
type Metrics struct {
	registry *prometheus.Registry

	selections        prometheus.Counter
	failures          *prometheus.CounterVec
	selectedTasks     prometheus.Histogram
	truncatedTasks    prometheus.Counter
	droppedReferences prometheus.Counter
	duration          prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		selections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Successful task selections.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_failures_total",
			Help:      "Failed task selections by kind.",
		}, []string{"kind"}),
		selectedTasks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selected_tasks",
			Help:      "Number of tasks returned per selection.",
			Buckets:   prometheus.LinearBuckets(0, 5, 8),
		}),
		truncatedTasks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "truncated_tasks_total",
			Help:      "Tasks removed by the size cap.",
		}),
		droppedReferences: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_references_total",
			Help:      "Dependency references to tasks missing from the ontology.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_duration_seconds",
			Help:      "Wall time of one selection.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Selection cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Selection cache misses.",
		}),
	}
	m.registry.MustRegister(
		m.selections,
		m.failures,
		m.selectedTasks,
		m.truncatedTasks,
		m.droppedReferences,
		m.duration,
		m.cacheHits,
		m.cacheMisses,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveSelection(s selection.Stats) {
	m.selections.Inc()
	m.selectedTasks.Observe(float64(s.Selected))
	m.truncatedTasks.Add(float64(s.Truncated))
	m.droppedReferences.Add(float64(s.DroppedReferences))
	m.duration.Observe(s.Duration.Seconds())
}

func (m *Metrics) ObserveFailure(err error) {
	m.failures.WithLabelValues(FailureKind(err)).Inc()
}

func (m *Metrics) ObserveCacheHit()  { m.cacheHits.Inc() }
func (m *Metrics) ObserveCacheMiss() { m.cacheMisses.Inc() }

// FailureKind maps a selection error to its metric label.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, selection.ErrCycle):
		return KindCycle
	case errors.Is(err, selection.ErrUnknownTaskReference):
		return KindUnknownReference
	default:
		return KindOther
	}
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
