// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Metrics records stage durations and query outcomes.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	queries       *prometheus.CounterVec
}

// NewMetrics creates the workflow collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "deep_research",
			Name:      "stage_duration_seconds",
			Help:      "Duration of workflow stages in seconds.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"stage", "outcome"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deep_research",
			Name:      "queries_total",
			Help:      "Queries processed, by final status.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{m.stageDuration, m.queries} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering workflow metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observeStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.stageDuration.WithLabelValues(stage, outcome).Observe(d.Seconds())
}

func (m *Metrics) countQuery(status types.Status) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(string(status)).Inc()
}
