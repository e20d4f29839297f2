package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"designator/internal/designation"
	"designator/internal/model"
)

// Metrics counts workflow outcomes. A nil *Metrics records nothing.
type Metrics struct {
	assigned *prometheus.CounterVec
	retries  *prometheus.CounterVec
}

// NewMetrics registers the workflow counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		assigned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "designations_assigned_total",
				Help: "Total number of designations assigned.",
			},
			[]string{"kind", "standard"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "designation_allocation_retries_total",
				Help: "Total number of workflow re-runs after a uniqueness violation.",
			},
			[]string{"kind"},
		),
	}
	for _, c := range []prometheus.Collector{m.assigned, m.retries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeAssigned(kind designation.Kind, std model.Standard) {
	if m == nil {
		return
	}
	m.assigned.WithLabelValues(string(kind), string(std)).Inc()
}

func (m *Metrics) observeRetry(kind designation.Kind) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(string(kind)).Inc()
}
