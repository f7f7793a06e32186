package batch

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrNilRegisterer indicates NewMetrics was given no registerer.
var ErrNilRegisterer = errors.New("batch: prometheus registerer is nil")

// Result label values of gclp_solves_total.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics is the Prometheus instrumentation of a Runner. A nil *Metrics
// records nothing.
type Metrics struct {
	solves   *prometheus.CounterVec
	duration prometheus.Histogram
	phases   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
//
// Errors:
//   - ErrNilRegisterer when reg is nil.
//   - the registerer's error (e.g. duplicate registration), wrapped.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, ErrNilRegisterer
	}
	m := &Metrics{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gclp_solves_total",
			Help: "Equilibrium solves by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gclp_solve_duration_seconds",
			Help:    "Wall time of one equilibrium query.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		phases: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gclp_equilibrium_phases",
			Help:    "Number of phases in computed equilibria.",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		}),
	}
	for _, c := range []prometheus.Collector{m.solves, m.duration, m.phases} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("batch: register metrics: %w", err)
		}
	}

	return m, nil
}

// observe records one query; phases < 0 means unknown.
func (m *Metrics) observe(start time.Time, phases int, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.solves.WithLabelValues(ResultError).Inc()
		return
	}
	m.solves.WithLabelValues(ResultOK).Inc()
	if phases >= 0 {
		m.phases.Observe(float64(phases))
	}
}
