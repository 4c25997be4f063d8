// Package metrics records scenario generation and solver batch metrics in
// Prometheus form.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome and status label values.
const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Collector bundles the pipeline metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Scenarios        *prometheus.CounterVec
	AssemblyDuration prometheus.Histogram
	GridStep         prometheus.Histogram
	SolverRuns       *prometheus.CounterVec
	SolverDuration   prometheus.Histogram
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	scenarios, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gprpipe_scenarios_total",
		Help: "Scenario parameter sets assembled, labeled by outcome.",
	}, []string{"outcome"}), "gprpipe_scenarios_total")
	if err != nil {
		return nil, err
	}
	assembly, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gprpipe_assembly_duration_seconds",
		Help:    "Time to assemble one scenario parameter set.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	}), "gprpipe_assembly_duration_seconds")
	if err != nil {
		return nil, err
	}
	step, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gprpipe_grid_step_metres",
		Help:    "Selected spatial step of assembled scenarios.",
		Buckets: prometheus.ExponentialBuckets(1e-5, 2, 12),
	}), "gprpipe_grid_step_metres")
	if err != nil {
		return nil, err
	}
	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gprpipe_solver_runs_total",
		Help: "External solver invocations, labeled by outcome.",
	}, []string{"outcome"}), "gprpipe_solver_runs_total")
	if err != nil {
		return nil, err
	}
	solver, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gprpipe_solver_duration_seconds",
		Help:    "Wall time of one external solver run.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
	}), "gprpipe_solver_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		Scenarios:        scenarios,
		AssemblyDuration: assembly,
		GridStep:         step,
		SolverRuns:       runs,
		SolverDuration:   solver,
	}, nil
}

// ObserveScenario records one assembly attempt. step is ignored unless the
// outcome is OutcomeOK.
func (c *Collector) ObserveScenario(outcome string, d time.Duration, step float64) {
	if c == nil {
		return
	}
	c.Scenarios.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCancelled {
		return
	}
	c.AssemblyDuration.Observe(d.Seconds())
	if outcome == OutcomeOK {
		c.GridStep.Observe(step)
	}
}

// ObserveSolverRun records one solver invocation.
func (c *Collector) ObserveSolverRun(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.SolverRuns.WithLabelValues(outcome).Inc()
	if outcome != OutcomeCancelled {
		c.SolverDuration.Observe(d.Seconds())
	}
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format, for pickup by a node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.gatherer)
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
