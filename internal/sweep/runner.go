package sweep

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gprpipe/internal/metrics"
	"github.com/san-kum/gprpipe/internal/scenario"
)

// Assembler builds one parameter set per input.
type Assembler interface {
	Assemble(in scenario.Input) (*scenario.ParameterSet, error)
}

// Outcome is the result of one sweep instance. Exactly one of Set and Err
// is non-nil.
type Outcome struct {
	Index    int
	Input    scenario.Input
	Set      *scenario.ParameterSet
	Err      error
	Duration time.Duration
}

// OK reports whether the instance assembled.
func (o Outcome) OK() bool { return o.Err == nil }

// Cancelled reports whether the instance was never assembled because the
// sweep was cancelled.
func (o Outcome) Cancelled() bool {
	return errors.Is(o.Err, context.Canceled) || errors.Is(o.Err, context.DeadlineExceeded)
}

// Runner assembles inputs with a bounded number of workers.
type Runner struct {
	asm     Assembler
	workers int
	log     logrus.FieldLogger
	metrics *metrics.Collector

	// OnOutcome, when set, is called once per finished instance. Calls are
	// serialised but arrive in completion order.
	OnOutcome func(Outcome)
}

// NewRunner returns a runner using workers goroutines. Zero or fewer means
// one per CPU.
func NewRunner(asm Assembler, workers int, log logrus.FieldLogger, m *metrics.Collector) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{asm: asm, workers: workers, log: log, metrics: m}
}

// Run assembles every input. Instance failures are reported in their outcome
// and do not stop the sweep. Cancelling ctx stops issuing new instances;
// those outcomes carry the context error, which Run also returns.
// Outcomes are returned in input order.
func (r *Runner) Run(ctx context.Context, inputs []scenario.Input) ([]Outcome, error) {
	outcomes := make([]Outcome, len(inputs))
	var mu sync.Mutex
	report := func(o Outcome) {
		outcomes[o.Index] = o
		if r.OnOutcome == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		r.OnOutcome(o)
	}

	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for i, in := range inputs {
		i, in := i, in
		if err := ctx.Err(); err != nil {
			for j := i; j < len(inputs); j++ {
				o := Outcome{Index: j, Input: inputs[j], Err: err}
				r.metrics.ObserveScenario(metrics.OutcomeCancelled, 0, 0)
				report(o)
			}
			break
		}
		g.Go(func() error {
			report(r.assemble(ctx, i, in))
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if !o.OK() && !o.Cancelled() {
			failed++
		}
	}
	r.log.WithFields(logrus.Fields{"total": len(inputs), "failed": failed}).Info("sweep finished")
	return outcomes, ctx.Err()
}

func (r *Runner) assemble(ctx context.Context, i int, in scenario.Input) Outcome {
	o := Outcome{Index: i, Input: in}
	if err := ctx.Err(); err != nil {
		o.Err = err
		r.metrics.ObserveScenario(metrics.OutcomeCancelled, 0, 0)
		return o
	}

	start := time.Now()
	o.Set, o.Err = r.asm.Assemble(in)
	o.Duration = time.Since(start)

	if o.Err != nil {
		r.log.WithFields(logrus.Fields{
			"index":     i,
			"frequency": in.Frequency,
			"soil":      in.Soil.Name,
			"outcome":   metrics.OutcomeFailed,
		}).WithError(o.Err).Warn("scenario rejected")
		r.metrics.ObserveScenario(metrics.OutcomeFailed, o.Duration, 0)
		return o
	}
	r.log.WithFields(logrus.Fields{"scenario": o.Set.GeometryFilename, "step": o.Set.Discretization.Step}).
		Debug("scenario assembled")
	r.metrics.ObserveScenario(metrics.OutcomeOK, o.Duration, o.Set.Discretization.Step)
	return o
}
