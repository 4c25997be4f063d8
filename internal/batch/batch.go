// Package batch runs an external solver over rendered input files.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gprpipe/internal/metrics"
	"github.com/san-kum/gprpipe/internal/storage"
)

// Recorder stores one outcome per solver run.
type Recorder interface {
	Record(ctx context.Context, e storage.Entry) error
}

// Result is the outcome of one solver run.
type Result struct {
	Input    string
	Status   string
	Err      error
	Duration time.Duration
	// Output holds the tail of combined stdout and stderr for failed runs.
	Output string
}

// Summary aggregates a batch.
type Summary struct {
	Passed    int
	Failed    int
	Cancelled int
	Results   []Result
}

// Runner invokes Command with Args followed by the input path.
type Runner struct {
	Command string
	Args    []string
	// Timeout bounds a single run. Zero means no limit.
	Timeout time.Duration
	Workers int

	Log      logrus.FieldLogger
	Metrics  *metrics.Collector
	Recorder Recorder
}

const outputTail = 2048

// Run executes the solver once per input. Failed runs do not stop the batch.
// Cancelling ctx stops issuing new runs and kills running ones.
func (r *Runner) Run(ctx context.Context, sweepID string, inputs []string) (Summary, error) {
	if r.Command == "" {
		return Summary{}, errors.New("batch: no solver command")
	}
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, len(inputs))
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			res := r.runOne(ctx, in)
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			r.Metrics.ObserveSolverRun(res.Status, res.Duration)
			entry := log.WithFields(logrus.Fields{"file": filepath.Base(in), "outcome": res.Status, "duration": res.Duration})
			switch res.Status {
			case metrics.OutcomeOK:
				entry.Info("solver run passed")
			case metrics.OutcomeFailed:
				entry.WithError(res.Err).Warn("solver run failed")
			}
			if r.Recorder != nil {
				e := storage.Entry{
					SweepID:  sweepID,
					Stage:    storage.StageSolve,
					Filename: filepath.Base(in),
					Status:   res.Status,
					Duration: res.Duration,
				}
				if res.Err != nil {
					e.Error = res.Err.Error()
				}
				if err := r.Recorder.Record(context.WithoutCancel(ctx), e); err != nil {
					log.WithError(err).Error("failed to record solver outcome")
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	s := Summary{Results: results}
	for _, res := range results {
		switch res.Status {
		case metrics.OutcomeOK:
			s.Passed++
		case metrics.OutcomeFailed:
			s.Failed++
		default:
			s.Cancelled++
		}
	}
	log.WithFields(logrus.Fields{"passed": s.Passed, "failed": s.Failed, "cancelled": s.Cancelled}).Info("batch finished")
	return s, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, input string) Result {
	res := Result{Input: input}
	if err := ctx.Err(); err != nil {
		res.Status, res.Err = metrics.OutcomeCancelled, err
		return res
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := append(append([]string(nil), r.Args...), input)
	cmd := exec.CommandContext(runCtx, r.Command, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)

	switch {
	case err == nil:
		res.Status = metrics.OutcomeOK
	case ctx.Err() != nil:
		res.Status, res.Err = metrics.OutcomeCancelled, ctx.Err()
	default:
		res.Status = metrics.OutcomeFailed
		res.Err = fmt.Errorf("%s %s: %w", r.Command, filepath.Base(input), err)
		res.Output = tail(out.String(), outputTail)
	}
	return res
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
