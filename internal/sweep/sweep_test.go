package sweep

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gprpipe/internal/dielectric"
	"github.com/san-kum/gprpipe/internal/geometry"
	"github.com/san-kum/gprpipe/internal/gpr"
	"github.com/san-kum/gprpipe/internal/metrics"
	"github.com/san-kum/gprpipe/internal/scenario"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeAssembler struct {
	calls  atomic.Int32
	failAt float64
	hook   func()
}

func (f *fakeAssembler) Assemble(in scenario.Input) (*scenario.ParameterSet, error) {
	f.calls.Add(1)
	if f.hook != nil {
		f.hook()
	}
	if in.Frequency == f.failAt {
		return nil, &gpr.RangeError{Model: "fake", Param: "frequency", Value: in.Frequency}
	}
	return &scenario.ParameterSet{Input: in}, nil
}

func frequencies(fs ...float64) []scenario.Input {
	return Axes{Frequencies: fs}.Expand(scenario.Input{})
}

func TestAxesExpandLastAxisFastest(t *testing.T) {
	base := scenario.Input{Frequency: 1e9, Soil: dielectric.SoilSpec{Name: "loam", WaterContent: 0.1}}
	a := Axes{
		Frequencies: []float64{1e9, 2e9},
		Soils:       []string{"sand", "clay"},
	}
	got := a.Expand(base)

	require.Len(t, got, 4)
	assert.Equal(t, 4, a.Len())
	want := []struct {
		f    float64
		soil string
	}{{1e9, "sand"}, {1e9, "clay"}, {2e9, "sand"}, {2e9, "clay"}}
	for i, w := range want {
		assert.Equal(t, w.f, got[i].Frequency, "index %d", i)
		assert.Equal(t, w.soil, got[i].Soil.Name, "index %d", i)
		assert.Equal(t, 0.1, got[i].Soil.WaterContent, "unswept field kept")
	}
}

func TestAxesExpandEmpty(t *testing.T) {
	base := scenario.Input{Frequency: 2.45e9}
	got := Axes{}.Expand(base)
	assert.Equal(t, []scenario.Input{base}, got)
	assert.Equal(t, 1, Axes{}.Len())
}

func TestAxesExpandAllAxes(t *testing.T) {
	a := Axes{
		Frequencies:   []float64{1e9, 2e9},
		PipeDiameters: []float64{0.1, 0.2, 0.3},
		PipeLengths:   []float64{1},
		BurialDepths:  []float64{0.5, 1},
		Soils:         []string{"sand"},
		WaterContents: []float64{0.05, 0.1},
	}
	got := a.Expand(scenario.Input{Geometry: geometry.Spec{WallThickness: 0.01}})
	assert.Len(t, got, 24)
	assert.Equal(t, 0.05, got[0].Soil.WaterContent)
	assert.Equal(t, 0.1, got[1].Soil.WaterContent)
	assert.Equal(t, 0.1, got[0].Geometry.PipeDiameter)
	assert.Equal(t, 0.3, got[23].Geometry.PipeDiameter)
	assert.Equal(t, 0.01, got[23].Geometry.WallThickness)
}

func TestRunReportsInInputOrder(t *testing.T) {
	asm := &fakeAssembler{failAt: 3}
	inputs := frequencies(1, 2, 3, 4, 5, 6)

	var seen atomic.Int32
	r := NewRunner(asm, 3, quietLogger(), nil)
	r.OnOutcome = func(Outcome) { seen.Add(1) }

	outcomes, err := r.Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, outcomes, len(inputs))
	assert.Equal(t, int32(6), seen.Load())

	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, inputs[i], o.Input)
		if o.Input.Frequency == 3 {
			assert.False(t, o.OK())
			assert.False(t, o.Cancelled())
			assert.ErrorIs(t, o.Err, gpr.ErrModelRange)
			assert.Nil(t, o.Set)
			continue
		}
		assert.True(t, o.OK())
		assert.Equal(t, inputs[i], o.Set.Input)
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	asm := &fakeAssembler{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := NewRunner(asm, 2, quietLogger(), nil).Run(ctx, frequencies(1, 2, 3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, asm.calls.Load())
	for _, o := range outcomes {
		assert.True(t, o.Cancelled())
	}
}

func TestRunStopsIssuingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	asm := &fakeAssembler{hook: cancel}

	outcomes, err := NewRunner(asm, 1, quietLogger(), nil).Run(ctx, frequencies(1, 2, 3, 4))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), asm.calls.Load())
	assert.True(t, outcomes[0].OK())
	for _, o := range outcomes[1:] {
		assert.True(t, o.Cancelled(), "index %d", o.Index)
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	_, err = NewRunner(&fakeAssembler{failAt: 2}, 0, quietLogger(), m).Run(context.Background(), frequencies(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Scenarios.WithLabelValues(metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scenarios.WithLabelValues(metrics.OutcomeFailed)))
}

func TestRunWithAssembler(t *testing.T) {
	settings := scenario.Settings{
		FilenameBase:      "sweep",
		Mode:              geometry.Slice{},
		Layout:            geometry.AlongPipe{},
		MaxHarmonic:       3,
		RuntimeMultiplier: 3,
		PMLCells:          10,
		PipeMaterial:      "concrete",
		Placement:         geometry.Placement{TxOffset: gpr.Point{X: 0.05}, RxOffset: gpr.Point{X: 0.05}},
		Waveform:          scenario.Waveform{Type: "ricker", Identifier: "tx", Polarisation: "z", Amplitude: scenario.FixedAmplitude{Amplitude: 1}},
	}
	asm, err := scenario.NewAssembler(settings, nil)
	require.NoError(t, err)

	base := scenario.Input{
		Frequency: 1e9,
		Geometry:  geometry.Spec{PipeDiameter: 0.2, WallThickness: 0.02, PipeLength: 1, BurialDepth: 0.5, SoilDepth: 0.3, AirDepth: 0.3},
		Soil:      dielectric.SoilSpec{Name: "loam", Temperature: 15, WaterContent: 0.1},
	}
	inputs := Axes{Frequencies: []float64{1e9, 2e9}, WaterContents: []float64{0.1, 0.9}}.Expand(base)

	outcomes, err := NewRunner(asm, 4, quietLogger(), nil).Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	assert.True(t, outcomes[0].OK())
	assert.ErrorIs(t, outcomes[1].Err, gpr.ErrModelRange)
	assert.True(t, outcomes[2].OK())
	assert.ErrorIs(t, outcomes[3].Err, gpr.ErrModelRange)
	assert.Less(t, outcomes[2].Set.Discretization.Step, outcomes[0].Set.Discretization.Step)
}
