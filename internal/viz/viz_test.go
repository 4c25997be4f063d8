package viz

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gprpipe/internal/config"
	"github.com/san-kum/gprpipe/internal/gpr"
	"github.com/san-kum/gprpipe/internal/scenario"
	"github.com/san-kum/gprpipe/internal/sweep"
)

func TestProgressCounts(t *testing.T) {
	cancelled := false
	var m tea.Model = NewProgress("sweep", 3, func() { cancelled = true })

	set := &scenario.ParameterSet{GeometryFilename: "straight_pipe_2.45"}
	m, _ = m.Update(OutcomeMsg(sweep.Outcome{Index: 0, Set: set}))
	m, _ = m.Update(OutcomeMsg(sweep.Outcome{Index: 1, Err: &gpr.RangeError{Model: "soil", Param: "water_content", Value: 0.9}}))
	m, _ = m.Update(OutcomeMsg(sweep.Outcome{Index: 2, Err: context.Canceled}))

	p := m.(Progress)
	assert.Equal(t, 3, p.Done())
	assert.Equal(t, 1, p.failed)
	assert.Equal(t, 1, p.cancelled)

	view := p.View()
	assert.Contains(t, view, "3/3")
	assert.Contains(t, view, "straight_pipe_2.45")
	assert.Contains(t, view, "water_content")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, cancelled)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestProgressKeepsRecentTail(t *testing.T) {
	var m tea.Model = NewProgress("sweep", 10, nil)
	for i := 0; i < 8; i++ {
		m, _ = m.Update(OutcomeMsg(sweep.Outcome{Index: i, Set: &scenario.ParameterSet{GeometryFilename: "s" + string(rune('a'+i))}}))
	}
	p := m.(Progress)
	assert.Len(t, p.recent, recentLines)
	assert.Contains(t, p.recent[recentLines-1], "sh")

	m, cmd := m.Update(DoneMsg{})
	assert.True(t, m.(Progress).finished)
	assert.NotNil(t, cmd)
	assert.NotContains(t, m.View(), "q: cancel")
}

func TestParameterTable(t *testing.T) {
	cfg := config.DefaultConfig()
	asm, err := cfg.Assembler()
	require.NoError(t, err)
	set, err := asm.Assemble(cfg.Input())
	require.NoError(t, err)

	out := ParameterTable(set)
	for _, field := range []string{"delta_d", "domain_x", "transmitter_position", "soil_er"} {
		assert.Contains(t, out, field)
	}
	assert.Contains(t, out, set.GeometryFilename)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0.001", FormatValue(0.001))
	assert.Equal(t, "1 2 3", FormatValue(gpr.Point{X: 1, Y: 2, Z: 3}))
	assert.Equal(t, "1e-09 2e-09", FormatValue([]float64{1e-9, 2e-9}))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "2D", FormatValue("2D"))
}

func TestCurve(t *testing.T) {
	out := Curve([]float64{1, 2, 4, 8}, 20, 5, "permittivity")
	assert.Contains(t, out, "permittivity")
	assert.Greater(t, strings.Count(out, "\n"), 3)
	assert.Contains(t, Curve(nil, 20, 5, "x"), "no data")
}

func TestRunProgressReturnsSweepError(t *testing.T) {
	want := errors.New("sweep failed")
	var out strings.Builder
	err := RunProgress(context.Background(), "sweep", 1, &out, func(ctx context.Context, report func(sweep.Outcome)) error {
		report(sweep.Outcome{Index: 0, Set: &scenario.ParameterSet{GeometryFilename: "x"}})
		return want
	}, tea.WithInput(nil))
	assert.ErrorIs(t, err, want)
}
