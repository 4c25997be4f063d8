package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gprpipe/internal/config"
	"github.com/san-kum/gprpipe/internal/render"
	"github.com/san-kum/gprpipe/internal/scenario"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newStore(t *testing.T) *Store {
	t.Helper()
	r, err := render.Default()
	require.NoError(t, err)
	st := New(t.TempDir(), r, quietLogger())
	require.NoError(t, st.Init())
	return st
}

func assembleAll(t *testing.T, cfg *config.Config) []*scenario.ParameterSet {
	t.Helper()
	asm, err := cfg.Assembler()
	require.NoError(t, err)
	var sets []*scenario.ParameterSet
	for _, in := range cfg.Inputs() {
		set, err := asm.Assemble(in)
		require.NoError(t, err)
		sets = append(sets, set)
	}
	return sets
}

func TestStoreSaveLoad(t *testing.T) {
	st := newStore(t)
	set := assembleAll(t, config.DefaultConfig())[0]

	path, err := st.Save("sweep_1", set)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(st.Dir(), set.GeometryFilename+InputExt), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#title:"))

	meta, err := st.Load(set.GeometryFilename)
	require.NoError(t, err)
	assert.Equal(t, "sweep_1", meta.SweepID)
	assert.Equal(t, set.GeometryFilename, meta.Filename)
	assert.Equal(t, set.Discretization, meta.Set.Discretization)
	assert.Equal(t, set.Domain.Transmitter, meta.Set.Domain.Transmitter)
	assert.Equal(t, set.Runtime, meta.Set.Runtime)
}

func TestStoreListAndInputs(t *testing.T) {
	st := newStore(t)
	cfg := config.DefaultConfig()
	cfg.Sweep.BurialDepths = []float64{1.2, 0.6}
	for _, set := range assembleAll(t, cfg) {
		_, err := st.Save("sweep_2", set)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), "broken.json"), []byte("{"), 0644))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Less(t, runs[0].Filename, runs[1].Filename)

	inputs, err := st.Inputs()
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Contains(t, inputs[0], "_0.6_")
	assert.Contains(t, inputs[1], "_1.2_")
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"), nil, quietLogger())
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreRejectsIncompleteSet(t *testing.T) {
	st := newStore(t)
	_, err := st.Save("sweep", &scenario.ParameterSet{})
	assert.Error(t, err)

	inputs, err := st.Inputs()
	require.NoError(t, err)
	assert.Empty(t, inputs)
}

func TestStoreWithoutRenderer(t *testing.T) {
	st := New(t.TempDir(), nil, quietLogger())
	require.NoError(t, st.Init())

	_, err := st.Save("sweep_1", assembleAll(t, config.DefaultConfig())[0])
	assert.Error(t, err)

	all, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}
