// Package sweep enumerates scenario inputs over parameter axes and assembles
// them in parallel.
package sweep

import (
	"github.com/san-kum/gprpipe/internal/scenario"
)

// Axes lists the values swept per parameter. An empty axis keeps the value
// of the base input.
type Axes struct {
	Frequencies   []float64 `yaml:"frequencies" json:"frequencies,omitempty"`
	PipeDiameters []float64 `yaml:"pipe_diameters" json:"pipe_diameters,omitempty"`
	PipeLengths   []float64 `yaml:"pipe_lengths" json:"pipe_lengths,omitempty"`
	BurialDepths  []float64 `yaml:"burial_depths" json:"burial_depths,omitempty"`
	Soils         []string  `yaml:"soils" json:"soils,omitempty"`
	WaterContents []float64 `yaml:"water_contents" json:"water_contents,omitempty"`
}

type axis struct {
	n   int
	set func(in *scenario.Input, i int)
}

func (a Axes) axes() []axis {
	return []axis{
		{len(a.Frequencies), func(in *scenario.Input, i int) { in.Frequency = a.Frequencies[i] }},
		{len(a.PipeDiameters), func(in *scenario.Input, i int) { in.Geometry.PipeDiameter = a.PipeDiameters[i] }},
		{len(a.PipeLengths), func(in *scenario.Input, i int) { in.Geometry.PipeLength = a.PipeLengths[i] }},
		{len(a.BurialDepths), func(in *scenario.Input, i int) { in.Geometry.BurialDepth = a.BurialDepths[i] }},
		{len(a.Soils), func(in *scenario.Input, i int) { in.Soil.Name = a.Soils[i] }},
		{len(a.WaterContents), func(in *scenario.Input, i int) { in.Soil.WaterContent = a.WaterContents[i] }},
	}
}

// Len is the number of inputs Expand returns.
func (a Axes) Len() int {
	n := 1
	for _, ax := range a.axes() {
		if ax.n > 0 {
			n *= ax.n
		}
	}
	return n
}

// Expand returns the cartesian product of the axes applied to base. The last
// axis varies fastest.
func (a Axes) Expand(base scenario.Input) []scenario.Input {
	var active []axis
	for _, ax := range a.axes() {
		if ax.n > 0 {
			active = append(active, ax)
		}
	}
	out := make([]scenario.Input, 0, a.Len())
	var walk func(depth int, in scenario.Input)
	walk = func(depth int, in scenario.Input) {
		if depth == len(active) {
			out = append(out, in)
			return
		}
		for i := 0; i < active[depth].n; i++ {
			next := in
			active[depth].set(&next, i)
			walk(depth+1, next)
		}
	}
	walk(0, base)
	return out
}
