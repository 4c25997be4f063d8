package scenario

import (
	"math"

	"github.com/san-kum/gprpipe/internal/antenna"
	"github.com/san-kum/gprpipe/internal/dielectric"
	"github.com/san-kum/gprpipe/internal/geometry"
	"github.com/san-kum/gprpipe/internal/gpr"
)

// Settings is the run-wide configuration shared by every instance of a
// sweep. It is passed by value and never modified by the pipeline.
type Settings struct {
	Name              string
	FilenameBase      string
	Mode              geometry.Mode
	Layout            geometry.Layout
	MaxHarmonic       int
	RuntimeMultiplier float64
	PMLCells          int
	PipeMaterial      string
	Placement         geometry.Placement
	Waveform          Waveform
	// Fill enables modelling of a fluid inside the pipe. Nil disables it.
	Fill   *FillSettings
	Output Output
}

// FillSettings selects the fill fluid. The fluid takes the soil temperature.
type FillSettings struct {
	Fluid    string
	Salinity float64
}

// Output controls optional solver outputs.
type Output struct {
	Geometry      bool `json:"output_geometry"`
	Snapshots     bool `json:"output_snapshots"`
	SnapshotCount int  `json:"snapshots_count"`
}

// Waveform describes the transmitter excitation.
type Waveform struct {
	Type         string
	Identifier   string
	Polarisation string
	Amplitude    Amplitude
}

// Amplitude decides the source amplitude of the transmitter.
type Amplitude interface {
	Mode() string
	// Value returns the amplitude at frequency f (Hz) for grid step (m).
	Value(f, step float64) (float64, error)
}

// FixedAmplitude uses a constant amplitude for every scenario.
type FixedAmplitude struct {
	Amplitude float64
}

func (FixedAmplitude) Mode() string { return "fixed" }

func (a FixedAmplitude) Value(_, _ float64) (float64, error) {
	if math.IsNaN(a.Amplitude) || math.IsInf(a.Amplitude, 0) {
		return 0, &gpr.ConfigError{Field: "waveform.amplitude", Value: a.Amplitude, Reason: "must be finite"}
	}
	return a.Amplitude, nil
}

// PowerAmplitude derives the Hertzian dipole current that radiates Watts,
// with the dipole one grid step long.
type PowerAmplitude struct {
	Watts float64
}

func (PowerAmplitude) Mode() string { return "power" }

func (a PowerAmplitude) Value(f, step float64) (float64, error) {
	return antenna.HertzianDipoleCurrent(f, a.Watts, step)
}

// Validate checks the run-wide settings.
func (s Settings) Validate() error {
	switch {
	case s.Mode == nil:
		return &gpr.ConfigError{Field: "geometry_mode", Value: nil, Reason: "not set"}
	case s.Layout == nil:
		return &gpr.ConfigError{Field: "layout", Value: nil, Reason: "not set"}
	case s.MaxHarmonic < 1:
		return &gpr.ConfigError{Field: "max_harmonic", Value: s.MaxHarmonic, Reason: "must be at least 1"}
	case !(s.RuntimeMultiplier > 0):
		return &gpr.ConfigError{Field: "runtime_multiplier", Value: s.RuntimeMultiplier, Reason: "must be positive"}
	case s.PMLCells < 0:
		return &gpr.ConfigError{Field: "pml_cells", Value: s.PMLCells, Reason: "must be non-negative"}
	case s.PipeMaterial == "":
		return &gpr.ConfigError{Field: "pipe.material", Value: s.PipeMaterial, Reason: "not set"}
	case s.Waveform.Amplitude == nil:
		return &gpr.ConfigError{Field: "waveform.amplitude_mode", Value: nil, Reason: "not set"}
	case s.Output.SnapshotCount < 0:
		return &gpr.ConfigError{Field: "output.snapshot_count", Value: s.Output.SnapshotCount, Reason: "must be non-negative"}
	}
	if s.Fill != nil && s.Fill.Fluid != dielectric.FreshWater && s.Fill.Fluid != dielectric.SeaWaterFluid {
		return &gpr.ConfigError{Field: "fill.fluid", Value: s.Fill.Fluid, Reason: "must be fresh_water or sea_water"}
	}
	return nil
}

// Input is the per-instance tuple a sweep varies.
type Input struct {
	Frequency float64             `json:"fund_freq"`
	Geometry  geometry.Spec       `json:"geometry"`
	Soil      dielectric.SoilSpec `json:"soil"`
}
