// Package grid selects the spatial step of the simulation grid.
package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// CellsPerWavelength is the sampling density required at the shortest
// wavelength present in the domain.
const CellsPerWavelength = 10

// Discretization records how the step was derived.
type Discretization struct {
	Step                float64 `json:"step"`
	Harmonic            int     `json:"max_harmonic"`
	Candidate           float64 `json:"candidate"`
	MinWavelength       float64 `json:"min_wavelength"`
	EffectiveWavelength float64 `json:"effective_wavelength"`
	MaxPermittivity     float64 `json:"max_permittivity"`
	Digits              int     `json:"digits"`
}

// Select picks the step for fundamental frequency f (Hz), the highest
// significant harmonic multiplier and the relative permittivities of every
// material in the domain. The step is shared by all axes.
func Select(f float64, harmonic int, permittivities []float64) (Discretization, error) {
	if !(f > 0) {
		return Discretization{}, &gpr.ConfigError{Field: "frequency", Value: f, Reason: "must be positive"}
	}
	if harmonic < 1 {
		return Discretization{}, &gpr.ConfigError{Field: "max_harmonic", Value: harmonic, Reason: "must be at least 1"}
	}
	if len(permittivities) == 0 {
		return Discretization{}, &gpr.ConfigError{Field: "permittivities", Value: permittivities, Reason: "empty"}
	}
	if lo := floats.Min(permittivities); !(lo > 0) {
		return Discretization{}, &gpr.ConfigError{Field: "permittivities", Value: lo, Reason: "must be positive"}
	}

	erMax := floats.Max(permittivities)
	lambda := gpr.Wavelength(float64(harmonic) * f)
	eff := lambda / math.Sqrt(erMax)
	candidate := eff / CellsPerWavelength
	step, digits := Truncate(candidate)

	return Discretization{
		Step:                step,
		Harmonic:            harmonic,
		Candidate:           candidate,
		MinWavelength:       lambda,
		EffectiveWavelength: eff,
		MaxPermittivity:     erMax,
		Digits:              digits,
	}, nil
}

// Truncate cuts d toward zero to one decimal digit past its leading
// significant digit, never returning a value above d.
func Truncate(d float64) (float64, int) {
	digits := int(math.Ceil(-math.Log10(d))) + 1
	scale := math.Pow(10, float64(digits))
	units := math.Trunc(d * scale)
	step := units / scale
	for step > d && units > 1 {
		units--
		step = units / scale
	}
	return step, digits
}
