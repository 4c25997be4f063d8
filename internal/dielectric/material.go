package dielectric

import (
	"math"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// Material is a resolved material at one frequency. It is a value type and
// never changes after resolution.
type Material struct {
	Name         string  `json:"name"`
	Frequency    float64 `json:"frequency"`
	Permittivity float64 `json:"permittivity"`
	LossFactor   float64 `json:"loss_factor"`
	Conductivity float64 `json:"conductivity"`
}

// Complex returns ε' − jε″.
func (m Material) Complex() complex128 {
	return complex(m.Permittivity, -m.LossFactor)
}

// Conductivity converts a loss factor ε″ at frequency f (Hz) into the
// equivalent conductivity σ = 2π·f·ε0·|ε″| in S/m.
func Conductivity(f, lossFactor float64) float64 {
	return gpr.AngularFrequency(f) * gpr.VacuumPermittivity * math.Abs(lossFactor)
}

// LossFactor is the inverse of Conductivity.
func LossFactor(f, sigma float64) float64 {
	return sigma / (gpr.AngularFrequency(f) * gpr.VacuumPermittivity)
}

// fromComplex builds a Material from a mixing-model result.
func fromComplex(name string, f float64, eps complex128) Material {
	loss := math.Abs(imag(eps))
	return Material{
		Name:         name,
		Frequency:    f,
		Permittivity: real(eps),
		LossFactor:   loss,
		Conductivity: Conductivity(f, loss),
	}
}
