package dielectric

import (
	"math"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// Validated domains of the water models.
const (
	WaterMaxGHz = 1000.0

	PureWaterMinTemp = 0.0
	PureWaterMaxTemp = 40.0

	SeaWaterMinTemp     = -2.0
	SeaWaterMaxTemp     = 30.0
	SeaWaterMaxSalinity = 40.0

	// DefaultSalinity of sea water, g/kg.
	DefaultSalinity = 35.0
)

// relaxation holds the double-Debye parameters of water at one temperature.
type relaxation struct {
	static   float64 // εs
	first    float64 // ε1
	infinity float64 // ε∞
	f1       float64 // first relaxation frequency, GHz
	f2       float64 // second relaxation frequency, GHz
}

func pureWaterRelaxation(t float64) relaxation {
	return relaxation{
		static:   87.9144 - 0.404399*t + 9.58726e-4*t*t - 1.32802e-6*t*t*t,
		first:    5.723 + 2.2379e-2*t - 7.1237e-4*t*t,
		infinity: 3.6143 + 2.8841e-2*t,
		f1:       (45 + t) / (5.0478 - 7.0315e-2*t + 6.0059e-4*t*t),
		f2:       (45 + t) / (1.3652e-1 + 1.4825e-3*t + 2.4166e-4*t*t),
	}
}

func (r relaxation) withSalinity(t, s float64) relaxation {
	return relaxation{
		static:   r.static * math.Exp(-3.56417e-3*s+4.74868e-6*s*s+1.15574e-5*t*s),
		first:    r.first * math.Exp(-6.28908e-3*s+1.76032e-4*s*s-9.22144e-5*t*s),
		infinity: r.infinity * (1 + s*(-2.04265e-3+1.57883e-4*t)),
		f1:       r.f1 * (1 + s*(2.39357e-3-3.13530e-5*t+2.52477e-7*t*t)),
		f2:       r.f2 * (1 + s*(-1.99723e-2+1.81176e-4*t)),
	}
}

// eval returns ε' and the relaxation part of ε″ at fg GHz.
func (r relaxation) eval(fg float64) (float64, float64) {
	a := fg / r.f1
	b := fg / r.f2
	re := r.infinity + (r.static-r.first)/(1+a*a) + (r.first-r.infinity)/(1+b*b)
	im := a*(r.static-r.first)/(1+a*a) + b*(r.first-r.infinity)/(1+b*b)
	return re, im
}

// seaWaterConductivity returns the ionic conductivity (S/m) at t °C and
// salinity s g/kg.
func seaWaterConductivity(t, s float64) float64 {
	sigma35 := 2.903602 + 8.607e-2*t + 4.738817e-4*t*t - 2.991e-6*t*t*t + 4.3047e-9*t*t*t*t
	r15 := s * (37.5109 + 5.45216*s + 1.4409e-2*s*s) / (1004.75 + 182.283*s + s*s)
	alpha0 := (6.9431 + 3.2841*s - 9.9486e-2*s*s) / (84.85 + 69.024*s + s*s)
	alpha1 := 49.843 - 0.2276*s + 0.198e-2*s*s
	return sigma35 * r15 * (1 + alpha0*(t-15)/(alpha1+t))
}

// PureWater returns the complex relative permittivity of fresh water at
// frequency f (Hz) and temperature t (°C).
func PureWater(f, t float64) (complex128, error) {
	const model = "pure_water"
	if err := checkWaterFrequency(model, f); err != nil {
		return 0, err
	}
	if err := gpr.CheckRange(model, "temperature", t, PureWaterMinTemp, PureWaterMaxTemp); err != nil {
		return 0, err
	}
	re, im := pureWaterRelaxation(t).eval(f / gpr.GHz)
	return complex(re, -im), nil
}

// SeaWater returns the complex relative permittivity of saline water at
// frequency f (Hz), temperature t (°C) and salinity s (g/kg).
func SeaWater(f, t, s float64) (complex128, error) {
	const model = "sea_water"
	if err := checkWaterFrequency(model, f); err != nil {
		return 0, err
	}
	if err := gpr.CheckRange(model, "temperature", t, SeaWaterMinTemp, SeaWaterMaxTemp); err != nil {
		return 0, err
	}
	if err := gpr.CheckRange(model, "salinity", s, 0, SeaWaterMaxSalinity); err != nil {
		return 0, err
	}
	re, im := pureWaterRelaxation(t).withSalinity(t, s).eval(f / gpr.GHz)
	im += LossFactor(f, seaWaterConductivity(t, s))
	return complex(re, -im), nil
}

func checkWaterFrequency(model string, f float64) error {
	fg := f / gpr.GHz
	if !(fg > 0) || fg > WaterMaxGHz {
		return &gpr.RangeError{Model: model, Param: "frequency_ghz", Value: fg, Min: 0, Max: WaterMaxGHz}
	}
	return nil
}
