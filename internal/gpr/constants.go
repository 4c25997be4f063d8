package gpr

import "math"

const (
	// SpeedOfLight in vacuum, m/s.
	SpeedOfLight = 299792458.0

	// VacuumPermittivity ε0, F/m.
	VacuumPermittivity = 8.8541878128e-12

	// VacuumPermeability μ0, H/m.
	VacuumPermeability = 1.25663706212e-6

	// GHz is the number of hertz in a gigahertz.
	GHz = 1e9
)

// FreeSpaceImpedance η0 = μ0·c, ohms.
var FreeSpaceImpedance = VacuumPermeability * SpeedOfLight

// Wavelength returns the free-space wavelength at frequency f (Hz).
func Wavelength(f float64) float64 {
	return SpeedOfLight / f
}

// AngularFrequency returns 2πf.
func AngularFrequency(f float64) float64 {
	return 2 * math.Pi * f
}
