// Package antenna derives source excitation parameters for idealised antennas.
package antenna

import (
	"math"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// HertzianDipoleCurrent returns the peak current (A) a Hertzian dipole of
// length l (m) needs to radiate power p (W) at frequency f (Hz), from
// P = (π·η0/3)·(I·l/λ)².
func HertzianDipoleCurrent(f, p, l float64) (float64, error) {
	switch {
	case !(f > 0):
		return 0, &gpr.ConfigError{Field: "frequency", Value: f, Reason: "must be positive"}
	case p < 0 || math.IsNaN(p):
		return 0, &gpr.ConfigError{Field: "tx_power", Value: p, Reason: "must be non-negative"}
	case !(l > 0):
		return 0, &gpr.ConfigError{Field: "dipole_length", Value: l, Reason: "must be positive"}
	}
	return gpr.Wavelength(f) / l * math.Sqrt(3*p/(math.Pi*gpr.FreeSpaceImpedance)), nil
}
