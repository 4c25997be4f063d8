// Package timing derives the simulated time window and output schedule.
package timing

import (
	"github.com/san-kum/gprpipe/internal/gpr"
)

// Window returns multiplier × (largest domain extent / c). The one-way
// transit across the longest axis is scaled so reflections return before
// the window closes.
func Window(extent gpr.Point, multiplier float64) (float64, error) {
	if !(multiplier > 0) {
		return 0, &gpr.ConfigError{Field: "runtime_multiplier", Value: multiplier, Reason: "must be positive"}
	}
	longest := extent.Max()
	if !(longest > 0) {
		return 0, &gpr.ConfigError{Field: "domain", Value: extent, Reason: "has no positive extent"}
	}
	return multiplier * (longest / gpr.SpeedOfLight), nil
}

// SnapshotTimes splits window into count equal intervals and returns the end
// of each one.
func SnapshotTimes(window float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	times := make([]float64, count)
	for i := range times {
		times[i] = float64(i+1) * (window / float64(count))
	}
	return times
}
