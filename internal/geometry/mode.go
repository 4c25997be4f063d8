package geometry

import (
	"fmt"
	"strings"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// Mode selects how the depth axis (Z) is treated.
type Mode interface {
	Name() string
	// Collapsed reports whether Z is a single unpadded cell.
	Collapsed() bool
	// Depth returns the model extent along Z given the full 3D depth.
	Depth(full, step float64) float64
	// PMLCommand is the solver's per-face absorbing cell list.
	PMLCommand(cells int) string
}

// Slice is the reduced-dimensionality mode: a one-cell slice in Z.
type Slice struct{}

func (Slice) Name() string                  { return "2D" }
func (Slice) Collapsed() bool               { return true }
func (Slice) Depth(_, step float64) float64 { return step }
func (Slice) PMLCommand(cells int) string   { return fmt.Sprintf("%[1]d %[1]d 0 %[1]d %[1]d 0", cells) }

// Full is the full 3D cross-section mode.
type Full struct{}

func (Full) Name() string                  { return "3D" }
func (Full) Collapsed() bool               { return false }
func (Full) Depth(full, _ float64) float64 { return full }
func (Full) PMLCommand(cells int) string {
	return fmt.Sprintf("%[1]d %[1]d %[1]d %[1]d %[1]d %[1]d", cells)
}

// ParseMode accepts "2D" or "3D", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2D":
		return Slice{}, nil
	case "3D":
		return Full{}, nil
	}
	return nil, &gpr.ConfigError{Field: "geometry_mode", Value: s, Reason: "must be 2D or 3D"}
}

// padding returns the absorbing-boundary width per axis.
func padding(m Mode, cells int, step float64) gpr.Point {
	w := float64(cells) * step
	p := gpr.Point{X: w, Y: w, Z: w}
	if m.Collapsed() {
		p.Z = 0
	}
	return p
}
