package scenario

import (
	"math"

	"github.com/san-kum/gprpipe/internal/dielectric"
	"github.com/san-kum/gprpipe/internal/gpr"
)

// FillRegion is the fluid column inside a partially filled pipe, seen in
// cross-section as a circular segment.
type FillRegion struct {
	Fluid           dielectric.Material `json:"fluid"`
	Ratio           float64             `json:"fill_ratio"`
	Depth           float64             `json:"fill_depth"`
	ChordLength     float64             `json:"chord_length"`
	CentralAngle    float64             `json:"central_angle"`
	CentralAngleDeg float64             `json:"central_angle_deg"`
}

// Segment returns the chord length and subtended central angle (radians) of
// a circular segment of the given depth in a circle of the given diameter.
// The angle exceeds π when the segment is deeper than the radius.
func Segment(diameter, depth float64) (chord, angle float64, err error) {
	if !(diameter > 0) {
		return 0, 0, &gpr.ConfigError{Field: "pipe_diameter", Value: diameter, Reason: "must be positive for a filled pipe"}
	}
	if !(depth >= 0 && depth <= diameter) {
		return 0, 0, &gpr.ConfigError{Field: "fill_depth", Value: depth, Reason: "must be within the pipe"}
	}
	r := diameter / 2
	c := math.Max(-1, math.Min(1, (r-depth)/r))
	angle = 2 * math.Acos(c)
	chord = diameter * math.Sin(angle/2)
	return chord, angle, nil
}

func newFillRegion(fluid dielectric.Material, diameter, ratio float64) (*FillRegion, error) {
	depth := diameter * ratio
	chord, angle, err := Segment(diameter, depth)
	if err != nil {
		return nil, err
	}
	return &FillRegion{
		Fluid:           fluid,
		Ratio:           ratio,
		Depth:           depth,
		ChordLength:     chord,
		CentralAngle:    angle,
		CentralAngleDeg: angle * 180 / math.Pi,
	}, nil
}
