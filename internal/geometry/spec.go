package geometry

import (
	"math"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// Spec is the physical geometry of one scenario, in metres.
type Spec struct {
	PipeDiameter  float64 `yaml:"diameter" json:"pipe_diameter"`
	WallThickness float64 `yaml:"wall_thickness" json:"pipe_wall_thickness"`
	PipeLength    float64 `yaml:"length" json:"pipe_length"`
	BurialDepth   float64 `yaml:"burial_depth" json:"pipe_burial_depth"`
	SoilDepth     float64 `yaml:"soil_depth" json:"soil_depth"`
	AirDepth      float64 `yaml:"air_depth" json:"air_depth"`
	FillRatio     float64 `yaml:"fill_ratio" json:"fill_ratio"`
}

// Validate checks that every length is finite and non-negative and that
// the fill ratio is within [0, 1].
func (s Spec) Validate() error {
	lengths := []struct {
		field string
		v     float64
	}{
		{"pipe_diameter", s.PipeDiameter},
		{"pipe_wall_thickness", s.WallThickness},
		{"pipe_length", s.PipeLength},
		{"pipe_burial_depth", s.BurialDepth},
		{"soil_depth", s.SoilDepth},
		{"air_depth", s.AirDepth},
	}
	for _, l := range lengths {
		if !(l.v >= 0) || math.IsInf(l.v, 1) {
			return &gpr.ConfigError{Field: l.field, Value: l.v, Reason: "must be a non-negative length"}
		}
	}
	if !(s.FillRatio >= 0 && s.FillRatio <= 1) {
		return &gpr.ConfigError{Field: "fill_ratio", Value: s.FillRatio, Reason: "must be within [0, 1]"}
	}
	return nil
}

// OuterDiameter is the pipe diameter including both walls.
func (s Spec) OuterDiameter() float64 {
	return s.PipeDiameter + 2*s.WallThickness
}

// FillDepth is the depth of the fluid column inside the pipe.
func (s Spec) FillDepth() float64 {
	return s.PipeDiameter * s.FillRatio
}

// ModelHeight is the vertical extent of the non-padded model: soil below
// the pipe, the pipe, the cover above it and the air layer.
func (s Spec) ModelHeight() float64 {
	return s.OuterDiameter() + s.SoilDepth + s.BurialDepth + s.AirDepth
}

// CentrelineHeight is the height of the pipe axis above the model floor.
func (s Spec) CentrelineHeight() float64 {
	return s.SoilDepth + s.WallThickness + s.PipeDiameter/2
}
