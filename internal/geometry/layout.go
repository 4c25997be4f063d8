package geometry

import (
	"strings"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// Layout decides where the pipe runs and where antennas sit.
type Layout interface {
	Name() string
	// Model returns the non-padded model extent.
	Model(s Spec, m Mode, step float64) gpr.Point
	place(f frame) placements
}

// frame is the padded domain a layout places into.
type frame struct {
	spec      Spec
	mode      Mode
	padding   gpr.Point
	extent    gpr.Point
	placement Placement
	fill      float64
}

// centreline is the pipe axis height above the domain floor.
func (f frame) centreline() float64 {
	return f.padding.Y + f.spec.CentrelineHeight()
}

type placements struct {
	pipeStart   gpr.Point
	pipeEnd     gpr.Point
	transmitter gpr.Point
	receiver    gpr.Point
}

// AlongPipe runs the pipe along X across the whole padded length, with the
// transmitter and receiver inside the pipe near its end faces.
type AlongPipe struct{}

func (AlongPipe) Name() string { return "along_pipe" }

func (AlongPipe) Model(s Spec, m Mode, step float64) gpr.Point {
	return gpr.Point{
		X: s.PipeLength,
		Y: s.ModelHeight(),
		Z: m.Depth(s.OuterDiameter()+2*s.SoilDepth, step),
	}
}

func (AlongPipe) place(f frame) placements {
	z := 0.0
	if !f.mode.Collapsed() {
		z = f.extent.Z / 2
	}
	h := f.centreline()
	start := gpr.Point{X: 0, Y: h, Z: z}
	end := gpr.Point{X: f.extent.X, Y: h, Z: z}
	tx, rx := f.placement.TxOffset, f.placement.RxOffset
	return placements{
		pipeStart: start,
		pipeEnd:   end,
		transmitter: gpr.Point{
			X: start.X + (f.padding.X + tx.X),
			Y: start.Y + tx.Y + f.fill/2,
			Z: start.Z + tx.Z,
		},
		receiver: gpr.Point{
			X: end.X - (f.padding.X + rx.X),
			Y: end.Y + rx.Y + f.fill/2,
			Z: end.Z + rx.Z,
		},
	}
}

// AboveGround runs the pipe along Z through the domain centre, with the
// transmitter inside the pipe and the receiver in the air layer above it.
type AboveGround struct{}

func (AboveGround) Name() string { return "above_ground" }

func (AboveGround) Model(s Spec, m Mode, step float64) gpr.Point {
	return gpr.Point{
		X: s.OuterDiameter() + 2*s.SoilDepth,
		Y: s.ModelHeight(),
		Z: m.Depth(2*s.SoilDepth, step),
	}
}

func (AboveGround) place(f frame) placements {
	h := f.centreline()
	centre := gpr.Point{X: f.extent.X / 2, Y: h, Z: 0}
	z := f.extent.Z / 2
	tx, rx := f.placement.TxOffset, f.placement.RxOffset
	s := f.spec
	return placements{
		pipeStart: centre,
		pipeEnd:   gpr.Point{X: centre.X, Y: h, Z: f.extent.Z},
		transmitter: gpr.Point{
			X: centre.X + tx.X,
			Y: h + tx.Y + f.fill/2,
			Z: z + tx.Z,
		},
		receiver: gpr.Point{
			X: centre.X + rx.X,
			Y: h + rx.Y + s.PipeDiameter/2 + s.WallThickness + s.BurialDepth + 0.75*s.AirDepth,
			Z: z + rx.Z,
		},
	}
}

// ParseLayout accepts "along_pipe" or "above_ground". Empty means along_pipe.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "along_pipe":
		return AlongPipe{}, nil
	case "above_ground":
		return AboveGround{}, nil
	}
	return nil, &gpr.ConfigError{Field: "layout", Value: s, Reason: "must be along_pipe or above_ground"}
}
