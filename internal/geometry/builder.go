package geometry

import (
	"fmt"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// Placement configures antenna offsets and observers. Offsets are measured
// from the pipe end-face centres and exclude the padding width.
type Placement struct {
	TxOffset          gpr.Point `yaml:"tx_offset" json:"tx_offset"`
	RxOffset          gpr.Point `yaml:"rx_offset" json:"rx_offset"`
	ObserverFractions []float64 `yaml:"observer_fractions" json:"observer_fractions"`
	// FillModeled shifts in-pipe antennas up by half the fill depth.
	FillModeled bool `yaml:"-" json:"fill_modeled"`
}

// Options are the discretisation-dependent inputs of Build.
type Options struct {
	Step      float64
	PMLCells  int
	Mode      Mode
	Layout    Layout
	Placement Placement
}

// Domain is the padded bounding box and every placement in it.
type Domain struct {
	Mode        string      `json:"geometry_mode"`
	Layout      string      `json:"layout"`
	Step        float64     `json:"delta_d"`
	PMLCells    int         `json:"pml_cells"`
	PMLCommand  string      `json:"pml_command"`
	Padding     gpr.Point   `json:"pml"`
	Model       gpr.Point   `json:"model"`
	Extent      gpr.Point   `json:"domain"`
	Region      gpr.Box     `json:"region"`
	FillDepth   float64     `json:"fill_depth"`
	AirBoundary float64     `json:"air_boundary"`
	PipeStart   gpr.Point   `json:"pipe_start"`
	PipeEnd     gpr.Point   `json:"pipe_end"`
	Transmitter gpr.Point   `json:"transmitter_position"`
	Receiver    gpr.Point   `json:"receiver_position"`
	Observers   []gpr.Point `json:"observers"`
}

// Build derives the domain for spec with the given options.
func Build(spec Spec, opts Options) (*Domain, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if !(opts.Step > 0) {
		return nil, &gpr.ConfigError{Field: "step", Value: opts.Step, Reason: "must be positive"}
	}
	if opts.PMLCells < 0 {
		return nil, &gpr.ConfigError{Field: "pml_cells", Value: opts.PMLCells, Reason: "must be non-negative"}
	}
	if opts.Mode == nil {
		return nil, &gpr.ConfigError{Field: "geometry_mode", Value: nil, Reason: "not set"}
	}
	if opts.Layout == nil {
		opts.Layout = AlongPipe{}
	}

	pad := padding(opts.Mode, opts.PMLCells, opts.Step)
	model := opts.Layout.Model(spec, opts.Mode, opts.Step)
	extent := model.Add(pad.Scale(2))

	fill := 0.0
	if opts.Placement.FillModeled {
		fill = spec.FillDepth()
	}

	f := frame{
		spec:      spec,
		mode:      opts.Mode,
		padding:   pad,
		extent:    extent,
		placement: opts.Placement,
		fill:      fill,
	}
	p := opts.Layout.place(f)

	d := &Domain{
		Mode:       opts.Mode.Name(),
		Layout:     opts.Layout.Name(),
		Step:       opts.Step,
		PMLCells:   opts.PMLCells,
		PMLCommand: opts.Mode.PMLCommand(opts.PMLCells),
		Padding:    pad,
		Model:      model,
		Extent:     extent,
		Region: gpr.Box{
			Min:       pad,
			Max:       pad.Add(model),
			Collapsed: [3]bool{false, false, opts.Mode.Collapsed()},
		},
		FillDepth:   fill,
		AirBoundary: extent.Y - (pad.Y + spec.AirDepth),
		PipeStart:   p.pipeStart,
		PipeEnd:     p.pipeEnd,
		Transmitter: p.transmitter,
		Receiver:    p.receiver,
	}

	for i, frac := range opts.Placement.ObserverFractions {
		if !(frac >= 0 && frac <= 1) {
			return nil, &gpr.ConfigError{Field: fmt.Sprintf("observer_fractions[%d]", i), Value: frac, Reason: "must be within [0, 1]"}
		}
		d.Observers = append(d.Observers, d.Transmitter.Lerp(d.Receiver, frac))
	}

	if err := d.checkBounds(); err != nil {
		return nil, err
	}
	return d, nil
}

// checkBounds verifies every antenna and observer is inside the model region.
func (d *Domain) checkBounds() error {
	check := func(name string, p gpr.Point) error {
		if !p.IsValid() || !d.Region.Contains(p) {
			return &gpr.BoundsError{Name: name, Position: p, Region: d.Region}
		}
		return nil
	}
	if err := check("transmitter", d.Transmitter); err != nil {
		return err
	}
	if err := check("receiver", d.Receiver); err != nil {
		return err
	}
	for i, o := range d.Observers {
		if err := check(fmt.Sprintf("observer_%d", i+1), o); err != nil {
			return err
		}
	}
	return nil
}

// Positions returns the antenna and observer placements by canonical name.
func (d *Domain) Positions() map[string]gpr.Point {
	out := map[string]gpr.Point{
		"transmitter_position": d.Transmitter,
		"receiver_position":    d.Receiver,
	}
	for i, o := range d.Observers {
		out[fmt.Sprintf("observer_rx_%d", i+1)] = o
	}
	return out
}
