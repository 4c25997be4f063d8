package scenario

import (
	"fmt"

	"github.com/san-kum/gprpipe/internal/dielectric"
	"github.com/san-kum/gprpipe/internal/geometry"
	"github.com/san-kum/gprpipe/internal/gpr"
	"github.com/san-kum/gprpipe/internal/grid"
	"github.com/san-kum/gprpipe/internal/timing"
)

// Assembler derives parameter sets for one run. It is safe for concurrent use.
type Assembler struct {
	settings Settings
	resolver *dielectric.Resolver
}

// NewAssembler validates settings and binds them to a resolver. A nil
// resolver uses the built-in material and soil tables.
func NewAssembler(settings Settings, resolver *dielectric.Resolver) (*Assembler, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if resolver == nil {
		resolver = dielectric.NewResolver(nil, nil)
	}
	return &Assembler{settings: settings, resolver: resolver}, nil
}

// Settings returns the run-wide settings.
func (a *Assembler) Settings() Settings { return a.settings }

// Assemble runs every derivation stage for in. Stages run in a fixed order:
// dielectric resolution, discretisation, domain geometry, timing and the
// source amplitude. Any stage error aborts assembly with no partial result.
func (a *Assembler) Assemble(in Input) (*ParameterSet, error) {
	s := a.settings
	if !(in.Frequency > 0) {
		return nil, &gpr.ConfigError{Field: "frequency", Value: in.Frequency, Reason: "must be positive"}
	}
	if err := in.Geometry.Validate(); err != nil {
		return nil, err
	}

	set := &ParameterSet{
		Name:   s.Name,
		Input:  in,
		Output: s.Output,
	}

	pipe, err := a.resolver.Material(in.Frequency, s.PipeMaterial)
	if err != nil {
		return nil, fmt.Errorf("pipe material: %w", err)
	}
	set.PipeMaterial = pipe

	soil, err := a.resolver.Soil(in.Frequency, in.Soil)
	if err != nil {
		return nil, fmt.Errorf("soil: %w", err)
	}
	set.Soil = soil

	permittivities := []float64{pipe.Permittivity, soil.Permittivity}
	if s.Fill != nil && in.Geometry.FillRatio > 0 {
		fluid, err := a.resolver.Fluid(in.Frequency, dielectric.FluidSpec{
			Name:        s.Fill.Fluid,
			Temperature: in.Soil.Temperature,
			Salinity:    s.Fill.Salinity,
		})
		if err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
		region, err := newFillRegion(fluid, in.Geometry.PipeDiameter, in.Geometry.FillRatio)
		if err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
		set.Fill = region
		permittivities = append(permittivities, fluid.Permittivity)
	}

	disc, err := grid.Select(in.Frequency, s.MaxHarmonic, permittivities)
	if err != nil {
		return nil, fmt.Errorf("discretization: %w", err)
	}
	set.Discretization = disc

	placement := s.Placement
	placement.FillModeled = set.Fill != nil
	domain, err := geometry.Build(in.Geometry, geometry.Options{
		Step:      disc.Step,
		PMLCells:  s.PMLCells,
		Mode:      s.Mode,
		Layout:    s.Layout,
		Placement: placement,
	})
	if err != nil {
		return nil, fmt.Errorf("domain: %w", err)
	}
	set.Domain = *domain

	runtime, err := timing.Window(domain.Extent, s.RuntimeMultiplier)
	if err != nil {
		return nil, fmt.Errorf("timing: %w", err)
	}
	set.Runtime = runtime
	if s.Output.Snapshots {
		set.SnapshotTimes = timing.SnapshotTimes(runtime, s.Output.SnapshotCount)
	}

	amplitude, err := s.Waveform.Amplitude.Value(in.Frequency, disc.Step)
	if err != nil {
		return nil, fmt.Errorf("waveform: %w", err)
	}
	set.Waveform = Excitation{
		Type:          s.Waveform.Type,
		Identifier:    s.Waveform.Identifier,
		Polarisation:  s.Waveform.Polarisation,
		AmplitudeMode: s.Waveform.Amplitude.Mode(),
		Amplitude:     amplitude,
	}

	set.GeometryFilename = GeometryFilename(s.FilenameBase, in)
	set.SnapshotFilename = SnapshotFilename(set.GeometryFilename)

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
