package scenario

import (
	"fmt"
	"maps"

	"github.com/san-kum/gprpipe/internal/dielectric"
	"github.com/san-kum/gprpipe/internal/geometry"
	"github.com/san-kum/gprpipe/internal/gpr"
	"github.com/san-kum/gprpipe/internal/grid"
)

// Excitation is the resolved transmitter waveform.
type Excitation struct {
	Type          string  `json:"waveform_type"`
	Identifier    string  `json:"waveform_identifier"`
	Polarisation  string  `json:"dipole_polarisation"`
	AmplitudeMode string  `json:"amplitude_mode"`
	Amplitude     float64 `json:"waveform_amplitude"`
}

// ParameterSet is the complete description of one scenario. Sets returned by
// Assemble are treated as read-only; callers copy before changing fields.
type ParameterSet struct {
	Name             string `json:"simulation_name"`
	GeometryFilename string `json:"geometry_filename"`
	SnapshotFilename string `json:"snapshot_filename"`

	Input          Input               `json:"input"`
	Discretization grid.Discretization `json:"discretization"`
	Domain         geometry.Domain     `json:"domain"`
	Runtime        float64             `json:"simulation_runtime"`
	SnapshotTimes  []float64           `json:"snapshot_times,omitempty"`

	PipeMaterial dielectric.Material `json:"pipe_material"`
	Soil         dielectric.Material `json:"soil"`
	Fill         *FillRegion         `json:"fill,omitempty"`

	Waveform Excitation `json:"waveform"`
	Output   Output     `json:"output"`
}

// Validate reports an *gpr.IncompleteError naming every stage whose results
// are missing from the set.
func (p *ParameterSet) Validate() error {
	var missing []string
	if p.GeometryFilename == "" {
		missing = append(missing, "naming")
	}
	if !(p.Discretization.Step > 0) {
		missing = append(missing, "discretization")
	}
	if !(p.Domain.Extent.X > 0) || !(p.Domain.Extent.Y > 0) || !(p.Domain.Extent.Z > 0) {
		missing = append(missing, "domain")
	}
	if !(p.Runtime > 0) {
		missing = append(missing, "timing")
	}
	if p.PipeMaterial.Name == "" {
		missing = append(missing, "pipe_material")
	}
	if p.Soil.Name == "" {
		missing = append(missing, "soil")
	}
	// The domain reserves fill depth exactly when a fill region was resolved.
	if (p.Fill != nil) != (p.Domain.FillDepth > 0) || (p.Fill != nil && p.Fill.Fluid.Name == "") {
		missing = append(missing, "fill")
	}
	if len(missing) > 0 {
		return &gpr.IncompleteError{Missing: missing}
	}
	return nil
}

// Fields returns every value by its canonical name, as consumed by the
// input-file template. The map is freshly allocated on each call.
func (p *ParameterSet) Fields() map[string]any {
	g := p.Input.Geometry
	d := p.Domain
	f := map[string]any{
		"simulation_name":            p.Name,
		"simulation_runtime":         p.Runtime,
		"geometry_filename":          p.GeometryFilename,
		"snapshot_filename":          p.SnapshotFilename,
		"snapshots_count":            p.Output.SnapshotCount,
		"snapshot_times":             append([]float64(nil), p.SnapshotTimes...),
		"output_snapshots":           p.Output.Snapshots,
		"output_geometry":            p.Output.Geometry,
		"include_water":              p.Fill != nil,
		"geometry_mode":              d.Mode,
		"layout":                     d.Layout,
		"pml_cells":                  d.PMLCells,
		"pml_command":                d.PMLCommand,
		"pml_x":                      d.Padding.X,
		"pml_y":                      d.Padding.Y,
		"pml_z":                      d.Padding.Z,
		"domain_x":                   d.Extent.X,
		"domain_y":                   d.Extent.Y,
		"domain_z":                   d.Extent.Z,
		"delta_d":                    p.Discretization.Step,
		"fund_freq":                  p.Input.Frequency,
		"max_harmonic_freq":          p.Input.Frequency * float64(p.Discretization.Harmonic),
		"pipe_material":              p.PipeMaterial.Name,
		"pipe_material_er":           p.PipeMaterial.Permittivity,
		"pipe_material_conductivity": p.PipeMaterial.Conductivity,
		"pipe_diameter":              g.PipeDiameter,
		"pipe_wall_thickness":        g.WallThickness,
		"pipe_length":                g.PipeLength,
		"pipe_burial_depth":          g.BurialDepth,
		"pipe_start":                 d.PipeStart,
		"pipe_end":                   d.PipeEnd,
		"soil_name":                  p.Soil.Name,
		"soil_er":                    p.Soil.Permittivity,
		"soil_conductivity":          p.Soil.Conductivity,
		"soil_temperature":           p.Input.Soil.Temperature,
		"soil_water_content":         p.Input.Soil.WaterContent,
		"soil_depth":                 g.SoilDepth,
		"air_depth":                  g.AirDepth,
		"air_boundary":               d.AirBoundary,
		"fill_ratio":                 g.FillRatio,
		"fill_depth":                 d.FillDepth,
		"waveform_type":              p.Waveform.Type,
		"waveform_identifier":        p.Waveform.Identifier,
		"waveform_amplitude":         p.Waveform.Amplitude,
		"amplitude_mode":             p.Waveform.AmplitudeMode,
		"dipole_polarisation":        p.Waveform.Polarisation,
	}
	maps.Copy(f, pointFields(d.Positions()))
	f["observer_count"] = len(d.Observers)
	if p.Fill != nil {
		f["fill_fluid"] = p.Fill.Fluid.Name
		f["sw_er"] = p.Fill.Fluid.Permittivity
		f["sw_conductivity"] = p.Fill.Fluid.Conductivity
		f["chord_length"] = p.Fill.ChordLength
		f["central_angle"] = p.Fill.CentralAngle
		f["central_angle_deg"] = p.Fill.CentralAngleDeg
	}
	return f
}

func pointFields(points map[string]gpr.Point) map[string]any {
	out := make(map[string]any, len(points))
	for k, v := range points {
		out[k] = v
	}
	return out
}

// String returns a one-line summary of the set.
func (p *ParameterSet) String() string {
	return fmt.Sprintf("%s f=%gGHz dx=%g domain=%s runtime=%gs", p.GeometryFilename,
		p.Input.Frequency/gpr.GHz, p.Discretization.Step, p.Domain.Extent, p.Runtime)
}
