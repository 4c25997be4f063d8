// Package render turns an assembled parameter set into a solver input file.
package render

import (
	"embed"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/san-kum/gprpipe/internal/gpr"
	"github.com/san-kum/gprpipe/internal/scenario"
)

//go:embed templates/*.tmpl
var templates embed.FS

// DefaultTemplate is the embedded gprMax hash-command template.
const DefaultTemplate = "gprmax.in.tmpl"

// Renderer executes one input-file template. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New parses text as a template with the sprig and geometry helpers.
func New(name, text string) (*Renderer, error) {
	t, err := template.New(name).Funcs(funcs()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return &Renderer{tmpl: t}, nil
}

// Default returns the renderer for the embedded gprMax template.
func Default() (*Renderer, error) {
	data, err := templates.ReadFile("templates/" + DefaultTemplate)
	if err != nil {
		return nil, err
	}
	return New(DefaultTemplate, string(data))
}

// FromFile parses a user-supplied template file.
func FromFile(path string) (*Renderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, string(data))
}

// Render writes the input file for set to w.
func (r *Renderer) Render(w io.Writer, set *scenario.ParameterSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	if err := r.tmpl.Execute(w, newView(set)); err != nil {
		return fmt.Errorf("render %s: %w", set.GeometryFilename, err)
	}
	return nil
}

func funcs() template.FuncMap {
	f := sprig.TxtFuncMap()
	f["g"] = formatFloat
	f["xyz"] = func(p gpr.Point) string {
		return formatFloat(p.X) + " " + formatFloat(p.Y) + " " + formatFloat(p.Z)
	}
	return f
}

func formatFloat(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(v)
}

type cylinder struct {
	Start, End   gpr.Point
	Outer, Inner float64
}

type sector struct {
	Axis               string
	Ctr1, Ctr2         float64
	Lower, Upper       float64
	Radius             float64
	StartDeg, SweepDeg float64
	Material           string
}

type view struct {
	Set     *scenario.ParameterSet
	F       map[string]any
	SoilTop float64
	Pipe    cylinder
	Sector  *sector
}

func newView(set *scenario.ParameterSet) view {
	g := set.Input.Geometry
	d := set.Domain
	v := view{
		Set:     set,
		F:       set.Fields(),
		SoilTop: d.AirBoundary,
		Pipe: cylinder{
			Start: d.PipeStart,
			End:   d.PipeEnd,
			Outer: g.OuterDiameter() / 2,
			Inner: g.PipeDiameter / 2,
		},
	}
	if set.Fill != nil {
		v.Sector = fillSector(set)
	}
	return v
}

// fillSector places the fill segment at the bottom of the pipe bore. Sector
// angles are counter-clockwise from the first in-plane axis.
func fillSector(set *scenario.ParameterSet) *sector {
	d := set.Domain
	s := &sector{
		Radius:   set.Input.Geometry.PipeDiameter / 2,
		SweepDeg: set.Fill.CentralAngleDeg,
		Material: set.Fill.Fluid.Name,
	}
	down := 180.0
	if d.PipeStart.X == d.PipeEnd.X {
		s.Axis = "z"
		s.Ctr1, s.Ctr2 = d.PipeStart.X, d.PipeStart.Y
		s.Lower, s.Upper = d.PipeStart.Z, d.PipeEnd.Z
		down = 270
	} else {
		s.Axis = "x"
		s.Ctr1, s.Ctr2 = d.PipeStart.Y, d.PipeStart.Z
		s.Lower, s.Upper = d.PipeStart.X, d.PipeEnd.X
	}
	s.StartDeg = math.Mod(down-s.SweepDeg/2+360, 360)
	return s
}
