package dielectric

import (
	"github.com/san-kum/gprpipe/internal/gpr"
)

// Fluid names accepted by Resolver.Fluid.
const (
	FreshWater    = "fresh_water"
	SeaWaterFluid = "sea_water"
)

// SoilSpec selects a soil from the table and sets its state.
type SoilSpec struct {
	Name         string  `yaml:"name" json:"name"`
	Temperature  float64 `yaml:"temperature" json:"temperature"`
	WaterContent float64 `yaml:"water_content" json:"water_content"`
}

// FluidSpec selects the pipe fill fluid.
type FluidSpec struct {
	Name        string  `yaml:"name" json:"name"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	Salinity    float64 `yaml:"salinity" json:"salinity"`
}

// Resolver resolves materials, soils and fluids against fixed lookup tables.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	materials *MaterialDB
	soils     *SoilTable
}

func NewResolver(materials *MaterialDB, soils *SoilTable) *Resolver {
	if materials == nil {
		materials = BuildingMaterials()
	}
	if soils == nil {
		soils = StandardSoils()
	}
	return &Resolver{materials: materials, soils: soils}
}

func (r *Resolver) Materials() *MaterialDB { return r.materials }
func (r *Resolver) Soils() *SoilTable      { return r.soils }

// Material resolves an engineered material at f (Hz).
func (r *Resolver) Material(f float64, name string) (Material, error) {
	return r.materials.Resolve(f, name)
}

// Soil resolves a named soil at f (Hz).
func (r *Resolver) Soil(f float64, spec SoilSpec) (Material, error) {
	comp, err := r.soils.Get(spec.Name)
	if err != nil {
		return Material{}, err
	}
	eps, err := SoilPermittivity(SoilParams{
		Frequency:    f,
		Temperature:  spec.Temperature,
		WaterContent: spec.WaterContent,
		Composition:  comp,
	})
	if err != nil {
		return Material{}, err
	}
	return fromComplex(spec.Name, f, eps), nil
}

// Fluid resolves a fill fluid at f (Hz). A zero salinity for sea water
// means DefaultSalinity.
func (r *Resolver) Fluid(f float64, spec FluidSpec) (Material, error) {
	var (
		eps complex128
		err error
	)
	switch spec.Name {
	case FreshWater:
		eps, err = PureWater(f, spec.Temperature)
	case SeaWaterFluid:
		s := spec.Salinity
		if s == 0 {
			s = DefaultSalinity
		}
		eps, err = SeaWater(f, spec.Temperature, s)
	default:
		return Material{}, &gpr.UnknownError{Kind: "fluid", Name: spec.Name, Available: []string{FreshWater, SeaWaterFluid}}
	}
	if err != nil {
		return Material{}, err
	}
	return fromComplex(spec.Name, f, eps), nil
}

// SoilCurve resolves spec at f once per water content, in order.
func (r *Resolver) SoilCurve(f float64, spec SoilSpec, contents []float64) ([]Material, error) {
	out := make([]Material, 0, len(contents))
	for _, mv := range contents {
		spec.WaterContent = mv
		m, err := r.Soil(f, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
