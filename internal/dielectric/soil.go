package dielectric

import (
	"math"
	"sort"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// Validated domain of the soil mixing model.
const (
	SoilMinGHz = 0.3
	SoilMaxGHz = 37.0

	SoilMinTemp = PureWaterMinTemp
	SoilMaxTemp = PureWaterMaxTemp

	SoilMaxWaterContent = 0.5

	DefaultBulkDensity     = 1.7
	DefaultSpecificDensity = 2.66

	soilAlpha = 0.65
)

// SoilComposition is one row of the soil table. Fractions are percentages,
// densities are g/cm³.
type SoilComposition struct {
	Name            string  `yaml:"name" json:"name"`
	Sand            float64 `yaml:"sand" json:"sand"`
	Clay            float64 `yaml:"clay" json:"clay"`
	Silt            float64 `yaml:"silt" json:"silt"`
	BulkDensity     float64 `yaml:"bulk_density" json:"bulk_density"`
	SpecificDensity float64 `yaml:"specific_density" json:"specific_density"`
}

func (c SoilComposition) withDefaults() SoilComposition {
	if c.BulkDensity == 0 {
		c.BulkDensity = DefaultBulkDensity
	}
	if c.SpecificDensity == 0 {
		c.SpecificDensity = DefaultSpecificDensity
	}
	return c
}

// SoilParams is the full input of the mixing model.
type SoilParams struct {
	Frequency    float64 // Hz
	Temperature  float64 // °C
	WaterContent float64 // volumetric, m³/m³
	Composition  SoilComposition
}

// SoilPermittivity evaluates the semi-empirical mixing model and returns
// ε' − jε″ of the moist soil.
func SoilPermittivity(p SoilParams) (complex128, error) {
	const model = "soil"
	c := p.Composition.withDefaults()
	fg := p.Frequency / gpr.GHz

	if err := gpr.CheckRange(model, "frequency_ghz", fg, SoilMinGHz, SoilMaxGHz); err != nil {
		return 0, err
	}
	if err := gpr.CheckRange(model, "temperature", p.Temperature, SoilMinTemp, SoilMaxTemp); err != nil {
		return 0, err
	}
	mv := p.WaterContent
	if !(mv > 0) || mv > SoilMaxWaterContent {
		return 0, &gpr.RangeError{Model: model, Param: "water_content", Value: mv, Min: 0, Max: SoilMaxWaterContent}
	}
	for _, fr := range []struct {
		name string
		v    float64
	}{{"sand", c.Sand}, {"clay", c.Clay}, {"silt", c.Silt}} {
		if err := gpr.CheckRange(model, fr.name, fr.v, 0, 100); err != nil {
			return 0, err
		}
	}
	if err := gpr.CheckRange(model, "fraction_sum", c.Sand+c.Clay+c.Silt, 99, 101); err != nil {
		return 0, err
	}
	if !(c.BulkDensity > 0) || c.BulkDensity >= c.SpecificDensity {
		return 0, &gpr.RangeError{Model: model, Param: "bulk_density", Value: c.BulkDensity, Min: 0, Max: c.SpecificDensity}
	}

	rhoB, rhoS := c.BulkDensity, c.SpecificDensity
	epsSolid := math.Pow(1.01+0.44*rhoS, 2) - 0.062
	betaRe := 1.2748 - 0.00519*c.Sand - 0.00152*c.Clay
	betaIm := 1.33797 - 0.00603*c.Sand - 0.00166*c.Clay
	sigmaEff := 0.0467 + 0.2204*rhoB - 0.004111*c.Sand + 0.006614*c.Clay
	if sigmaEff < 0 {
		return 0, &gpr.RangeError{Model: model, Param: "effective_conductivity", Value: sigmaEff, Min: 0, Max: math.Inf(1)}
	}

	fwRe, fwIm := pureWaterRelaxation(p.Temperature).eval(fg)
	fwIm += 18 * sigmaEff / fg * (rhoS - rhoB) / (rhoS * mv)

	re := math.Pow(1+(rhoB/rhoS)*(math.Pow(epsSolid, soilAlpha)-1)+math.Pow(mv, betaRe)*math.Pow(fwRe, soilAlpha)-mv, 1/soilAlpha)
	im := math.Pow(math.Pow(mv, betaIm)*math.Pow(fwIm, soilAlpha), 1/soilAlpha)
	if math.IsNaN(re) || math.IsNaN(im) {
		return 0, &gpr.RangeError{Model: model, Param: "water_content", Value: mv, Min: 0, Max: SoilMaxWaterContent}
	}
	return complex(re, -im), nil
}

var standardSoils = []SoilComposition{
	{Name: "sand", Sand: 99, Clay: 0.5, Silt: 0.5},
	{Name: "loamy_sand", Sand: 82, Clay: 6, Silt: 12},
	{Name: "sandy_loam", Sand: 51.52, Clay: 13.42, Silt: 35.06},
	{Name: "loam", Sand: 41.96, Clay: 8.53, Silt: 49.51},
	{Name: "silt_loam", Sand: 30.63, Clay: 13.48, Silt: 55.89},
	{Name: "silty_clay", Sand: 5.02, Clay: 47.38, Silt: 47.6},
	{Name: "sandy_clay_loam", Sand: 60, Clay: 28, Silt: 12},
	{Name: "clay", Sand: 20, Clay: 60, Silt: 20},
}

// SoilTable is an immutable name -> composition table.
type SoilTable struct {
	soils map[string]SoilComposition
}

func NewSoilTable(soils ...SoilComposition) *SoilTable {
	t := &SoilTable{soils: make(map[string]SoilComposition, len(soils))}
	for _, s := range soils {
		t.soils[s.Name] = s.withDefaults()
	}
	return t
}

// StandardSoils returns a fresh table of the built-in soil types.
func StandardSoils() *SoilTable {
	return NewSoilTable(standardSoils...)
}

// With returns a copy of t extended with soils.
func (t *SoilTable) With(soils ...SoilComposition) *SoilTable {
	all := make([]SoilComposition, 0, len(t.soils)+len(soils))
	for _, name := range t.Names() {
		all = append(all, t.soils[name])
	}
	return NewSoilTable(append(all, soils...)...)
}

func (t *SoilTable) Get(name string) (SoilComposition, error) {
	s, ok := t.soils[name]
	if !ok {
		return SoilComposition{}, &gpr.UnknownError{Kind: "soil", Name: name, Available: t.Names()}
	}
	return s, nil
}

func (t *SoilTable) Names() []string {
	names := make([]string, 0, len(t.soils))
	for name := range t.soils {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
