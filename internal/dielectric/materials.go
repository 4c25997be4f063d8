package dielectric

import (
	"math"
	"sort"

	"github.com/san-kum/gprpipe/internal/gpr"
)

// MaterialModel is one row of the engineered-materials table. Frequencies
// are in GHz as in the published table.
type MaterialModel struct {
	Name   string  `yaml:"name" json:"name"`
	A      float64 `yaml:"a" json:"a"`
	B      float64 `yaml:"b" json:"b"`
	C      float64 `yaml:"c" json:"c"`
	D      float64 `yaml:"d" json:"d"`
	MinGHz float64 `yaml:"min_ghz" json:"min_ghz"`
	MaxGHz float64 `yaml:"max_ghz" json:"max_ghz"`
}

// Eval resolves the model at frequency f (Hz).
func (m MaterialModel) Eval(f float64) (Material, error) {
	fg := f / gpr.GHz
	if err := gpr.CheckRange(m.Name, "frequency_ghz", fg, m.MinGHz, m.MaxGHz); err != nil {
		return Material{}, err
	}
	sigma := m.C * math.Pow(fg, m.D)
	return Material{
		Name:         m.Name,
		Frequency:    f,
		Permittivity: m.A * math.Pow(fg, m.B),
		LossFactor:   LossFactor(f, sigma),
		Conductivity: sigma,
	}, nil
}

var buildingMaterials = []MaterialModel{
	{Name: "vacuum", A: 1, B: 0, C: 0, D: 0, MinGHz: 0.001, MaxGHz: 100},
	{Name: "concrete", A: 5.24, B: 0, C: 0.0462, D: 0.7822, MinGHz: 1, MaxGHz: 100},
	{Name: "brick", A: 3.91, B: 0, C: 0.0238, D: 0.16, MinGHz: 1, MaxGHz: 40},
	{Name: "plasterboard", A: 2.73, B: 0, C: 0.0085, D: 0.9395, MinGHz: 1, MaxGHz: 100},
	{Name: "wood", A: 1.99, B: 0, C: 0.0047, D: 1.0718, MinGHz: 0.001, MaxGHz: 100},
	{Name: "glass", A: 6.31, B: 0, C: 0.0036, D: 1.3394, MinGHz: 0.1, MaxGHz: 100},
	{Name: "ceiling_board", A: 1.48, B: 0, C: 0.0011, D: 1.075, MinGHz: 1, MaxGHz: 100},
	{Name: "chipboard", A: 2.58, B: 0, C: 0.0217, D: 0.78, MinGHz: 1, MaxGHz: 100},
	{Name: "plywood", A: 2.71, B: 0, C: 0.33, D: 0, MinGHz: 1, MaxGHz: 40},
	{Name: "marble", A: 7.074, B: 0, C: 0.0055, D: 0.9262, MinGHz: 1, MaxGHz: 60},
	{Name: "floorboard", A: 3.66, B: 0, C: 0.0044, D: 1.3515, MinGHz: 50, MaxGHz: 100},
	{Name: "metal", A: 1, B: 0, C: 1e7, D: 0, MinGHz: 1, MaxGHz: 100},
	{Name: "very_dry_ground", A: 3, B: 0, C: 0.00015, D: 2.52, MinGHz: 1, MaxGHz: 10},
	{Name: "medium_dry_ground", A: 15, B: -0.1, C: 0.035, D: 1.63, MinGHz: 1, MaxGHz: 10},
	{Name: "wet_ground", A: 30, B: -0.4, C: 0.15, D: 1.3, MinGHz: 1, MaxGHz: 10},
}

// MaterialDB is an immutable name -> model table.
type MaterialDB struct {
	models map[string]MaterialModel
}

// NewMaterialDB builds a table from models. Later entries replace earlier
// ones with the same name.
func NewMaterialDB(models ...MaterialModel) *MaterialDB {
	db := &MaterialDB{models: make(map[string]MaterialModel, len(models))}
	for _, m := range models {
		db.models[m.Name] = m
	}
	return db
}

// BuildingMaterials returns a fresh table of the standard engineered materials.
func BuildingMaterials() *MaterialDB {
	return NewMaterialDB(buildingMaterials...)
}

// With returns a copy of db extended with models.
func (db *MaterialDB) With(models ...MaterialModel) *MaterialDB {
	all := make([]MaterialModel, 0, len(db.models)+len(models))
	for _, name := range db.Names() {
		all = append(all, db.models[name])
	}
	return NewMaterialDB(append(all, models...)...)
}

func (db *MaterialDB) Get(name string) (MaterialModel, error) {
	m, ok := db.models[name]
	if !ok {
		return MaterialModel{}, &gpr.UnknownError{Kind: "material", Name: name, Available: db.Names()}
	}
	return m, nil
}

// Resolve looks up name and evaluates it at f (Hz).
func (db *MaterialDB) Resolve(f float64, name string) (Material, error) {
	m, err := db.Get(name)
	if err != nil {
		return Material{}, err
	}
	return m.Eval(f)
}

// Names returns the registered names, sorted.
func (db *MaterialDB) Names() []string {
	names := make([]string, 0, len(db.models))
	for name := range db.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
