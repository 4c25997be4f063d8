package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gprpipe/internal/dielectric"
	"github.com/san-kum/gprpipe/internal/geometry"
	"github.com/san-kum/gprpipe/internal/gpr"
	"github.com/san-kum/gprpipe/internal/scenario"
	"github.com/san-kum/gprpipe/internal/sweep"
)

const (
	DefaultFrequency         = 2.45e9
	DefaultMaxHarmonic       = 5
	DefaultRuntimeMultiplier = 3.0
	DefaultPMLCells          = 20
	DefaultAmplitude         = 1.0
	DefaultPower             = 10.0
	DefaultSnapshotCount     = 4
)

type Config struct {
	Name              string         `yaml:"name"`
	FilenameBase      string         `yaml:"filename_base"`
	GeometryMode      string         `yaml:"geometry_mode"`
	Layout            string         `yaml:"layout"`
	Frequency         float64        `yaml:"frequency"`
	MaxHarmonic       int            `yaml:"max_harmonic"`
	RuntimeMultiplier float64        `yaml:"runtime_multiplier"`
	PMLCells          int            `yaml:"pml_cells"`
	Pipe              PipeConfig     `yaml:"pipe"`
	Soil              SoilConfig     `yaml:"soil"`
	AirDepth          float64        `yaml:"air_depth"`
	Fill              FillConfig     `yaml:"fill"`
	TxOffset          gpr.Point      `yaml:"tx_offset"`
	RxOffset          gpr.Point      `yaml:"rx_offset"`
	ObserverFractions []float64      `yaml:"observer_fractions"`
	Waveform          WaveformConfig `yaml:"waveform"`
	Output            OutputConfig   `yaml:"output"`
	Sweep             sweep.Axes     `yaml:"sweep"`

	Soils     []dielectric.SoilComposition `yaml:"soils,omitempty"`
	Materials []dielectric.MaterialModel   `yaml:"materials,omitempty"`
}

type PipeConfig struct {
	Material      string  `yaml:"material"`
	Diameter      float64 `yaml:"diameter"`
	WallThickness float64 `yaml:"wall_thickness"`
	Length        float64 `yaml:"length"`
	BurialDepth   float64 `yaml:"burial_depth"`
}

type SoilConfig struct {
	Name         string  `yaml:"name"`
	Temperature  float64 `yaml:"temperature"`
	WaterContent float64 `yaml:"water_content"`
	Depth        float64 `yaml:"depth"`
}

type FillConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Ratio    float64 `yaml:"ratio"`
	Fluid    string  `yaml:"fluid"`
	Salinity float64 `yaml:"salinity"`
}

type WaveformConfig struct {
	Type          string  `yaml:"type"`
	Identifier    string  `yaml:"identifier"`
	Polarisation  string  `yaml:"polarisation"`
	AmplitudeMode string  `yaml:"amplitude_mode"`
	Amplitude     float64 `yaml:"amplitude"`
	Power         float64 `yaml:"power"`
}

type OutputConfig struct {
	Geometry      bool `yaml:"geometry"`
	Snapshots     bool `yaml:"snapshots"`
	SnapshotCount int  `yaml:"snapshot_count"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:              "gpr_pipe",
		FilenameBase:      "straight_pipe",
		GeometryMode:      "2D",
		Layout:            "along_pipe",
		Frequency:         DefaultFrequency,
		MaxHarmonic:       DefaultMaxHarmonic,
		RuntimeMultiplier: DefaultRuntimeMultiplier,
		PMLCells:          DefaultPMLCells,
		Pipe: PipeConfig{
			Material:      "concrete",
			Diameter:      0.225,
			WallThickness: 0.035,
			Length:        1.5,
			BurialDepth:   0.8,
		},
		Soil: SoilConfig{
			Name:         "sand",
			Temperature:  15,
			WaterContent: 1e-15,
			Depth:        0.5,
		},
		AirDepth:          0.5,
		Fill:              FillConfig{Fluid: dielectric.FreshWater},
		TxOffset:          gpr.Point{X: 0.1},
		RxOffset:          gpr.Point{X: 0.1},
		ObserverFractions: []float64{1.0 / 3, 2.0 / 3},
		Waveform: WaveformConfig{
			Type:          "contsine",
			Identifier:    "tx_1",
			Polarisation:  "z",
			AmplitudeMode: "fixed",
			Amplitude:     DefaultAmplitude,
			Power:         DefaultPower,
		},
		Output: OutputConfig{
			Geometry:      true,
			Snapshots:     true,
			SnapshotCount: DefaultSnapshotCount,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Settings converts the run-wide part of the file into assembler settings.
func (c *Config) Settings() (scenario.Settings, error) {
	mode, err := geometry.ParseMode(c.GeometryMode)
	if err != nil {
		return scenario.Settings{}, err
	}
	layout, err := geometry.ParseLayout(c.Layout)
	if err != nil {
		return scenario.Settings{}, err
	}
	amplitude, err := c.Waveform.amplitude()
	if err != nil {
		return scenario.Settings{}, err
	}

	s := scenario.Settings{
		Name:              c.Name,
		FilenameBase:      c.FilenameBase,
		Mode:              mode,
		Layout:            layout,
		MaxHarmonic:       c.MaxHarmonic,
		RuntimeMultiplier: c.RuntimeMultiplier,
		PMLCells:          c.PMLCells,
		PipeMaterial:      c.Pipe.Material,
		Placement: geometry.Placement{
			TxOffset:          c.TxOffset,
			RxOffset:          c.RxOffset,
			ObserverFractions: append([]float64(nil), c.ObserverFractions...),
		},
		Waveform: scenario.Waveform{
			Type:         c.Waveform.Type,
			Identifier:   c.Waveform.Identifier,
			Polarisation: c.Waveform.Polarisation,
			Amplitude:    amplitude,
		},
		Output: scenario.Output{
			Geometry:      c.Output.Geometry,
			Snapshots:     c.Output.Snapshots,
			SnapshotCount: c.Output.SnapshotCount,
		},
	}
	if c.Fill.Enabled {
		s.Fill = &scenario.FillSettings{Fluid: c.Fill.Fluid, Salinity: c.Fill.Salinity}
	}
	return s, s.Validate()
}

func (w WaveformConfig) amplitude() (scenario.Amplitude, error) {
	switch w.AmplitudeMode {
	case "", "fixed":
		return scenario.FixedAmplitude{Amplitude: w.Amplitude}, nil
	case "power":
		return scenario.PowerAmplitude{Watts: w.Power}, nil
	}
	return nil, &gpr.ConfigError{Field: "waveform.amplitude_mode", Value: w.AmplitudeMode, Reason: "must be fixed or power"}
}

// Resolver returns a resolver over the built-in tables extended with the
// file's soils and materials.
func (c *Config) Resolver() *dielectric.Resolver {
	return dielectric.NewResolver(
		dielectric.BuildingMaterials().With(c.Materials...),
		dielectric.StandardSoils().With(c.Soils...),
	)
}

// Input is the single scenario described by the file, before sweeping.
func (c *Config) Input() scenario.Input {
	return scenario.Input{
		Frequency: c.Frequency,
		Geometry: geometry.Spec{
			PipeDiameter:  c.Pipe.Diameter,
			WallThickness: c.Pipe.WallThickness,
			PipeLength:    c.Pipe.Length,
			BurialDepth:   c.Pipe.BurialDepth,
			SoilDepth:     c.Soil.Depth,
			AirDepth:      c.AirDepth,
			FillRatio:     c.Fill.Ratio,
		},
		Soil: dielectric.SoilSpec{
			Name:         c.Soil.Name,
			Temperature:  c.Soil.Temperature,
			WaterContent: c.Soil.WaterContent,
		},
	}
}

// Inputs expands the sweep axes over Input.
func (c *Config) Inputs() []scenario.Input {
	return c.Sweep.Expand(c.Input())
}

// Assembler builds an assembler from the file.
func (c *Config) Assembler() (*scenario.Assembler, error) {
	s, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return scenario.NewAssembler(s, c.Resolver())
}
