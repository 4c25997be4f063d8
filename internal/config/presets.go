package config

import (
	"sort"

	"github.com/san-kum/gprpipe/internal/dielectric"
	"github.com/san-kum/gprpipe/internal/gpr"
)

var Presets = map[string]func() *Config{
	"straight_pipe": DefaultConfig,
	"straight_pipe_filled": func() *Config {
		cfg := DefaultConfig()
		cfg.FilenameBase = "straight_pipe_filled"
		cfg.Fill = FillConfig{Enabled: true, Ratio: 0.5, Fluid: dielectric.SeaWaterFluid}
		return cfg
	},
	"pipe_to_above_ground": func() *Config {
		cfg := DefaultConfig()
		cfg.FilenameBase = "pipe_to_above_ground"
		cfg.Layout = "above_ground"
		cfg.Pipe.WallThickness = 0.06
		cfg.Pipe.BurialDepth = 1.0
		cfg.Soil = SoilConfig{Name: "sandy_clay_loam", Temperature: 10, WaterContent: 1e-15, Depth: 1.0}
		cfg.TxOffset = gpr.Point{}
		cfg.RxOffset = gpr.Point{}
		cfg.ObserverFractions = nil
		cfg.Waveform.AmplitudeMode = "power"
		cfg.Output.Snapshots = false
		cfg.Output.SnapshotCount = 16
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
