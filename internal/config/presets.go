package config

import (
	"sort"

	"github.com/san-kum/ressim/internal/units"
)

// Presets build fresh configs so callers may edit the result.
var Presets = map[string]func() *Config{
	"line": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "line"
		cfg.Grid = GridConfig{NX: 20, NY: 1, NZ: 1, XLength: 2000, YLength: 100, Thickness: []float64{10}}
		cfg.Schedule.Duration = 60
		cfg.Initial = InitialConfig{Pressure: 200, Cells: []CellValue{{I: 0, Pressure: 300}}}
		return cfg
	},
	"quarter": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "quarter"
		cfg.Grid = GridConfig{NX: 15, NY: 15, NZ: 1, XLength: 1500, YLength: 1500, Thickness: []float64{12}}
		cfg.Schedule.Duration = 90
		cfg.Schedule.Dt = 3
		cfg.Initial = InitialConfig{Pressure: 250, Cells: []CellValue{
			{I: 0, J: 0, Pressure: 350},
			{I: 14, J: 14, Pressure: 150},
		}}
		return cfg
	},
	"layered": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "layered"
		cfg.Backend = "cpu"
		cfg.Grid = GridConfig{
			NX: 10, NY: 10, NZ: 4,
			XLength: 1000, YLength: 1000,
			Thickness: []float64{5, 10, 10, 5},
			Inactive:  []int{0, 1, 10},
		}
		cfg.Rock.PermZ = 1
		cfg.Initial = InitialConfig{Pressure: 220, Cells: []CellValue{
			{I: 5, J: 5, K: 0, Pressure: 300},
			{I: 5, J: 5, K: 3, Pressure: 150},
		}}
		return cfg
	},
	"field": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "field"
		cfg.Backend = "cpu"
		cfg.Grid = GridConfig{NX: 81, NY: 58, NZ: 20, XLength: 8100, YLength: 5800, Thickness: []float64{8.56}}
		cfg.Schedule.Duration = 10
		cfg.Initial = InitialConfig{Pressure: 250, Cells: []CellValue{{I: 40, J: 29, K: 10, Pressure: 320}}}
		return cfg
	},
	"si": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "si"
		cfg.Units = units.SI
		cfg.Grid = GridConfig{NX: 5, NY: 5, NZ: 2, XLength: 500, YLength: 500, Thickness: []float64{10, 10}}
		cfg.Fluid = FluidConfig{
			Pressure:      []float64{1e5, 3.5e7},
			Bo:            []float64{1, 1.5},
			Viscosity:     []float64{3e-4, 1.2e-3},
			BubblePoint:   1.9e7,
			Compressivity: 1e-9,
		}
		cfg.Schedule.Duration = 10 * units.Day
		cfg.Schedule.Dt = units.Day
		cfg.Initial = InitialConfig{Pressure: 2.5e7, Cells: []CellValue{{I: 2, J: 2, K: 1, Pressure: 3e7}}}
		return cfg
	},
}

// GetPreset returns nil for an unknown name.
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
