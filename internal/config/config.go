package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/engine"
	"github.com/san-kum/ressim/internal/units"
)

const (
	DefaultPressure    = 250.0 // kgf/cm²
	DefaultDuration    = 30.0  // days
	DefaultDt          = 1.0   // days
	DefaultCt          = 1e-4  // 1/(kgf/cm²)
	DefaultBubblePoint = 190.0 // kgf/cm²
)

// Config is a simulation case as written in YAML. Values are in the unit
// system named by Units; Build converts them to SI.
type Config struct {
	Name     string         `yaml:"name"`
	Units    units.System   `yaml:"units"`
	Backend  string         `yaml:"backend"`
	Workers  int            `yaml:"workers,omitempty"`
	Grid     GridConfig     `yaml:"grid"`
	Rock     RockConfig     `yaml:"rock"`
	Fluid    FluidConfig    `yaml:"fluid"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Initial  InitialConfig  `yaml:"initial"`
	Wells    []engine.Well  `yaml:"wells,omitempty"`
}

// GridConfig is either a keyword file or inline dimensions.
type GridConfig struct {
	File      string    `yaml:"file,omitempty"`
	NX        int       `yaml:"nx,omitempty"`
	NY        int       `yaml:"ny,omitempty"`
	NZ        int       `yaml:"nz,omitempty"`
	XLength   float64   `yaml:"x_length,omitempty"`
	YLength   float64   `yaml:"y_length,omitempty"`
	Thickness []float64 `yaml:"thickness,omitempty"`
	Inactive  []int     `yaml:"inactive,omitempty"`
}

// RockConfig is either a GRDECL file or uniform values. Permeability is in
// millidarcy in both unit systems.
type RockConfig struct {
	File     string  `yaml:"file,omitempty"`
	Porosity float64 `yaml:"porosity,omitempty"`
	NTG      float64 `yaml:"ntg,omitempty"`
	PermX    float64 `yaml:"permx,omitempty"`
	PermY    float64 `yaml:"permy,omitempty"`
	PermZ    float64 `yaml:"permz,omitempty"`
}

// FluidConfig is either a PVT CSV file or an inline table.
type FluidConfig struct {
	File          string    `yaml:"file,omitempty"`
	Separator     string    `yaml:"separator,omitempty"`
	Decimal       string    `yaml:"decimal,omitempty"`
	Pressure      []float64 `yaml:"pressure,omitempty"`
	Bo            []float64 `yaml:"bo,omitempty"`
	Viscosity     []float64 `yaml:"viscosity,omitempty"`
	BubblePoint   float64   `yaml:"bubble_point"`
	Compressivity float64   `yaml:"ct"`
}

type ScheduleConfig struct {
	Duration  float64 `yaml:"duration"`
	Dt        float64 `yaml:"dt"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
	MaxIter   int     `yaml:"max_iter,omitempty"`
}

type InitialConfig struct {
	Pressure float64     `yaml:"pressure"`
	Cells    []CellValue `yaml:"cells,omitempty"`
}

// CellValue overrides the initial pressure of one cell.
type CellValue struct {
	I        int     `yaml:"i"`
	J        int     `yaml:"j"`
	K        int     `yaml:"k"`
	Pressure float64 `yaml:"pressure"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:    "default",
		Units:   units.Oilfield,
		Backend: "serial",
		Grid: GridConfig{
			NX: 10, NY: 10, NZ: 3,
			XLength: 1000, YLength: 1000,
			Thickness: []float64{10, 10, 10},
		},
		Rock: RockConfig{Porosity: 0.2, NTG: 1, PermX: 100, PermY: 100, PermZ: 10},
		Fluid: FluidConfig{
			Pressure:      []float64{1, 360},
			Bo:            []float64{1, 1.5},
			Viscosity:     []float64{0.3, 1.2},
			BubblePoint:   DefaultBubblePoint,
			Compressivity: DefaultCt,
		},
		Schedule: ScheduleConfig{
			Duration:  DefaultDuration,
			Dt:        DefaultDt,
			Tolerance: compute.DefaultTolerance,
		},
		Initial: InitialConfig{Pressure: DefaultPressure},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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
