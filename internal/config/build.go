package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/deck"
	"github.com/san-kum/ressim/internal/engine"
	"github.com/san-kum/ressim/internal/grid"
	"github.com/san-kum/ressim/internal/pvt"
	"github.com/san-kum/ressim/internal/reservoir"
	"github.com/san-kum/ressim/internal/rock"
	"github.com/san-kum/ressim/internal/simerr"
	"github.com/san-kum/ressim/internal/units"
)

// Case is a fully resolved run: every quantity in SI.
type Case struct {
	Name     string
	Units    units.System
	Backend  string
	Workers  int
	Model    *reservoir.Model
	Schedule engine.Config
	Initial  []float64
	Wells    []engine.Well
}

// ToCaseUnits converts an SI pressure field back into the case's pressure unit.
func (c *Case) ToCaseUnits(p []float64) []float64 {
	f := c.Units.PressureFactor()
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v / f
	}
	return out
}

// Validate checks the fields that do not need any file to be read.
func (c *Config) Validate() error {
	var errs []error
	if !c.Units.Valid() {
		errs = append(errs, simerr.Invalid("units", "unknown system %q", c.Units))
	}
	if _, err := compute.New(c.Backend); err != nil {
		errs = append(errs, err)
	}
	if c.Schedule.Duration <= 0 {
		errs = append(errs, simerr.Invalid("schedule.duration", "must be positive, got %g", c.Schedule.Duration))
	}
	if c.Schedule.Dt <= 0 {
		errs = append(errs, simerr.Invalid("schedule.dt", "must be positive, got %g", c.Schedule.Dt))
	}
	if c.Schedule.Tolerance < 0 {
		errs = append(errs, simerr.Invalid("schedule.tolerance", "must not be negative"))
	}
	if c.Schedule.MaxIter < 0 {
		errs = append(errs, simerr.Invalid("schedule.max_iter", "must not be negative"))
	}
	if c.Fluid.Compressivity <= 0 {
		errs = append(errs, simerr.Invalid("fluid.ct", "must be positive, got %g", c.Fluid.Compressivity))
	}
	if c.Initial.Pressure <= 0 {
		errs = append(errs, simerr.Invalid("initial.pressure", "must be positive, got %g", c.Initial.Pressure))
	}
	if c.Grid.File == "" && (c.Grid.NX < 1 || c.Grid.NY < 1 || c.Grid.NZ < 1) {
		errs = append(errs, simerr.Invalid("grid", "needs a file or nx, ny, nz >= 1"))
	}
	if c.Rock.File == "" && c.Rock.Porosity <= 0 {
		errs = append(errs, simerr.Invalid("rock.porosity", "must be positive, got %g", c.Rock.Porosity))
	}
	if c.Fluid.File == "" && len(c.Fluid.Pressure) == 0 {
		errs = append(errs, simerr.Invalid("fluid", "needs a file or an inline table"))
	}
	return errors.Join(errs...)
}

// Build reads any referenced files, relative to baseDir, and returns the
// case in SI units.
func (c *Config) Build(baseDir string) (*Case, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pf := c.Units.PressureFactor()
	tf := c.Units.TimeFactor()

	g, err := c.buildGrid(baseDir)
	if err != nil {
		return nil, err
	}
	r, err := c.buildRock(baseDir, g.NT)
	if err != nil {
		return nil, err
	}
	table, err := c.buildFluid(baseDir)
	if err != nil {
		return nil, err
	}
	model, err := reservoir.New(g, r, table, c.Fluid.Compressivity/pf)
	if err != nil {
		return nil, err
	}

	p0 := make([]float64, g.NT)
	for i := range p0 {
		p0[i] = c.Initial.Pressure * pf
	}
	for n, cell := range c.Initial.Cells {
		if cell.I < 0 || cell.I >= g.NX || cell.J < 0 || cell.J >= g.NY || cell.K < 0 || cell.K >= g.NZ {
			return nil, simerr.Invalid(fmt.Sprintf("initial.cells[%d]", n),
				"(%d,%d,%d) outside %dx%dx%d grid", cell.I, cell.J, cell.K, g.NX, g.NY, g.NZ)
		}
		p0[g.Index(cell.I, cell.J, cell.K)] = cell.Pressure * pf
	}

	logrus.WithFields(logrus.Fields{
		"case":  c.Name,
		"cells": g.NT,
		"units": c.Units,
	}).Debug("case built")

	return &Case{
		Name:    c.Name,
		Units:   c.Units,
		Backend: c.Backend,
		Workers: c.Workers,
		Model:   model,
		Schedule: engine.Config{
			Duration:  c.Schedule.Duration * tf,
			Dt:        c.Schedule.Dt * tf,
			Tolerance: c.Schedule.Tolerance,
			MaxIter:   c.Schedule.MaxIter,
		},
		Initial: p0,
		Wells:   append([]engine.Well(nil), c.Wells...),
	}, nil
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func (c *Config) buildGrid(baseDir string) (*grid.Grid, error) {
	if c.Grid.File != "" {
		spec, err := deck.ReadGrid(resolve(baseDir, c.Grid.File))
		if err != nil {
			return nil, err
		}
		return grid.New(spec.XLength, spec.YLength, spec.Thickness, spec.NX, spec.NY, spec.NZ, spec.Active)
	}

	gc := c.Grid
	thickness := gc.Thickness
	if len(thickness) == 1 && gc.NZ > 1 {
		thickness = fill(gc.NZ, thickness[0])
	}
	nt := gc.NX * gc.NY * gc.NZ
	mask := make([]bool, nt)
	for i := range mask {
		mask[i] = true
	}
	for _, i := range gc.Inactive {
		if i < 0 || i >= nt {
			return nil, simerr.Invalid("grid.inactive", "cell %d outside [0, %d)", i, nt)
		}
		mask[i] = false
	}
	return grid.New(gc.XLength, gc.YLength, thickness, gc.NX, gc.NY, gc.NZ, mask)
}

func (c *Config) buildRock(baseDir string, nt int) (*rock.Properties, error) {
	if c.Rock.File != "" {
		ps, err := deck.ReadProperties(resolve(baseDir, c.Rock.File))
		if err != nil {
			return nil, err
		}
		if ps.Actnum != nil {
			logrus.Debugf("%s: ACTNUM ignored, the active mask comes from the grid", c.Rock.File)
		}
		opts := []rock.Option{rock.WithPermX(ps.PermX), rock.WithPermY(ps.PermY), rock.WithPermZ(ps.PermZ)}
		if ps.NTG != nil {
			opts = append(opts, rock.WithNTG(ps.NTG))
		}
		return rock.New(ps.Porosity, opts...), nil
	}

	rc := c.Rock
	ntg := rc.NTG
	if ntg == 0 {
		ntg = 1
	}
	return rock.New(fill(nt, rc.Porosity),
		rock.WithNTG(fill(nt, ntg)),
		rock.WithPermX(fill(nt, rc.PermX)),
		rock.WithPermY(fill(nt, rc.PermY)),
		rock.WithPermZ(fill(nt, rc.PermZ)),
	), nil
}

func (c *Config) buildFluid(baseDir string) (*pvt.Table, error) {
	fc := c.Fluid
	p, bo, mu := fc.Pressure, fc.Bo, fc.Viscosity
	if fc.File != "" {
		d := deck.DefaultDialect
		if fc.Separator != "" {
			d.Separator = []rune(fc.Separator)[0]
		}
		if fc.Decimal != "" {
			d.Decimal = []rune(fc.Decimal)[0]
		}
		cols, err := deck.ReadPVT(resolve(baseDir, fc.File), d)
		if err != nil {
			return nil, err
		}
		p, bo, mu = cols.Pressure, cols.Bo, cols.Viscosity
	}

	pf := c.Units.PressureFactor()
	vf := c.Units.ViscosityFactor()
	ps := make([]float64, len(p))
	for i, v := range p {
		ps[i] = v * pf
	}
	mus := make([]float64, len(mu))
	for i, v := range mu {
		mus[i] = v * vf
	}
	return pvt.New(ps, bo, mus, fc.BubblePoint*pf)
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
