package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/reservoir"
	"github.com/san-kum/ressim/internal/simerr"
	"github.com/san-kum/ressim/internal/units"
)

type Engine struct {
	model   *reservoir.Model
	backend compute.Backend

	storage    []float64 // vb*phi*ct per cell
	poreVolume []float64 // active cells only, zero elsewhere
	conns      [3]connections
	nconn      int
	wells      []Well
	metrics    []Metric
	observers  []Observer
}

type Option func(*Engine)

// WithWells records wells on the engine. They do not enter assembly.
func WithWells(w ...Well) Option {
	return func(e *Engine) { e.wells = append(e.wells, w...) }
}

func WithMetric(m Metric) Option {
	return func(e *Engine) { e.metrics = append(e.metrics, m) }
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// New prepares an engine for model on backend. Every input that feeds a
// transmissibility division is checked here, so assembly never divides by
// zero.
func New(model *reservoir.Model, backend compute.Backend, opts ...Option) (*Engine, error) {
	if model == nil || backend == nil {
		return nil, simerr.Invalid("engine", "model and backend are required")
	}
	e := &Engine{model: model, backend: backend}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.validateCells(); err != nil {
		return nil, err
	}
	if err := e.buildConnections(); err != nil {
		return nil, err
	}

	g := model.Grid
	e.storage = make([]float64, g.NT)
	e.poreVolume = make([]float64, g.NT)
	pv := model.Rock.PoreVolume(g)
	for c := range e.storage {
		e.storage[c] = g.VB[c] * model.Rock.Porosity[c] * model.Ct
		if g.Active(c) {
			e.poreVolume[c] = pv[c]
		}
	}

	if len(e.wells) > 0 {
		logrus.Warnf("%d well(s) configured; wells are not coupled into the pressure system and are ignored", len(e.wells))
	}
	return e, nil
}

func (e *Engine) Backend() compute.Backend { return e.backend }
func (e *Engine) Wells() []Well            { return append([]Well(nil), e.wells...) }

func (e *Engine) validateCells() error {
	g, r := e.model.Grid, e.model.Rock
	if g.ActiveCount() == 0 {
		return simerr.Invalid("grid.actnum", "no active cells")
	}
	for c := 0; c < g.NT; c++ {
		if !g.Active(c) {
			continue
		}
		if phi := r.Porosity[c]; !(phi > 0) || math.IsInf(phi, 0) {
			ix, iy, iz := g.Coords(c)
			return simerr.Invalid("porosity", "active cell %d (%d,%d,%d) must be positive, got %g", c, ix, iy, iz, phi)
		}
	}
	return nil
}

func (e *Engine) perm(axis Axis) (name string, k []float64, size int) {
	g, r := e.model.Grid, e.model.Rock
	switch axis {
	case AxisY:
		return "permy", r.PermY, g.NY
	case AxisZ:
		return "permz", r.PermZ, g.NZ
	}
	return "permx", r.PermX, g.NX
}

// buildConnections converts permeability to m² and precomputes
// K_h·A/distance for every pair of active neighbours.
func (e *Engine) buildConnections() error {
	g := e.model.Grid

	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		name, k, size := e.perm(axis)
		conn := connections{axis: axis}
		e.conns[axis] = conn
		if size < 2 {
			continue
		}
		if k == nil {
			return simerr.Invalid(name, "required for an axis with %d cells", size)
		}

		lower, upper := axisPairs(g, axis)
		for p, a := range lower {
			b := upper[p]
			if !g.Active(a) || !g.Active(b) {
				continue
			}
			for _, c := range [...]int{a, b} {
				if !(k[c] > 0) || math.IsInf(k[c], 0) {
					ix, iy, iz := g.Coords(c)
					return simerr.Invalid(name, "cell %d (%d,%d,%d) on an active connection must be positive, got %g", c, ix, iy, iz, k[c])
				}
			}

			kh := harmonic(k[a]*units.MilliDarcy, k[b]*units.MilliDarcy)
			var area, dist float64
			switch axis {
			case AxisX:
				area, dist = g.AX[a], g.DX
			case AxisY:
				area, dist = g.AY[a], g.DY
			case AxisZ:
				area, dist = g.AZ[a], 0.5*(g.DZ[a]+g.DZ[b])
			}

			conn.lower = append(conn.lower, a)
			conn.upper = append(conn.upper, b)
			conn.geom = append(conn.geom, kh*area/dist)
		}
		e.conns[axis] = conn
		e.nconn += len(conn.lower)
	}
	return nil
}

// Assemble returns the linear system for one step of length dt from
// pressure p. It is what Run solves each step.
func (e *Engine) Assemble(p []float64, dt float64) (*System, error) {
	if len(p) != e.model.Grid.NT {
		return nil, simerr.SizeMismatch("pressure", len(p), e.model.Grid.NT)
	}
	if !(dt > 0) {
		return nil, simerr.Invalid("dt", "must be positive, got %g", dt)
	}
	return e.assemble(p, dt), nil
}

// MeanPressure is the pore-volume weighted average over active cells.
func (e *Engine) MeanPressure(p []float64) float64 {
	num, den := 0.0, 0.0
	for c, pv := range e.poreVolume {
		num += pv * p[c]
		den += pv
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func (e *Engine) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return simerr.Invalid("dt", "must be positive, got %g", cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return simerr.Invalid("duration", "must be positive, got %g", cfg.Duration)
	}
	if cfg.Tolerance < 0 {
		return simerr.Invalid("tolerance", "must not be negative, got %g", cfg.Tolerance)
	}
	return nil
}

// Run steps p0 forward until cfg.Duration is reached or a solve fails.
//
// On divergence the returned result holds the last converged pressure and
// the error is a *simerr.ConvergenceError. On cancellation the result holds
// the pressure after the last completed step.
func (e *Engine) Run(ctx context.Context, p0 []float64, cfg Config) (*Result, error) {
	if err := e.validateConfig(cfg); err != nil {
		return nil, err
	}
	nt := e.model.Grid.NT
	if len(p0) != nt {
		return nil, simerr.SizeMismatch("initial pressure", len(p0), nt)
	}
	for c, v := range p0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, simerr.Invalid("initial pressure", "cell %d is not finite", c)
		}
	}

	steps := int(math.Ceil(cfg.Duration/cfg.Dt - 1e-9))
	p := append([]float64(nil), p0...)

	result := &Result{
		Backend:      e.backend.Name(),
		Status:       Stepping,
		Times:        make([]float64, 0, steps+1),
		MeanPressure: make([]float64, 0, steps+1),
		Iterations:   make([]int, 0, steps),
		Metrics:      make(map[string]float64),
	}
	result.Times = append(result.Times, 0)
	result.MeanPressure = append(result.MeanPressure, e.MeanPressure(p))

	for _, m := range e.metrics {
		m.Reset()
	}

	logrus.Infof("simulating %d cells (%d active) for %d steps of %gs on %s backend",
		nt, e.model.Grid.ActiveCount(), steps, cfg.Dt, e.backend.Name())

	opts := compute.SolveOptions{Tolerance: cfg.Tolerance, MaxIter: cfg.MaxIter}
	t := 0.0

	finish := func(status Status) {
		result.Status = status
		result.Pressure = p
		result.Time = t
		for _, m := range e.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			finish(Canceled)
			return result, fmt.Errorf("%w after %d steps: %w", simerr.ErrCanceled, i, ctx.Err())
		default:
		}

		sys := e.assemble(p, cfg.Dt)
		res, err := e.backend.SolveCG(sys.A, sys.B, p, opts)
		if err != nil {
			finish(Diverged)
			return result, fmt.Errorf("step %d: %w", i, err)
		}

		info := res.Info
		if info == 0 && !finite(res.X) {
			info = -2
		}
		if info != 0 {
			finish(Diverged)
			logrus.Errorf("step %d (t=%gs): solver status %d after %d iterations, keeping last converged pressure",
				i, t, info, res.Iterations)
			return result, &simerr.ConvergenceError{
				Step:       i,
				Time:       t,
				Info:       info,
				Iterations: res.Iterations,
				Residual:   res.Residual,
				Pressure:   append([]float64(nil), p...),
			}
		}

		prev := p
		p = res.X
		t = float64(i+1) * cfg.Dt
		result.Steps++

		mean := e.MeanPressure(p)
		result.Times = append(result.Times, t)
		result.MeanPressure = append(result.MeanPressure, mean)
		result.Iterations = append(result.Iterations, res.Iterations)

		step := StepInfo{
			Step:       i,
			Time:       t,
			Dt:         cfg.Dt,
			Pressure:   p,
			Previous:   prev,
			Iterations: res.Iterations,
			Residual:   res.Residual,
		}
		for _, m := range e.metrics {
			m.Observe(step)
		}
		for _, o := range e.observers {
			o.OnStep(step)
		}

		logrus.Debugf("step %d t=%gs mean=%.6gPa cg=%d residual=%.3e", i, t, mean, res.Iterations, res.Residual)
	}

	finish(Completed)
	logrus.Infof("simulation completed: %d steps, t=%gs, mean pressure %.6gPa", result.Steps, t, result.MeanPressure[len(result.MeanPressure)-1])
	return result, nil
}

func finite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
