package engine

import (
	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/grid"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string { return [...]string{"x", "y", "z"}[a] }

// axisPairs lists every (lower, upper) neighbour pair along axis, skipping
// cells on the axis's upper boundary. There are (size-1) times the product
// of the other two sizes.
func axisPairs(g *grid.Grid, axis Axis) (lower, upper []int) {
	size, stride := g.NX, 1
	switch axis {
	case AxisY:
		size, stride = g.NY, g.NX
	case AxisZ:
		size, stride = g.NZ, g.NX*g.NY
	}

	n := g.NT / size * (size - 1)
	lower = make([]int, 0, n)
	upper = make([]int, 0, n)
	for i := 0; i < g.NT; i++ {
		ix, iy, iz := g.Coords(i)
		c := [...]int{ix, iy, iz}[axis]
		if c < size-1 {
			lower = append(lower, i)
			upper = append(upper, i+stride)
		}
	}
	return lower, upper
}

func harmonic(a, b float64) float64 {
	return 2 / (1/a + 1/b)
}

// connections holds the pressure-independent part of one axis's
// transmissibilities: K_h · A / distance, for active pairs only.
type connections struct {
	axis  Axis
	lower []int
	upper []int
	geom  []float64
}

// System is one timestep's linear system A·P_new = B.
type System struct {
	A        *compute.CSR
	B        []float64
	Gamma    []float64
	Diagonal []float64
}

// assemble builds the system for pressure p and step dt.
//
// Inactive cells get gamma = 1 and no connections, so their row reduces to
// P_new = P_old.
func (e *Engine) assemble(p []float64, dt float64) *System {
	g := e.model.Grid
	nt := g.NT

	bo, mu := e.model.Fluid.PropertiesAt(e.backend, p)

	gamma := make([]float64, nt)
	for c := 0; c < nt; c++ {
		if !g.Active(c) {
			gamma[c] = 1
			continue
		}
		gamma[c] = e.storage[c] / (bo[c] * dt)
	}

	// 1/(mu*bo), reused across the three axes
	mobility := make([]float64, nt)
	e.backend.Mul(mobility, mu, bo)
	for c := range mobility {
		mobility[c] = 1 / mobility[c]
	}

	diagonal := append([]float64(nil), gamma...)
	tr := compute.NewTriplet(nt + 2*e.nconn)

	for _, conn := range e.conns {
		t := make([]float64, len(conn.lower))
		off := make([]float64, len(conn.lower))
		for k, a := range conn.lower {
			t[k] = conn.geom[k] * mobility[a]
			off[k] = -t[k]
		}
		tr.PutAll(conn.lower, conn.upper, off)
		tr.PutAll(conn.upper, conn.lower, off)
		e.backend.ScatterAdd(diagonal, conn.lower, t)
		e.backend.ScatterAdd(diagonal, conn.upper, t)
	}

	for c, d := range diagonal {
		tr.Put(c, c, d)
	}

	rhs := make([]float64, nt)
	e.backend.Mul(rhs, gamma, p)

	return &System{
		A:        e.backend.NewMatrix(nt, tr),
		B:        rhs,
		Gamma:    gamma,
		Diagonal: diagonal,
	}
}
