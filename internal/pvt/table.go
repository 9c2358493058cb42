// Package pvt holds the pressure-dependent fluid table.
//
// The table is a single continuous interpolation table. The bubble point is
// kept for reference only and does not switch between saturated and
// undersaturated behaviour.
package pvt

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/simerr"
)

// Table maps pressure (Pa) to formation volume factor and viscosity (Pa·s).
// It is immutable after New.
type Table struct {
	pressure    []float64
	bo          []float64
	viscosity   []float64
	bubblePoint float64
}

// New copies the inputs and sorts them by ascending pressure with a single
// permutation. Every Bo and viscosity entry must be positive so that no
// interpolated value can reach zero.
func New(pressures, bo, viscosities []float64, bubblePoint float64) (*Table, error) {
	if len(pressures) != len(bo) || len(pressures) != len(viscosities) {
		return nil, simerr.Invalid("pvt",
			"array sizes differ: pressure %d, bo %d, viscosity %d",
			len(pressures), len(bo), len(viscosities))
	}
	if len(pressures) == 0 {
		return nil, simerr.Invalid("pvt", "table is empty")
	}

	p := make([]float64, len(pressures))
	copy(p, pressures)
	perm := make([]int, len(p))
	floats.ArgsortStable(p, perm)

	t := &Table{
		pressure:    p,
		bo:          make([]float64, len(p)),
		viscosity:   make([]float64, len(p)),
		bubblePoint: bubblePoint,
	}
	for i, k := range perm {
		t.bo[i] = bo[k]
		t.viscosity[i] = viscosities[k]
	}

	for i := range p {
		switch {
		case math.IsNaN(p[i]) || math.IsInf(p[i], 0):
			return nil, simerr.Invalid("pvt.pressure", "entry %d is not finite", i)
		case !(t.bo[i] > 0) || math.IsInf(t.bo[i], 0):
			return nil, simerr.Invalid("pvt.bo", "entry at pressure %g must be positive and finite, got %g", p[i], t.bo[i])
		case !(t.viscosity[i] > 0) || math.IsInf(t.viscosity[i], 0):
			return nil, simerr.Invalid("pvt.viscosity", "entry at pressure %g must be positive and finite, got %g", p[i], t.viscosity[i])
		}
	}
	return t, nil
}

func (t *Table) Len() int                { return len(t.pressure) }
func (t *Table) BubblePoint() float64    { return t.bubblePoint }
func (t *Table) Range() (lo, hi float64) { return t.pressure[0], t.pressure[len(t.pressure)-1] }

// PropertiesAt interpolates Bo and viscosity for every pressure in p.
// Pressures outside the table clamp to the boundary rows.
func (t *Table) PropertiesAt(b compute.Backend, p []float64) (bo, viscosity []float64) {
	bo = make([]float64, len(p))
	viscosity = make([]float64, len(p))
	b.Interp(bo, p, t.pressure, t.bo)
	b.Interp(viscosity, p, t.pressure, t.viscosity)
	return bo, viscosity
}

var scalar = compute.NewSerialBackend()

// At is the single-pressure form of PropertiesAt.
func (t *Table) At(p float64) (bo, viscosity float64) {
	b, v := t.PropertiesAt(scalar, []float64{p})
	return b[0], v[0]
}
