// Package rock holds the static per-cell rock properties.
package rock

import (
	"github.com/san-kum/ressim/internal/grid"
	"github.com/san-kum/ressim/internal/simerr"
)

// Properties are per-cell arrays in source units: porosity and net-to-gross
// as fractions, permeabilities in millidarcy. Absent permeabilities are nil.
type Properties struct {
	Porosity []float64
	NTG      []float64
	PermX    []float64
	PermY    []float64
	PermZ    []float64
}

type Option func(*Properties)

func WithNTG(ntg []float64) Option {
	return func(p *Properties) { p.NTG = clone(ntg) }
}

func WithPermX(k []float64) Option {
	return func(p *Properties) { p.PermX = clone(k) }
}

func WithPermY(k []float64) Option {
	return func(p *Properties) { p.PermY = clone(k) }
}

func WithPermZ(k []float64) Option {
	return func(p *Properties) { p.PermZ = clone(k) }
}

// New copies porosity and applies opts. NTG defaults to all ones.
func New(porosity []float64, opts ...Option) *Properties {
	p := &Properties{Porosity: clone(porosity)}
	for _, opt := range opts {
		opt(p)
	}
	if p.NTG == nil {
		p.NTG = make([]float64, len(p.Porosity))
		for i := range p.NTG {
			p.NTG[i] = 1
		}
	}
	return p
}

func (p *Properties) NCells() int { return len(p.Porosity) }

// ValidateAgainst checks that every present array has one entry per cell.
func (p *Properties) ValidateAgainst(g *grid.Grid) error {
	fields := []struct {
		name string
		vals []float64
	}{
		{"porosity", p.Porosity},
		{"ntg", p.NTG},
		{"permx", p.PermX},
		{"permy", p.PermY},
		{"permz", p.PermZ},
	}
	for _, f := range fields {
		if f.vals == nil && f.name != "porosity" {
			continue
		}
		if len(f.vals) != g.NT {
			return simerr.SizeMismatch(f.name, len(f.vals), g.NT)
		}
	}
	return nil
}

// PoreVolume returns vb*porosity*ntg per cell. The caller must have
// validated p against g.
func (p *Properties) PoreVolume(g *grid.Grid) []float64 {
	pv := make([]float64, g.NT)
	for i := range pv {
		pv[i] = g.VB[i] * p.Porosity[i] * p.NTG[i]
	}
	return pv
}

func clone(xs []float64) []float64 {
	if xs == nil {
		return nil
	}
	return append([]float64(nil), xs...)
}
