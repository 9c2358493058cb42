// Package grid describes the structured Cartesian reservoir grid.
//
// Cells are flattened z-major, then y, then x:
//
//	i = k*nx*ny + j*nx + ix
//
// Lateral spacing is uniform; layer thickness may vary with k.
package grid

import (
	"math"

	"github.com/san-kum/ressim/internal/simerr"
)

type Grid struct {
	XLength, YLength float64
	NX, NY, NZ       int
	NT               int
	DX, DY           float64

	Thickness []float64 // per layer, len NZ
	DZ        []float64 // per cell
	VB        []float64 // bulk volume
	AX, AY    []float64 // face areas normal to x and y
	AZ        []float64 // face area normal to z, constant dx*dy

	active []bool
}

// New builds the grid geometry. activeMask must have one flag per cell.
func New(xLength, yLength float64, thickness []float64, nx, ny, nz int, activeMask []bool) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, simerr.Invalid("grid.dimens", "cell counts must be positive, got %dx%dx%d", nx, ny, nz)
	}
	if !(xLength > 0) || !(yLength > 0) || math.IsInf(xLength, 0) || math.IsInf(yLength, 0) {
		return nil, simerr.Invalid("grid.extent", "lengths must be positive, got %g x %g", xLength, yLength)
	}
	if len(thickness) != nz {
		return nil, simerr.SizeMismatch("grid.thickness", len(thickness), nz)
	}
	nt := nx * ny * nz
	if len(activeMask) != nt {
		return nil, simerr.SizeMismatch("grid.actnum", len(activeMask), nt)
	}
	for k, h := range thickness {
		if !(h > 0) || math.IsInf(h, 0) {
			return nil, simerr.Invalid("grid.thickness", "layer %d must be positive, got %g", k, h)
		}
	}

	g := &Grid{
		XLength:   xLength,
		YLength:   yLength,
		NX:        nx,
		NY:        ny,
		NZ:        nz,
		NT:        nt,
		DX:        xLength / float64(nx),
		DY:        yLength / float64(ny),
		Thickness: append([]float64(nil), thickness...),
		DZ:        make([]float64, nt),
		VB:        make([]float64, nt),
		AX:        make([]float64, nt),
		AY:        make([]float64, nt),
		AZ:        make([]float64, nt),
		active:    append([]bool(nil), activeMask...),
	}

	layer := nx * ny
	for i := 0; i < nt; i++ {
		dz := thickness[i/layer]
		g.DZ[i] = dz
		g.VB[i] = g.DX * g.DY * dz
		g.AX[i] = g.DY * dz
		g.AY[i] = g.DX * dz
		g.AZ[i] = g.DX * g.DY
	}
	return g, nil
}

// Uniform builds a grid with every cell active.
func Uniform(xLength, yLength float64, thickness []float64, nx, ny, nz int) (*Grid, error) {
	mask := make([]bool, nx*ny*nz)
	for i := range mask {
		mask[i] = true
	}
	return New(xLength, yLength, thickness, nx, ny, nz, mask)
}

func (g *Grid) Index(ix, iy, iz int) int { return iz*g.NX*g.NY + iy*g.NX + ix }

func (g *Grid) Coords(i int) (ix, iy, iz int) {
	layer := g.NX * g.NY
	iz = i / layer
	rem := i % layer
	return rem % g.NX, rem / g.NX, iz
}

func (g *Grid) Active(i int) bool { return g.active[i] }

func (g *Grid) ActiveMask() []bool { return append([]bool(nil), g.active...) }

func (g *Grid) ActiveCount() int {
	n := 0
	for _, a := range g.active {
		if a {
			n++
		}
	}
	return n
}
