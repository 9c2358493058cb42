package engine

import (
	. "github.com/onsi/gomega"

	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/grid"
	"github.com/san-kum/ressim/internal/pvt"
	"github.com/san-kum/ressim/internal/reservoir"
	"github.com/san-kum/ressim/internal/rock"
)

const day = 86400.0

type caseSpec struct {
	nx, ny, nz   int
	xLen, yLen   float64
	thickness    []float64
	active       []bool
	porosity     float64
	permX, permY []float64
	permZ        []float64
	table        *pvt.Table
	ct           float64
}

func filled(n int, v float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = v
	}
	return xs
}

func constantFluid() *pvt.Table {
	t, err := pvt.New([]float64{1e5, 5e7}, []float64{1, 1}, []float64{1e-3, 1e-3}, 2e7)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func liveFluid() *pvt.Table {
	t, err := pvt.New(
		[]float64{1e5, 1e7, 2e7, 4e7},
		[]float64{1.05, 1.15, 1.25, 1.22},
		[]float64{1.2e-3, 0.9e-3, 0.7e-3, 0.8e-3},
		2e7,
	)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func (c caseSpec) model() *reservoir.Model {
	var g *grid.Grid
	var err error
	if c.active != nil {
		g, err = grid.New(c.xLen, c.yLen, c.thickness, c.nx, c.ny, c.nz, c.active)
	} else {
		g, err = grid.Uniform(c.xLen, c.yLen, c.thickness, c.nx, c.ny, c.nz)
	}
	Expect(err).NotTo(HaveOccurred())

	var opts []rock.Option
	if c.permX != nil {
		opts = append(opts, rock.WithPermX(c.permX))
	}
	if c.permY != nil {
		opts = append(opts, rock.WithPermY(c.permY))
	}
	if c.permZ != nil {
		opts = append(opts, rock.WithPermZ(c.permZ))
	}
	r := rock.New(filled(g.NT, c.porosity), opts...)

	table := c.table
	if table == nil {
		table = constantFluid()
	}
	ct := c.ct
	if ct == 0 {
		ct = 1e-9
	}
	m, err := reservoir.New(g, r, table, ct)
	Expect(err).NotTo(HaveOccurred())
	return m
}

// heterogeneous returns a 3x3x2 case with varying permeability and layer
// thickness.
func heterogeneous() caseSpec {
	n := 18
	kx, ky, kz := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		kx[i] = 50 + float64((i*37)%11)*20
		ky[i] = 30 + float64((i*17)%7)*15
		kz[i] = 5 + float64((i*13)%5)*2
	}
	return caseSpec{
		nx: 3, ny: 3, nz: 2, xLen: 300, yLen: 150,
		thickness: []float64{4, 9},
		porosity:  0.22,
		permX:     kx, permY: ky, permZ: kz,
		table: liveFluid(),
	}
}

func serial() compute.Backend { return compute.NewSerialBackend() }

// stalledBackend reports non-convergence on every solve and hands back a
// garbage iterate.
type stalledBackend struct {
	compute.Backend
}

func (s stalledBackend) SolveCG(m *compute.CSR, b, x0 []float64, opts compute.SolveOptions) (compute.SolveResult, error) {
	garbage := make([]float64, len(b))
	for i := range garbage {
		garbage[i] = -1
	}
	return compute.SolveResult{X: garbage, Info: 7, Iterations: 7, Residual: 1}, nil
}

type countingObserver struct {
	steps  int
	onStep func(StepInfo)
}

func (o *countingObserver) OnStep(s StepInfo) {
	o.steps++
	if o.onStep != nil {
		o.onStep(s)
	}
}
