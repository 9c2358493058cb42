package engine

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ressim/internal/grid"
	"github.com/san-kum/ressim/internal/units"
)

var _ = Describe("axis pairs", func() {
	It("enumerates (size-1) times the other two sizes per axis", func() {
		g, err := grid.Uniform(4, 3, []float64{1, 1}, 4, 3, 2)
		Expect(err).NotTo(HaveOccurred())

		lx, ux := axisPairs(g, AxisX)
		ly, uy := axisPairs(g, AxisY)
		lz, uz := axisPairs(g, AxisZ)

		Expect(lx).To(HaveLen(3 * 3 * 2))
		Expect(ly).To(HaveLen(4 * 2 * 2))
		Expect(lz).To(HaveLen(4 * 3 * 1))

		for k := range lx {
			Expect(ux[k]).To(Equal(lx[k] + 1))
			ix, _, _ := g.Coords(lx[k])
			Expect(ix).To(BeNumerically("<", 3))
		}
		for k := range ly {
			Expect(uy[k]).To(Equal(ly[k] + 4))
		}
		for k := range lz {
			Expect(uz[k]).To(Equal(lz[k] + 12))
		}
	})
})

var _ = Describe("harmonic", func() {
	It("averages resistances in series", func() {
		Expect(harmonic(100, 100)).To(BeNumerically("~", 100, 1e-12))
		Expect(harmonic(100, 300)).To(BeNumerically("~", 150, 1e-12))
	})
})

var _ = Describe("Assemble", func() {
	It("matches the hand-computed transmissibility on a 3x1x1 line", func() {
		c := caseSpec{
			nx: 3, ny: 1, nz: 1, xLen: 30, yLen: 1,
			thickness: []float64{1},
			porosity:  0.2,
			permX:     filled(3, 100),
		}
		e, err := New(c.model(), serial())
		Expect(err).NotTo(HaveOccurred())

		// K·A/(mu·Bo·dx) = 100 md · 1 m² / (1 cP · 1 · 10 m)
		want := 100 * units.MilliDarcy * 1 / (1e-3 * 1 * 10)
		Expect(want).To(BeNumerically("~", 9.869233e-12, 1e-20))

		sys, err := e.Assemble(filled(3, 2e7), day)
		Expect(err).NotTo(HaveOccurred())

		tol := want * 1e-12
		Expect(sys.A.At(0, 1)).To(BeNumerically("~", -want, tol))
		Expect(sys.A.At(1, 0)).To(BeNumerically("~", -want, tol))
		Expect(sys.A.At(1, 2)).To(BeNumerically("~", -want, tol))
		Expect(sys.A.At(2, 1)).To(BeNumerically("~", -want, tol))
		Expect(sys.A.At(0, 2)).To(BeZero())

		gamma := 10 * 0.2 * 1e-9 / (1 * day)
		Expect(sys.Gamma).To(HaveEach(BeNumerically("~", gamma, gamma*1e-12)))
		Expect(sys.A.At(0, 0)).To(BeNumerically("~", gamma+want, tol))
		Expect(sys.A.At(1, 1)).To(BeNumerically("~", gamma+2*want, tol))
		Expect(sys.A.At(2, 2)).To(BeNumerically("~", gamma+want, tol))
		Expect(sys.B[1]).To(BeNumerically("~", gamma*2e7, gamma*2e7*1e-12))
	})

	It("uses midpoint distance and the lower cell's fluid along z", func() {
		c := caseSpec{
			nx: 1, ny: 1, nz: 2, xLen: 10, yLen: 10,
			thickness: []float64{2, 6},
			porosity:  0.2,
			permZ:     []float64{10, 40},
		}
		e, err := New(c.model(), serial())
		Expect(err).NotTo(HaveOccurred())

		sys, err := e.Assemble([]float64{1e7, 1e7}, day)
		Expect(err).NotTo(HaveOccurred())

		kh := 2 / (1/(10*units.MilliDarcy) + 1/(40*units.MilliDarcy))
		want := kh * 100 / (1e-3 * 4)
		Expect(sys.A.At(0, 1)).To(BeNumerically("~", -want, want*1e-12))
	})

	It("is symmetric and diagonally dominant", func() {
		e, err := New(heterogeneous().model(), serial())
		Expect(err).NotTo(HaveOccurred())

		p := make([]float64, 18)
		for i := range p {
			p[i] = 5e6 + float64(i)*1.5e6
		}
		sys, err := e.Assemble(p, 0.5*day)
		Expect(err).NotTo(HaveOccurred())

		n := sys.A.Size()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				Expect(sys.A.At(i, j)).To(Equal(sys.A.At(j, i)), "A[%d,%d]", i, j)
			}
		}

		for i := 0; i < n; i++ {
			cols, vals := sys.A.Row(i)
			off := 0.0
			diag := 0.0
			for k, j := range cols {
				if j == i {
					diag = vals[k]
					continue
				}
				off += math.Abs(vals[k])
			}
			Expect(diag).To(BeNumerically(">=", off), "row %d", i)
			Expect(diag - off).To(BeNumerically("~", sys.Gamma[i], sys.Gamma[i]*1e-6))
		}
	})

	It("combines up to six transmissibilities on an interior diagonal", func() {
		c := caseSpec{
			nx: 3, ny: 3, nz: 3, xLen: 30, yLen: 30,
			thickness: []float64{10, 10, 10},
			porosity:  0.2,
			permX:     filled(27, 100), permY: filled(27, 100), permZ: filled(27, 100),
		}
		e, err := New(c.model(), serial())
		Expect(err).NotTo(HaveOccurred())

		sys, err := e.Assemble(filled(27, 1e7), day)
		Expect(err).NotTo(HaveOccurred())

		tr := 100 * units.MilliDarcy * 100 / (1e-3 * 10)
		centre := 13
		cols, _ := sys.A.Row(centre)
		Expect(cols).To(HaveLen(7))
		Expect(sys.Diagonal[centre] - sys.Gamma[centre]).To(BeNumerically("~", 6*tr, tr*1e-9))
		Expect(sys.Diagonal[0] - sys.Gamma[0]).To(BeNumerically("~", 3*tr, tr*1e-9))
	})

	It("pins inactive cells to their previous pressure", func() {
		c := caseSpec{
			nx: 3, ny: 1, nz: 1, xLen: 30, yLen: 1,
			thickness: []float64{1},
			active:    []bool{true, false, true},
			porosity:  0.2,
			permX:     []float64{100, 0, 100},
		}
		e, err := New(c.model(), serial())
		Expect(err).NotTo(HaveOccurred())

		sys, err := e.Assemble([]float64{1e7, 3e7, 2e7}, day)
		Expect(err).NotTo(HaveOccurred())

		cols, vals := sys.A.Row(1)
		Expect(cols).To(Equal([]int{1}))
		Expect(vals).To(Equal([]float64{1}))
		Expect(sys.B[1]).To(Equal(3e7))
		Expect(sys.A.At(0, 1)).To(BeZero())
	})

	It("rejects a pressure vector of the wrong size", func() {
		e, err := New(heterogeneous().model(), serial())
		Expect(err).NotTo(HaveOccurred())
		_, err = e.Assemble(make([]float64, 3), day)
		Expect(err).To(HaveOccurred())
		_, err = e.Assemble(make([]float64, 18), 0)
		Expect(err).To(HaveOccurred())
	})
})
