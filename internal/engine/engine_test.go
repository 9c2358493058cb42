package engine

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/simerr"
)

var _ = Describe("New", func() {
	It("rejects zero permeability on an active connection", func() {
		c := caseSpec{
			nx: 3, ny: 1, nz: 1, xLen: 30, yLen: 1,
			thickness: []float64{1},
			porosity:  0.2,
			permX:     []float64{100, 0, 100},
		}
		_, err := New(c.model(), serial())
		Expect(errors.Is(err, simerr.ErrValidation)).To(BeTrue())

		var ve *simerr.ValidationError
		Expect(errors.As(err, &ve)).To(BeTrue())
		Expect(ve.Field).To(Equal("permx"))
	})

	It("requires permeability only for axes with more than one cell", func() {
		c := caseSpec{
			nx: 2, ny: 1, nz: 1, xLen: 20, yLen: 1,
			thickness: []float64{1},
			porosity:  0.2,
			permX:     filled(2, 50),
		}
		_, err := New(c.model(), serial())
		Expect(err).NotTo(HaveOccurred())

		c.ny, c.yLen = 2, 2
		c.permX = filled(4, 50)
		_, err = New(c.model(), serial())
		var ve *simerr.ValidationError
		Expect(errors.As(err, &ve)).To(BeTrue())
		Expect(ve.Field).To(Equal("permy"))
	})

	It("rejects zero porosity in an active cell", func() {
		c := caseSpec{
			nx: 2, ny: 1, nz: 1, xLen: 20, yLen: 1,
			thickness: []float64{1},
			permX:     filled(2, 50),
		}
		_, err := New(c.model(), serial())
		var ve *simerr.ValidationError
		Expect(errors.As(err, &ve)).To(BeTrue())
		Expect(ve.Field).To(Equal("porosity"))
	})

	It("accepts wells without coupling them", func() {
		w := Well{Name: "P1", I: 0, J: 0, K: 0, Rate: -100}
		e, err := New(heterogeneous().model(), serial(), WithWells(w))
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Wells()).To(Equal([]Well{w}))

		plain, err := New(heterogeneous().model(), serial())
		Expect(err).NotTo(HaveOccurred())

		p := filled(18, 2e7)
		p[0] = 1e7
		a, err := e.Assemble(p, day)
		Expect(err).NotTo(HaveOccurred())
		b, err := plain.Assemble(p, day)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.B).To(Equal(b.B))
		Expect(a.Diagonal).To(Equal(b.Diagonal))
	})
})

var _ = Describe("Run", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = Config{Duration: 10 * day, Dt: day, Tolerance: 1e-10}
	})

	It("leaves a uniform pressure field unchanged", func() {
		e, err := New(heterogeneous().model(), serial())
		Expect(err).NotTo(HaveOccurred())

		p0 := filled(18, 2.5e7)
		cfg.Duration = day
		res, err := e.Run(context.Background(), p0, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Status).To(Equal(Completed))
		Expect(res.Steps).To(Equal(1))
		for _, v := range res.Pressure {
			Expect(v).To(BeNumerically("~", 2.5e7, 2.5e7*1e-10))
		}
	})

	It("conserves stored fluid and equalises pressure with a constant Bo", func() {
		c := caseSpec{
			nx: 2, ny: 1, nz: 1, xLen: 20, yLen: 10,
			thickness: []float64{5},
			porosity:  0.25,
			permX:     filled(2, 200),
		}
		e, err := New(c.model(), serial())
		Expect(err).NotTo(HaveOccurred())

		p0 := []float64{3e7, 1e7}
		res, err := e.Run(context.Background(), p0, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Steps).To(Equal(10))
		Expect(res.Times).To(HaveLen(11))
		Expect(res.Time).To(BeNumerically("~", 10*day, 1e-6))

		// equal cell volumes: the plain sum is the stored amount
		Expect(res.Pressure[0] + res.Pressure[1]).To(BeNumerically("~", 4e7, 4e7*1e-8))
		Expect(res.Pressure[0]).To(BeNumerically("<", 3e7))
		Expect(res.Pressure[1]).To(BeNumerically(">", 1e7))
		Expect(res.Pressure[0] - res.Pressure[1]).To(BeNumerically("~", 0, 2e7*1e-3))
		Expect(res.MeanPressure).To(HaveEach(BeNumerically("~", 2e7, 2e7*1e-8)))
	})

	It("stops in Diverged with the initial pressure when the first solve fails", func() {
		e, err := New(heterogeneous().model(), stalledBackend{compute.NewSerialBackend()})
		Expect(err).NotTo(HaveOccurred())

		p0 := filled(18, 2e7)
		p0[4] = 1.5e7
		res, err := e.Run(context.Background(), p0, cfg)

		Expect(errors.Is(err, simerr.ErrDiverged)).To(BeTrue())
		var ce *simerr.ConvergenceError
		Expect(errors.As(err, &ce)).To(BeTrue())
		Expect(ce.Step).To(Equal(0))
		Expect(ce.Info).To(Equal(7))
		Expect(ce.Pressure).To(Equal(p0))

		Expect(res.Status).To(Equal(Diverged))
		Expect(res.Steps).To(BeZero())
		Expect(res.Pressure).To(Equal(p0))
		Expect(res.Time).To(BeZero())
	})

	It("reports divergence when the iteration limit is hit", func() {
		e, err := New(heterogeneous().model(), serial())
		Expect(err).NotTo(HaveOccurred())

		p0 := make([]float64, 18)
		for i := range p0 {
			p0[i] = 1e7 + float64(i)*1e6
		}
		cfg.MaxIter = 1
		cfg.Tolerance = 1e-14
		res, err := e.Run(context.Background(), p0, cfg)
		Expect(errors.Is(err, simerr.ErrDiverged)).To(BeTrue())
		Expect(res.Pressure).To(Equal(p0))
	})

	It("stops between steps when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		obs := &countingObserver{}
		obs.onStep = func(s StepInfo) {
			if s.Step == 1 {
				cancel()
			}
		}
		e, err := New(heterogeneous().model(), serial(), WithObserver(obs))
		Expect(err).NotTo(HaveOccurred())

		res, err := e.Run(ctx, filled(18, 2e7), cfg)
		Expect(errors.Is(err, simerr.ErrCanceled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res.Status).To(Equal(Canceled))
		Expect(res.Steps).To(Equal(2))
		Expect(obs.steps).To(Equal(2))
	})

	It("gives the same answer on every backend", func() {
		p0 := make([]float64, 18)
		for i := range p0 {
			p0[i] = 1e7 + float64(i%5)*3e6
		}

		var results [][]float64
		for _, name := range compute.Names() {
			b, err := compute.New(name, compute.WithWorkers(3))
			Expect(err).NotTo(HaveOccurred())
			e, err := New(heterogeneous().model(), b)
			Expect(err).NotTo(HaveOccurred())

			res, err := e.Run(context.Background(), p0, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Backend).To(Equal(name))
			results = append(results, res.Pressure)
		}
		for i := range results[0] {
			Expect(results[1][i]).To(BeNumerically("~", results[0][i], results[0][i]*1e-8))
		}
	})

	It("validates the schedule and initial state", func() {
		e, err := New(heterogeneous().model(), serial())
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Run(context.Background(), filled(18, 1e7), Config{Duration: day})
		Expect(errors.Is(err, simerr.ErrValidation)).To(BeTrue())
		_, err = e.Run(context.Background(), filled(18, 1e7), Config{Dt: day})
		Expect(errors.Is(err, simerr.ErrValidation)).To(BeTrue())
		_, err = e.Run(context.Background(), filled(3, 1e7), cfg)
		Expect(errors.Is(err, simerr.ErrValidation)).To(BeTrue())
	})

	It("feeds metrics every converged step", func() {
		m := &stepCounter{}
		e, err := New(heterogeneous().model(), serial(), WithMetric(m))
		Expect(err).NotTo(HaveOccurred())

		res, err := e.Run(context.Background(), filled(18, 2e7), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKeyWithValue("steps", 10.0))
	})
})

type stepCounter struct{ n int }

func (s *stepCounter) Name() string     { return "steps" }
func (s *stepCounter) Observe(StepInfo) { s.n++ }
func (s *stepCounter) Value() float64   { return float64(s.n) }
func (s *stepCounter) Reset()           { s.n = 0 }
