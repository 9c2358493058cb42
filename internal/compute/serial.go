package compute

import "gonum.org/v1/gonum/floats"

// SerialBackend runs every kernel on the calling goroutine.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string { return "serial" }

func (s *SerialBackend) Mul(dst, a, b []float64)    { floats.MulTo(dst, a, b) }
func (s *SerialBackend) Dot(a, b []float64) float64 { return floats.Dot(a, b) }
func (s *SerialBackend) Scale(alpha float64, dst []float64) {
	floats.Scale(alpha, dst)
}

func (s *SerialBackend) AddScaled(dst []float64, alpha float64, v []float64) {
	floats.AddScaled(dst, alpha, v)
}

func (s *SerialBackend) Interp(dst, x, xp, fp []float64) {
	for i, v := range x {
		dst[i] = interpAt(v, xp, fp)
	}
}

func (s *SerialBackend) ScatterAdd(dst []float64, idx []int, vals []float64) {
	for i, d := range idx {
		dst[d] += vals[i]
	}
}

func (s *SerialBackend) NewMatrix(n int, t *Triplet) *CSR {
	return buildCSR(s.Name(), n, t)
}

func (s *SerialBackend) MatVec(dst []float64, m *CSR, x []float64) error {
	if err := checkOwner(s, m); err != nil {
		return err
	}
	s.matVec(dst, m, x)
	return nil
}

func (s *SerialBackend) matVec(dst []float64, m *CSR, x []float64) {
	m.mulRows(dst, x, 0, m.n)
}

func (s *SerialBackend) SolveCG(m *CSR, b, x0 []float64, opts SolveOptions) (SolveResult, error) {
	if err := checkOwner(s, m); err != nil {
		return SolveResult{}, err
	}
	return conjugateGradient(s, m, b, x0, opts), nil
}
