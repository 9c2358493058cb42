package compute

import "math"

const (
	DefaultTolerance = 1e-5

	// recomputeInterval bounds drift of the recursively updated residual.
	recomputeInterval = 50
)

type SolveOptions struct {
	// Tolerance is relative: stop once ‖b - Ax‖ ≤ Tolerance·‖b‖.
	Tolerance float64
	// MaxIter defaults to 10·n when zero.
	MaxIter int
}

func DefaultSolveOptions() SolveOptions {
	return SolveOptions{Tolerance: DefaultTolerance}
}

// SolveResult reports the outcome of an iterative solve.
//
// Info is 0 on convergence, the iteration count when MaxIter was reached and
// -1 on breakdown (non-positive curvature, the matrix is not SPD).
type SolveResult struct {
	X          []float64
	Info       int
	Iterations int
	Residual   float64
}

func (r SolveResult) Converged() bool { return r.Info == 0 }

// conjugateGradient solves the SPD system m·x = b starting from x0.
// x0 is never modified.
func conjugateGradient(k kernels, m *CSR, b, x0 []float64, opts SolveOptions) SolveResult {
	n := m.n
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = 10 * n
	}

	x := make([]float64, n)
	if x0 != nil {
		copy(x, x0)
	}

	bNorm := math.Sqrt(k.Dot(b, b))
	if bNorm == 0 {
		for i := range x {
			x[i] = 0
		}
		return SolveResult{X: x}
	}

	r := make([]float64, n)
	d := make([]float64, n)
	q := make([]float64, n)

	residual := func() {
		k.matVec(r, m, x)
		k.Scale(-1, r)
		k.AddScaled(r, 1, b)
	}
	residual()
	copy(d, r)

	rr := k.Dot(r, r)
	threshold := tol * tol * bNorm * bNorm
	if rr <= threshold {
		return SolveResult{X: x, Residual: math.Sqrt(rr) / bNorm}
	}

	for iter := 1; iter <= maxIter; iter++ {
		k.matVec(q, m, d)
		dq := k.Dot(d, q)
		if dq <= 0 {
			return SolveResult{X: x, Info: -1, Iterations: iter, Residual: math.Sqrt(rr) / bNorm}
		}

		alpha := rr / dq
		k.AddScaled(x, alpha, d)
		if iter%recomputeInterval == 0 {
			residual()
		} else {
			k.AddScaled(r, -alpha, q)
		}

		rrNew := k.Dot(r, r)
		if rrNew <= threshold {
			return SolveResult{X: x, Iterations: iter, Residual: math.Sqrt(rrNew) / bNorm}
		}

		beta := rrNew / rr
		rr = rrNew
		k.Scale(beta, d)
		k.AddScaled(d, 1, r)
	}

	return SolveResult{X: x, Info: maxIter, Iterations: maxIter, Residual: math.Sqrt(rr) / bNorm}
}
