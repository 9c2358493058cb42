package compute

import (
	"runtime"
	"sync"
)

// minChunk is the smallest slice length worth splitting across workers.
const minChunk = 2048

// CPUBackend splits every kernel over a fixed number of goroutines.
type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }

// parallel runs fn over [0, n) in contiguous chunks, one per worker.
// Small inputs run inline.
func (c *CPUBackend) parallel(n int, fn func(worker, start, end int)) {
	if n < minChunk || c.workers == 1 {
		fn(0, 0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			fn(worker, start, end)
		}(w, start, end)
	}

	wg.Wait()
}

func (c *CPUBackend) Mul(dst, a, b []float64) {
	c.parallel(len(dst), func(_, start, end int) {
		for i := start; i < end; i++ {
			dst[i] = a[i] * b[i]
		}
	})
}

// Dot sums per-worker partials in worker order, so the result does not
// depend on goroutine scheduling.
func (c *CPUBackend) Dot(a, b []float64) float64 {
	partial := make([]float64, c.workers)
	c.parallel(len(a), func(worker, start, end int) {
		sum := 0.0
		for i := start; i < end; i++ {
			sum += a[i] * b[i]
		}
		partial[worker] = sum
	})

	total := 0.0
	for _, p := range partial {
		total += p
	}
	return total
}

func (c *CPUBackend) AddScaled(dst []float64, alpha float64, s []float64) {
	c.parallel(len(dst), func(_, start, end int) {
		for i := start; i < end; i++ {
			dst[i] += alpha * s[i]
		}
	})
}

func (c *CPUBackend) Scale(alpha float64, dst []float64) {
	c.parallel(len(dst), func(_, start, end int) {
		for i := start; i < end; i++ {
			dst[i] *= alpha
		}
	})
}

func (c *CPUBackend) Interp(dst, x, xp, fp []float64) {
	c.parallel(len(x), func(_, start, end int) {
		for i := start; i < end; i++ {
			dst[i] = interpAt(x[i], xp, fp)
		}
	})
}

// ScatterAdd gives each worker its own dense accumulator and reduces them
// afterwards, so duplicate destinations never race.
func (c *CPUBackend) ScatterAdd(dst []float64, idx []int, vals []float64) {
	if len(idx) < minChunk || c.workers == 1 {
		for i, d := range idx {
			dst[d] += vals[i]
		}
		return
	}

	local := make([][]float64, c.workers)
	c.parallel(len(idx), func(worker, start, end int) {
		acc := make([]float64, len(dst))
		for i := start; i < end; i++ {
			acc[idx[i]] += vals[i]
		}
		local[worker] = acc
	})

	c.parallel(len(dst), func(_, start, end int) {
		for _, acc := range local {
			if acc == nil {
				continue
			}
			for i := start; i < end; i++ {
				dst[i] += acc[i]
			}
		}
	})
}

func (c *CPUBackend) NewMatrix(n int, t *Triplet) *CSR {
	return buildCSR(c.Name(), n, t)
}

func (c *CPUBackend) MatVec(dst []float64, m *CSR, x []float64) error {
	if err := checkOwner(c, m); err != nil {
		return err
	}
	c.matVec(dst, m, x)
	return nil
}

func (c *CPUBackend) matVec(dst []float64, m *CSR, x []float64) {
	c.parallel(m.n, func(_, start, end int) {
		m.mulRows(dst, x, start, end)
	})
}

func (c *CPUBackend) SolveCG(m *CSR, b, x0 []float64, opts SolveOptions) (SolveResult, error) {
	if err := checkOwner(c, m); err != nil {
		return SolveResult{}, err
	}
	return conjugateGradient(c, m, b, x0, opts), nil
}
