package compute

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownBackend is returned by New for an unregistered name.
	ErrUnknownBackend = errors.New("compute: unknown backend")

	// ErrForeignMatrix is returned when a matrix built by one backend is
	// handed to another.
	ErrForeignMatrix = errors.New("compute: matrix belongs to a different backend")
)

// Backend is the array capability set the simulator depends on.
type Backend interface {
	Name() string

	// Mul sets dst[i] = a[i]*b[i].
	Mul(dst, a, b []float64)
	Dot(a, b []float64) float64
	// AddScaled sets dst[i] += alpha*s[i].
	AddScaled(dst []float64, alpha float64, s []float64)
	// Scale sets dst[i] *= alpha.
	Scale(alpha float64, dst []float64)

	// Interp linearly interpolates fp(xp) at every x into dst. xp must be
	// non-decreasing. Outside [xp[0], xp[n-1]] the boundary value is used.
	Interp(dst, x, xp, fp []float64)

	// ScatterAdd sets dst[idx[i]] += vals[i]. Repeated indices accumulate.
	ScatterAdd(dst []float64, idx []int, vals []float64)

	NewMatrix(n int, t *Triplet) *CSR
	MatVec(dst []float64, m *CSR, x []float64) error
	SolveCG(m *CSR, b, x0 []float64, opts SolveOptions) (SolveResult, error)
}

// Option configures a backend at construction.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers bounds the goroutine count of the cpu backend.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

var registry = map[string]func(options) Backend{
	"serial": func(options) Backend { return NewSerialBackend() },
	"cpu":    func(o options) Backend { return NewCPUBackend(o.workers) },
}

// New returns the backend registered under name.
func New(name string, opts ...Option) (Backend, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownBackend, name, Names())
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return ctor(o), nil
}

// Names lists the registered backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// kernels is what the shared solver needs from a backend.
type kernels interface {
	Dot(a, b []float64) float64
	AddScaled(dst []float64, alpha float64, s []float64)
	Scale(alpha float64, dst []float64)
	matVec(dst []float64, m *CSR, x []float64)
}

func checkOwner(b Backend, m *CSR) error {
	if m.owner != b.Name() {
		return fmt.Errorf("%w: built by %q, used by %q", ErrForeignMatrix, m.owner, b.Name())
	}
	return nil
}
