// Package compute provides the array backends the simulator runs on.
//
// A backend is chosen explicitly by name and injected into the engine; there
// is no process-wide active backend and no silent fallback:
//
//   - serial: single goroutine, vector kernels from gonum/floats
//   - cpu: chunked goroutine workers for the same kernels
//
// Both implement [Backend] and are numerically interchangeable to solver
// tolerance.
//
// # Sparse matrices
//
// Matrices are assembled from (row, col, value) triplets, with duplicate
// coordinates summed:
//
//	t := compute.NewTriplet(nnz)
//	t.Put(0, 0, 4)
//	t.Put(0, 0, 1) // A[0,0] == 5
//	m := backend.NewMatrix(n, t)
//	res, err := backend.SolveCG(m, b, x0, compute.DefaultSolveOptions())
//
// A matrix belongs to the backend that built it. Passing it to a different
// backend returns [ErrForeignMatrix].
package compute
