package compute

import (
	"fmt"
	"sort"
)

// Triplet collects (row, col, value) entries for a square sparse matrix.
// Entries sharing a coordinate are summed when the matrix is built.
type Triplet struct {
	rows []int
	cols []int
	vals []float64
}

func NewTriplet(capacity int) *Triplet {
	return &Triplet{
		rows: make([]int, 0, capacity),
		cols: make([]int, 0, capacity),
		vals: make([]float64, 0, capacity),
	}
}

func (t *Triplet) Put(i, j int, v float64) {
	t.rows = append(t.rows, i)
	t.cols = append(t.cols, j)
	t.vals = append(t.vals, v)
}

// PutAll appends parallel slices of entries.
func (t *Triplet) PutAll(rows, cols []int, vals []float64) {
	if len(rows) != len(cols) || len(rows) != len(vals) {
		panic(fmt.Sprintf("compute: triplet slices differ in length: %d rows, %d cols, %d vals",
			len(rows), len(cols), len(vals)))
	}
	t.rows = append(t.rows, rows...)
	t.cols = append(t.cols, cols...)
	t.vals = append(t.vals, vals...)
}

func (t *Triplet) Len() int { return len(t.vals) }

// CSR is a compressed sparse row matrix with sorted, unique columns per row.
type CSR struct {
	n      int
	rowPtr []int
	colIdx []int
	vals   []float64
	owner  string
}

func buildCSR(owner string, n int, t *Triplet) *CSR {
	counts := make([]int, n+1)
	for k, i := range t.rows {
		j := t.cols[k]
		if i < 0 || i >= n || j < 0 || j >= n {
			panic(fmt.Sprintf("compute: triplet entry (%d, %d) outside %dx%d matrix", i, j, n, n))
		}
		counts[i+1]++
	}
	for i := 0; i < n; i++ {
		counts[i+1] += counts[i]
	}

	// bucket by row
	next := make([]int, n)
	copy(next, counts[:n])
	cols := make([]int, len(t.vals))
	vals := make([]float64, len(t.vals))
	for k, i := range t.rows {
		p := next[i]
		cols[p] = t.cols[k]
		vals[p] = t.vals[k]
		next[i]++
	}

	m := &CSR{n: n, rowPtr: make([]int, n+1), owner: owner}
	m.colIdx = make([]int, 0, len(cols))
	m.vals = make([]float64, 0, len(vals))

	for i := 0; i < n; i++ {
		lo, hi := counts[i], counts[i+1]
		row := rowEntries{cols: cols[lo:hi], vals: vals[lo:hi]}
		sort.Stable(row)
		for k := lo; k < hi; k++ {
			last := len(m.colIdx) - 1
			if last >= m.rowPtr[i] && m.colIdx[last] == cols[k] {
				m.vals[last] += vals[k]
				continue
			}
			m.colIdx = append(m.colIdx, cols[k])
			m.vals = append(m.vals, vals[k])
		}
		m.rowPtr[i+1] = len(m.colIdx)
	}
	return m
}

type rowEntries struct {
	cols []int
	vals []float64
}

func (r rowEntries) Len() int           { return len(r.cols) }
func (r rowEntries) Less(a, b int) bool { return r.cols[a] < r.cols[b] }
func (r rowEntries) Swap(a, b int) {
	r.cols[a], r.cols[b] = r.cols[b], r.cols[a]
	r.vals[a], r.vals[b] = r.vals[b], r.vals[a]
}

func (m *CSR) Size() int { return m.n }
func (m *CSR) NNZ() int  { return len(m.vals) }

// At returns A[i, j], zero when the entry is not stored.
func (m *CSR) At(i, j int) float64 {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	k := lo + sort.SearchInts(m.colIdx[lo:hi], j)
	if k < hi && m.colIdx[k] == j {
		return m.vals[k]
	}
	return 0
}

// Row returns views of the stored columns and values of row i.
func (m *CSR) Row(i int) ([]int, []float64) {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	return m.colIdx[lo:hi], m.vals[lo:hi]
}

func (m *CSR) mulRows(dst, x []float64, start, end int) {
	for i := start; i < end; i++ {
		sum := 0.0
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sum += m.vals[k] * x[m.colIdx[k]]
		}
		dst[i] = sum
	}
}
