package compute

import (
	"math"
	"sort"
)

// interpAt evaluates the piecewise-linear table (xp, fp) at x with flat
// extrapolation. An exact node returns its stored value unchanged and NaN
// maps to NaN.
func interpAt(x float64, xp, fp []float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	n := len(xp)
	if x <= xp[0] {
		return fp[0]
	}
	if x >= xp[n-1] {
		return fp[n-1]
	}
	j := sort.SearchFloat64s(xp, x)
	if xp[j] == x {
		return fp[j]
	}
	x0, x1 := xp[j-1], xp[j]
	return fp[j-1] + (fp[j]-fp[j-1])*(x-x0)/(x1-x0)
}
