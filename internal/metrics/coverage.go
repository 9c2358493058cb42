package metrics

import "github.com/san-kum/ressim/internal/engine"

// TableCoverage is the fraction of steps in which every cell pressure stayed
// inside the PVT table range. Outside it the fluid properties are clamped.
type TableCoverage struct {
	lo, hi     float64
	violations int
	samples    int
}

func NewTableCoverage(lo, hi float64) *TableCoverage {
	return &TableCoverage{lo: lo, hi: hi}
}

func (c *TableCoverage) Name() string { return "pvt_coverage" }

func (c *TableCoverage) Observe(s engine.StepInfo) {
	c.samples++
	for _, p := range s.Pressure {
		if p < c.lo || p > c.hi {
			c.violations++
			break
		}
	}
}

func (c *TableCoverage) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *TableCoverage) Reset() {
	c.violations = 0
	c.samples = 0
}
