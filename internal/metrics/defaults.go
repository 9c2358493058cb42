// Package metrics provides per-run summaries observed after each timestep.
package metrics

import (
	"github.com/san-kum/ressim/internal/engine"
	"github.com/san-kum/ressim/internal/pvt"
)

// Defaults returns the metrics attached to every CLI run.
func Defaults(table *pvt.Table) []engine.Metric {
	lo, hi := table.Range()
	return []engine.Metric{
		NewMaxChange(),
		NewSolverIterations(),
		NewTableCoverage(lo, hi),
	}
}
