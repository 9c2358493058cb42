package metrics

import (
	"math"

	"github.com/san-kum/ressim/internal/engine"
)

// MaxChange tracks the largest single-step pressure change of any cell, in Pa.
type MaxChange struct {
	max float64
}

func NewMaxChange() *MaxChange { return &MaxChange{} }

func (m *MaxChange) Name() string { return "max_dp" }

func (m *MaxChange) Observe(s engine.StepInfo) {
	for i, p := range s.Pressure {
		if d := math.Abs(p - s.Previous[i]); d > m.max {
			m.max = d
		}
	}
}

func (m *MaxChange) Value() float64 { return m.max }
func (m *MaxChange) Reset()         { m.max = 0 }

// SolverIterations sums conjugate gradient iterations over the run.
type SolverIterations struct {
	total int
}

func NewSolverIterations() *SolverIterations { return &SolverIterations{} }

func (s *SolverIterations) Name() string                 { return "cg_iterations" }
func (s *SolverIterations) Observe(info engine.StepInfo) { s.total += info.Iterations }
func (s *SolverIterations) Value() float64               { return float64(s.total) }
func (s *SolverIterations) Reset()                       { s.total = 0 }
