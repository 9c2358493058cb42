package engine

import (
	"fmt"

	"github.com/san-kum/ressim/internal/compute"
)

type Status int

const (
	Stepping Status = iota
	Completed
	Diverged
	Canceled
)

func (s Status) String() string {
	switch s {
	case Stepping:
		return "stepping"
	case Completed:
		return "completed"
	case Diverged:
		return "diverged"
	case Canceled:
		return "canceled"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Config holds the schedule and solver settings of a run, in seconds.
type Config struct {
	Duration  float64
	Dt        float64
	Tolerance float64
	MaxIter   int
}

func DefaultConfig() Config {
	return Config{
		Duration:  30 * 86400,
		Dt:        86400,
		Tolerance: compute.DefaultTolerance,
	}
}

// StepInfo describes one converged timestep. Pressure is a view of the
// engine's state and must not be modified.
type StepInfo struct {
	Step       int
	Time       float64
	Dt         float64
	Pressure   []float64
	Previous   []float64
	Iterations int
	Residual   float64
}

type Metric interface {
	Name() string
	Observe(s StepInfo)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s StepInfo)
}

// Well is accepted as configuration only. Wells are not coupled into the
// assembled system.
type Well struct {
	Name string  `yaml:"name" json:"name"`
	I    int     `yaml:"i" json:"i"`
	J    int     `yaml:"j" json:"j"`
	K    int     `yaml:"k" json:"k"`
	Rate float64 `yaml:"rate" json:"rate"`
}

type Result struct {
	Backend      string
	Status       Status
	Pressure     []float64
	Time         float64
	Steps        int
	Times        []float64
	MeanPressure []float64
	Iterations   []int
	Metrics      map[string]float64
}
