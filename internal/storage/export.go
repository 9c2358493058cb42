package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ressim/internal/config"
	"github.com/san-kum/ressim/internal/engine"
)

type ExportData struct {
	Case         string             `json:"case"`
	Units        string             `json:"units"`
	Backend      string             `json:"backend"`
	Status       string             `json:"status"`
	Steps        int                `json:"steps"`
	Times        []float64          `json:"times"`
	MeanPressure []float64          `json:"mean_pressure"`
	Iterations   []int              `json:"cg_iterations"`
	Pressure     []float64          `json:"pressure"`
	Wells        []engine.Well      `json:"wells,omitempty"`
	Metrics      map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run in case units.
func ExportJSON(w io.Writer, c *config.Case, result *engine.Result) error {
	pf := c.Units.PressureFactor()
	tf := c.Units.TimeFactor()

	data := ExportData{
		Case:         c.Name,
		Units:        string(c.Units),
		Backend:      result.Backend,
		Status:       result.Status.String(),
		Steps:        result.Steps,
		Times:        make([]float64, len(result.Times)),
		MeanPressure: make([]float64, len(result.MeanPressure)),
		Iterations:   result.Iterations,
		Pressure:     c.ToCaseUnits(result.Pressure),
		Wells:        c.Wells,
		Metrics:      result.Metrics,
	}
	for i, t := range result.Times {
		data.Times[i] = t / tf
	}
	for i, p := range result.MeanPressure {
		data.MeanPressure[i] = p / pf
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
