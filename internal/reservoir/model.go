// Package reservoir aggregates the static description handed to the engine.
package reservoir

import (
	"fmt"
	"math"

	"github.com/san-kum/ressim/internal/grid"
	"github.com/san-kum/ressim/internal/pvt"
	"github.com/san-kum/ressim/internal/rock"
	"github.com/san-kum/ressim/internal/simerr"
)

// Model is read-only once built. Ct is the total compressibility in 1/Pa.
type Model struct {
	Grid  *grid.Grid
	Rock  *rock.Properties
	Fluid *pvt.Table
	Ct    float64
}

// New validates the rock arrays against the grid once and rejects a
// non-positive compressibility.
func New(g *grid.Grid, r *rock.Properties, fluid *pvt.Table, ct float64) (*Model, error) {
	if g == nil || r == nil || fluid == nil {
		return nil, simerr.Invalid("model", "grid, rock and fluid are all required")
	}
	if err := r.ValidateAgainst(g); err != nil {
		return nil, fmt.Errorf("rock vs grid %dx%dx%d: %w", g.NX, g.NY, g.NZ, err)
	}
	if !(ct > 0) || math.IsInf(ct, 0) {
		return nil, simerr.Invalid("ct", "total compressibility must be positive, got %g", ct)
	}
	return &Model{Grid: g, Rock: r, Fluid: fluid, Ct: ct}, nil
}

func (m *Model) NCells() int { return m.Grid.NT }
