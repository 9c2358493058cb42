package reservoir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ressim/internal/grid"
	"github.com/san-kum/ressim/internal/pvt"
	"github.com/san-kum/ressim/internal/rock"
	"github.com/san-kum/ressim/internal/simerr"
)

func fixtures(t *testing.T) (*grid.Grid, *pvt.Table) {
	t.Helper()
	g, err := grid.Uniform(30, 10, []float64{5}, 3, 1, 1)
	require.NoError(t, err)
	tbl, err := pvt.New([]float64{1e5, 3e7}, []float64{1, 1.2}, []float64{1e-3, 2e-3}, 1.8e7)
	require.NoError(t, err)
	return g, tbl
}

func TestNew(t *testing.T) {
	g, tbl := fixtures(t)
	r := rock.New([]float64{0.2, 0.2, 0.2})

	m, err := New(g, r, tbl, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, 3, m.NCells())
	assert.Same(t, g, m.Grid)
	assert.Same(t, tbl, m.Fluid)
}

func TestNew_RockMismatch(t *testing.T) {
	g, tbl := fixtures(t)
	_, err := New(g, rock.New([]float64{0.2, 0.2}), tbl, 1e-9)
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerr.ErrValidation))
	assert.Contains(t, err.Error(), "porosity has 2 entries, want 3")
}

func TestNew_BadCompressibility(t *testing.T) {
	g, tbl := fixtures(t)
	for _, ct := range []float64{0, -1e-9} {
		_, err := New(g, rock.New([]float64{0.2, 0.2, 0.2}), tbl, ct)
		assert.True(t, errors.Is(err, simerr.ErrValidation))
	}
}

func TestNew_MissingParts(t *testing.T) {
	g, _ := fixtures(t)
	_, err := New(g, rock.New([]float64{0.2, 0.2, 0.2}), nil, 1e-9)
	assert.True(t, errors.Is(err, simerr.ErrValidation))
}
