package rock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ressim/internal/grid"
	"github.com/san-kum/ressim/internal/simerr"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.Uniform(20, 10, []float64{2}, 2, 1, 1)
	require.NoError(t, err)
	return g
}

func TestNew_DefaultNTG(t *testing.T) {
	p := New([]float64{0.2, 0.25})
	assert.Equal(t, []float64{1, 1}, p.NTG)
	assert.Nil(t, p.PermX)
	assert.Equal(t, 2, p.NCells())
}

func TestNew_Options(t *testing.T) {
	k := []float64{100, 200}
	p := New([]float64{0.2, 0.25}, WithNTG([]float64{0.5, 0.8}), WithPermX(k), WithPermY(k), WithPermZ(k))
	k[0] = 0
	assert.Equal(t, []float64{100, 200}, p.PermX, "options copy their input")
	assert.Equal(t, []float64{0.5, 0.8}, p.NTG)
}

func TestValidateAgainst(t *testing.T) {
	g := testGrid(t)

	ok := New([]float64{0.2, 0.2}, WithPermX([]float64{1, 1}))
	assert.NoError(t, ok.ValidateAgainst(g))

	short := New([]float64{0.2})
	err := short.ValidateAgainst(g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerr.ErrValidation))
	var ve *simerr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "porosity", ve.Field)
	assert.Equal(t, 1, ve.Got)
	assert.Equal(t, 2, ve.Want)
	assert.Contains(t, err.Error(), "1")
	assert.Contains(t, err.Error(), "2")

	badPerm := New([]float64{0.2, 0.2}, WithPermZ([]float64{1, 1, 1}))
	err = badPerm.ValidateAgainst(g)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "permz", ve.Field)
	assert.Equal(t, 3, ve.Got)
}

func TestPoreVolume(t *testing.T) {
	g := testGrid(t)
	p := New([]float64{0.2, 0.1}, WithNTG([]float64{1, 0.5}))
	pv := p.PoreVolume(g)
	assert.InDeltaSlice(t, []float64{40, 10}, pv, 1e-12)
}
