package blockmesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappedCoordsUniform(t *testing.T) {
	X, err := MappedCoords(4, []float64{1})
	require.NoError(t, err)
	step := X.At(1, 0) - X.At(0, 0)
	for i := 1; i <= 4; i++ {
		assert.InDelta(t, step, X.At(i, 0)-X.At(i-1, 0), 1.e-14)
	}
	assert.Equal(t, -1., X.At(0, 0))
	assert.Equal(t, 1., X.At(4, 0))
}

func TestMappedCoordsExpansionRatio(t *testing.T) {
	for _, grading := range []float64{0.25, 0.5, 2, 3, 10} {
		X, err := MappedCoords(10, []float64{grading})
		require.NoError(t, err)
		first := X.At(1, 0) - X.At(0, 0)
		last := X.At(10, 0) - X.At(9, 0)
		assert.InDelta(t, grading, last/first, 1.e-10)
		assert.InDelta(t, -1., X.At(0, 0), 1.e-13)
		assert.InDelta(t, 1., X.At(10, 0), 1.e-13)
	}
}

// Widths of a 10-segment edge graded 2:1 follow the closed form
// 2/(1+q+...+q^9) with q = 2^(1/9).
func TestMappedCoordsClosedForm(t *testing.T) {
	X, err := MappedCoords(10, []float64{2})
	require.NoError(t, err)
	var (
		q   = math.Pow(2, 1./9.)
		sum float64
	)
	for i := 0; i < 10; i++ {
		sum += math.Pow(q, float64(i))
	}
	first := X.At(1, 0) - X.At(0, 0)
	last := X.At(10, 0) - X.At(9, 0)
	assert.InDelta(t, 2./sum, first, 1.e-12)
	assert.InDelta(t, 2.*math.Pow(q, 9)/sum, last, 1.e-12)
	assert.InDelta(t, 2., last/first, 1.e-10)
}

func TestMappedCoordsMultipleEdges(t *testing.T) {
	X, err := MappedCoords(5, []float64{1, 2, 0.5, 1})
	require.NoError(t, err)
	r, c := X.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 4, c)
	// uniform edges stay uniform
	assert.InDelta(t, X.At(1, 0)-X.At(0, 0), X.At(5, 0)-X.At(4, 0), 1.e-14)
	// graded edges meet their ratio
	assert.InDelta(t, 2., (X.At(5, 1)-X.At(4, 1))/(X.At(1, 1)-X.At(0, 1)), 1.e-10)
	assert.InDelta(t, 0.5, (X.At(5, 2)-X.At(4, 2))/(X.At(1, 2)-X.At(0, 2)), 1.e-10)
}

func TestMappedCoordsInvalid(t *testing.T) {
	_, err := MappedCoords(0, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidGrading)
	_, err = MappedCoords(4, []float64{0})
	assert.ErrorIs(t, err, ErrInvalidGrading)
	_, err = MappedCoords(4, []float64{-2})
	assert.ErrorIs(t, err, ErrInvalidGrading)
}
