package blockmesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// gradingTol is the deviation from uniform below which an edge is meshed
// with constant spacing.
const gradingTol = 1.e-6

// mappedEps bounds the roundoff allowed on the mapped interval endpoints.
var mappedEps = 150 * (math.Nextafter(1, 2) - 1)

/*
MappedCoords produces the 1D mapped coordinate sequences for one block
axis: one column per edge, segments+1 rows spanning [-1,+1]. A grading g
distributes the cell widths as a geometric progression with
(x_n - x_n-1) / (x_1 - x_0) == g; g == 1 yields uniform spacing.

Fails with ErrInvalidGrading when segments is zero or any grading is not
strictly positive.
*/
func MappedCoords(segments int, gradings []float64) (X *mat.Dense, err error) {
	if segments < 1 {
		err = fmt.Errorf("%w: zero segments", ErrInvalidGrading)
		return
	}
	X = mat.NewDense(segments+1, len(gradings), nil)
	for edge, grading := range gradings {
		if !(grading > 0) {
			err = fmt.Errorf("%w: expansion ratio %v on edge %d", ErrInvalidGrading, grading, edge)
			return
		}
		if math.Abs(grading-1.) > gradingTol && segments > 1 {
			// expansion ratio between consecutive cells
			r := math.Pow(grading, 1./float64(segments-1))
			for i := 0; i <= segments; i++ {
				X.Set(i, edge, 2.*(1.-math.Pow(r, float64(i)))/(1.-grading*r)-1.)
			}
		} else {
			step := 2. / float64(segments)
			for i := 0; i <= segments; i++ {
				X.Set(i, edge, float64(i)*step-1.)
			}
		}
		if math.Abs(X.At(0, edge)+1.) > mappedEps || math.Abs(X.At(segments, edge)-1.) > mappedEps {
			panic(fmt.Errorf("mapped coordinates do not span [-1,1] for grading %v", grading))
		}
	}
	return
}
