package blockmesh

import "gonum.org/v1/gonum/mat"

/*
ElementShape evaluates the linear Lagrange basis of a reference element at
a mapped coordinate in [-1,1]^dim. Corner numbering matches the canonical
block corner order, so applying the basis to a block's corner positions
maps the reference cube onto the curvilinear block.
*/
type ElementShape interface {
	NbCorners() int
	Dimension() int
	// ShapeValue fills sf (length NbCorners) with the basis values at
	// mapped (length Dimension).
	ShapeValue(mapped, sf []float64)
}

type (
	Line1 struct{}
	Quad4 struct{}
	Hexa8 struct{}
)

func (Line1) NbCorners() int { return 2 }
func (Line1) Dimension() int { return 1 }
func (Line1) ShapeValue(mapped, sf []float64) {
	sf[0] = 0.5 * (1. - mapped[0])
	sf[1] = 0.5 * (1. + mapped[0])
}

func (Quad4) NbCorners() int { return 4 }
func (Quad4) Dimension() int { return 2 }
func (Quad4) ShapeValue(mapped, sf []float64) {
	ksi, eta := mapped[0], mapped[1]
	sf[0] = 0.25 * (1. - ksi) * (1. - eta)
	sf[1] = 0.25 * (1. + ksi) * (1. - eta)
	sf[2] = 0.25 * (1. + ksi) * (1. + eta)
	sf[3] = 0.25 * (1. - ksi) * (1. + eta)
}

func (Hexa8) NbCorners() int { return 8 }
func (Hexa8) Dimension() int { return 3 }
func (Hexa8) ShapeValue(mapped, sf []float64) {
	ksi, eta, zta := mapped[0], mapped[1], mapped[2]
	sf[0] = 0.125 * (1. - ksi) * (1. - eta) * (1. - zta)
	sf[1] = 0.125 * (1. + ksi) * (1. - eta) * (1. - zta)
	sf[2] = 0.125 * (1. + ksi) * (1. + eta) * (1. - zta)
	sf[3] = 0.125 * (1. - ksi) * (1. + eta) * (1. - zta)
	sf[4] = 0.125 * (1. - ksi) * (1. - eta) * (1. + zta)
	sf[5] = 0.125 * (1. + ksi) * (1. - eta) * (1. + zta)
	sf[6] = 0.125 * (1. + ksi) * (1. + eta) * (1. + zta)
	sf[7] = 0.125 * (1. - ksi) * (1. + eta) * (1. + zta)
}

// shapeFor returns the volume element shape for a dimension.
func shapeFor(dim int) ElementShape {
	if dim == 3 {
		return Hexa8{}
	}
	return Quad4{}
}

// mapToReal applies the basis at mapped to the corner position table
// (NbCorners x spatial dim) and writes the physical coordinate into out.
func mapToReal(shape ElementShape, mapped []float64, corners *mat.Dense, sf, out []float64) {
	shape.ShapeValue(mapped, sf)
	var coords mat.VecDense
	coords.MulVec(corners.T(), mat.NewVecDense(len(sf), sf))
	for d := range out {
		out[d] = coords.AtVec(d)
	}
}

// blockCorners gathers a block's corner positions into an
// (NbCorners x dim) table.
func blockCorners(t *Topology, b int) *mat.Dense {
	n := t.CornersPerBlock()
	corners := mat.NewDense(n, t.Dimension, nil)
	for i, p := range t.Blocks[b] {
		corners.SetRow(i, t.Points[p])
	}
	return corners
}
