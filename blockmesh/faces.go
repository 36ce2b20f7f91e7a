package blockmesh

// Canonical face numbering. 2D quads count faces counter clockwise from
// the bottom edge; 3D hexes start at the bottom quad and end at the top.
const (
	QuadEtaNeg = 0
	QuadKsiPos = 1
	QuadEtaPos = 2
	QuadKsiNeg = 3

	HexaZtaNeg = 0
	HexaEtaNeg = 1
	HexaKsiPos = 2
	HexaEtaPos = 3
	HexaKsiNeg = 4
	HexaZtaPos = 5
)

// Face corner lists, ordered so the face normal points out of the element.
var (
	quadFaceCorners = [4][]int{
		QuadEtaNeg: {0, 1},
		QuadKsiPos: {1, 2},
		QuadEtaPos: {2, 3},
		QuadKsiNeg: {3, 0},
	}
	hexaFaceCorners = [6][]int{
		HexaZtaNeg: {0, 3, 2, 1},
		HexaEtaNeg: {0, 1, 5, 4},
		HexaKsiPos: {1, 2, 6, 5},
		HexaEtaPos: {2, 3, 7, 6},
		HexaKsiNeg: {0, 4, 7, 3},
		HexaZtaPos: {4, 5, 6, 7},
	}

	quadPositiveFaces = [2]int{QuadKsiPos, QuadEtaPos}
	quadNegativeFaces = [2]int{QuadKsiNeg, QuadEtaNeg}
	hexaPositiveFaces = [3]int{HexaKsiPos, HexaEtaPos, HexaZtaPos}
	hexaNegativeFaces = [3]int{HexaKsiNeg, HexaEtaNeg, HexaZtaNeg}
)

// Block edges per axis in grading order. Each pair is (start corner, end
// corner) along that axis; entry e of an axis corresponds to grading value
// gradings[edgesPerAxis*axis+e].
var (
	quadAxisEdges = [2][][2]int{
		{{0, 1}, {3, 2}},
		{{0, 3}, {1, 2}},
	}
	hexaAxisEdges = [3][][2]int{
		{{0, 1}, {3, 2}, {7, 6}, {4, 5}},
		{{0, 3}, {1, 2}, {5, 6}, {4, 7}},
		{{0, 4}, {1, 5}, {2, 6}, {3, 7}},
	}
)

func faceCorners(dim, face int) []int {
	if dim == 3 {
		return hexaFaceCorners[face]
	}
	return quadFaceCorners[face]
}

func nbFaces(dim int) int { return 2 * dim }

func positiveFace(dim, axis int) int {
	if dim == 3 {
		return hexaPositiveFaces[axis]
	}
	return quadPositiveFaces[axis]
}

func negativeFace(dim, axis int) int {
	if dim == 3 {
		return hexaNegativeFaces[axis]
	}
	return quadNegativeFaces[axis]
}

func axisEdges(dim, axis int) [][2]int {
	if dim == 3 {
		return hexaAxisEdges[axis]
	}
	return quadAxisEdges[axis]
}

// faceAxis maps a face id to its axis and direction (+1 or -1).
func faceAxis(dim, face int) (axis, dir int) {
	for d := 0; d < dim; d++ {
		if positiveFace(dim, d) == face {
			return d, +1
		}
		if negativeFace(dim, d) == face {
			return d, -1
		}
	}
	panic("no axis for face")
}
