package blockmesh

import (
	"math"
	"sort"

	"github.com/cfdmesh/structmesh/mesh"
)

// unitBox returns a single unit cube block with the given segment counts
// and uniform gradings.
func unitBox(segments [3]int) *Topology {
	return &Topology{
		Dimension: 3,
		Points: [][]float64{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		Blocks:   [][]int{{0, 1, 2, 3, 4, 5, 6, 7}},
		Segments: [][]int{{segments[0], segments[1], segments[2]}},
		Gradings: [][]float64{uniformGradings(3)},
	}
}

// channel3D returns nbBlocks unit blocks stacked along x, each with the
// given segments.
func channel3D(nbBlocks int, segments [3]int) *Topology {
	t := &Topology{Dimension: 3}
	// corner grid: (nbBlocks+1) x 2 x 2
	nx := nbBlocks + 1
	pid := func(xi, yi, zi int) int { return xi + nx*yi + 2*nx*zi }
	for zi := 0; zi < 2; zi++ {
		for yi := 0; yi < 2; yi++ {
			for xi := 0; xi < nx; xi++ {
				t.Points = append(t.Points, []float64{float64(xi), float64(yi), float64(zi)})
			}
		}
	}
	for b := 0; b < nbBlocks; b++ {
		t.Blocks = append(t.Blocks, []int{
			pid(b, 0, 0), pid(b+1, 0, 0), pid(b+1, 1, 0), pid(b, 1, 0),
			pid(b, 0, 1), pid(b+1, 0, 1), pid(b+1, 1, 1), pid(b, 1, 1),
		})
		t.Segments = append(t.Segments, []int{segments[0], segments[1], segments[2]})
		t.Gradings = append(t.Gradings, uniformGradings(3))
	}
	return t
}

// square2D returns a single unit square block.
func square2D(segments [2]int, gradings []float64) *Topology {
	if gradings == nil {
		gradings = uniformGradings(2)
	}
	return &Topology{
		Dimension: 2,
		Points:    [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Blocks:    [][]int{{0, 1, 2, 3}},
		Segments:  [][]int{{segments[0], segments[1]}},
		Gradings:  [][]float64{gradings},
	}
}

// strip2D returns nbBlocks unit squares side by side along x.
func strip2D(nbBlocks int, segments [2]int) *Topology {
	t := &Topology{Dimension: 2}
	nx := nbBlocks + 1
	for yi := 0; yi < 2; yi++ {
		for xi := 0; xi < nx; xi++ {
			t.Points = append(t.Points, []float64{float64(xi), float64(yi)})
		}
	}
	for b := 0; b < nbBlocks; b++ {
		t.Blocks = append(t.Blocks, []int{b, b + 1, nx + b + 1, nx + b})
		t.Segments = append(t.Segments, []int{segments[0], segments[1]})
		t.Gradings = append(t.Gradings, uniformGradings(2))
	}
	return t
}

// ring2D returns four quad blocks closing into a ring: the ksi axis runs
// around the ring, so every ksi face is interior (periodic), while the eta
// faces form the inner and outer boundary.
func ring2D(segments [2]int) *Topology {
	t := &Topology{Dimension: 2}
	// inner square corners 0..3, outer square corners 4..7
	inner, outer := 1.0, 2.0
	dirs := [][2]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	for _, d := range dirs {
		t.Points = append(t.Points, []float64{inner * d[0], inner * d[1]})
	}
	for _, d := range dirs {
		t.Points = append(t.Points, []float64{outer * d[0], outer * d[1]})
	}
	for b := 0; b < 4; b++ {
		next := (b + 1) % 4
		t.Blocks = append(t.Blocks, []int{b, next, 4 + next, 4 + b})
		t.Segments = append(t.Segments, []int{segments[0], segments[1]})
		t.Gradings = append(t.Gradings, uniformGradings(2))
	}
	return t
}

func uniformGradings(dim int) []float64 {
	n := 4
	if dim == 3 {
		n = 12
	}
	g := make([]float64, n)
	for i := range g {
		g[i] = 1
	}
	return g
}

// sortedCoords flattens owned node coordinates into a lexicographically
// sorted list, for permutation-insensitive comparison of meshes. Components
// within 1e-10 of each other count as equal, so roundoff does not reorder
// nodes that share a coordinate.
func sortedCoords(meshes ...*mesh.Mesh) [][]float64 {
	var out [][]float64
	for _, m := range meshes {
		for lid := 0; lid < m.NumOwnedNodes; lid++ {
			out = append(out, m.Coordinates[lid])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		for d := range out[i] {
			if math.Abs(out[i][d]-out[j][d]) > 1.e-10 {
				return out[i][d] < out[j][d]
			}
		}
		return false
	})
	return out
}
