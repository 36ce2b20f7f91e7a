package blockmesh

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/cfdmesh/structmesh/types"
)

/*
Topology is the coarse description of the domain: a cloud of corner points
and a handful of curvilinear blocks defined on them, refined by the
generator into an unstructured hex or quad mesh.

Block corners use the canonical ordering: in 2D the four corners counter
clockwise starting bottom-left; in 3D the bottom quad counter clockwise
followed by the top quad directly above it.

Gradings hold the expansion ratio (last cell length over first cell length)
for each edge of a block: 2 edges per axis in 2D (4 values), 4 edges per
axis in 3D (12 values). Edge order per axis follows the blockMesh
convention, for the x axis in 3D: 0-1, 3-2, 7-6, 4-5.
*/
type Topology struct {
	Dimension int
	Points    [][]float64
	Blocks    [][]int     // corner point indices, 4 or 8 per block
	Segments  [][]int     // cells per local axis, Dimension per block
	Gradings  [][]float64 // edge expansion ratios, 4 or 12 per block
	Patches   []Patch     // named boundary patches, insertion ordered
	// Distribution partitions Blocks into contiguous per-rank ranges,
	// length nbRanks+1. Nil means undistributed.
	Distribution []int
}

// Patch is a named, typed subset of the boundary, listed as corner tuples
// of block faces. The slice ordering of Topology.Patches is significant:
// every rank must see patches in the same order for element numbering to
// agree across the run.
type Patch struct {
	Name  string
	Tag   types.BCTAG
	Faces [][]int // 2 (2D) or 4 (3D) point indices per face
}

// NbBlocks returns the number of coarse blocks.
func (t *Topology) NbBlocks() int { return len(t.Blocks) }

// CornersPerBlock is 4 in 2D and 8 in 3D.
func (t *Topology) CornersPerBlock() int { return 1 << uint(t.Dimension) }

// CornersPerFace is 2 in 2D and 4 in 3D.
func (t *Topology) CornersPerFace() int { return 1 << uint(t.Dimension-1) }

// GradingsPerBlock is 4 in 2D and 12 in 3D.
func (t *Topology) GradingsPerBlock() int {
	if t.Dimension == 3 {
		return 12
	}
	return 4
}

// EdgesPerAxis is 2 in 2D and 4 in 3D.
func (t *Topology) EdgesPerAxis() int {
	if t.Dimension == 3 {
		return 4
	}
	return 2
}

// NbCells returns the total element count of the refined mesh.
func (t *Topology) NbCells() (total int) {
	for b := range t.Blocks {
		n := 1
		for d := 0; d < t.Dimension; d++ {
			n *= t.Segments[b][d]
		}
		total += n
	}
	return
}

// Check validates the topology, returning one of the typed errors on the
// first violation found.
func (t *Topology) Check() error {
	if t.Dimension != 2 && t.Dimension != 3 {
		return fmt.Errorf("%w: dimension must be 2 or 3, got %d", ErrInvalidDimension, t.Dimension)
	}
	for p, point := range t.Points {
		if len(point) != t.Dimension {
			return fmt.Errorf("%w: point %d has %d components, want %d",
				ErrInvalidDimension, p, len(point), t.Dimension)
		}
	}
	nbCorners := t.CornersPerBlock()
	if len(t.Segments) != len(t.Blocks) || len(t.Gradings) != len(t.Blocks) {
		return fmt.Errorf("%w: %d blocks but %d segment rows and %d grading rows",
			ErrInvalidBlockCorners, len(t.Blocks), len(t.Segments), len(t.Gradings))
	}
	for b, corners := range t.Blocks {
		if len(corners) != nbCorners {
			return fmt.Errorf("%w: block %d has %d corners, want %d",
				ErrInvalidBlockCorners, b, len(corners), nbCorners)
		}
		for _, c := range corners {
			if c < 0 || c >= len(t.Points) {
				return fmt.Errorf("%w: block %d references point %d, have %d points",
					ErrInvalidBlockCorners, b, c, len(t.Points))
			}
		}
		if len(t.Segments[b]) != t.Dimension {
			return fmt.Errorf("%w: block %d has %d segment counts, want %d",
				ErrInvalidBlockCorners, b, len(t.Segments[b]), t.Dimension)
		}
		for d, segs := range t.Segments[b] {
			if segs < 1 {
				return fmt.Errorf("%w: block %d axis %d has %d segments", ErrInvalidGrading, b, d, segs)
			}
		}
		if len(t.Gradings[b]) != t.GradingsPerBlock() {
			return fmt.Errorf("%w: block %d has %d gradings, want %d",
				ErrInvalidGrading, b, len(t.Gradings[b]), t.GradingsPerBlock())
		}
		for e, g := range t.Gradings[b] {
			if !(g > 0) || math.IsInf(g, 0) || math.IsNaN(g) {
				return fmt.Errorf("%w: block %d edge %d grading %v", ErrInvalidGrading, b, e, g)
			}
		}
	}
	nbFaceCorners := t.CornersPerFace()
	for _, patch := range t.Patches {
		for f, face := range patch.Faces {
			if len(face) != nbFaceCorners {
				return fmt.Errorf("%w: patch %q face %d has %d corners, want %d",
					ErrInvalidPatch, patch.Name, f, len(face), nbFaceCorners)
			}
			for _, c := range face {
				if c < 0 || c >= len(t.Points) {
					return fmt.Errorf("%w: patch %q face %d references point %d",
						ErrInvalidPatch, patch.Name, f, c)
				}
			}
		}
	}
	if t.Distribution != nil {
		if err := t.checkDistribution(len(t.Distribution) - 1); err != nil {
			return err
		}
	}
	return nil
}

func (t *Topology) checkDistribution(nbRanks int) error {
	d := t.Distribution
	if len(d) != nbRanks+1 {
		return fmt.Errorf("%w: distribution length %d does not match %d ranks+1; did you partition the blocks?",
			ErrInvalidPartition, len(d), nbRanks)
	}
	if d[0] != 0 || d[len(d)-1] != t.NbBlocks() {
		return fmt.Errorf("%w: distribution must start at 0 and end at %d", ErrInvalidPartition, t.NbBlocks())
	}
	for i := 1; i < len(d); i++ {
		if d[i] < d[i-1] {
			return fmt.Errorf("%w: distribution not monotone at entry %d", ErrInvalidPartition, i)
		}
	}
	return nil
}

// Scale multiplies every point coordinate by s.
func (t *Topology) Scale(s float64) {
	for _, point := range t.Points {
		for d := range point {
			point[d] *= s
		}
	}
}

// Hash digests the full topology. Ranks can compare digests to detect a
// caller that failed to broadcast identical inputs.
func (t *Topology) Hash() uint64 {
	h := fnv.New64a()
	writeInt := func(v int) {
		var buf [8]byte
		u := uint64(v)
		for i := 0; i < 8; i++ {
			buf[i] = byte(u >> (8 * uint(i)))
		}
		h.Write(buf[:])
	}
	writeFloat := func(v float64) { writeInt(int(math.Float64bits(v))) }
	writeInt(t.Dimension)
	for _, p := range t.Points {
		for _, c := range p {
			writeFloat(c)
		}
	}
	for b := range t.Blocks {
		for _, c := range t.Blocks[b] {
			writeInt(c)
		}
		for _, s := range t.Segments[b] {
			writeInt(s)
		}
		for _, g := range t.Gradings[b] {
			writeFloat(g)
		}
	}
	for _, patch := range t.Patches {
		h.Write([]byte(patch.Name))
		h.Write([]byte(patch.Tag))
		for _, face := range patch.Faces {
			for _, c := range face {
				writeInt(c)
			}
		}
	}
	for _, d := range t.Distribution {
		writeInt(d)
	}
	return h.Sum64()
}

// Clone deep-copies the topology.
func (t *Topology) Clone() *Topology {
	out := &Topology{Dimension: t.Dimension}
	out.Points = make([][]float64, len(t.Points))
	for i, p := range t.Points {
		out.Points[i] = append([]float64(nil), p...)
	}
	out.Blocks = make([][]int, len(t.Blocks))
	out.Segments = make([][]int, len(t.Segments))
	out.Gradings = make([][]float64, len(t.Gradings))
	for b := range t.Blocks {
		out.Blocks[b] = append([]int(nil), t.Blocks[b]...)
		out.Segments[b] = append([]int(nil), t.Segments[b]...)
		out.Gradings[b] = append([]float64(nil), t.Gradings[b]...)
	}
	out.Patches = make([]Patch, len(t.Patches))
	for i, patch := range t.Patches {
		faces := make([][]int, len(patch.Faces))
		for f, face := range patch.Faces {
			faces[f] = append([]int(nil), face...)
		}
		out.Patches[i] = Patch{Name: patch.Name, Tag: patch.Tag, Faces: faces}
	}
	if t.Distribution != nil {
		out.Distribution = append([]int(nil), t.Distribution...)
	}
	return out
}
