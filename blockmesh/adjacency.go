package blockmesh

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/cfdmesh/structmesh/types"
)

// Markers for the patch slot of a block face.
const (
	faceInterior     = -2 // face is shared with another block
	faceDefaultPatch = -1 // boundary face not claimed by any named patch
)

// faceRef addresses one face of one block.
type faceRef struct {
	Block, Face int
}

/*
connectivity is the block adjacency table: for every face of every block,
either the neighboring block and its mirroring face, or the patch the face
belongs to. A block may neighbor itself across a face in periodic setups.
*/
type connectivity struct {
	dim      int
	neighbor [][]faceRef // [block][face], Block == -1 on the boundary
	patch    [][]int     // [block][face], faceInterior / faceDefaultPatch / patch index
}

/*
buildConnectivity derives the adjacency from corner membership alone: a
point-to-block inverted index (kept as a sparse incidence matrix) yields,
for each block face, the blocks incident on all of its corners. Any other
block carrying a face with the identical corner set is the neighbor; a face
nobody mirrors is a boundary face and is attributed to a named patch or to
the default patch.
*/
func buildConnectivity(t *Topology) (conn *connectivity, err error) {
	var (
		nbBlocks  = t.NbBlocks()
		nbF       = nbFaces(t.Dimension)
		perFace   = t.CornersPerFace()
		incidence = sparse.NewDOK(len(t.Points), nbBlocks)
	)
	for b, corners := range t.Blocks {
		for _, p := range corners {
			incidence.Set(p, b, 1)
		}
	}
	pointBlocks := incidence.ToCSR()

	// Named patch faces, keyed by corner membership
	patchFaces := make(map[types.FaceKey]int)
	patchFaceUsed := make(map[types.FaceKey]bool)
	for patchIdx, patch := range t.Patches {
		for _, face := range patch.Faces {
			key := types.NewFaceKeyFrom(face)
			if prev, exists := patchFaces[key]; exists {
				return nil, fmt.Errorf("%w: face %v appears in both %q and %q",
					ErrInvalidPatch, face, t.Patches[prev].Name, patch.Name)
			}
			patchFaces[key] = patchIdx
		}
	}

	conn = &connectivity{
		dim:      t.Dimension,
		neighbor: make([][]faceRef, nbBlocks),
		patch:    make([][]int, nbBlocks),
	}
	for b := 0; b < nbBlocks; b++ {
		conn.neighbor[b] = make([]faceRef, nbF)
		conn.patch[b] = make([]int, nbF)
		for f := 0; f < nbF; f++ {
			conn.neighbor[b][f] = faceRef{Block: -1, Face: -1}
			conn.patch[b][f] = faceDefaultPatch
		}
	}

	for b := 0; b < nbBlocks; b++ {
		for f := 0; f < nbF; f++ {
			key, corners := blockFaceKey(t, b, f)

			// Blocks incident on every corner of this face
			counts := make(map[int]int)
			for _, p := range dedupe(corners) {
				pointBlocks.DoRowNonZero(p, func(_, other int, _ float64) {
					counts[other]++
				})
			}
			var candidates []int
			for other, n := range counts {
				if n == perFace {
					candidates = append(candidates, other)
				}
			}
			sort.Ints(candidates)

			matched := false
			for _, other := range candidates {
				for g := 0; g < nbF; g++ {
					if other == b && g == f {
						continue
					}
					otherKey, _ := blockFaceKey(t, other, g)
					if otherKey != key {
						continue
					}
					if matched {
						return nil, fmt.Errorf("%w: face %v of block %d shared by more than two blocks",
							ErrInvalidBlockCorners, corners, b)
					}
					conn.neighbor[b][f] = faceRef{Block: other, Face: g}
					conn.patch[b][f] = faceInterior
					matched = true
				}
			}
			if matched {
				if _, claimed := patchFaces[key]; claimed {
					return nil, fmt.Errorf("%w: face %v of block %d is interior but listed in a patch",
						ErrInvalidPatch, corners, b)
				}
				continue
			}
			if patchIdx, named := patchFaces[key]; named {
				conn.patch[b][f] = patchIdx
				patchFaceUsed[key] = true
			}
		}
	}

	for key, patchIdx := range patchFaces {
		if !patchFaceUsed[key] {
			return nil, fmt.Errorf("%w: patch %q lists a face that is not on the boundary",
				ErrInvalidPatch, t.Patches[patchIdx].Name)
		}
	}
	return conn, nil
}

// blockFaceKey returns the membership key and the point indices of face f
// of block b.
func blockFaceKey(t *Topology, b, f int) (types.FaceKey, []int) {
	local := faceCorners(t.Dimension, f)
	corners := make([]int, len(local))
	for i, lc := range local {
		corners[i] = t.Blocks[b][lc]
	}
	return types.NewFaceKeyFrom(corners), corners
}

// boundary reports whether face f of block b lies on the domain boundary.
func (c *connectivity) boundary(b, f int) bool {
	return c.patch[b][f] != faceInterior
}

func dedupe(ids []int) []int {
	out := ids[:0:0]
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
