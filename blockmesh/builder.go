// Package blockmesh turns a coarse multi-block topology into a refined
// unstructured hex or quad mesh with consistent global numbering across a
// distributed run.
package blockmesh

import (
	"fmt"
	"log"

	"github.com/cfdmesh/structmesh/comm"
	"github.com/cfdmesh/structmesh/mesh"
	"github.com/cfdmesh/structmesh/types"
)

// DefaultPatchName collects the boundary faces not claimed by any named
// patch.
const DefaultPatchName = "default"

// Options tunes mesh generation.
type Options struct {
	// Overlap requests that many extra rings of ghost cells.
	Overlap int
	// PartitionAxis is the axis used when the generator must partition an
	// undistributed topology for a multi-rank run.
	PartitionAxis int
	// CheckTopology hashes the topology on every rank and fails when the
	// ranks disagree. Costs one collective.
	CheckTopology bool
	// Grower overrides the overlap growth implementation.
	Grower OverlapGrower
	// Verbose enables progress logging.
	Verbose bool
}

/*
Generate builds the refined mesh for the rank identified by c. Every rank
must pass an identical topology; all structures derived from it are
deterministic, so the ranks agree on the global numbering without
communicating. The only collective of the base build is the all-gather
assigning global element ids.
*/
func Generate(t *Topology, c comm.Communicator, opts Options) (*mesh.Mesh, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}
	var (
		nbRanks = c.Size()
		rank    = c.Rank()
	)
	if opts.CheckTopology && nbRanks > 1 {
		hashes := c.AllGather(int(t.Hash()))
		for p, h := range hashes {
			if h != hashes[0] {
				return nil, fmt.Errorf("%w: rank %d disagrees with rank 0", ErrInconsistentTopology, p)
			}
		}
	}

	switch {
	case t.Distribution == nil && nbRanks == 1:
		t = t.Clone()
		t.Distribution = []int{0, t.NbBlocks()}
	case t.Distribution == nil:
		if opts.Verbose {
			log.Printf("partitioning %d blocks into %d parts along axis %d",
				t.NbBlocks(), nbRanks, opts.PartitionAxis)
		}
		partitioned, err := Partition(t, nbRanks, opts.PartitionAxis)
		if err != nil {
			return nil, err
		}
		t = partitioned
	default:
		if err := t.checkDistribution(nbRanks); err != nil {
			return nil, err
		}
	}

	conn, err := buildConnectivity(t)
	if err != nil {
		return nil, err
	}
	ix := newIndexer(t, conn, t.Distribution, rank)

	var (
		blocksBegin = t.Distribution[rank]
		blocksEnd   = t.Distribution[rank+1]
	)

	// Volume connectivity; resolving it allocates every ghost id this rank
	// will need
	var cells [][]int
	for b := blocksBegin; b < blocksEnd; b++ {
		cells = emitBlockCells(ix, b, cells)
	}

	coords := make([][]float64, ix.nbLocalNodes())
	for n := range coords {
		coords[n] = make([]float64, t.Dimension)
	}
	for b := blocksBegin; b < blocksEnd; b++ {
		if t.Dimension == 3 {
			err = fillBlockCoordinates3D(t, ix, b, coords)
		} else {
			err = fillBlockCoordinates2D(t, ix, b, coords)
		}
		if err != nil {
			return nil, err
		}
	}

	m := &mesh.Mesh{
		Dim:           t.Dimension,
		Coordinates:   coords,
		Cells:         cells,
		Rank:          rank,
		NumRanks:      nbRanks,
		NumOwnedNodes: ix.localEnd - ix.localBegin,
		NumGhostNodes: ix.ghostCounter,
		TotalNodes:    ix.nodesDist[nbRanks],
	}
	m.Patches = emitPatches(t, conn, ix, blocksBegin, blocksEnd)

	// Node numbering: owned nodes first, ghosts in allocation order
	m.NodeGlobalIDs = make([]int, len(coords))
	m.NodeOwners = make([]int, len(coords))
	for lid := 0; lid < m.NumOwnedNodes; lid++ {
		m.NodeGlobalIDs[lid] = ix.localBegin + lid
		m.NodeOwners[lid] = rank
	}
	for g, gid := range ix.ghostGIDs {
		m.NodeGlobalIDs[m.NumOwnedNodes+g] = gid
		m.NodeOwners[m.NumOwnedNodes+g] = ix.owner(gid)
	}

	assignElementIDs(m, c)

	if opts.Verbose {
		log.Printf("generated mesh\n%s", m.Statistics())
	}

	if opts.Overlap > 0 && nbRanks > 1 {
		grower := opts.Grower
		if grower == nil {
			grower = &haloGrower{comm: c, nodesDist: ix.nodesDist}
		}
		for round := 0; round < opts.Overlap; round++ {
			if err = grower.Grow(m); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// emitPatches walks the named patches in declaration order, then the
// default patch, emitting the surface elements of the local blocks.
func emitPatches(t *Topology, conn *connectivity, ix *indexer, blocksBegin, blocksEnd int) []mesh.Patch {
	var patches []mesh.Patch
	emit := func(patchIdx int) [][]int {
		var faces [][]int
		for b := blocksBegin; b < blocksEnd; b++ {
			for f := 0; f < nbFaces(t.Dimension); f++ {
				if conn.patch[b][f] == patchIdx {
					faces = emitPatchFace(ix, b, f, faces)
				}
			}
		}
		return faces
	}
	for patchIdx, patch := range t.Patches {
		patches = append(patches, mesh.Patch{
			Name:  patch.Name,
			Tag:   patch.Tag,
			Faces: emit(patchIdx),
		})
	}
	// The default patch exists whenever any block face (on any rank) is
	// left unclaimed, so every rank agrees on the patch list
	hasDefault := false
	for b := 0; b < t.NbBlocks() && !hasDefault; b++ {
		for f := 0; f < nbFaces(t.Dimension); f++ {
			if conn.patch[b][f] == faceDefaultPatch {
				hasDefault = true
				break
			}
		}
	}
	if hasDefault {
		patches = append(patches, mesh.Patch{
			Name:  DefaultPatchName,
			Faces: emit(faceDefaultPatch),
		})
	}
	return patches
}

// assignElementIDs numbers every element (cells, then patch faces in patch
// order) globally by prefix-summing the per-rank element counts.
func assignElementIDs(m *mesh.Mesh, c comm.Communicator) {
	nbElems := len(m.Cells)
	for i := range m.Patches {
		nbElems += len(m.Patches[i].Faces)
	}
	counts := c.AllGather(nbElems)
	offset := 0
	for p := 0; p < m.Rank; p++ {
		offset += counts[p]
	}

	m.CellGlobalIDs = make([]int, len(m.Cells))
	m.CellOwners = make([]int, len(m.Cells))
	for e := range m.Cells {
		m.CellGlobalIDs[e] = offset
		m.CellOwners[e] = m.Rank
		offset++
	}
	for i := range m.Patches {
		patch := &m.Patches[i]
		patch.GlobalIDs = make([]int, len(patch.Faces))
		for e := range patch.Faces {
			patch.GlobalIDs[e] = offset
			offset++
		}
	}
}

/*
CreateBlockMesh builds the coarse preview mesh whose cells are the blocks
themselves. The default patch of the preview holds the uncovered boundary
faces in block-major, canonical-face order; its element indices are the
face indices accepted by CreatePatchFromFaces.
*/
func CreateBlockMesh(t *Topology) (*mesh.Mesh, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}
	conn, err := buildConnectivity(t)
	if err != nil {
		return nil, err
	}
	m := &mesh.Mesh{
		Dim:           t.Dimension,
		Coordinates:   make([][]float64, len(t.Points)),
		Cells:         make([][]int, t.NbBlocks()),
		Rank:          0,
		NumRanks:      1,
		NumOwnedNodes: len(t.Points),
		TotalNodes:    len(t.Points),
	}
	for p, point := range t.Points {
		m.Coordinates[p] = append([]float64(nil), point...)
	}
	for b, corners := range t.Blocks {
		m.Cells[b] = append([]int(nil), corners...)
	}
	for _, patch := range t.Patches {
		faces := make([][]int, len(patch.Faces))
		for f, face := range patch.Faces {
			faces[f] = append([]int(nil), face...)
		}
		m.Patches = append(m.Patches, mesh.Patch{Name: patch.Name, Tag: patch.Tag, Faces: faces})
	}
	var shell [][]int
	for b := 0; b < t.NbBlocks(); b++ {
		for f := 0; f < nbFaces(t.Dimension); f++ {
			if conn.patch[b][f] == faceDefaultPatch {
				_, corners := blockFaceKey(t, b, f)
				shell = append(shell, corners)
			}
		}
	}
	m.Patches = append(m.Patches, mesh.Patch{Name: DefaultPatchName, Faces: shell})
	return m, nil
}

// CreatePatchFromFaces appends a named patch assembled from default-shell
// face indices of the preview mesh returned by CreateBlockMesh.
func (t *Topology) CreatePatchFromFaces(name string, tag types.BCTAG, preview *mesh.Mesh, faceIndices []int) error {
	shell := preview.Patch(DefaultPatchName)
	if shell == nil {
		return fmt.Errorf("%w: preview mesh has no default shell", ErrInvalidPatch)
	}
	faces := make([][]int, 0, len(faceIndices))
	for _, idx := range faceIndices {
		if idx < 0 || idx >= len(shell.Faces) {
			return fmt.Errorf("%w: shell face index %d out of range", ErrInvalidPatch, idx)
		}
		faces = append(faces, append([]int(nil), shell.Faces[idx]...))
	}
	t.Patches = append(t.Patches, Patch{Name: name, Tag: tag, Faces: faces})
	return nil
}
