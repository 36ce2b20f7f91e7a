package blockmesh

import (
	"fmt"
	"sort"
)

/*
block carries the per-block helper data needed to resolve structured
indices. Nodes on a positive-direction face belong to the neighbor across
that face, so nbPoints counts one node more than segments only where the
face lies on the boundary. neighbor holds stable indices into the block
arena, -1 where bounded; the resulting graph may be cyclic under
periodicity.
*/
type block struct {
	segments   [3]int
	nbPoints   [3]int
	strides    [3]int
	bounded    [3]bool
	neighbor   [3]int
	startIndex int // global id of this block's first owned node
	nbElems    int
	nbNodes    int // owned nodes
}

/*
indexer is the global index oracle: it maps any structured triple
(block, i, j, [k]) to a stable global node id, and global ids to local ids,
allocating ghost ids past the owned range on first request.
*/
type indexer struct {
	dim        int
	blocks     []block
	totalNodes int
	// nodesDist[p] is the first global node id owned by rank p; length
	// nbRanks+1 so the last entry is the total node count.
	nodesDist  []int
	localBegin int
	localEnd   int

	ghosts       map[int]int // global id -> local id, ghosts only
	ghostGIDs    []int       // ghost global ids in allocation order
	ghostCounter int
}

func newIndexer(t *Topology, conn *connectivity, distribution []int, rank int) *indexer {
	ix := &indexer{
		dim:    t.Dimension,
		blocks: make([]block, t.NbBlocks()),
		ghosts: make(map[int]int),
	}
	start := 0
	for b := range ix.blocks {
		blk := &ix.blocks[b]
		blk.startIndex = start
		stride := 1
		blk.nbElems = 1
		blk.nbNodes = 1
		for d := 0; d < ix.dim; d++ {
			pos := positiveFace(ix.dim, d)
			blk.segments[d] = t.Segments[b][d]
			blk.bounded[d] = conn.boundary(b, pos)
			blk.nbPoints[d] = blk.segments[d]
			if blk.bounded[d] {
				blk.nbPoints[d]++
				blk.neighbor[d] = -1
			} else {
				blk.neighbor[d] = conn.neighbor[b][pos].Block
			}
			blk.strides[d] = stride
			stride *= blk.nbPoints[d]
			blk.nbElems *= blk.segments[d]
			blk.nbNodes *= blk.nbPoints[d]
		}
		start += blk.nbNodes
	}
	ix.totalNodes = start

	nbRanks := len(distribution) - 1
	ix.nodesDist = make([]int, nbRanks+1)
	for p := 0; p < nbRanks; p++ {
		owned := 0
		for b := distribution[p]; b < distribution[p+1]; b++ {
			owned += ix.blocks[b].nbNodes
		}
		ix.nodesDist[p+1] = ix.nodesDist[p] + owned
	}
	ix.localBegin = ix.nodesDist[rank]
	ix.localEnd = ix.nodesDist[rank+1]
	return ix
}

/*
globalIndex canonicalizes the structured triple by hopping across
positive-direction faces until the node is owned by the block under the
cursor, then linearizes with the owning block's strides. Axes are rescanned
in ascending order after every hop so that a node on a multi-block corner
resolves to the same owner no matter which incident block asked.
*/
func (ix *indexer) globalIndex(b int, idx [3]int) int {
	d := 0
	for d < ix.dim {
		blk := &ix.blocks[b]
		if idx[d] > blk.segments[d] {
			panic(fmt.Errorf("structured index %v exceeds segments %v of block %d", idx, blk.segments, b))
		}
		if idx[d] == blk.segments[d] && !blk.bounded[d] {
			b = blk.neighbor[d]
			idx[d] = 0
			d = 0
			continue
		}
		d++
	}
	blk := &ix.blocks[b]
	gid := blk.startIndex
	for d := 0; d < ix.dim; d++ {
		gid += blk.strides[d] * idx[d]
	}
	return gid
}

// toLocal converts a global id to a local one, creating a ghost entry when
// the node is owned by another rank.
func (ix *indexer) toLocal(gid int) int {
	if gid >= ix.localBegin && gid < ix.localEnd {
		return gid - ix.localBegin
	}
	if lid, seen := ix.ghosts[gid]; seen {
		return lid
	}
	lid := ix.localEnd - ix.localBegin + ix.ghostCounter
	ix.ghosts[gid] = lid
	ix.ghostGIDs = append(ix.ghostGIDs, gid)
	ix.ghostCounter++
	return lid
}

// localIndex resolves a structured triple directly to a local node id.
func (ix *indexer) localIndex(b int, idx [3]int) int {
	return ix.toLocal(ix.globalIndex(b, idx))
}

// owner returns the rank owning a global node id.
func (ix *indexer) owner(gid int) int {
	return sort.SearchInts(ix.nodesDist[1:], gid+1)
}

func (ix *indexer) nbLocalNodes() int {
	return ix.localEnd - ix.localBegin + ix.ghostCounter
}
