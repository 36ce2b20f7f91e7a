package blockmesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/cfdmesh/structmesh/comm"
	"github.com/cfdmesh/structmesh/mesh"
)

// OverlapGrower adds one ring of ghost cells around the locally visible
// region of a distributed mesh.
type OverlapGrower interface {
	Grow(m *mesh.Mesh) error
}

/*
haloGrower grows the overlap through two all-to-all exchanges per ring:
every rank advertises the global ids of the nodes it can see, and every
peer answers with the cells it knows that are incident on any advertised
node, spelled out in global node ids plus the coordinates of every node
referenced. Because the visible node set expands with each merged ring,
repeated calls grow one more ring each time. Nodes and cells already known
locally are deduplicated on receipt.
*/
type haloGrower struct {
	comm      comm.Communicator
	nodesDist []int
}

func (h *haloGrower) Grow(m *mesh.Mesh) error {
	var (
		np   = h.comm.Size()
		rank = h.comm.Rank()
	)

	// Advertise every node this rank can see
	visible := append([]int(nil), m.NodeGlobalIDs...)
	sort.Ints(visible)
	requests := make([][]int, np)
	for p := 0; p < np; p++ {
		if p != rank {
			requests[p] = visible
		}
	}
	incoming := h.comm.AllToAll(requests)

	// Known cells incident on each visible node
	nodeCells := make(map[int][]int)
	for e, cell := range m.Cells {
		for _, lid := range cell {
			gid := m.NodeGlobalIDs[lid]
			nodeCells[gid] = append(nodeCells[gid], e)
		}
	}

	// Answer with every known cell the peer does not own that touches an
	// advertised node: cell gid, owner rank, node count, then gid and
	// coordinate bits per node
	replies := make([][]int, np)
	for p := 0; p < np; p++ {
		if p == rank {
			replies[p] = []int{}
			continue
		}
		sent := make(map[int]bool)
		var msg []int
		for _, gid := range incoming[p] {
			for _, e := range nodeCells[gid] {
				if m.CellOwners[e] == p || sent[e] {
					continue
				}
				sent[e] = true
				msg = append(msg, m.CellGlobalIDs[e], m.CellOwners[e], len(m.Cells[e]))
				for _, lid := range m.Cells[e] {
					msg = append(msg, m.NodeGlobalIDs[lid])
					for d := 0; d < m.Dim; d++ {
						msg = append(msg, int(math.Float64bits(m.Coordinates[lid][d])))
					}
				}
			}
		}
		replies[p] = msg
	}
	data := h.comm.AllToAll(replies)

	// Merge the received ring
	knownNodes := make(map[int]int, len(m.NodeGlobalIDs))
	for lid, gid := range m.NodeGlobalIDs {
		knownNodes[gid] = lid
	}
	knownCells := make(map[int]int, len(m.CellGlobalIDs))
	for e, gid := range m.CellGlobalIDs {
		knownCells[gid] = e
	}
	for p := 0; p < np; p++ {
		msg := data[p]
		for pos := 0; pos < len(msg); {
			if len(msg)-pos < 3 {
				return fmt.Errorf("truncated overlap message from rank %d", p)
			}
			cellGID := msg[pos]
			cellOwner := msg[pos+1]
			nbNodes := msg[pos+2]
			pos += 3
			if len(msg)-pos < nbNodes*(1+m.Dim) {
				return fmt.Errorf("truncated overlap message from rank %d", p)
			}
			cell := make([]int, nbNodes)
			for n := 0; n < nbNodes; n++ {
				gid := msg[pos]
				pos++
				coords := make([]float64, m.Dim)
				for d := 0; d < m.Dim; d++ {
					coords[d] = math.Float64frombits(uint64(msg[pos]))
					pos++
				}
				lid, seen := knownNodes[gid]
				if !seen {
					lid = len(m.Coordinates)
					knownNodes[gid] = lid
					m.Coordinates = append(m.Coordinates, coords)
					m.NodeGlobalIDs = append(m.NodeGlobalIDs, gid)
					m.NodeOwners = append(m.NodeOwners, h.owner(gid))
					m.NumGhostNodes++
				}
				cell[n] = lid
			}
			if _, seen := knownCells[cellGID]; !seen {
				knownCells[cellGID] = len(m.Cells)
				m.Cells = append(m.Cells, cell)
				m.CellGlobalIDs = append(m.CellGlobalIDs, cellGID)
				m.CellOwners = append(m.CellOwners, cellOwner)
			}
		}
	}
	return nil
}

func (h *haloGrower) owner(gid int) int {
	return sort.SearchInts(h.nodesDist[1:], gid+1)
}
