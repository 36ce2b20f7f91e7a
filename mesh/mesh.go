// Package mesh holds the unstructured mesh tables produced by the block
// mesh generator: node coordinates, cell and surface connectivity, and the
// global numbering and ownership data of a distributed run.
package mesh

import (
	"fmt"
	"strings"

	"github.com/cfdmesh/structmesh/types"
)

// Patch is a named set of surface elements (quads in 3D, lines in 2D).
type Patch struct {
	Name      string
	Tag       types.BCTAG
	Faces     [][]int // local node ids per surface element
	GlobalIDs []int   // global element id per surface element
}

// Mesh is the per-rank result of mesh generation. Node ids are local:
// owned nodes first, ghost nodes after them in allocation order.
type Mesh struct {
	Dim         int
	Coordinates [][]float64 // [node][Dim]
	Cells       [][]int     // volume connectivity, 4 or 8 nodes per cell

	Patches []Patch

	// Parallel numbering
	NodeGlobalIDs []int
	NodeOwners    []int
	CellGlobalIDs []int
	CellOwners    []int

	NumOwnedNodes int
	NumGhostNodes int
	TotalNodes    int // global node count across all ranks
	Rank          int
	NumRanks      int
}

func (m *Mesh) NumNodes() int { return len(m.Coordinates) }
func (m *Mesh) NumCells() int { return len(m.Cells) }

// Patch returns the named patch, nil when absent.
func (m *Mesh) Patch(name string) *Patch {
	for i := range m.Patches {
		if m.Patches[i].Name == name {
			return &m.Patches[i]
		}
	}
	return nil
}

// Statistics summarizes the mesh in a printable table.
func (m *Mesh) Statistics() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rank %d/%d: %d nodes (%d owned, %d ghost), %d cells\n",
		m.Rank, m.NumRanks, m.NumNodes(), m.NumOwnedNodes, m.NumGhostNodes, m.NumCells())
	for _, p := range m.Patches {
		tag := string(p.Tag)
		if tag == "" {
			tag = "-"
		}
		fmt.Fprintf(&sb, "  patch %-16s [%s]\t%d faces\n", p.Name, tag, len(p.Faces))
	}
	return sb.String()
}
