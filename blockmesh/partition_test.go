package blockmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/cfdmesh/structmesh/comm"
)

func partitionCellCounts(t *Topology) (counts []int) {
	for p := 0; p+1 < len(t.Distribution); p++ {
		n := 0
		for b := t.Distribution[p]; b < t.Distribution[p+1]; b++ {
			c := 1
			for d := 0; d < t.Dimension; d++ {
				c *= t.Segments[b][d]
			}
			n += c
		}
		counts = append(counts, n)
	}
	return
}

// Six blocks of 8 cells split into three parts: the layer boundaries line
// up, so no block is cut.
func TestPartitionWholeLayers(t *testing.T) {
	topo := channel3D(6, [3]int{2, 2, 2})
	out, err := Partition(topo, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, 6, out.NbBlocks())
	assert.Equal(t, []int{0, 2, 4, 6}, out.Distribution)
	assert.Equal(t, []int{16, 16, 16}, partitionCellCounts(out))
	// nothing was cut: same point cloud, same segment counts
	assert.Len(t, out.Points, len(topo.Points))
	for b := 0; b < 6; b++ {
		assert.Equal(t, []int{2, 2, 2}, out.Segments[b])
		assert.Equal(t, uniformGradings(3), out.Gradings[b])
	}
}

// Two blocks of 12 cells into three parts of 8: both blocks are cut
// mid-grading.
func TestPartitionMidBlockSplit(t *testing.T) {
	topo := channel3D(2, [3]int{3, 2, 2})
	out, err := Partition(topo, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, out.NbBlocks())
	assert.Equal(t, []int{0, 1, 3, 4}, out.Distribution)
	assert.Equal(t, []int{8, 8, 8}, partitionCellCounts(out))
	assert.Equal(t, 2, out.Segments[0][0])
	assert.Equal(t, 1, out.Segments[1][0])
	assert.Equal(t, 1, out.Segments[2][0])
	assert.Equal(t, 2, out.Segments[3][0])

	// Uniform gradings stay uniform across a cut
	for b := 0; b < 4; b++ {
		assert.InDeltaSlice(t, uniformGradings(3), out.Gradings[b], 1.e-12)
	}

	// The cut planes sit at x=2/3 of block 0 and x=1/3 into block 1
	xs := map[float64]bool{}
	for _, p := range out.Points {
		xs[p[0]] = true
	}
	assert.True(t, approxKey(xs, 2./3.), "missing cut plane at 2/3")
	assert.True(t, approxKey(xs, 1.+1./3.), "missing cut plane at 4/3")
}

func approxKey(set map[float64]bool, want float64) bool {
	for x := range set {
		if x > want-1.e-12 && x < want+1.e-12 {
			return true
		}
	}
	return false
}

// The partitioned topology refines to the same mesh as the original:
// identical coordinates up to a global permutation, same cell count.
func TestPartitionPreservesGeometry(t *testing.T) {
	cases := []struct {
		name string
		topo *Topology
		np   int
	}{
		{"channel split", channel3D(2, [3]int{3, 2, 2}), 3},
		{"graded block", func() *Topology {
			topo := unitBox([3]int{8, 2, 2})
			for e := 0; e < 4; e++ {
				topo.Gradings[0][e] = 4 // x edges graded 4:1
			}
			return topo
		}(), 2},
		{"2d strip", strip2D(3, [2]int{4, 3}), 2},
		{"twice-cut block", func() *Topology {
			topo := unitBox([3]int{6, 2, 2})
			for e := 0; e < 4; e++ {
				topo.Gradings[0][e] = 2
			}
			return topo
		}(), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			serial, err := Generate(tc.topo, comm.Serial{}, Options{})
			require.NoError(t, err)

			part, err := Partition(tc.topo, tc.np, 0)
			require.NoError(t, err)
			meshes := generateParallel(t, part, tc.np, Options{})

			total := 0
			for _, m := range meshes {
				total += m.NumCells()
			}
			assert.Equal(t, serial.NumCells(), total)

			want := sortedCoords(serial)
			got := sortedCoords(meshes...)
			require.Equal(t, len(want), len(got))
			for i := range want {
				assert.True(t, floats.EqualApprox(want[i], got[i], 1.e-12),
					"node %d: want %v, got %v", i, want[i], got[i])
			}
		})
	}
}

// Partitioning into one part only reorders blocks into sweep order;
// repeating it is a fixed point.
func TestPartitionIdempotent(t *testing.T) {
	topo := channel3D(4, [3]int{2, 2, 2})
	once, err := Partition(topo, 1, 0)
	require.NoError(t, err)
	twice, err := Partition(once, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, once.Blocks, twice.Blocks)
	assert.Equal(t, once.Segments, twice.Segments)
	assert.Equal(t, once.Gradings, twice.Gradings)
	assert.Equal(t, once.Points, twice.Points)
	assert.Equal(t, once.Distribution, twice.Distribution)
}

// Patches survive partitioning: transverse patches follow the cut blocks,
// start and end patches keep their original faces.
func TestPartitionCarriesPatches(t *testing.T) {
	topo := channel3D(2, [3]int{3, 2, 2})
	topo.Patches = []Patch{
		{Name: "inlet", Faces: [][]int{{0, 3, 9, 6}}},
		{Name: "outlet", Faces: [][]int{{2, 5, 11, 8}}},
	}
	out, err := Partition(topo, 3, 0)
	require.NoError(t, err)
	require.Len(t, out.Patches, 2)
	assert.Len(t, out.Patches[0].Faces, 1)
	assert.Len(t, out.Patches[1].Faces, 1)

	// The partitioned topology still generates, with both patches intact;
	// its three-part distribution is dropped to build it on a single rank
	serialTopo := out.Clone()
	serialTopo.Distribution = nil
	m, err := Generate(serialTopo, comm.Serial{}, Options{Overlap: 0})
	require.NoError(t, err)
	require.Len(t, m.Patches, 3)
	assert.Len(t, m.Patch("inlet").Faces, 4)
	assert.Len(t, m.Patch("outlet").Faces, 4)
}

// A ring has no boundary to sweep from.
func TestPartitionNoStartingLayer(t *testing.T) {
	topo := ring2D([2]int{2, 2})
	_, err := Partition(topo, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidPartition)
}

func TestPartitionInvalidArgs(t *testing.T) {
	topo := channel3D(2, [3]int{2, 2, 2})
	_, err := Partition(topo, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPartition)
	_, err = Partition(topo, 2, 3)
	assert.ErrorIs(t, err, ErrInvalidPartition)
}
