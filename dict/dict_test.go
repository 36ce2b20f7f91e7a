package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfdmesh/structmesh/blockmesh"
	"github.com/cfdmesh/structmesh/types"
)

const channelDict = `
Title: "Two block channel"
Scale: 2.0
Points:
  - [0, 0, 0]
  - [1, 0, 0]
  - [2, 0, 0]
  - [0, 1, 0]
  - [1, 1, 0]
  - [2, 1, 0]
  - [0, 0, 1]
  - [1, 0, 1]
  - [2, 0, 1]
  - [0, 1, 1]
  - [1, 1, 1]
  - [2, 1, 1]
Blocks:
  - Corners: [0, 1, 4, 3, 6, 7, 10, 9]
    Segments: [4, 2, 2]
  - Corners: [1, 2, 5, 4, 7, 8, 11, 10]
    Segments: [4, 2, 2]
    Grading: [2, 1, 1]
Patches:
  - Name: inlet
    Type: in
    Faces:
      - [0, 3, 9, 6]
  - Name: outlet
    Type: out
    Faces:
      - [2, 5, 11, 8]
`

func TestParseDict(t *testing.T) {
	md := &MeshDict{}
	require.NoError(t, md.Parse([]byte(channelDict)))
	assert.Equal(t, "Two block channel", md.Title)
	assert.Len(t, md.Points, 12)
	assert.Len(t, md.Blocks, 2)
	assert.Len(t, md.Patches, 2)

	topo, err := md.Topology()
	require.NoError(t, err)
	assert.Equal(t, 3, topo.Dimension)
	assert.Equal(t, 2, topo.NbBlocks())

	// scaling applied uniformly
	assert.Equal(t, []float64{4, 0, 0}, topo.Points[2])

	// shorthand gradings expand per edge
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, topo.Gradings[0])
	assert.Equal(t, []float64{2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1}, topo.Gradings[1])

	// patch order and typing survive
	assert.Equal(t, "inlet", topo.Patches[0].Name)
	assert.Equal(t, types.BC_In, topo.Patches[0].Tag.GetFLAG())
	assert.Equal(t, types.BC_Out, topo.Patches[1].Tag.GetFLAG())
}

func TestDictBadGrading(t *testing.T) {
	md := &MeshDict{
		Points: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Blocks: []BlockSpec{{
			Corners:  []int{0, 1, 2, 3},
			Segments: []int{2, 2},
			Grading:  []float64{1, 2, 3},
		}},
	}
	_, err := md.Topology()
	assert.ErrorIs(t, err, blockmesh.ErrInvalidGrading)
}

func TestDictRoundTrip(t *testing.T) {
	md := &MeshDict{}
	require.NoError(t, md.Parse([]byte(channelDict)))
	topo, err := md.Topology()
	require.NoError(t, err)

	out := FromTopology(topo, md.Title)
	data, err := out.Marshal()
	require.NoError(t, err)

	md2 := &MeshDict{}
	require.NoError(t, md2.Parse(data))
	topo2, err := md2.Topology()
	require.NoError(t, err)

	assert.Equal(t, topo.Points, topo2.Points)
	assert.Equal(t, topo.Blocks, topo2.Blocks)
	assert.Equal(t, topo.Segments, topo2.Segments)
	assert.Equal(t, topo.Gradings, topo2.Gradings)
	assert.Equal(t, topo.Patches, topo2.Patches)
}

func TestDictDimensionInferred(t *testing.T) {
	md := &MeshDict{
		Points: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Blocks: []BlockSpec{{Corners: []int{0, 1, 2, 3}, Segments: []int{2, 2}}},
	}
	topo, err := md.Topology()
	require.NoError(t, err)
	assert.Equal(t, 2, topo.Dimension)
}
