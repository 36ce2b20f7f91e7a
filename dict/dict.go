// Package dict reads and writes the on-disk block mesh dictionary: a YAML
// document naming the corner points, blocks, gradings, patches and the
// optional block distribution of a mesh.
package dict

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"

	"github.com/cfdmesh/structmesh/blockmesh"
	"github.com/cfdmesh/structmesh/types"
)

// BlockSpec describes one block of the dictionary. Grading may be empty
// (uniform), one ratio per axis, or the full per-edge list (4 in 2D, 12 in
// 3D).
type BlockSpec struct {
	Corners  []int     `yaml:"Corners"`
	Segments []int     `yaml:"Segments"`
	Grading  []float64 `yaml:"Grading,omitempty"`
}

// PatchSpec names a boundary patch and its faces.
type PatchSpec struct {
	Name  string  `yaml:"Name"`
	Type  string  `yaml:"Type,omitempty"`
	Faces [][]int `yaml:"Faces"`
}

// MeshDict is the document root.
type MeshDict struct {
	Title        string      `yaml:"Title,omitempty"`
	Dimension    int         `yaml:"Dimension,omitempty"`
	Scale        float64     `yaml:"Scale,omitempty"`
	Points       [][]float64 `yaml:"Points"`
	Blocks       []BlockSpec `yaml:"Blocks"`
	Patches      []PatchSpec `yaml:"Patches,omitempty"`
	Distribution []int       `yaml:"Distribution,omitempty"`
}

func (md *MeshDict) Parse(data []byte) error {
	return yaml.Unmarshal(data, md)
}

// ReadFile loads and parses a dictionary file.
func ReadFile(path string) (md *MeshDict, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	md = &MeshDict{}
	if err = md.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return md, nil
}

// Marshal renders the dictionary as YAML.
func (md *MeshDict) Marshal() ([]byte, error) {
	return yaml.Marshal(md)
}

// WriteFile marshals the dictionary back to YAML.
func (md *MeshDict) WriteFile(path string) error {
	data, err := md.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (md *MeshDict) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", md.Title)
	fmt.Printf("[%d]\t\t\t= Dimension\n", md.dimension())
	fmt.Printf("%8.5f\t\t= Scale\n", md.scale())
	fmt.Printf("[%d]\t\t\t= Points\n", len(md.Points))
	fmt.Printf("[%d]\t\t\t= Blocks\n", len(md.Blocks))
	for _, p := range md.Patches {
		fmt.Printf("Patch[%s] type=%s faces=%d\n", p.Name, p.Type, len(p.Faces))
	}
	if md.Distribution != nil {
		fmt.Printf("%v\t= Distribution\n", md.Distribution)
	}
}

func (md *MeshDict) dimension() int {
	if md.Dimension != 0 {
		return md.Dimension
	}
	if len(md.Points) != 0 {
		return len(md.Points[0])
	}
	return 0
}

func (md *MeshDict) scale() float64 {
	if md.Scale == 0 {
		return 1
	}
	return md.Scale
}

// Topology converts the dictionary into the generator's topology, applying
// the scaling factor and expanding shorthand gradings.
func (md *MeshDict) Topology() (*blockmesh.Topology, error) {
	t := &blockmesh.Topology{Dimension: md.dimension()}
	t.Points = make([][]float64, len(md.Points))
	for p, point := range md.Points {
		t.Points[p] = append([]float64(nil), point...)
	}
	for b, spec := range md.Blocks {
		t.Blocks = append(t.Blocks, append([]int(nil), spec.Corners...))
		t.Segments = append(t.Segments, append([]int(nil), spec.Segments...))
		grading, err := expandGrading(spec.Grading, t.Dimension)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", b, err)
		}
		t.Gradings = append(t.Gradings, grading)
	}
	for _, p := range md.Patches {
		faces := make([][]int, len(p.Faces))
		for f, face := range p.Faces {
			faces[f] = append([]int(nil), face...)
		}
		tag := types.NewBCTAG(p.Type)
		t.Patches = append(t.Patches, blockmesh.Patch{Name: p.Name, Tag: tag, Faces: faces})
	}
	if md.Distribution != nil {
		t.Distribution = append([]int(nil), md.Distribution...)
	}
	if s := md.scale(); s != 1 {
		t.Scale(s)
	}
	if err := t.Check(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromTopology renders a topology back into dictionary form, with fully
// expanded gradings. Point coordinates are emitted as-is (Scale 1).
func FromTopology(t *blockmesh.Topology, title string) *MeshDict {
	md := &MeshDict{Title: title, Dimension: t.Dimension}
	md.Points = make([][]float64, len(t.Points))
	for p, point := range t.Points {
		md.Points[p] = append([]float64(nil), point...)
	}
	for b := range t.Blocks {
		md.Blocks = append(md.Blocks, BlockSpec{
			Corners:  append([]int(nil), t.Blocks[b]...),
			Segments: append([]int(nil), t.Segments[b]...),
			Grading:  append([]float64(nil), t.Gradings[b]...),
		})
	}
	for _, patch := range t.Patches {
		faces := make([][]int, len(patch.Faces))
		for f, face := range patch.Faces {
			faces[f] = append([]int(nil), face...)
		}
		md.Patches = append(md.Patches, PatchSpec{Name: patch.Name, Type: string(patch.Tag), Faces: faces})
	}
	if t.Distribution != nil {
		md.Distribution = append([]int(nil), t.Distribution...)
	}
	return md
}

func expandGrading(g []float64, dim int) ([]float64, error) {
	perAxis := 2
	if dim == 3 {
		perAxis = 4
	}
	full := dim * perAxis
	switch len(g) {
	case 0:
		out := make([]float64, full)
		for i := range out {
			out[i] = 1
		}
		return out, nil
	case dim:
		out := make([]float64, 0, full)
		for d := 0; d < dim; d++ {
			for e := 0; e < perAxis; e++ {
				out = append(out, g[d])
			}
		}
		return out, nil
	case full:
		return append([]float64(nil), g...), nil
	default:
		return nil, fmt.Errorf("%w: grading needs 0, %d or %d entries, got %d",
			blockmesh.ErrInvalidGrading, dim, full, len(g))
	}
}
