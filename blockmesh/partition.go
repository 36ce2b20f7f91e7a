package blockmesh

import (
	"fmt"
	"log"
)

/*
Partition rewrites the topology into an equivalent one whose blocks fall
into nbParts contiguous ranges of roughly equal element count, sweeping
layers of blocks along the given axis. When a layer would overshoot the
partition target the frontmost blocks are cut mid-grading: each is split
into a left part holding the remaining slice budget and a right part with
the rest, with the gradings of both halves adjusted so the refined node
positions are unchanged.

The input topology is not modified; cut points are appended to the output
point cloud and the original corner coordinates are left untouched until
the sweep completes.
*/
func Partition(t *Topology, nbParts, axis int) (*Topology, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}
	if axis < 0 || axis >= t.Dimension {
		return nil, fmt.Errorf("%w: partition axis %d for dimension %d", ErrInvalidPartition, axis, t.Dimension)
	}
	if nbParts < 1 {
		return nil, fmt.Errorf("%w: %d partitions requested", ErrInvalidPartition, nbParts)
	}
	conn, err := buildConnectivity(t)
	if err != nil {
		return nil, err
	}

	var (
		dim       = t.Dimension
		nbBlocks  = t.NbBlocks()
		startFace = negativeFace(dim, axis)
		endFace   = positiveFace(dim, axis)
		edges     = axisEdges(dim, axis)
		gradBase  = t.EdgesPerAxis() * axis
	)
	var transverse []int
	for d := 0; d < dim; d++ {
		if d != axis {
			transverse = append(transverse, negativeFace(dim, d), positiveFace(dim, d))
		}
	}

	// The starting layer: blocks whose negative face along the axis lies
	// on the boundary, restricted to those whose transverse neighbors
	// start there too, so a sweep front exists
	var layer []int
	for b := 0; b < nbBlocks; b++ {
		if !conn.boundary(b, startFace) {
			continue
		}
		isStart := true
		for _, tf := range transverse {
			if conn.boundary(b, tf) {
				continue
			}
			if !conn.boundary(conn.neighbor[b][tf].Block, startFace) {
				isStart = false
				break
			}
		}
		if isStart {
			layer = append(layer, b)
		}
	}
	if len(layer) == 0 {
		return nil, fmt.Errorf("%w: no starting layer along axis %d (no boundary to sweep from)",
			ErrInvalidPartition, axis)
	}

	// Working copy: segments and gradings shrink as blocks are cut
	work := t.Clone()

	out := &Topology{Dimension: dim}
	out.Points = make([][]float64, len(t.Points))
	for p, point := range t.Points {
		out.Points[p] = append([]float64(nil), point...)
	}
	out.Patches = make([]Patch, len(t.Patches))
	for i, patch := range t.Patches {
		out.Patches[i] = Patch{Name: patch.Name, Tag: patch.Tag}
	}

	// startMapping[p] is the point currently standing at original start
	// corner p of a (possibly shrunk) block; endMapping[p] likewise for
	// end corners
	startMapping := make([]int, len(t.Points))
	endMapping := make([]int, len(t.Points))
	for p := range startMapping {
		startMapping[p] = p
		endMapping[p] = p
	}

	var (
		total         = t.NbCells()
		partitionSize = (total + nbParts - 1) / nbParts
		nbPartitioned = 0
	)
	for part := 0; part < nbParts; part++ {
		out.Distribution = append(out.Distribution, len(out.Blocks))

		sliceSize := 0
		for _, b := range layer {
			n := 1
			for d := 0; d < dim; d++ {
				if d != axis {
					n *= work.Segments[b][d]
				}
			}
			sliceSize += n
		}
		partSlices := (partitionSize + sliceSize - 1) / sliceSize
		if nbPartitioned+partSlices*sliceSize > total {
			if part != nbParts-1 {
				return nil, fmt.Errorf("%w: partition %d overshoots the element count", ErrInvalidPartition, part)
			}
			remaining := total - nbPartitioned
			if remaining%sliceSize != 0 {
				return nil, fmt.Errorf("%w: %d remaining elements do not fill whole slices of %d",
					ErrInvalidPartition, remaining, sliceSize)
			}
			partSlices = remaining / sliceSize
		}
		nbPartitioned += partSlices * sliceSize

		for partSlices > 0 {
			if len(layer) == 0 {
				return nil, fmt.Errorf("%w: ran out of block layers along axis %d", ErrInvalidPartition, axis)
			}
			blockSlices := work.Segments[layer[0]][axis]
			for _, b := range layer {
				if work.Segments[b][axis] != blockSlices {
					return nil, fmt.Errorf("%w: blocks %d and %d disagree on slice count along axis %d",
						ErrInvalidPartition, layer[0], b, axis)
				}
			}

			// New blocks, start corners resolved through the mapping as it
			// stands before this pass
			newBlocks := make([][]int, len(layer))
			for li, b := range layer {
				corners := make([]int, t.CornersPerBlock())
				for _, edge := range edges {
					corners[edge[0]] = startMapping[t.Blocks[b][edge[0]]]
				}
				newBlocks[li] = corners
			}

			advance := false
			var nextLayer []int
			if blockSlices > partSlices {
				// Cut the whole layer at partSlices
				cut := partSlices
				nodeIsMapped := make(map[int]bool)
				for _, b := range layer {
					mc, mcErr := MappedCoords(blockSlices, work.Gradings[b][gradBase:gradBase+len(edges)])
					if mcErr != nil {
						return nil, mcErr
					}
					newGradings := append([]float64(nil), work.Gradings[b]...)
					for e, edge := range edges {
						origStart := t.Blocks[b][edge[0]]
						origEnd := t.Blocks[b][edge[1]]

						if !nodeIsMapped[origEnd] {
							nodeIsMapped[origEnd] = true
							// Place the cut point on the current edge span
							xi := mc.At(cut, e)
							curStart := out.Points[startMapping[origStart]]
							endPoint := t.Points[origEnd]
							point := make([]float64, len(endPoint))
							for d := range point {
								point[d] = 0.5*(1.-xi)*curStart[d] + 0.5*(1.+xi)*endPoint[d]
							}

							endMapping[origEnd] = len(out.Points)
							out.Points = append(out.Points, point)
							startMapping[origStart] = endMapping[origEnd]
						}

						// Expansion ratios of the two halves: consecutive
						// slice spacings straddling the cut
						newGradings[gradBase+e] = (mc.At(cut, e) - mc.At(cut-1, e)) /
							(mc.At(1, e) - mc.At(0, e))
						work.Gradings[b][gradBase+e] = (mc.At(blockSlices, e) - mc.At(blockSlices-1, e)) /
							(mc.At(cut+1, e) - mc.At(cut, e))
					}
					newSegments := append([]int(nil), work.Segments[b]...)
					newSegments[axis] = cut
					work.Segments[b][axis] -= cut

					out.Gradings = append(out.Gradings, newGradings)
					out.Segments = append(out.Segments, newSegments)
				}
				partSlices = 0
			} else {
				// The layer fits whole; the sweep advances through the
				// positive-direction neighbors
				for _, b := range layer {
					out.Gradings = append(out.Gradings, append([]float64(nil), work.Gradings[b]...))
					out.Segments = append(out.Segments, append([]int(nil), work.Segments[b]...))
					for _, edge := range edges {
						origEnd := t.Blocks[b][edge[1]]
						endMapping[origEnd] = origEnd
					}
					if !conn.boundary(b, endFace) {
						nextLayer = append(nextLayer, conn.neighbor[b][endFace].Block)
					}
				}
				// Grow the layer transversely to pick up newly reached
				// blocks
				for i := 0; i < len(nextLayer); i++ {
					for _, tf := range transverse {
						if conn.boundary(nextLayer[i], tf) {
							continue
						}
						nb := conn.neighbor[nextLayer[i]][tf].Block
						if !containsInt(nextLayer, nb) {
							nextLayer = append(nextLayer, nb)
						}
					}
				}
				partSlices -= blockSlices
				advance = true
			}

			for li, b := range layer {
				for _, edge := range edges {
					newBlocks[li][edge[1]] = endMapping[t.Blocks[b][edge[1]]]
				}
				out.Blocks = append(out.Blocks, newBlocks[li])

				// Transverse patch faces follow each emitted block
				for _, tf := range transverse {
					if patchIdx := conn.patch[b][tf]; patchIdx >= 0 {
						local := faceCorners(dim, tf)
						face := make([]int, len(local))
						for i, lc := range local {
							face[i] = newBlocks[li][lc]
						}
						out.Patches[patchIdx].Faces = append(out.Patches[patchIdx].Faces, face)
					}
				}
			}
			if advance {
				layer = nextLayer
			}
		}
	}
	out.Distribution = append(out.Distribution, len(out.Blocks))

	// Start and end patches keep their original corner points
	for b := 0; b < nbBlocks; b++ {
		for _, lf := range [2]int{startFace, endFace} {
			if patchIdx := conn.patch[b][lf]; patchIdx >= 0 {
				local := faceCorners(dim, lf)
				face := make([]int, len(local))
				for i, lc := range local {
					face[i] = t.Blocks[b][lc]
				}
				out.Patches[patchIdx].Faces = append(out.Patches[patchIdx].Faces, face)
			}
		}
	}

	if nbPartitioned != total {
		log.Printf("partitioner placed %d of %d elements; check the block layout along axis %d",
			nbPartitioned, total, axis)
	}
	return out, nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
