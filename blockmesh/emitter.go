package blockmesh

/*
Element emission. Interior cells walk the block row-major (i fastest) and
number their corners counter clockwise, bottom quad first in 3D. Patch
faces are emitted with the outward normal pointing out of the block,
row-major over the free axes.
*/

// emitBlockCells appends the refined cells of block b, resolving local node
// ids through the indexer (which allocates ghost ids on the fly).
func emitBlockCells(ix *indexer, b int, cells [][]int) [][]int {
	segs := ix.blocks[b].segments
	if ix.dim == 3 {
		for k := 0; k < segs[2]; k++ {
			for j := 0; j < segs[1]; j++ {
				for i := 0; i < segs[0]; i++ {
					cells = append(cells, []int{
						ix.localIndex(b, [3]int{i, j, k}),
						ix.localIndex(b, [3]int{i + 1, j, k}),
						ix.localIndex(b, [3]int{i + 1, j + 1, k}),
						ix.localIndex(b, [3]int{i, j + 1, k}),
						ix.localIndex(b, [3]int{i, j, k + 1}),
						ix.localIndex(b, [3]int{i + 1, j, k + 1}),
						ix.localIndex(b, [3]int{i + 1, j + 1, k + 1}),
						ix.localIndex(b, [3]int{i, j + 1, k + 1}),
					})
				}
			}
		}
		return cells
	}
	for j := 0; j < segs[1]; j++ {
		for i := 0; i < segs[0]; i++ {
			cells = append(cells, []int{
				ix.localIndex(b, [3]int{i, j, 0}),
				ix.localIndex(b, [3]int{i + 1, j, 0}),
				ix.localIndex(b, [3]int{i + 1, j + 1, 0}),
				ix.localIndex(b, [3]int{i, j + 1, 0}),
			})
		}
	}
	return cells
}

// emitPatchFace appends the surface elements covering one boundary face of
// block b.
func emitPatchFace(ix *indexer, b, face int, faces [][]int) [][]int {
	var (
		segs      = ix.blocks[b].segments
		axis, dir = faceAxis(ix.dim, face)
		neg       = dir < 0
	)
	if ix.dim == 2 {
		switch axis {
		case 0:
			i := 0
			if !neg {
				i = segs[0]
			}
			for j := 0; j < segs[1]; j++ {
				elem := make([]int, 2)
				elem[flip01(!neg)] = ix.localIndex(b, [3]int{i, j, 0})
				elem[flip01(neg)] = ix.localIndex(b, [3]int{i, j + 1, 0})
				faces = append(faces, elem)
			}
		case 1:
			j := 0
			if !neg {
				j = segs[1]
			}
			for i := 0; i < segs[0]; i++ {
				elem := make([]int, 2)
				elem[flip01(neg)] = ix.localIndex(b, [3]int{i, j, 0})
				elem[flip01(!neg)] = ix.localIndex(b, [3]int{i + 1, j, 0})
				faces = append(faces, elem)
			}
		}
		return faces
	}
	switch axis {
	case 0:
		i := 0
		if !neg {
			i = segs[0]
		}
		for k := 0; k < segs[2]; k++ {
			for j := 0; j < segs[1]; j++ {
				elem := make([]int, 4)
				elem[0] = ix.localIndex(b, [3]int{i, j, k})
				elem[flip13(neg)] = ix.localIndex(b, [3]int{i, j, k + 1})
				elem[2] = ix.localIndex(b, [3]int{i, j + 1, k + 1})
				elem[flip13(!neg)] = ix.localIndex(b, [3]int{i, j + 1, k})
				faces = append(faces, elem)
			}
		}
	case 1:
		j := 0
		if !neg {
			j = segs[1]
		}
		for k := 0; k < segs[2]; k++ {
			for i := 0; i < segs[0]; i++ {
				elem := make([]int, 4)
				elem[0] = ix.localIndex(b, [3]int{i, j, k})
				elem[flip13(!neg)] = ix.localIndex(b, [3]int{i, j, k + 1})
				elem[2] = ix.localIndex(b, [3]int{i + 1, j, k + 1})
				elem[flip13(neg)] = ix.localIndex(b, [3]int{i + 1, j, k})
				faces = append(faces, elem)
			}
		}
	case 2:
		k := 0
		if !neg {
			k = segs[2]
		}
		for j := 0; j < segs[1]; j++ {
			for i := 0; i < segs[0]; i++ {
				elem := make([]int, 4)
				elem[0] = ix.localIndex(b, [3]int{i, j, k})
				elem[flip13(neg)] = ix.localIndex(b, [3]int{i, j + 1, k})
				elem[2] = ix.localIndex(b, [3]int{i + 1, j + 1, k})
				elem[flip13(!neg)] = ix.localIndex(b, [3]int{i + 1, j, k})
				faces = append(faces, elem)
			}
		}
	}
	return faces
}

// flip01 selects connectivity slot 0 when cond holds, else 1.
func flip01(cond bool) int {
	if cond {
		return 0
	}
	return 1
}

// flip13 selects connectivity slot 1 when cond holds, else 3.
func flip13(cond bool) int {
	if cond {
		return 1
	}
	return 3
}
