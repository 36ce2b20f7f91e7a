package blockmesh

/*
Node placement by trans-finite interpolation: the mapped coordinate of each
structured node is a weighted blend of the per-edge grading sequences, and
the block's shape function carries the blended coordinate into real space.
When all edges along an axis share a grading the blend collapses to that
single sequence and the map reduces to plain bi/trilinear interpolation.
*/

func fillBlockCoordinates3D(t *Topology, ix *indexer, b int, coords [][]float64) error {
	var (
		corners = blockCorners(t, b)
		segs    = t.Segments[b]
		shape   = Hexa8{}
		sf      = make([]float64, 8)
		out     = make([]float64, 3)
		mapped  [3]float64
		w       [4][3]float64
		wMag    [3]float64
	)
	ksi, err := MappedCoords(segs[0], t.Gradings[b][0:4])
	if err != nil {
		return err
	}
	eta, err := MappedCoords(segs[1], t.Gradings[b][4:8])
	if err != nil {
		return err
	}
	zta, err := MappedCoords(segs[2], t.Gradings[b][8:12])
	if err != nil {
		return err
	}

	for k := 0; k <= segs[2]; k++ {
		for j := 0; j <= segs[1]; j++ {
			for i := 0; i <= segs[0]; i++ {
				// Edge weights after the classic blockMesh blend: each
				// weight vanishes on the three edges furthest from its own
				w[0][0] = (1.-ksi.At(i, 0))*(1.-eta.At(j, 0))*(1.-zta.At(k, 0)) + (1.+ksi.At(i, 0))*(1.-eta.At(j, 1))*(1.-zta.At(k, 1))
				w[1][0] = (1.-ksi.At(i, 1))*(1.+eta.At(j, 0))*(1.-zta.At(k, 3)) + (1.+ksi.At(i, 1))*(1.+eta.At(j, 1))*(1.-zta.At(k, 2))
				w[2][0] = (1.-ksi.At(i, 2))*(1.+eta.At(j, 3))*(1.+zta.At(k, 3)) + (1.+ksi.At(i, 2))*(1.+eta.At(j, 2))*(1.+zta.At(k, 2))
				w[3][0] = (1.-ksi.At(i, 3))*(1.-eta.At(j, 3))*(1.+zta.At(k, 0)) + (1.+ksi.At(i, 3))*(1.-eta.At(j, 2))*(1.+zta.At(k, 1))
				wMag[0] = w[0][0] + w[1][0] + w[2][0] + w[3][0]

				w[0][1] = (1.-eta.At(j, 0))*(1.-ksi.At(i, 0))*(1.-zta.At(k, 0)) + (1.+eta.At(j, 0))*(1.-ksi.At(i, 1))*(1.-zta.At(k, 3))
				w[1][1] = (1.-eta.At(j, 1))*(1.+ksi.At(i, 0))*(1.-zta.At(k, 1)) + (1.+eta.At(j, 1))*(1.+ksi.At(i, 1))*(1.-zta.At(k, 2))
				w[2][1] = (1.-eta.At(j, 2))*(1.+ksi.At(i, 3))*(1.+zta.At(k, 1)) + (1.+eta.At(j, 2))*(1.+ksi.At(i, 2))*(1.+zta.At(k, 2))
				w[3][1] = (1.-eta.At(j, 3))*(1.-ksi.At(i, 3))*(1.+zta.At(k, 0)) + (1.+eta.At(j, 3))*(1.-ksi.At(i, 2))*(1.+zta.At(k, 3))
				wMag[1] = w[0][1] + w[1][1] + w[2][1] + w[3][1]

				w[0][2] = (1.-zta.At(k, 0))*(1.-ksi.At(i, 0))*(1.-eta.At(j, 0)) + (1.+zta.At(k, 0))*(1.-ksi.At(i, 3))*(1.-eta.At(j, 3))
				w[1][2] = (1.-zta.At(k, 1))*(1.+ksi.At(i, 0))*(1.-eta.At(j, 1)) + (1.+zta.At(k, 1))*(1.+ksi.At(i, 3))*(1.-eta.At(j, 2))
				w[2][2] = (1.-zta.At(k, 2))*(1.+ksi.At(i, 1))*(1.+eta.At(j, 1)) + (1.+zta.At(k, 2))*(1.+ksi.At(i, 2))*(1.+eta.At(j, 2))
				w[3][2] = (1.-zta.At(k, 3))*(1.-ksi.At(i, 1))*(1.+eta.At(j, 0)) + (1.+zta.At(k, 3))*(1.-ksi.At(i, 2))*(1.+eta.At(j, 3))
				wMag[2] = w[0][2] + w[1][2] + w[2][2] + w[3][2]

				mapped[0] = (w[0][0]*ksi.At(i, 0) + w[1][0]*ksi.At(i, 1) + w[2][0]*ksi.At(i, 2) + w[3][0]*ksi.At(i, 3)) / wMag[0]
				mapped[1] = (w[0][1]*eta.At(j, 0) + w[1][1]*eta.At(j, 1) + w[2][1]*eta.At(j, 2) + w[3][1]*eta.At(j, 3)) / wMag[1]
				mapped[2] = (w[0][2]*zta.At(k, 0) + w[1][2]*zta.At(k, 1) + w[2][2]*zta.At(k, 2) + w[3][2]*zta.At(k, 3)) / wMag[2]

				mapToReal(shape, mapped[:], corners, sf, out)
				copy(coords[ix.localIndex(b, [3]int{i, j, k})], out)
			}
		}
	}
	return nil
}

func fillBlockCoordinates2D(t *Topology, ix *indexer, b int, coords [][]float64) error {
	var (
		corners = blockCorners(t, b)
		segs    = t.Segments[b]
		shape   = Quad4{}
		sf      = make([]float64, 4)
		out     = make([]float64, 2)
		mapped  [2]float64
		w       [2][2]float64
		wMag    [2]float64
	)
	ksi, err := MappedCoords(segs[0], t.Gradings[b][0:2])
	if err != nil {
		return err
	}
	eta, err := MappedCoords(segs[1], t.Gradings[b][2:4])
	if err != nil {
		return err
	}

	for j := 0; j <= segs[1]; j++ {
		for i := 0; i <= segs[0]; i++ {
			w[0][0] = (1.-ksi.At(i, 0))*(1.-eta.At(j, 0)) + (1.+ksi.At(i, 0))*(1.-eta.At(j, 1))
			w[1][0] = (1.-ksi.At(i, 1))*(1.+eta.At(j, 0)) + (1.+ksi.At(i, 1))*(1.+eta.At(j, 1))
			wMag[0] = w[0][0] + w[1][0]

			w[0][1] = (1.-eta.At(j, 0))*(1.-ksi.At(i, 0)) + (1.+eta.At(j, 0))*(1.-ksi.At(i, 1))
			w[1][1] = (1.-eta.At(j, 1))*(1.+ksi.At(i, 0)) + (1.+eta.At(j, 1))*(1.+ksi.At(i, 1))
			wMag[1] = w[0][1] + w[1][1]

			mapped[0] = (w[0][0]*ksi.At(i, 0) + w[1][0]*ksi.At(i, 1)) / wMag[0]
			mapped[1] = (w[0][1]*eta.At(j, 0) + w[1][1]*eta.At(j, 1)) / wMag[1]

			mapToReal(shape, mapped[:], corners, sf, out)
			copy(coords[ix.localIndex(b, [3]int{i, j, 0})], out)
		}
	}
	return nil
}
