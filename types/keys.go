package types

import (
	"fmt"
	"sort"
)

/*
FaceKey identifies a block face by its vertices, stored in ascending index
order so that the same physical face hashes identically no matter which
element contributed it. An edge (a 2D face) occupies the first two slots
and fills the trailing pair with -1, so edge and quad keys never collide.
*/
type FaceKey [4]int

func NewFaceKey(verts [4]int) (fk FaceKey) {
	fk = verts
	sort.Ints(fk[:])
	return
}

// NewFaceKeyFrom builds a key from 2 or 4 vertex indices.
func NewFaceKeyFrom(verts []int) (fk FaceKey) {
	switch len(verts) {
	case 2:
		fk = FaceKey{verts[0], verts[1], -1, -1}
		if fk[0] > fk[1] {
			fk[0], fk[1] = fk[1], fk[0]
		}
	case 4:
		fk = NewFaceKey([4]int{verts[0], verts[1], verts[2], verts[3]})
	default:
		panic(fmt.Errorf("face must have 2 or 4 vertices, got %d", len(verts)))
	}
	return
}
