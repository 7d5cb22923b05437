package solver

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
)

// narrowPhase tests every candidate pair precisely, in parallel by pair
// index. Each worker reads position and shape only and writes exclusively
// to its own manifold slots, so no synchronization is needed.
func (s *Solver) narrowPhase(st *store.Store) {
	pos := st.Positions()
	half := st.HalfExtentsAll()

	s.parallelFor(s.buf.PairCount(), func(_, start, end int) {
		for i := start; i < end; i++ {
			pair := s.buf.Pair(i)
			boxA := phys.BoxAt(pos[pair.A], half[pair.A])
			boxB := phys.BoxAt(pos[pair.B], half[pair.B])

			if c, ok := boxContact(boxA, boxB); ok {
				s.buf.PushContact(i, c)
			}
		}
	})
}

// boxContact computes the contact between two overlapping AABBs: the
// penetration depth and separating-axis normal along the axis of minimum
// overlap, oriented from A toward B. Returns false when the boxes do not
// overlap or the overlap region is degenerate.
func boxContact(boxA, boxB phys.AABB) (phys.Contact, bool) {
	var overlap [3]float32
	minAxis := -1
	for axis := 0; axis < 3; axis++ {
		overlap[axis] = boxA.Overlap(boxB, axis)
		if overlap[axis] < 0 {
			return phys.Contact{}, false
		}
		if minAxis < 0 || overlap[axis] < overlap[minAxis] {
			minAxis = axis
		}
	}

	var normal mgl32.Vec3
	centerA := boxA.Center()
	centerB := boxB.Center()
	if centerB[minAxis] >= centerA[minAxis] {
		normal[minAxis] = 1
	} else {
		normal[minAxis] = -1
	}
	// Coincident centers on the minimum axis give an arbitrary but stable
	// direction; a zero normal is never emitted.

	region := phys.AABB{
		Min: mgl32.Vec3{
			math32.Max(boxA.Min[0], boxB.Min[0]),
			math32.Max(boxA.Min[1], boxB.Min[1]),
			math32.Max(boxA.Min[2], boxB.Min[2]),
		},
		Max: mgl32.Vec3{
			math32.Min(boxA.Max[0], boxB.Max[0]),
			math32.Min(boxA.Max[1], boxB.Max[1]),
			math32.Min(boxA.Max[2], boxB.Max[2]),
		},
	}

	return phys.Contact{
		Point:  region.Center(),
		Normal: normal,
		Depth:  overlap[minAxis],
	}, true
}
