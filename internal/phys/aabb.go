package phys

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box. Boxes are always derived from
// position and half-extents right before they are needed; they are never
// stored as ground truth.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BoxAt derives the AABB of a body centered at pos with the given
// half-extents.
func BoxAt(pos, half mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{pos[0] - half[0], pos[1] - half[1], pos[2] - half[2]},
		Max: mgl32.Vec3{pos[0] + half[0], pos[1] + half[1], pos[2] + half[2]},
	}
}

// Intersects reports whether the boxes overlap on all three axes. Touching
// faces count as intersecting.
func (a AABB) Intersects(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// Overlap returns the penetration depth along the given axis, negative when
// the boxes are separated on that axis.
func (a AABB) Overlap(b AABB, axis int) float32 {
	return math32.Min(a.Max[axis], b.Max[axis]) - math32.Max(a.Min[axis], b.Min[axis])
}

// Center returns the box midpoint.
func (a AABB) Center() mgl32.Vec3 {
	return mgl32.Vec3{
		(a.Min[0] + a.Max[0]) * 0.5,
		(a.Min[1] + a.Max[1]) * 0.5,
		(a.Min[2] + a.Max[2]) * 0.5,
	}
}

// Translated returns the box shifted by d.
func (a AABB) Translated(d mgl32.Vec3) AABB {
	return AABB{Min: a.Min.Add(d), Max: a.Max.Add(d)}
}

// Union returns the smallest box covering both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{
			math32.Min(a.Min[0], b.Min[0]),
			math32.Min(a.Min[1], b.Min[1]),
			math32.Min(a.Min[2], b.Min[2]),
		},
		Max: mgl32.Vec3{
			math32.Max(a.Max[0], b.Max[0]),
			math32.Max(a.Max[1], b.Max[1]),
			math32.Max(a.Max[2], b.Max[2]),
		},
	}
}
