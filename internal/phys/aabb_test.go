package phys

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBoxAt(t *testing.T) {
	b := BoxAt(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0.5, 1, 0.5})
	if b.Min != (mgl32.Vec3{0.5, 1, 2.5}) || b.Max != (mgl32.Vec3{1.5, 3, 3.5}) {
		t.Errorf("unexpected box: %+v", b)
	}
	if b.Center() != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("center should be the body position, got %v", b.Center())
	}
}

func TestIntersects(t *testing.T) {
	a := BoxAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	b := BoxAt(mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{1, 1, 1})
	c := BoxAt(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{1, 1, 1})

	if !a.Intersects(b) {
		t.Error("overlapping boxes must intersect")
	}
	if a.Intersects(c) {
		t.Error("separated boxes must not intersect")
	}

	// Touching faces count.
	d := BoxAt(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{1, 1, 1})
	if !a.Intersects(d) {
		t.Error("touching boxes must intersect")
	}
}

func TestOverlap(t *testing.T) {
	a := BoxAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	b := BoxAt(mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{1, 1, 1})

	if got := a.Overlap(b, 0); got != 0.5 {
		t.Errorf("expected overlap 0.5 on x, got %g", got)
	}
	if got := a.Overlap(b, 1); got != 2 {
		t.Errorf("expected full overlap 2 on y, got %g", got)
	}

	c := BoxAt(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{1, 1, 1})
	if got := a.Overlap(c, 0); got >= 0 {
		t.Errorf("expected negative overlap when separated, got %g", got)
	}
}

func TestTranslatedUnion(t *testing.T) {
	a := BoxAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	moved := a.Translated(mgl32.Vec3{2, 0, 0})
	if moved.Min[0] != 1 || moved.Max[0] != 3 {
		t.Errorf("unexpected translation: %+v", moved)
	}

	u := a.Union(moved)
	if u.Min[0] != -1 || u.Max[0] != 3 {
		t.Errorf("unexpected union: %+v", u)
	}
}
