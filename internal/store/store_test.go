package store

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/voxelphys/internal/phys"
)

func TestAddDefaults(t *testing.T) {
	s, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	id, err := s.Add(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, -1, 0}, 2.0, mgl32.Vec3{0.5, 0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}

	if s.Position(id) != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("unexpected position %v", s.Position(id))
	}
	if s.InvMass(id) != 0.5 {
		t.Errorf("expected inverse mass 0.5, got %g", s.InvMass(id))
	}
	if s.Restitution(id) != DefaultRestitution || s.Friction(id) != DefaultFriction {
		t.Error("material defaults not applied")
	}
	if s.Group(id) != 1 || s.Mask(id) != ^uint32(0) {
		t.Error("expected default filter group 1, mask all")
	}
}

func TestSetMaterialDefaults(t *testing.T) {
	s, _ := New(8)
	s.SetMaterialDefaults(Defaults{Restitution: 0.9, Friction: 0.1, Drag: 0, GravityScale: 2})

	id, _ := s.Add(mgl32.Vec3{}, mgl32.Vec3{}, 1.0, mgl32.Vec3{0.5, 0.5, 0.5})
	if s.Restitution(id) != 0.9 || s.GravityScale(id) != 2 {
		t.Error("configured defaults not applied to new entity")
	}
}

func TestStaticBody(t *testing.T) {
	s, _ := New(8)
	id, err := s.Add(mgl32.Vec3{}, mgl32.Vec3{5, 5, 5}, 0, mgl32.Vec3{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}

	if !s.Static(id) {
		t.Error("zero mass must be static")
	}
	if s.Velocity(id) != (mgl32.Vec3{}) {
		t.Error("static body velocity must be zeroed on add")
	}

	s.SetVelocity(id, mgl32.Vec3{1, 0, 0})
	if s.Velocity(id) != (mgl32.Vec3{}) {
		t.Error("static body velocity must stay pinned to zero")
	}
}

func TestCapacity(t *testing.T) {
	s, _ := New(2)
	for i := 0; i < 2; i++ {
		if _, err := s.Add(mgl32.Vec3{}, mgl32.Vec3{}, 1, mgl32.Vec3{1, 1, 1}); err != nil {
			t.Fatal(err)
		}
	}
	_, err := s.Add(mgl32.Vec3{}, mgl32.Vec3{}, 1, mgl32.Vec3{1, 1, 1})
	if !errors.Is(err, phys.ErrStoreFull) {
		t.Errorf("expected ErrStoreFull, got %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("failed add must not grow the store, len %d", s.Len())
	}
}

func TestNewRejectsBadCapacity(t *testing.T) {
	if _, err := New(0); !errors.Is(err, phys.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRemoveSwapsLast(t *testing.T) {
	s, _ := New(8)
	a, _ := s.Add(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}, 1, mgl32.Vec3{1, 1, 1})
	_, _ = s.Add(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{}, 1, mgl32.Vec3{1, 1, 1})
	c, _ := s.Add(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{}, 3, mgl32.Vec3{1, 1, 1})

	moved, err := s.Remove(a)
	if err != nil {
		t.Fatal(err)
	}
	if moved != c {
		t.Errorf("expected last id %d to move, got %d", c, moved)
	}
	if s.Len() != 2 {
		t.Errorf("expected len 2, got %d", s.Len())
	}
	// c's state now lives in slot a.
	if s.Position(a) != (mgl32.Vec3{3, 0, 0}) || s.Mass(a) != 3 {
		t.Error("moved entity state not copied into freed slot")
	}
}

func TestRemoveLast(t *testing.T) {
	s, _ := New(8)
	a, _ := s.Add(mgl32.Vec3{}, mgl32.Vec3{}, 1, mgl32.Vec3{1, 1, 1})

	moved, err := s.Remove(a)
	if err != nil {
		t.Fatal(err)
	}
	if moved != phys.InvalidEntity {
		t.Errorf("removing the last slot must return InvalidEntity, got %d", moved)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, len %d", s.Len())
	}
}

func TestRemoveUnknown(t *testing.T) {
	s, _ := New(8)
	if _, err := s.Remove(5); !errors.Is(err, phys.ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestSetMassUpdatesInverse(t *testing.T) {
	s, _ := New(8)
	id, _ := s.Add(mgl32.Vec3{}, mgl32.Vec3{}, 1, mgl32.Vec3{1, 1, 1})

	s.SetMass(id, 4)
	if s.InvMass(id) != 0.25 {
		t.Errorf("expected inverse mass 0.25, got %g", s.InvMass(id))
	}

	s.SetMass(id, 0)
	if !s.Static(id) {
		t.Error("setting mass to zero must make the body static")
	}
}

func TestDegenerate(t *testing.T) {
	s, _ := New(8)
	ok, _ := s.Add(mgl32.Vec3{}, mgl32.Vec3{}, 1, mgl32.Vec3{0.5, 0.5, 0.5})
	if s.Degenerate(ok) {
		t.Error("healthy entity reported degenerate")
	}

	nan, _ := s.Add(mgl32.Vec3{math32.NaN(), 0, 0}, mgl32.Vec3{}, 1, mgl32.Vec3{0.5, 0.5, 0.5})
	if !s.Degenerate(nan) {
		t.Error("NaN position not reported degenerate")
	}

	flat, _ := s.Add(mgl32.Vec3{}, mgl32.Vec3{}, 1, mgl32.Vec3{0.5, 0, 0.5})
	if !s.Degenerate(flat) {
		t.Error("non-positive half extent not reported degenerate")
	}
}

func TestBoxAt(t *testing.T) {
	s, _ := New(8)
	id, _ := s.Add(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{}, 1, mgl32.Vec3{0.5, 0.5, 0.5})

	box := s.BoxAt(id)
	if box.Min != (mgl32.Vec3{-0.5, 0.5, -0.5}) || box.Max != (mgl32.Vec3{0.5, 1.5, 0.5}) {
		t.Errorf("unexpected box %+v", box)
	}
}
