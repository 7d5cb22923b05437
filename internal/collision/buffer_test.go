package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/voxelphys/internal/phys"
)

func TestSortDedup(t *testing.T) {
	b := New(8)
	b.PushPair(5, 2)
	b.PushPair(2, 5)
	b.PushPair(1, 3)
	b.PushPair(3, 1)
	b.PushPair(1, 2)
	b.SortDedup()

	if b.PairCount() != 3 {
		t.Fatalf("expected 3 unique pairs, got %d", b.PairCount())
	}

	want := []phys.ContactPair{{A: 1, B: 2}, {A: 1, B: 3}, {A: 2, B: 5}}
	for i, w := range want {
		if b.Pair(i) != w {
			t.Errorf("pair %d: expected %v, got %v", i, w, b.Pair(i))
		}
	}
}

func TestPushPairsMerge(t *testing.T) {
	b := New(4)
	b.PushPairs([]phys.ContactPair{{A: 0, B: 1}, {A: 2, B: 3}})
	b.PushPairs([]phys.ContactPair{{A: 0, B: 1}})
	b.SortDedup()

	if b.PairCount() != 2 {
		t.Errorf("expected 2 pairs after merge, got %d", b.PairCount())
	}
}

func TestContactCap(t *testing.T) {
	b := New(1)
	b.PushPair(0, 1)
	b.SortDedup()

	c := phys.Contact{Normal: mgl32.Vec3{0, 1, 0}, Depth: 0.1}
	for i := 0; i < phys.MaxContactsPerPair+3; i++ {
		b.PushContact(0, c)
	}

	m := b.ManifoldAt(0)
	if m.Count != phys.MaxContactsPerPair {
		t.Errorf("expected %d stored contacts, got %d", phys.MaxContactsPerPair, m.Count)
	}
	if m.Dropped != 3 {
		t.Errorf("expected 3 dropped, got %d", m.Dropped)
	}
	if b.DroppedContacts() != 3 {
		t.Errorf("expected buffer total 3 dropped, got %d", b.DroppedContacts())
	}
	if b.ContactCount() != phys.MaxContactsPerPair {
		t.Errorf("unexpected contact count %d", b.ContactCount())
	}
	if b.ManifoldCount() != 1 {
		t.Errorf("expected 1 manifold, got %d", b.ManifoldCount())
	}
}

func TestClearReuses(t *testing.T) {
	b := New(2)
	b.PushPair(0, 1)
	b.SortDedup()
	b.PushContact(0, phys.Contact{Depth: 0.5})

	b.Clear()
	if b.PairCount() != 0 || b.ContactCount() != 0 {
		t.Error("expected empty buffer after clear")
	}

	b.PushPair(4, 2)
	b.SortDedup()
	if m := b.ManifoldAt(0); m.Count != 0 || m.Dropped != 0 {
		t.Errorf("manifold not reset: %+v", m)
	}
}
