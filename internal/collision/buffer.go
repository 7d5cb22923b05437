// Package collision provides the transient per-tick collision buffer: the
// candidate-pair list filled by the broad phase and the contact manifolds
// filled by the narrow phase. Contents are cleared and rebuilt every tick;
// backing storage is reused.
package collision

import (
	"sort"

	"github.com/san-kum/voxelphys/internal/phys"
)

// Manifold holds the contact points for one candidate pair, capped at
// [phys.MaxContactsPerPair]. Excess pushes are counted, never stored.
type Manifold struct {
	Points  [phys.MaxContactsPerPair]phys.Contact
	Count   int
	Dropped int
}

// Buffer is the per-tick collision workspace. PushPair is only called
// during the single-threaded merge after broad-phase collection; the
// narrow phase writes each manifold slot from exactly one worker.
type Buffer struct {
	pairs     []phys.ContactPair
	manifolds []Manifold
}

// New returns a buffer with storage for the expected pair count.
func New(expectedPairs int) *Buffer {
	return &Buffer{
		pairs:     make([]phys.ContactPair, 0, expectedPairs),
		manifolds: make([]Manifold, 0, expectedPairs),
	}
}

// Clear resets pair and manifold counts to zero without deallocating.
func (b *Buffer) Clear() {
	b.pairs = b.pairs[:0]
	b.manifolds = b.manifolds[:0]
}

// PushPair appends a candidate pair in canonical (low id first) order.
// Duplicates are allowed here and removed by SortDedup.
func (b *Buffer) PushPair(a, bID phys.EntityID) {
	b.pairs = append(b.pairs, phys.MakePair(a, bID))
}

// PushPairs bulk-appends already-canonicalized pairs from a worker-local
// collection buffer.
func (b *Buffer) PushPairs(pairs []phys.ContactPair) {
	b.pairs = append(b.pairs, pairs...)
}

// SortDedup sorts the pair list and removes duplicates, then sizes one
// empty manifold slot per surviving pair. The sorted order is what makes
// the rest of the tick deterministic regardless of worker scheduling.
func (b *Buffer) SortDedup() {
	sort.Slice(b.pairs, func(i, j int) bool {
		if b.pairs[i].A != b.pairs[j].A {
			return b.pairs[i].A < b.pairs[j].A
		}
		return b.pairs[i].B < b.pairs[j].B
	})

	out := b.pairs[:0]
	for i, p := range b.pairs {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	b.pairs = out

	if cap(b.manifolds) < len(b.pairs) {
		b.manifolds = make([]Manifold, len(b.pairs))
	} else {
		b.manifolds = b.manifolds[:len(b.pairs)]
		for i := range b.manifolds {
			b.manifolds[i] = Manifold{}
		}
	}
}

// PushContact appends a contact to the manifold for the given pair index,
// dropping (and counting) contacts past the per-pair cap.
func (b *Buffer) PushContact(pairIdx int, c phys.Contact) {
	m := &b.manifolds[pairIdx]
	if m.Count >= phys.MaxContactsPerPair {
		m.Dropped++
		return
	}
	m.Points[m.Count] = c
	m.Count++
}

// PairCount returns the number of candidate pairs.
func (b *Buffer) PairCount() int { return len(b.pairs) }

// Pair returns the candidate pair at index i.
func (b *Buffer) Pair(i int) phys.ContactPair { return b.pairs[i] }

// Pairs returns the pair list. Read-only for callers.
func (b *Buffer) Pairs() []phys.ContactPair { return b.pairs }

// ManifoldAt returns the manifold for pair index i.
func (b *Buffer) ManifoldAt(i int) *Manifold { return &b.manifolds[i] }

// ContactCount returns the total stored contacts across all manifolds.
func (b *Buffer) ContactCount() int {
	n := 0
	for i := range b.manifolds {
		n += b.manifolds[i].Count
	}
	return n
}

// ManifoldCount returns how many pairs produced at least one contact.
func (b *Buffer) ManifoldCount() int {
	n := 0
	for i := range b.manifolds {
		if b.manifolds[i].Count > 0 {
			n++
		}
	}
	return n
}

// DroppedContacts returns the contacts discarded past the per-pair cap
// this tick.
func (b *Buffer) DroppedContacts() int {
	n := 0
	for i := range b.manifolds {
		n += b.manifolds[i].Dropped
	}
	return n
}
