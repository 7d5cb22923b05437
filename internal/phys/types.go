package phys

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// EntityID is a plain index into the entity store's arrays. There is no
// generation tag at this layer: a removed id may be reused immediately, and
// callers holding ids across RemoveEntity must apply the returned remap.
type EntityID uint32

// InvalidEntity marks the absence of an entity.
const InvalidEntity = EntityID(math.MaxUint32)

// Valid reports whether the id refers to a possible slot.
func (id EntityID) Valid() bool { return id != InvalidEntity }

// StateFlags is a bitmask of per-entity environment state, written by the
// integrator and read by gameplay and movement code.
type StateFlags uint32

const (
	FlagGrounded StateFlags = 1 << iota
	FlagInWater
	FlagOnLadder
)

// Has reports whether all bits in f are set.
func (s StateFlags) Has(f StateFlags) bool { return s&f == f }

// Set returns s with the bits in f set or cleared.
func (s StateFlags) Set(f StateFlags, on bool) StateFlags {
	if on {
		return s | f
	}
	return s &^ f
}

// Simulation constants. Gravity is negative-Y; one block is one unit.
const (
	Gravity          float32 = -9.8
	TerminalVelocity float32 = -50.0
	FixedTimestep    float32 = 1.0 / 60.0

	// VelocityEpsilon is the magnitude below which velocity snaps to zero,
	// preventing perpetual resting jitter.
	VelocityEpsilon float32 = 0.01

	// MaxFrameTime caps the accumulator feed so a long stall cannot demand
	// an unbounded number of catch-up steps.
	MaxFrameTime float32 = 0.25

	// Skin is the separation kept between a body and the terrain face it
	// was pushed back to.
	Skin float32 = 0.001

	// MaxContactsPerPair caps manifold size; excess contacts are dropped
	// and counted, never stored past the cap.
	MaxContactsPerPair = 4
)

// Contact is a single narrow-phase contact point. Normal points from body A
// toward body B along the axis of minimum overlap.
type Contact struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	Depth  float32
}

// ContactPair is a canonicalized candidate pair: A < B always holds.
type ContactPair struct {
	A, B EntityID
}

// MakePair canonicalizes pair order so (a,b) and (b,a) compare equal.
func MakePair(a, b EntityID) ContactPair {
	if a > b {
		a, b = b, a
	}
	return ContactPair{A: a, B: b}
}

// TickStats carries per-tick counters. Reset at the start of every fixed
// step and safe to read between Update calls.
type TickStats struct {
	CandidatePairs  int
	Manifolds       int
	Contacts        int
	DroppedContacts int
	DegenerateSkips int
	SubstepsRun     int

	BroadPhaseMicros  int64
	NarrowPhaseMicros int64
	ResolveMicros     int64
	IntegrateMicros   int64
}

// Add accumulates counters from a substep into the tick total.
func (t *TickStats) Add(o TickStats) {
	t.CandidatePairs += o.CandidatePairs
	t.Manifolds += o.Manifolds
	t.Contacts += o.Contacts
	t.DroppedContacts += o.DroppedContacts
	t.DegenerateSkips += o.DegenerateSkips
	t.SubstepsRun += o.SubstepsRun
	t.BroadPhaseMicros += o.BroadPhaseMicros
	t.NarrowPhaseMicros += o.NarrowPhaseMicros
	t.ResolveMicros += o.ResolveMicros
	t.IntegrateMicros += o.IntegrateMicros
}

// Reset zeroes all counters.
func (t *TickStats) Reset() { *t = TickStats{} }

// IsFiniteVec reports whether every component is a finite number.
func IsFiniteVec(v mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math32.IsNaN(v[i]) || math32.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}
