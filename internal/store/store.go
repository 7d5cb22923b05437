// Package store holds all per-entity physics state in struct-of-arrays
// layout: one dense slice per field, indexed by [phys.EntityID]. Dense
// layout keeps the solver's sequential sweeps cache-friendly and lets
// phases hand out disjoint index ranges to workers.
package store

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/voxelphys/internal/phys"
)

// DefaultCapacity is the hard entity cap used by NewDefault.
const DefaultCapacity = 16384

// Defaults applied by Add; adjust per entity afterwards.
const (
	DefaultRestitution  float32 = 0.3
	DefaultFriction     float32 = 0.5
	DefaultDrag         float32 = 0.02
	DefaultGravityScale float32 = 1.0
)

// Defaults are the material properties stamped onto new entities by Add.
type Defaults struct {
	Restitution  float32 `yaml:"restitution"`
	Friction     float32 `yaml:"friction"`
	Drag         float32 `yaml:"drag"`
	GravityScale float32 `yaml:"gravity_scale"`
}

// DefaultMaterials returns the standard material defaults.
func DefaultMaterials() Defaults {
	return Defaults{
		Restitution:  DefaultRestitution,
		Friction:     DefaultFriction,
		Drag:         DefaultDrag,
		GravityScale: DefaultGravityScale,
	}
}

// Store is the struct-of-arrays entity table. It is not safe for
// concurrent mutation; the solver coordinates all parallel access.
type Store struct {
	capacity int
	defaults Defaults

	pos  []mgl32.Vec3
	vel  []mgl32.Vec3
	half []mgl32.Vec3

	mass         []float32
	invMass      []float32
	restitution  []float32
	friction     []float32
	drag         []float32
	gravityScale []float32

	flags []phys.StateFlags
	group []uint32
	mask  []uint32
}

// New creates a store with the given hard capacity. Slices grow on demand;
// Add fails once the cap is reached.
func New(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", phys.ErrInvalidConfig, capacity)
	}
	return &Store{capacity: capacity, defaults: DefaultMaterials()}, nil
}

// SetMaterialDefaults changes the properties stamped onto future Adds.
func (s *Store) SetMaterialDefaults(d Defaults) { s.defaults = d }

// NewDefault creates a store with DefaultCapacity.
func NewDefault() *Store {
	s, _ := New(DefaultCapacity)
	return s
}

// Len returns the live entity count.
func (s *Store) Len() int { return len(s.pos) }

// Cap returns the hard entity cap.
func (s *Store) Cap() int { return s.capacity }

// Add appends an entity to every array in lock-step and returns its id.
// A non-positive mass creates a static body: inverse mass zero, velocity
// pinned to zero. Fails only on capacity exhaustion.
func (s *Store) Add(position, velocity mgl32.Vec3, mass float32, halfExtents mgl32.Vec3) (phys.EntityID, error) {
	if len(s.pos) >= s.capacity {
		return phys.InvalidEntity, fmt.Errorf("%w: cap %d", phys.ErrStoreFull, s.capacity)
	}

	invMass := float32(0)
	if mass > 0 {
		invMass = 1.0 / mass
	} else {
		velocity = mgl32.Vec3{}
	}

	s.pos = append(s.pos, position)
	s.vel = append(s.vel, velocity)
	s.half = append(s.half, halfExtents)

	s.mass = append(s.mass, mass)
	s.invMass = append(s.invMass, invMass)
	s.restitution = append(s.restitution, s.defaults.Restitution)
	s.friction = append(s.friction, s.defaults.Friction)
	s.drag = append(s.drag, s.defaults.Drag)
	s.gravityScale = append(s.gravityScale, s.defaults.GravityScale)

	s.flags = append(s.flags, 0)
	s.group = append(s.group, 1)
	s.mask = append(s.mask, ^uint32(0))

	return phys.EntityID(len(s.pos) - 1), nil
}

// Remove deletes an entity by swapping the last entity into its slot and
// truncating every array. It returns the id of the entity that moved into
// the freed slot (InvalidEntity when the removed entity was last), so
// callers maintaining external id-to-index maps can fix them up in the
// same tick.
func (s *Store) Remove(id phys.EntityID) (moved phys.EntityID, err error) {
	idx := int(id)
	n := len(s.pos)
	if idx < 0 || idx >= n {
		return phys.InvalidEntity, fmt.Errorf("%w: %d (len %d)", phys.ErrUnknownEntity, id, n)
	}

	last := n - 1
	moved = phys.InvalidEntity
	if idx != last {
		s.pos[idx] = s.pos[last]
		s.vel[idx] = s.vel[last]
		s.half[idx] = s.half[last]
		s.mass[idx] = s.mass[last]
		s.invMass[idx] = s.invMass[last]
		s.restitution[idx] = s.restitution[last]
		s.friction[idx] = s.friction[last]
		s.drag[idx] = s.drag[last]
		s.gravityScale[idx] = s.gravityScale[last]
		s.flags[idx] = s.flags[last]
		s.group[idx] = s.group[last]
		s.mask[idx] = s.mask[last]
		moved = phys.EntityID(last)
	}

	s.pos = s.pos[:last]
	s.vel = s.vel[:last]
	s.half = s.half[:last]
	s.mass = s.mass[:last]
	s.invMass = s.invMass[:last]
	s.restitution = s.restitution[:last]
	s.friction = s.friction[:last]
	s.drag = s.drag[:last]
	s.gravityScale = s.gravityScale[:last]
	s.flags = s.flags[:last]
	s.group = s.group[:last]
	s.mask = s.mask[:last]

	return moved, nil
}

func (s *Store) in(id phys.EntityID) bool { return int(id) < len(s.pos) }

// Position returns the entity position, or the zero vector for an unknown id.
func (s *Store) Position(id phys.EntityID) mgl32.Vec3 {
	if !s.in(id) {
		return mgl32.Vec3{}
	}
	return s.pos[id]
}

// SetPosition moves an entity. Unknown ids are ignored.
func (s *Store) SetPosition(id phys.EntityID, p mgl32.Vec3) {
	if s.in(id) {
		s.pos[id] = p
	}
}

// Velocity returns the entity velocity, or the zero vector for an unknown id.
func (s *Store) Velocity(id phys.EntityID) mgl32.Vec3 {
	if !s.in(id) {
		return mgl32.Vec3{}
	}
	return s.vel[id]
}

// SetVelocity sets an entity velocity. Static bodies stay at zero.
func (s *Store) SetVelocity(id phys.EntityID, v mgl32.Vec3) {
	if !s.in(id) {
		return
	}
	if s.invMass[id] == 0 {
		s.vel[id] = mgl32.Vec3{}
		return
	}
	s.vel[id] = v
}

// HalfExtents returns the body's half-extents.
func (s *Store) HalfExtents(id phys.EntityID) mgl32.Vec3 {
	if !s.in(id) {
		return mgl32.Vec3{}
	}
	return s.half[id]
}

// SetHalfExtents resizes the body's box.
func (s *Store) SetHalfExtents(id phys.EntityID, h mgl32.Vec3) {
	if s.in(id) {
		s.half[id] = h
	}
}

// Mass returns the body mass (zero or negative means static).
func (s *Store) Mass(id phys.EntityID) float32 {
	if !s.in(id) {
		return 0
	}
	return s.mass[id]
}

// SetMass updates mass and the precomputed inverse. Setting a non-positive
// mass makes the body static and zeroes its velocity.
func (s *Store) SetMass(id phys.EntityID, m float32) {
	if !s.in(id) {
		return
	}
	s.mass[id] = m
	if m > 0 {
		s.invMass[id] = 1.0 / m
	} else {
		s.invMass[id] = 0
		s.vel[id] = mgl32.Vec3{}
	}
}

// InvMass returns the precomputed reciprocal mass.
func (s *Store) InvMass(id phys.EntityID) float32 {
	if !s.in(id) {
		return 0
	}
	return s.invMass[id]
}

// Static reports whether the body never moves under forces.
func (s *Store) Static(id phys.EntityID) bool { return s.InvMass(id) == 0 }

// Restitution returns the bounciness in [0, 1].
func (s *Store) Restitution(id phys.EntityID) float32 {
	if !s.in(id) {
		return 0
	}
	return s.restitution[id]
}

// SetRestitution sets the bounciness.
func (s *Store) SetRestitution(id phys.EntityID, r float32) {
	if s.in(id) {
		s.restitution[id] = r
	}
}

// Friction returns the Coulomb friction coefficient.
func (s *Store) Friction(id phys.EntityID) float32 {
	if !s.in(id) {
		return 0
	}
	return s.friction[id]
}

// SetFriction sets the friction coefficient.
func (s *Store) SetFriction(id phys.EntityID, f float32) {
	if s.in(id) {
		s.friction[id] = f
	}
}

// Drag returns the per-entity linear drag coefficient.
func (s *Store) Drag(id phys.EntityID) float32 {
	if !s.in(id) {
		return 0
	}
	return s.drag[id]
}

// SetDrag sets the linear drag coefficient.
func (s *Store) SetDrag(id phys.EntityID, d float32) {
	if s.in(id) {
		s.drag[id] = d
	}
}

// GravityScale returns the per-entity gravity multiplier.
func (s *Store) GravityScale(id phys.EntityID) float32 {
	if !s.in(id) {
		return 0
	}
	return s.gravityScale[id]
}

// SetGravityScale sets the gravity multiplier (0 disables gravity).
func (s *Store) SetGravityScale(id phys.EntityID, g float32) {
	if s.in(id) {
		s.gravityScale[id] = g
	}
}

// Flags returns the entity's state flag bitmask.
func (s *Store) Flags(id phys.EntityID) phys.StateFlags {
	if !s.in(id) {
		return 0
	}
	return s.flags[id]
}

// SetFlags replaces the entity's state flags.
func (s *Store) SetFlags(id phys.EntityID, f phys.StateFlags) {
	if s.in(id) {
		s.flags[id] = f
	}
}

// SetFilter sets the collision group and mask words. Two entities collide
// when each one's group intersects the other's mask.
func (s *Store) SetFilter(id phys.EntityID, group, mask uint32) {
	if s.in(id) {
		s.group[id] = group
		s.mask[id] = mask
	}
}

// Group returns the collision group word.
func (s *Store) Group(id phys.EntityID) uint32 {
	if !s.in(id) {
		return 0
	}
	return s.group[id]
}

// Mask returns the collision mask word.
func (s *Store) Mask(id phys.EntityID) uint32 {
	if !s.in(id) {
		return 0
	}
	return s.mask[id]
}

// BoxAt derives the entity's current AABB from position and half-extents.
func (s *Store) BoxAt(id phys.EntityID) phys.AABB {
	return phys.BoxAt(s.pos[id], s.half[id])
}

// Degenerate reports whether the entity must be excluded from the collision
// pass this tick: NaN/Inf position or non-positive half-extents.
func (s *Store) Degenerate(id phys.EntityID) bool {
	if !s.in(id) {
		return true
	}
	if !phys.IsFiniteVec(s.pos[id]) || !phys.IsFiniteVec(s.vel[id]) {
		return true
	}
	h := s.half[id]
	return h[0] <= 0 || h[1] <= 0 || h[2] <= 0
}

// Raw slice views for the solver's data-parallel phases. Callers must not
// append; index ranges handed to workers are disjoint.

// Positions returns the backing position slice.
func (s *Store) Positions() []mgl32.Vec3 { return s.pos }

// Velocities returns the backing velocity slice.
func (s *Store) Velocities() []mgl32.Vec3 { return s.vel }

// HalfExtentsAll returns the backing half-extent slice.
func (s *Store) HalfExtentsAll() []mgl32.Vec3 { return s.half }

// InvMasses returns the backing inverse-mass slice.
func (s *Store) InvMasses() []float32 { return s.invMass }

// Restitutions returns the backing restitution slice.
func (s *Store) Restitutions() []float32 { return s.restitution }

// Frictions returns the backing friction slice.
func (s *Store) Frictions() []float32 { return s.friction }

// Drags returns the backing drag slice.
func (s *Store) Drags() []float32 { return s.drag }

// GravityScales returns the backing gravity-scale slice.
func (s *Store) GravityScales() []float32 { return s.gravityScale }

// FlagsAll returns the backing state-flag slice.
func (s *Store) FlagsAll() []phys.StateFlags { return s.flags }

// Groups returns the backing collision-group slice.
func (s *Store) Groups() []uint32 { return s.group }

// Masks returns the backing collision-mask slice.
func (s *Store) Masks() []uint32 { return s.mask }
