// Package phys provides core primitives shared by the physics pipeline.
//
// The package defines the fundamental types used by every stage of the
// simulation:
//
//   - [EntityID]: dense index handle into the entity store
//   - [AABB]: axis-aligned bounding box, recomputed each step
//   - [Contact]: a single narrow-phase contact point
//   - [ContactPair]: an unordered candidate pair from the broad phase
//   - [TickStats]: per-tick counters and phase timings
//
// # Units
//
// One block equals one world unit. All quantities are float32, matching
// the cache-friendly struct-of-arrays layout of the entity store.
//
// # Thread Safety
//
// Types in this package are plain values. Concurrent access discipline is
// owned by the solver: entity state is only mutated during resolution and
// integration, under the contact-coloring partition.
package phys
