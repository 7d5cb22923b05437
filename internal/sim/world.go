// Package sim orchestrates the physics tick: fixed-timestep accumulation,
// the substep loop (solver then integrator), and the consumer surface the
// renderer and gameplay code read from.
package sim

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/san-kum/voxelphys/internal/integrate"
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/solver"
	"github.com/san-kum/voxelphys/internal/store"
)

// World ties the entity store, solver, and integrator into one stepped
// simulation. A World is driven from a single goroutine; parallelism
// happens inside the solver phases.
type World struct {
	log     *zap.Logger
	store   *store.Store
	solver  *solver.Solver
	integ   *integrate.Integrator
	fixedDt float32

	accumulator float32
	alpha       float32
	stats       phys.TickStats
}

// New assembles a world from its parts. A nil logger disables logging.
func New(st *store.Store, sv *solver.Solver, ig *integrate.Integrator, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		log:     log,
		store:   st,
		solver:  sv,
		integ:   ig,
		fixedDt: phys.FixedTimestep,
	}
}

// Store returns the underlying entity store.
func (w *World) Store() *store.Store { return w.store }

// Update feeds frame time into the fixed-timestep accumulator and runs as
// many fixed steps as it covers. Frame time is clamped so a long stall
// cannot demand unbounded catch-up work. The remaining fraction becomes
// the render interpolation alpha.
func (w *World) Update(frameTime float32) {
	if frameTime > phys.MaxFrameTime {
		frameTime = phys.MaxFrameTime
	}
	w.accumulator += frameTime

	for w.accumulator >= w.fixedDt {
		w.TickOnce()
		w.accumulator -= w.fixedDt
	}
	w.alpha = w.accumulator / w.fixedDt
}

// TickOnce runs exactly one fixed step: snapshot previous positions, then
// for each substep run the solver followed by the integrator. Broad phase
// strictly precedes narrow phase, which strictly precedes resolution;
// partial ticks are not a supported state.
func (w *World) TickOnce() {
	w.stats.Reset()
	w.integ.SnapshotPrevious(w.store)

	substeps := w.solver.Config().Substeps
	h := w.fixedDt / float32(substeps)
	for s := 0; s < substeps; s++ {
		w.stats.Add(w.solver.Step(w.store))

		start := time.Now()
		is := w.integ.Step(w.store, h)
		is.IntegrateMicros = time.Since(start).Microseconds()
		w.stats.Add(is)

		w.stats.SubstepsRun++
	}
}

// AddEntity creates a physics body and returns its handle. Non-positive
// mass creates a static body.
func (w *World) AddEntity(position, velocity mgl32.Vec3, mass float32, halfExtents mgl32.Vec3) (phys.EntityID, error) {
	return w.store.Add(position, velocity, mass, halfExtents)
}

// RemoveEntity swap-removes a body and returns the id that moved into its
// slot, which callers with external id-to-index tables must apply within
// the same tick.
func (w *World) RemoveEntity(id phys.EntityID) (moved phys.EntityID, err error) {
	moved, err = w.store.Remove(id)
	if err != nil {
		return moved, err
	}
	w.integ.OnRemove(id, moved)
	return moved, nil
}

// Alpha returns the current render interpolation factor in [0, 1).
func (w *World) Alpha() float32 { return w.alpha }

// InterpolatedPosition returns the entity position blended at the current
// alpha, for renderers running at a different cadence than the tick.
func (w *World) InterpolatedPosition(id phys.EntityID) mgl32.Vec3 {
	return w.integ.InterpolatedPosition(w.store, id, w.alpha)
}

// InterpolatedPositionAt blends at an explicit alpha.
func (w *World) InterpolatedPositionAt(id phys.EntityID, alpha float32) mgl32.Vec3 {
	return w.integ.InterpolatedPosition(w.store, id, alpha)
}

// Position returns the entity's current (uninterpolated) position.
func (w *World) Position(id phys.EntityID) mgl32.Vec3 { return w.store.Position(id) }

// Velocity returns the entity's current velocity.
func (w *World) Velocity(id phys.EntityID) mgl32.Vec3 { return w.store.Velocity(id) }

// Flags returns the entity's environment state bitmask.
func (w *World) Flags(id phys.EntityID) phys.StateFlags { return w.store.Flags(id) }

// Teleport moves an entity instantly without interpolation sweep.
func (w *World) Teleport(id phys.EntityID, pos mgl32.Vec3) {
	w.integ.Teleport(w.store, id, pos)
}

// SetVelocity sets an entity's velocity; static bodies stay at zero.
func (w *World) SetVelocity(id phys.EntityID, v mgl32.Vec3) {
	w.store.SetVelocity(id, v)
}

// Stats returns counters from the most recent fixed step.
func (w *World) Stats() phys.TickStats { return w.stats }

// Solver returns the solver, exposing the collision buffer and grid stats.
func (w *World) Solver() *solver.Solver { return w.solver }
