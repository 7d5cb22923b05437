// Package integrate advances entity state with semi-implicit Euler
// stepping and resolves motion against voxel terrain. Velocity is updated
// before position; terrain collision is swept one axis at a time (X, then
// Y, then Z) so bodies slide along walls instead of tunneling into
// corners. Previous positions are retained for render interpolation.
package integrate

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
	"github.com/san-kum/voxelphys/internal/voxel"
)

// Water physics constants, applied while a body overlaps water blocks.
const (
	waterDamping float32 = 0.95
	waterMaxFall float32 = -2.0
)

// Config holds integrator tuning. Gravity is a signed Y acceleration.
type Config struct {
	Gravity          float32 `yaml:"gravity"`
	TerminalVelocity float32 `yaml:"terminal_velocity"`
	VelocityEpsilon  float32 `yaml:"velocity_epsilon"`
}

// DefaultConfig returns earth-like gravity with the standard epsilon.
func DefaultConfig() Config {
	return Config{
		Gravity:          phys.Gravity,
		TerminalVelocity: phys.TerminalVelocity,
		VelocityEpsilon:  phys.VelocityEpsilon,
	}
}

// Validate rejects configurations that would destabilize stepping.
func (c Config) Validate() error {
	if c.VelocityEpsilon < 0 {
		return fmt.Errorf("%w: velocity epsilon must be >= 0, got %g", phys.ErrInvalidConfig, c.VelocityEpsilon)
	}
	if c.TerminalVelocity > 0 {
		return fmt.Errorf("%w: terminal velocity must be <= 0, got %g", phys.ErrInvalidConfig, c.TerminalVelocity)
	}
	return nil
}

// Integrator steps dynamic entities and tracks previous positions for
// interpolation. One Integrator serves one store.
type Integrator struct {
	cfg   Config
	log   *zap.Logger
	world voxel.Source

	prevPos []mgl32.Vec3

	warnedDegenerate bool
}

// New builds an integrator over the given block source. A nil logger
// disables logging.
func New(cfg Config, world voxel.Source, log *zap.Logger) (*Integrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Integrator{cfg: cfg, log: log, world: world}, nil
}

// Config returns the active integrator configuration.
func (g *Integrator) Config() Config { return g.cfg }

// SnapshotPrevious records current positions as the interpolation origin.
// Called once at the start of every fixed step, before any substep moves
// entities.
func (g *Integrator) SnapshotPrevious(st *store.Store) {
	n := st.Len()
	if cap(g.prevPos) < n {
		g.prevPos = make([]mgl32.Vec3, n)
	} else {
		g.prevPos = g.prevPos[:n]
	}
	copy(g.prevPos, st.Positions())
}

// OnRemove mirrors the store's swap-remove in the interpolation snapshot
// so the entity moved into the freed slot keeps its own previous position.
func (g *Integrator) OnRemove(id, moved phys.EntityID) {
	n := len(g.prevPos)
	if n == 0 {
		return
	}
	if moved.Valid() && int(id) < n && int(moved) < n {
		g.prevPos[id] = g.prevPos[moved]
	}
	g.prevPos = g.prevPos[:n-1]
}

// InterpolatedPosition returns the position blended between the previous
// and current fixed step at the given alpha in [0, 1]. Entities added
// since the last snapshot return their current position unblended.
func (g *Integrator) InterpolatedPosition(st *store.Store, id phys.EntityID, alpha float32) mgl32.Vec3 {
	curr := st.Position(id)
	if int(id) >= len(g.prevPos) {
		return curr
	}
	prev := g.prevPos[id]
	return prev.Add(curr.Sub(prev).Mul(alpha))
}

// Teleport moves an entity instantly, clearing velocity and resetting its
// interpolation origin so the renderer does not sweep it across the world.
func (g *Integrator) Teleport(st *store.Store, id phys.EntityID, pos mgl32.Vec3) {
	st.SetPosition(id, pos)
	st.SetVelocity(id, mgl32.Vec3{})
	if int(id) < len(g.prevPos) {
		g.prevPos[id] = pos
	}
}

// Step advances every dynamic entity by dt: gravity scaled per entity,
// drag, velocity epsilon snap, then position integration with a per-axis
// terrain sweep. Degenerate entities are skipped for the tick.
func (g *Integrator) Step(st *store.Store, dt float32) phys.TickStats {
	var stats phys.TickStats

	pos := st.Positions()
	vel := st.Velocities()
	half := st.HalfExtentsAll()
	invMass := st.InvMasses()
	drag := st.Drags()
	gravScale := st.GravityScales()
	flags := st.FlagsAll()

	n := st.Len()
	for i := 0; i < n; i++ {
		if invMass[i] == 0 {
			continue
		}
		id := phys.EntityID(i)
		if st.Degenerate(id) {
			stats.DegenerateSkips++
			if !g.warnedDegenerate {
				g.warnedDegenerate = true
				g.log.Warn("degenerate entity skipped by integrator",
					zap.Uint32("entity", uint32(id)))
			}
			continue
		}

		inWater := flags[i].Has(phys.FlagInWater)
		onLadder := flags[i].Has(phys.FlagOnLadder)

		// Semi-implicit Euler: all velocity updates land before the
		// position moves.
		if !inWater && !onLadder {
			vel[i][1] += g.cfg.Gravity * gravScale[i] * dt
			if vel[i][1] < g.cfg.TerminalVelocity {
				vel[i][1] = g.cfg.TerminalVelocity
			}
		}
		if inWater {
			vel[i][1] *= waterDamping
			if vel[i][1] < waterMaxFall {
				vel[i][1] = waterMaxFall
			}
		}
		if onLadder {
			vel[i][0] = 0
			vel[i][2] = 0
			if math32.Abs(vel[i][1]) < 0.1 {
				vel[i][1] = 0
			}
		}

		if drag[i] > 0 {
			factor := math32.Pow(1-drag[i], dt)
			vel[i] = vel[i].Mul(factor)
		}

		if vel[i].Len() < g.cfg.VelocityEpsilon {
			vel[i] = mgl32.Vec3{}
		}

		grounded := g.sweep(&pos[i], &vel[i], half[i], dt)

		water, ladder := g.scanOccupancy(pos[i], half[i])
		f := flags[i]
		f = f.Set(phys.FlagGrounded, grounded)
		f = f.Set(phys.FlagInWater, water)
		f = f.Set(phys.FlagOnLadder, ladder)
		flags[i] = f
	}

	return stats
}

// sweep integrates position one axis at a time, pushing the body back to
// the face of any solid block it enters and zeroing that axis velocity.
// Returns whether a downward Y move hit terrain.
func (g *Integrator) sweep(pos, vel *mgl32.Vec3, half mgl32.Vec3, dt float32) (grounded bool) {
	for axis := 0; axis < 3; axis++ {
		delta := vel[axis] * dt
		if delta == 0 {
			continue
		}
		pos[axis] += delta

		box := phys.BoxAt(*pos, half)
		if hit, face := g.firstSolidFace(box, axis, delta); hit {
			if delta > 0 {
				pos[axis] = face - half[axis] - phys.Skin
			} else {
				pos[axis] = face + half[axis] + phys.Skin
			}
			vel[axis] = 0
			if axis == 1 && delta < 0 {
				grounded = true
			}
		}
	}
	return grounded
}

// firstSolidFace scans the blocks overlapped by box and returns the block
// face the body must be pushed back to on the given axis: the nearest face
// opposing the motion direction.
func (g *Integrator) firstSolidFace(box phys.AABB, axis int, delta float32) (bool, float32) {
	minX, minY, minZ := blockFloor(box.Min)
	maxX, maxY, maxZ := blockFloor(box.Max)

	hit := false
	var face float32
	for y := minY; y <= maxY; y++ {
		for z := minZ; z <= maxZ; z++ {
			for x := minX; x <= maxX; x++ {
				if !g.world.BlockAt(x, y, z).Solid() {
					continue
				}
				blockMin := blockCoord(x, y, z, axis)
				blockMax := blockMin + 1
				var f float32
				if delta > 0 {
					f = blockMin
				} else {
					f = blockMax
				}
				if !hit || (delta > 0 && f < face) || (delta < 0 && f > face) {
					hit = true
					face = f
				}
			}
		}
	}
	return hit, face
}

// scanOccupancy reports whether the body overlaps any water or ladder
// blocks at its final position.
func (g *Integrator) scanOccupancy(pos, half mgl32.Vec3) (water, ladder bool) {
	box := phys.BoxAt(pos, half)
	minX, minY, minZ := blockFloor(box.Min)
	maxX, maxY, maxZ := blockFloor(box.Max)

	for y := minY; y <= maxY; y++ {
		for z := minZ; z <= maxZ; z++ {
			for x := minX; x <= maxX; x++ {
				switch g.world.BlockAt(x, y, z) {
				case voxel.Water:
					water = true
				case voxel.Ladder:
					ladder = true
				}
			}
		}
	}
	return water, ladder
}

func blockFloor(v mgl32.Vec3) (x, y, z int32) {
	return int32(math32.Floor(v[0])), int32(math32.Floor(v[1])), int32(math32.Floor(v[2]))
}

func blockCoord(x, y, z int32, axis int) float32 {
	switch axis {
	case 0:
		return float32(x)
	case 1:
		return float32(y)
	default:
		return float32(z)
	}
}
