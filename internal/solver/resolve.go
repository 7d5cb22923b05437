package solver

import (
	"github.com/chewxy/math32"

	"github.com/san-kum/voxelphys/internal/store"
)

// resolve applies impulse-based contact resolution. Contacts are
// partitioned into color groups with no shared entity; each group is
// resolved in parallel with a barrier before the next, so no two workers
// ever mutate the same entity's velocity concurrently. The whole pass
// repeats for the configured iteration count.
func (s *Solver) resolve(st *store.Store) {
	groups := s.colors.partition(s.buf)

	for it := 0; it < s.cfg.Iterations; it++ {
		for color, group := range groups {
			if len(group) == 0 {
				continue
			}
			if color == maxColors-1 {
				// Overflow group may contain entity conflicts; run it
				// on one worker.
				for _, pairIdx := range group {
					s.resolvePair(st, pairIdx)
				}
				continue
			}
			group := group
			s.parallelFor(len(group), func(_, start, end int) {
				for g := start; g < end; g++ {
					s.resolvePair(st, group[g])
				}
			})
		}
	}
}

// resolvePair applies normal and tangential impulses plus a fractional
// positional correction for every contact of one pair. Bodies with zero
// inverse mass receive no impulse and no correction.
func (s *Solver) resolvePair(st *store.Store, pairIdx int) {
	pair := s.buf.Pair(pairIdx)
	manifold := s.buf.ManifoldAt(pairIdx)

	pos := st.Positions()
	vel := st.Velocities()
	invMass := st.InvMasses()
	rest := st.Restitutions()
	fric := st.Frictions()

	a, b := pair.A, pair.B
	invA, invB := invMass[a], invMass[b]
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	e := math32.Max(rest[a], rest[b])
	mu := math32.Sqrt(fric[a] * fric[b])

	for ci := 0; ci < manifold.Count; ci++ {
		ct := &manifold.Points[ci]
		n := ct.Normal
		if n.Len() == 0 {
			continue
		}

		rv := vel[b].Sub(vel[a])
		vn := rv.Dot(n)

		if vn < 0 {
			// Normal impulse from relative velocity and combined
			// restitution.
			j := -(1 + e) * vn / invSum
			impulse := n.Mul(j)
			vel[a] = vel[a].Sub(impulse.Mul(invA))
			vel[b] = vel[b].Add(impulse.Mul(invB))

			// Tangential impulse, clamped to the Coulomb cone.
			rv = vel[b].Sub(vel[a])
			tangent := rv.Sub(n.Mul(rv.Dot(n)))
			if tl := tangent.Len(); tl > 1e-6 {
				t := tangent.Mul(1 / tl)
				jt := -rv.Dot(t) / invSum
				limit := mu * j
				if jt > limit {
					jt = limit
				} else if jt < -limit {
					jt = -limit
				}
				friction := t.Mul(jt)
				vel[a] = vel[a].Sub(friction.Mul(invA))
				vel[b] = vel[b].Add(friction.Mul(invB))
			}
		}

		// Fractional positional correction: deep interpenetration is
		// worked off over several iterations rather than in one explosive
		// push.
		if depth := ct.Depth - s.cfg.Slop; depth > 0 {
			correction := depth * s.cfg.PositionBias / invSum
			shift := n.Mul(correction)
			pos[a] = pos[a].Sub(shift.Mul(invA))
			pos[b] = pos[b].Add(shift.Mul(invB))
		}
	}
}
