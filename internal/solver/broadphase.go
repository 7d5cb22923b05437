package solver

import (
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
)

// broadPhase scans disjoint shards of grid buckets in parallel, emitting
// candidate pairs into worker-local buffers. Workers only read AABBs and
// bucket contents; the merged list is sorted and deduplicated once, so the
// shared buffer is never written under contention.
func (s *Solver) broadPhase(st *store.Store) {
	s.buf.Clear()

	buckets := s.grid.Buckets()
	for w := range s.workerPairs {
		s.workerPairs[w] = s.workerPairs[w][:0]
	}

	invMass := st.InvMasses()
	groups := st.Groups()
	masks := st.Masks()
	pos := st.Positions()
	half := st.HalfExtentsAll()

	s.parallelFor(len(buckets), func(worker, start, end int) {
		local := s.workerPairs[worker]
		for b := start; b < end; b++ {
			bucket := buckets[b]
			for i := 0; i < len(bucket); i++ {
				a := bucket[i]
				boxA := phys.BoxAt(pos[a], half[a])
				for j := i + 1; j < len(bucket); j++ {
					other := bucket[j]
					if invMass[a] == 0 && invMass[other] == 0 {
						continue
					}
					if groups[a]&masks[other] == 0 || groups[other]&masks[a] == 0 {
						continue
					}
					if !boxA.Intersects(phys.BoxAt(pos[other], half[other])) {
						continue
					}
					local = append(local, phys.MakePair(a, other))
				}
			}
		}
		s.workerPairs[worker] = local
	})

	for _, pairs := range s.workerPairs {
		s.buf.PushPairs(pairs)
	}
	s.buf.SortDedup()
}
