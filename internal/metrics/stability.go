package metrics

import (
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
)

// Settled reports the fraction of dynamic bodies that are grounded and
// at rest in the most recent observation. A drop scene should trend
// toward 1 as the pile stops moving.
type Settled struct {
	name     string
	fraction float64
}

func NewSettled() *Settled {
	return &Settled{name: "settled"}
}

func (s *Settled) Name() string { return s.name }

func (s *Settled) Observe(st *store.Store, _ phys.TickStats) {
	vel := st.Velocities()
	flags := st.FlagsAll()
	invMass := st.InvMasses()
	n := st.Len()

	dynamic, settled := 0, 0
	for i := 0; i < n; i++ {
		if invMass[i] == 0 {
			continue
		}
		dynamic++
		if flags[i].Has(phys.FlagGrounded) && vel[i].Len() < phys.VelocityEpsilon {
			settled++
		}
	}
	if dynamic == 0 {
		s.fraction = 1
		return
	}
	s.fraction = float64(settled) / float64(dynamic)
}

func (s *Settled) Value() float64 { return s.fraction }

func (s *Settled) Reset() { s.fraction = 0 }
