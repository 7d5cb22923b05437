package metrics

import (
	"math"

	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
)

// KineticEnergy tracks the mean total kinetic energy across observed
// steps. Static bodies contribute nothing.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(st *store.Store, _ phys.TickStats) {
	e.total += totalKinetic(st)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyGrowth tracks the worst-case relative growth of kinetic energy
// over the first observation. Values above zero mean the solver is
// injecting energy somewhere.
type EnergyGrowth struct {
	name      string
	initial   float64
	maxGrowth float64
	samples   int
}

func NewEnergyGrowth() *EnergyGrowth {
	return &EnergyGrowth{name: "energy_growth"}
}

func (e *EnergyGrowth) Name() string { return e.name }

func (e *EnergyGrowth) Observe(st *store.Store, _ phys.TickStats) {
	energy := totalKinetic(st)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial > 0 {
		growth := (energy - e.initial) / e.initial
		e.maxGrowth = math.Max(e.maxGrowth, growth)
	}
}

func (e *EnergyGrowth) Value() float64 { return e.maxGrowth }

func (e *EnergyGrowth) Reset() {
	e.initial = 0
	e.maxGrowth = 0
	e.samples = 0
}

func totalKinetic(st *store.Store) float64 {
	vel := st.Velocities()
	n := st.Len()

	var total float64
	for i := 0; i < n; i++ {
		m := st.Mass(phys.EntityID(i))
		if m <= 0 {
			continue
		}
		total += 0.5 * float64(m) * float64(vel[i].LenSqr())
	}
	return total
}
