package metrics

import (
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
)

// ContactLoad tracks the mean number of contact points generated per
// step, a proxy for narrow-phase pressure.
type ContactLoad struct {
	name    string
	samples int
	total   float64
}

func NewContactLoad() *ContactLoad {
	return &ContactLoad{name: "contact_load"}
}

func (c *ContactLoad) Name() string { return c.name }

func (c *ContactLoad) Observe(_ *store.Store, stats phys.TickStats) {
	c.total += float64(stats.Contacts)
	c.samples++
}

func (c *ContactLoad) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *ContactLoad) Reset() {
	c.total = 0
	c.samples = 0
}

// TickTime tracks the mean wall time of a full step in microseconds,
// summed over all phases.
type TickTime struct {
	name    string
	samples int
	total   float64
}

func NewTickTime() *TickTime {
	return &TickTime{name: "tick_micros"}
}

func (t *TickTime) Name() string { return t.name }

func (t *TickTime) Observe(_ *store.Store, stats phys.TickStats) {
	t.total += float64(stats.BroadPhaseMicros + stats.NarrowPhaseMicros + stats.ResolveMicros + stats.IntegrateMicros)
	t.samples++
}

func (t *TickTime) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.total / float64(t.samples)
}

func (t *TickTime) Reset() {
	t.total = 0
	t.samples = 0
}
