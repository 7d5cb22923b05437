package solver

import (
	"github.com/san-kum/voxelphys/internal/collision"
	"github.com/san-kum/voxelphys/internal/phys"
)

// colorer partitions contacts into groups such that no entity appears in
// two contacts of the same group: a greedy coloring of the contact graph
// with entities as nodes and contacts as edges. Contacts within a group
// touch disjoint entities and can be resolved in parallel; groups run in
// ascending color order, which keeps resolution repeatable across runs.
type colorer struct {
	entityColors map[phys.EntityID]uint64 // bitmask of colors adjacent to the entity
	groups       [][]int                  // pair indices per color
}

const maxColors = 64

func newColorer() *colorer {
	return &colorer{
		entityColors: make(map[phys.EntityID]uint64),
	}
}

// partition assigns each contact-bearing pair the smallest color unused by
// either of its entities. Pairs are visited in sorted pair order, so the
// partition is deterministic. In the degenerate case where an entity is
// already adjacent to 64 colors, the contact spills into the last group,
// which is resolved sequentially.
func (c *colorer) partition(buf *collision.Buffer) [][]int {
	for k := range c.entityColors {
		delete(c.entityColors, k)
	}
	c.groups = c.groups[:0]

	n := buf.PairCount()
	for i := 0; i < n; i++ {
		if buf.ManifoldAt(i).Count == 0 {
			continue
		}
		pair := buf.Pair(i)
		used := c.entityColors[pair.A] | c.entityColors[pair.B]

		color := 0
		for color < maxColors-1 && used&(1<<uint(color)) != 0 {
			color++
		}

		bit := uint64(1) << uint(color)
		c.entityColors[pair.A] |= bit
		c.entityColors[pair.B] |= bit

		for len(c.groups) <= color {
			c.groups = append(c.groups, nil)
		}
		c.groups[color] = append(c.groups[color], i)
	}
	return c.groups
}
