// Package spatial implements the uniform spatial-hash grid used as the
// broad-phase index. The grid maps 3D cell coordinates to buckets of
// entity ids; an entity whose AABB spans several cells appears in every
// overlapped bucket. The grid is rebuilt from current AABBs before each
// broad phase and holds no other cross-tick state.
package spatial

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
)

// Config sizes the grid. EntitiesPerCell is only a bucket pre-allocation
// hint. Cell size trades multi-cell insertion cost (too small) against
// oversized buckets and wasted narrow-phase work (too large).
type Config struct {
	CellSize        float32    `yaml:"cell_size"`
	WorldMin        mgl32.Vec3 `yaml:"world_min,flow"`
	WorldMax        mgl32.Vec3 `yaml:"world_max,flow"`
	EntitiesPerCell int        `yaml:"entities_per_cell"`
}

// DefaultConfig returns grid settings for a mid-sized voxel world.
func DefaultConfig() Config {
	return Config{
		CellSize:        4.0,
		WorldMin:        mgl32.Vec3{-1024, -64, -1024},
		WorldMax:        mgl32.Vec3{1024, 320, 1024},
		EntitiesPerCell: 8,
	}
}

// Validate rejects configurations that cannot form a grid.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %g", phys.ErrInvalidConfig, c.CellSize)
	}
	for axis := 0; axis < 3; axis++ {
		if c.WorldMax[axis] <= c.WorldMin[axis] {
			return fmt.Errorf("%w: inverted world bounds on axis %d (min %g, max %g)",
				phys.ErrInvalidConfig, axis, c.WorldMin[axis], c.WorldMax[axis])
		}
	}
	return nil
}

type cellKey struct {
	x, y, z int32
}

// Grid is the spatial hash. Not safe for concurrent mutation; the solver
// only reads it concurrently after Rebuild completes.
type Grid struct {
	cfg      Config
	cellMax  [3]int32 // inclusive upper cell coordinate per axis
	cells    map[cellKey][]phys.EntityID
	occupied []cellKey // insertion-ordered keys of non-empty cells
}

// New builds an empty grid, rejecting invalid configuration.
func New(cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Grid{
		cfg:   cfg,
		cells: make(map[cellKey][]phys.EntityID),
	}
	for axis := 0; axis < 3; axis++ {
		span := cfg.WorldMax[axis] - cfg.WorldMin[axis]
		g.cellMax[axis] = int32(math32.Ceil(span/cfg.CellSize)) - 1
		if g.cellMax[axis] < 0 {
			g.cellMax[axis] = 0
		}
	}
	return g, nil
}

// Config returns the grid configuration.
func (g *Grid) Config() Config { return g.cfg }

func clampCell(v, hi int32) int32 {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// cellCoord converts a world position to a cell coordinate, clamped to the
// valid range so edge-of-world positions still land in a cell.
func (g *Grid) cellCoord(p mgl32.Vec3) cellKey {
	return cellKey{
		x: clampCell(int32(math32.Floor((p[0]-g.cfg.WorldMin[0])/g.cfg.CellSize)), g.cellMax[0]),
		y: clampCell(int32(math32.Floor((p[1]-g.cfg.WorldMin[1])/g.cfg.CellSize)), g.cellMax[1]),
		z: clampCell(int32(math32.Floor((p[2]-g.cfg.WorldMin[2])/g.cfg.CellSize)), g.cellMax[2]),
	}
}

// Insert appends the entity to every cell its AABB overlaps.
func (g *Grid) Insert(id phys.EntityID, box phys.AABB) {
	lo := g.cellCoord(box.Min)
	hi := g.cellCoord(box.Max)
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for z := lo.z; z <= hi.z; z++ {
				k := cellKey{x, y, z}
				bucket, ok := g.cells[k]
				if !ok {
					bucket = make([]phys.EntityID, 0, g.cfg.EntitiesPerCell)
					g.occupied = append(g.occupied, k)
				}
				g.cells[k] = append(bucket, id)
			}
		}
	}
}

// Reset empties every bucket without releasing backing storage, ready for
// the next tick's rebuild.
func (g *Grid) Reset() {
	for _, k := range g.occupied {
		g.cells[k] = g.cells[k][:0]
	}
	g.occupied = g.occupied[:0]
}

// Rebuild resets the grid and inserts every collidable entity from the
// store, deriving AABBs from current positions. Degenerate entities are
// skipped; their count is returned for the tick stats.
func (g *Grid) Rebuild(s *store.Store) (skipped int) {
	g.Reset()
	n := s.Len()
	for i := 0; i < n; i++ {
		id := phys.EntityID(i)
		if s.Degenerate(id) {
			skipped++
			continue
		}
		g.Insert(id, s.BoxAt(id))
	}
	return skipped
}

// QueryRegion returns the distinct entities whose buckets overlap the query
// box. Queries outside the world bounds are clamped, never rejected.
func (g *Grid) QueryRegion(box phys.AABB) []phys.EntityID {
	lo := g.cellCoord(box.Min)
	hi := g.cellCoord(box.Max)

	var out []phys.EntityID
	seen := make(map[phys.EntityID]struct{})
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for z := lo.z; z <= hi.z; z++ {
				for _, id := range g.cells[cellKey{x, y, z}] {
					if _, dup := seen[id]; dup {
						continue
					}
					seen[id] = struct{}{}
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// Buckets returns the non-empty buckets in insertion order. The broad
// phase shards this list across workers; buckets must be treated as
// read-only.
func (g *Grid) Buckets() [][]phys.EntityID {
	out := make([][]phys.EntityID, 0, len(g.occupied))
	for _, k := range g.occupied {
		if b := g.cells[k]; len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Stats describes current grid occupancy.
type Stats struct {
	Cells      int
	Entries    int
	MaxPerCell int
	AvgPerCell float32
}

// Stats reports bucket occupancy, useful when tuning cell size.
func (g *Grid) Stats() Stats {
	var st Stats
	for _, k := range g.occupied {
		n := len(g.cells[k])
		if n == 0 {
			continue
		}
		st.Cells++
		st.Entries += n
		if n > st.MaxPerCell {
			st.MaxPerCell = n
		}
	}
	if st.Cells > 0 {
		st.AvgPerCell = float32(st.Entries) / float32(st.Cells)
	}
	return st
}
