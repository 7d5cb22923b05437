// Package voxel defines the world-block boundary the physics core consumes.
// The core only needs one operation, BlockAt, and only distinguishes solid,
// water, ladder, and air; every other block property belongs to the world
// layer.
package voxel

// BlockID identifies a block type. Zero is air.
type BlockID uint16

const (
	Air BlockID = iota
	Stone
	Dirt
	Grass
	Sand
	Wood
	Water
	Ladder
)

// Solid reports whether a body collides with this block. Air, water, and
// ladder are passable; everything else is solid.
func (b BlockID) Solid() bool {
	return b != Air && b != Water && b != Ladder
}

// Source is the block-lookup capability the integrator sweeps against.
// Implementations must be safe for concurrent reads during a tick.
type Source interface {
	BlockAt(x, y, z int32) BlockID
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(x, y, z int32) BlockID

// BlockAt calls f.
func (f SourceFunc) BlockAt(x, y, z int32) BlockID { return f(x, y, z) }

// FlatFloor is an infinite flat world: solid stone strictly below Surface,
// air everywhere else. Block y occupies world span [y, y+1).
type FlatFloor struct {
	Surface int32
}

// BlockAt returns Stone below the surface and Air above.
func (f FlatFloor) BlockAt(_, y, _ int32) BlockID {
	if y < f.Surface {
		return Stone
	}
	return Air
}
