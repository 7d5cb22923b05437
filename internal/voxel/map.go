package voxel

// Chunked in-memory block storage for demos and tests. 16^3 chunks with
// power-of-two shifts for branchless indexing: idx = x | z<<4 | y<<8.

const (
	chunkSize = 16
	shiftZ    = 4
	shiftY    = 8
	coordMask = chunkSize - 1
)

type chunkCoord struct {
	X, Y, Z int32
}

type chunk struct {
	blocks [chunkSize * chunkSize * chunkSize]BlockID
}

func blockIdx(x, y, z int32) int {
	return int(x&coordMask) | int(z&coordMask)<<shiftZ | int(y&coordMask)<<shiftY
}

// Map is a sparse chunked world. Unset chunks read as the fill block
// (air by default). Not safe for writes concurrent with a running tick.
type Map struct {
	chunks map[chunkCoord]*chunk
	fill   BlockID
}

// NewMap returns an empty world reading as air.
func NewMap() *Map {
	return &Map{chunks: make(map[chunkCoord]*chunk)}
}

// NewFilledMap returns a world whose unset chunks read as fill.
func NewFilledMap(fill BlockID) *Map {
	return &Map{chunks: make(map[chunkCoord]*chunk), fill: fill}
}

func chunkOf(v int32) int32 {
	// Arithmetic shift floors toward negative infinity for negative coords.
	return v >> 4
}

// Set places a block, allocating its chunk on first write.
func (m *Map) Set(x, y, z int32, b BlockID) {
	key := chunkCoord{chunkOf(x), chunkOf(y), chunkOf(z)}
	c := m.chunks[key]
	if c == nil {
		c = &chunk{}
		if m.fill != Air {
			for i := range c.blocks {
				c.blocks[i] = m.fill
			}
		}
		m.chunks[key] = c
	}
	c.blocks[blockIdx(x, y, z)] = b
}

// Fill sets every block in the inclusive box [min, max].
func (m *Map) Fill(minX, minY, minZ, maxX, maxY, maxZ int32, b BlockID) {
	for y := minY; y <= maxY; y++ {
		for z := minZ; z <= maxZ; z++ {
			for x := minX; x <= maxX; x++ {
				m.Set(x, y, z, b)
			}
		}
	}
}

// BlockAt implements Source.
func (m *Map) BlockAt(x, y, z int32) BlockID {
	c := m.chunks[chunkCoord{chunkOf(x), chunkOf(y), chunkOf(z)}]
	if c == nil {
		return m.fill
	}
	return c.blocks[blockIdx(x, y, z)]
}
