package voxel

import "testing"

func TestSetAndBlockAt(t *testing.T) {
	m := NewMap()
	if m.BlockAt(0, 0, 0) != Air {
		t.Error("empty map must read as air")
	}

	m.Set(3, 4, 5, Stone)
	if m.BlockAt(3, 4, 5) != Stone {
		t.Error("set block not readable")
	}
	if m.BlockAt(3, 5, 5) != Air {
		t.Error("neighbor block must stay air")
	}
}

func TestNegativeCoordinates(t *testing.T) {
	m := NewMap()
	m.Set(-1, -1, -1, Dirt)
	m.Set(-17, 0, 0, Wood)

	if m.BlockAt(-1, -1, -1) != Dirt {
		t.Error("negative coordinate block lost")
	}
	if m.BlockAt(-17, 0, 0) != Wood {
		t.Error("block in a negative chunk lost")
	}
	// Same in-chunk offset, different chunk.
	if m.BlockAt(15, 0, 0) != Air {
		t.Error("negative chunk bled into the positive one")
	}
}

func TestFill(t *testing.T) {
	m := NewMap()
	m.Fill(-2, 0, -2, 2, 1, 2, Stone)

	if m.BlockAt(-2, 0, -2) != Stone || m.BlockAt(2, 1, 2) != Stone {
		t.Error("fill bounds are inclusive")
	}
	if m.BlockAt(3, 0, 0) != Air || m.BlockAt(0, 2, 0) != Air {
		t.Error("fill leaked outside the box")
	}
}

func TestFilledMapDefault(t *testing.T) {
	m := NewFilledMap(Stone)
	if m.BlockAt(100, -50, 7) != Stone {
		t.Error("unset chunks must read as the fill block")
	}

	m.Set(0, 0, 0, Air)
	if m.BlockAt(0, 0, 0) != Air {
		t.Error("carved block must read as air")
	}
	// The rest of the touched chunk keeps the fill.
	if m.BlockAt(1, 0, 0) != Stone {
		t.Error("allocating a chunk must preserve the fill block")
	}
}

func TestFlatFloor(t *testing.T) {
	f := FlatFloor{Surface: 0}
	if f.BlockAt(0, -1, 0) != Stone {
		t.Error("below the surface must be stone")
	}
	if f.BlockAt(0, 0, 0) != Air {
		t.Error("the surface block itself is air")
	}
	if f.BlockAt(1000, 50, -1000) != Air {
		t.Error("above the surface must be air")
	}
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc(func(x, y, z int32) BlockID {
		if y < 2 {
			return Water
		}
		return Air
	})
	if src.BlockAt(0, 0, 0) != Water || src.BlockAt(0, 2, 0) != Air {
		t.Error("SourceFunc must delegate to the wrapped function")
	}
}

func TestSolid(t *testing.T) {
	for _, b := range []BlockID{Air, Water, Ladder} {
		if b.Solid() {
			t.Errorf("block %d must be passable", b)
		}
	}
	for _, b := range []BlockID{Stone, Dirt, Grass, Sand, Wood} {
		if !b.Solid() {
			t.Errorf("block %d must be solid", b)
		}
	}
}
