package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/san-kum/voxelphys/internal/config"
	"github.com/san-kum/voxelphys/internal/integrate"
	"github.com/san-kum/voxelphys/internal/solver"
	"github.com/san-kum/voxelphys/internal/spatial"
	"github.com/san-kum/voxelphys/internal/store"
	"github.com/san-kum/voxelphys/internal/voxel"
)

// Scene extents. Terrain is built a little wider than the spawn region
// so nothing falls off the edge of the world.
const (
	spawnExtent   float32 = 24
	terrainMargin int32   = 8
	floorDepth    int32   = 4
)

// BuildScene assembles a ready-to-step world from configuration: voxel
// terrain for the named scene, a populated entity store, and the solver
// and integrator wired together.
func BuildScene(cfg *config.Config, log *zap.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	terrain, err := buildTerrain(cfg.Scene)
	if err != nil {
		return nil, err
	}

	st, err := store.New(cfg.MaxEntities)
	if err != nil {
		return nil, err
	}
	st.SetMaterialDefaults(cfg.Materials)

	grid, err := spatial.New(cfg.Spatial)
	if err != nil {
		return nil, err
	}
	sv, err := solver.New(cfg.Solver, grid, log)
	if err != nil {
		return nil, err
	}
	ig, err := integrate.New(cfg.Integrator, terrain, log)
	if err != nil {
		return nil, err
	}

	w := New(st, sv, ig, log)
	if err := spawnBodies(w, cfg.Scene, rng); err != nil {
		return nil, err
	}
	return w, nil
}

// buildTerrain lays the floor slab for every scene, plus the water
// basin for pool and the ladder column for stack.
func buildTerrain(scene config.SceneConfig) (*voxel.Map, error) {
	ext := int32(spawnExtent) + terrainMargin
	floor := scene.FloorY

	m := voxel.NewMap()
	m.Fill(-ext, floor-floorDepth, -ext, ext, floor-1, ext, voxel.Stone)

	switch scene.Name {
	case "drop", "rain", "dense", "stack":
	case "pool":
		// Stone rim around a water volume sitting on the floor slab.
		m.Fill(-9, floor, -9, 9, floor+2, 9, voxel.Water)
		m.Fill(-10, floor, -10, 10, floor+2, -10, voxel.Stone)
		m.Fill(-10, floor, 10, 10, floor+2, 10, voxel.Stone)
		m.Fill(-10, floor, -10, -10, floor+2, 10, voxel.Stone)
		m.Fill(10, floor, -10, 10, floor+2, 10, voxel.Stone)
	default:
		return nil, fmt.Errorf("unknown scene %q", scene.Name)
	}

	if scene.Name == "stack" {
		// A climbing column next to the stacks.
		m.Fill(int32(spawnExtent)-1, floor, int32(spawnExtent)-1, int32(spawnExtent)-1, floor+8, int32(spawnExtent)-1, voxel.Ladder)
	}

	return m, nil
}

func spawnBodies(w *World, scene config.SceneConfig, rng *rand.Rand) error {
	surface := float32(scene.FloorY)

	for i := 0; i < scene.Bodies; i++ {
		var pos mgl32.Vec3
		half := mgl32.Vec3{0.5, 0.5, 0.5}

		switch scene.Name {
		case "stack":
			// Columns of touching boxes, one column per 8 bodies.
			col := i / 8
			row := i % 8
			pos = mgl32.Vec3{
				float32(col%8)*3 - 10,
				surface + 0.5 + float32(row)*1.001,
				float32(col/8)*3 - 10,
			}
		case "pool":
			pos = mgl32.Vec3{
				rng.Float32()*16 - 8,
				surface + scene.DropHeight + rng.Float32()*4,
				rng.Float32()*16 - 8,
			}
		default:
			s := 0.2 + rng.Float32()*0.3
			half = mgl32.Vec3{s, s, s}
			pos = mgl32.Vec3{
				rng.Float32()*2*spawnExtent - spawnExtent,
				surface + 2 + rng.Float32()*scene.DropHeight,
				rng.Float32()*2*spawnExtent - spawnExtent,
			}
		}

		mass := 0.5 + rng.Float32()
		if _, err := w.AddEntity(pos, mgl32.Vec3{}, mass, half); err != nil {
			return err
		}
	}
	return nil
}
