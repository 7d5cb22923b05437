// Package solver advances collision state for one substep: broad phase
// over the spatial grid, narrow phase per candidate pair, and impulse
// resolution over color-partitioned contact groups.
//
// Every phase is a bounded, synchronous parallel fan-out over index ranges
// with a barrier at its end; nothing in the hot path blocks or suspends.
// Entity state is mutated only during resolution, and only under the
// contact-coloring discipline, so no locks are needed anywhere.
package solver

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/voxelphys/internal/collision"
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/spatial"
	"github.com/san-kum/voxelphys/internal/store"
)

// Config controls solver behaviour. More iterations improve stacking
// stability at the cost of time; more substeps improve everything at the
// cost of more time still.
type Config struct {
	Workers      int     `yaml:"workers"` // 0 means runtime.NumCPU()
	Iterations   int     `yaml:"iterations"`
	Substeps     int     `yaml:"substeps"`
	PositionBias float32 `yaml:"position_bias"`
	Slop         float32 `yaml:"slop"`
}

// DefaultConfig returns solver settings suitable for a game tick.
func DefaultConfig() Config {
	return Config{
		Workers:      0,
		Iterations:   4,
		Substeps:     2,
		PositionBias: 0.2,
		Slop:         0.01,
	}
}

// Validate rejects configurations the solver cannot run with.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", phys.ErrInvalidConfig, c.Workers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be >= 1, got %d", phys.ErrInvalidConfig, c.Iterations)
	}
	if c.Substeps < 1 {
		return fmt.Errorf("%w: substeps must be >= 1, got %d", phys.ErrInvalidConfig, c.Substeps)
	}
	if c.PositionBias <= 0 || c.PositionBias > 1 {
		return fmt.Errorf("%w: position bias must be in (0, 1], got %g", phys.ErrInvalidConfig, c.PositionBias)
	}
	if c.Slop < 0 {
		return fmt.Errorf("%w: slop must be >= 0, got %g", phys.ErrInvalidConfig, c.Slop)
	}
	return nil
}

// Solver owns the broad/narrow/resolve pipeline and its scratch buffers.
// One Solver serves one store; it is not safe for concurrent Step calls.
type Solver struct {
	cfg  Config
	log  *zap.Logger
	grid *spatial.Grid
	buf  *collision.Buffer

	workerPairs [][]phys.ContactPair // per-worker broad-phase collection
	colors      *colorer

	warnedDegenerate bool
	warnedDropped    bool
}

// New builds a solver over the given grid. A nil logger disables logging.
func New(cfg Config, grid *spatial.Grid, log *zap.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Solver{
		cfg:         cfg,
		log:         log,
		grid:        grid,
		buf:         collision.New(256),
		workerPairs: make([][]phys.ContactPair, cfg.Workers),
		colors:      newColorer(),
	}, nil
}

// Config returns the active solver configuration.
func (s *Solver) Config() Config { return s.cfg }

// Buffer exposes the collision buffer for inspection after a step.
func (s *Solver) Buffer() *collision.Buffer { return s.buf }

// Step advances collision state for one substep: rebuild the grid, collect
// and dedupe candidate pairs, narrow-phase them into contacts, then resolve
// contacts color group by color group.
func (s *Solver) Step(st *store.Store) phys.TickStats {
	var stats phys.TickStats

	start := time.Now()
	skipped := s.grid.Rebuild(st)
	stats.DegenerateSkips = skipped
	if skipped > 0 && !s.warnedDegenerate {
		s.warnedDegenerate = true
		s.log.Warn("degenerate entities excluded from collision pass",
			zap.Int("count", skipped))
	}

	s.broadPhase(st)
	stats.CandidatePairs = s.buf.PairCount()
	stats.BroadPhaseMicros = time.Since(start).Microseconds()

	start = time.Now()
	s.narrowPhase(st)
	stats.Manifolds = s.buf.ManifoldCount()
	stats.Contacts = s.buf.ContactCount()
	stats.DroppedContacts = s.buf.DroppedContacts()
	stats.NarrowPhaseMicros = time.Since(start).Microseconds()
	if stats.DroppedContacts > 0 && !s.warnedDropped {
		s.warnedDropped = true
		s.log.Warn("contact manifold cap reached, excess contacts dropped",
			zap.Int("dropped", stats.DroppedContacts),
			zap.Int("cap", phys.MaxContactsPerPair))
	}

	start = time.Now()
	s.resolve(st)
	stats.ResolveMicros = time.Since(start).Microseconds()

	return stats
}

// parallelFor fans n items out across the worker pool in contiguous
// chunks and waits for all of them. fn receives the worker index so phases
// can keep worker-local collection buffers.
func (s *Solver) parallelFor(n int, fn func(worker, start, end int)) {
	workers := s.cfg.Workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if n > 0 {
			fn(0, 0, n)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			fn(w, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()
}
