package spatial_test

import (
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/spatial"
	"github.com/san-kum/voxelphys/internal/store"
)

var _ = Describe("Grid", func() {
	var (
		cfg  spatial.Config
		grid *spatial.Grid
	)

	BeforeEach(func() {
		cfg = spatial.Config{
			CellSize:        4.0,
			WorldMin:        mgl32.Vec3{-32, -32, -32},
			WorldMax:        mgl32.Vec3{32, 32, 32},
			EntitiesPerCell: 4,
		}
		var err error
		grid, err = spatial.New(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("configuration", func() {
		It("rejects a non-positive cell size", func() {
			cfg.CellSize = 0
			_, err := spatial.New(cfg)
			Expect(err).To(MatchError(phys.ErrInvalidConfig))
		})

		It("rejects inverted world bounds", func() {
			cfg.WorldMax = mgl32.Vec3{-64, 32, 32}
			_, err := spatial.New(cfg)
			Expect(err).To(MatchError(phys.ErrInvalidConfig))
		})
	})

	Describe("insertion and queries", func() {
		It("finds an entity through its cell", func() {
			grid.Insert(7, phys.BoxAt(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0.5, 0.5, 0.5}))

			got := grid.QueryRegion(phys.BoxAt(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}))
			Expect(got).To(ConsistOf(phys.EntityID(7)))
		})

		It("returns each entity once even when it spans multiple cells", func() {
			// 6-unit box straddles several 4-unit cells.
			grid.Insert(3, phys.BoxAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{3, 3, 3}))

			got := grid.QueryRegion(phys.BoxAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{8, 8, 8}))
			Expect(got).To(ConsistOf(phys.EntityID(3)))
		})

		It("clamps out-of-bounds positions into edge cells", func() {
			grid.Insert(1, phys.BoxAt(mgl32.Vec3{1000, 1000, 1000}, mgl32.Vec3{0.5, 0.5, 0.5}))

			got := grid.QueryRegion(phys.BoxAt(mgl32.Vec3{31, 31, 31}, mgl32.Vec3{1, 1, 1}))
			Expect(got).To(ConsistOf(phys.EntityID(1)))
		})

		It("returns every entity exactly once for a whole-world query", func() {
			// 1000 entities spread across the grid, many sharing cells.
			for i := 0; i < 1000; i++ {
				p := mgl32.Vec3{
					float32(i%40)*1.5 - 30,
					float32((i/40)%10)*5 - 25,
					float32(i/400)*20 - 25,
				}
				grid.Insert(phys.EntityID(i), phys.BoxAt(p, mgl32.Vec3{0.5, 0.5, 0.5}))
			}

			got := grid.QueryRegion(phys.AABB{
				Min: cfg.WorldMin,
				Max: cfg.WorldMax,
			})
			Expect(got).To(HaveLen(1000))
		})

		It("misses entities outside the query region", func() {
			grid.Insert(2, phys.BoxAt(mgl32.Vec3{-20, 0, 0}, mgl32.Vec3{0.5, 0.5, 0.5}))

			got := grid.QueryRegion(phys.BoxAt(mgl32.Vec3{20, 0, 0}, mgl32.Vec3{1, 1, 1}))
			Expect(got).To(BeEmpty())
		})
	})

	Describe("rebuild", func() {
		var st *store.Store

		BeforeEach(func() {
			var err error
			st, err = store.New(16)
			Expect(err).NotTo(HaveOccurred())
		})

		It("indexes every live entity", func() {
			for i := 0; i < 5; i++ {
				_, err := st.Add(mgl32.Vec3{float32(i) * 2, 0, 0}, mgl32.Vec3{}, 1, mgl32.Vec3{0.5, 0.5, 0.5})
				Expect(err).NotTo(HaveOccurred())
			}

			skipped := grid.Rebuild(st)
			Expect(skipped).To(BeZero())

			got := grid.QueryRegion(phys.BoxAt(mgl32.Vec3{4, 0, 0}, mgl32.Vec3{8, 2, 2}))
			Expect(got).To(HaveLen(5))
		})

		It("skips degenerate entities and reports them", func() {
			_, err := st.Add(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{}, 1, mgl32.Vec3{0.5, 0.5, 0.5})
			Expect(err).NotTo(HaveOccurred())
			_, err = st.Add(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{}, 1, mgl32.Vec3{0, 0.5, 0.5})
			Expect(err).NotTo(HaveOccurred())

			Expect(grid.Rebuild(st)).To(Equal(1))
		})

		It("drops stale entries from the previous tick", func() {
			id, err := st.Add(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}, 1, mgl32.Vec3{0.5, 0.5, 0.5})
			Expect(err).NotTo(HaveOccurred())

			grid.Rebuild(st)
			st.SetPosition(id, mgl32.Vec3{-10, 0, 0})
			grid.Rebuild(st)

			Expect(grid.QueryRegion(phys.BoxAt(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{1, 1, 1}))).To(BeEmpty())
			Expect(grid.QueryRegion(phys.BoxAt(mgl32.Vec3{-10, 0, 0}, mgl32.Vec3{1, 1, 1}))).To(ConsistOf(id))
		})
	})

	Describe("stats", func() {
		It("reports occupancy", func() {
			// Both boxes sit inside the same 4-unit cell [0,4).
			grid.Insert(0, phys.BoxAt(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{0.5, 0.5, 0.5}))
			grid.Insert(1, phys.BoxAt(mgl32.Vec3{2.5, 2, 2}, mgl32.Vec3{0.5, 0.5, 0.5}))

			st := grid.Stats()
			Expect(st.Cells).To(Equal(1))
			Expect(st.Entries).To(Equal(2))
			Expect(st.MaxPerCell).To(Equal(2))
		})
	})

	Describe("buckets", func() {
		It("exposes only non-empty buckets", func() {
			grid.Insert(0, phys.BoxAt(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{0.5, 0.5, 0.5}))
			grid.Insert(1, phys.BoxAt(mgl32.Vec3{10, 2, 2}, mgl32.Vec3{0.5, 0.5, 0.5}))

			Expect(grid.Buckets()).To(HaveLen(2))

			grid.Reset()
			Expect(grid.Buckets()).To(BeEmpty())
		})
	})
})
