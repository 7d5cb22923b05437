package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/voxelphys/internal/analysis"
	"github.com/san-kum/voxelphys/internal/config"
	"github.com/san-kum/voxelphys/internal/export"
	"github.com/san-kum/voxelphys/internal/metrics"
	"github.com/san-kum/voxelphys/internal/optim"
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/sim"
	"github.com/san-kum/voxelphys/internal/storage"
	"github.com/san-kum/voxelphys/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	bodies     int
	duration   float64
	seed       int64
	workers    int
	verbose    bool
	snapshotAt float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "voxelphys",
		Short: "voxel rigid-body physics sandbox",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".voxelphys", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and save the tick series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with the terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sceneConfig(cmd, args)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}
	addSceneFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene across body counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's tick series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				scene := config.Presets[name]
				fmt.Printf("  %-8s %5d bodies  %4.0fs\n", name, scene.Bodies, scene.Duration)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run's contact series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the contact series as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "step a scene and print a top-down SVG snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotScene,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&snapshotAt, "at", 2.0, "simulated seconds before the snapshot")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid-search solver tuning for the fastest tick",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScene,
	}
	addSceneFlags(tuneCmd)

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, listCmd, plotCmd, exportCmd, presetsCmd,
		analyzeCmd, exportSVGCmd, snapshotCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name (overridden by positional scene)")
	cmd.Flags().IntVar(&bodies, "bodies", 0, "number of bodies")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().IntVar(&workers, "workers", 0, "solver workers (0 = NumCPU)")
}

// sceneConfig resolves precedence: defaults, then config file, then
// preset or positional scene name, then explicit flags.
func sceneConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	name := preset
	if len(args) > 0 {
		name = args[0]
	}
	if name != "" {
		p := config.GetPreset(name)
		if p == nil {
			return nil, fmt.Errorf("unknown scene: %s (available: %v)", name, config.ListPresets())
		}
		cfg.Scene = p.Scene
	}

	if cmd.Flags().Changed("bodies") {
		cfg.Scene.Bodies = bodies
	}
	if cmd.Flags().Changed("time") {
		cfg.Scene.Duration = float32(duration)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Solver.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := sceneConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	world, err := sim.BuildScene(cfg, log)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	collector := metrics.NewCollector(
		metrics.NewKineticEnergy(),
		metrics.NewEnergyGrowth(),
		metrics.NewContactLoad(),
		metrics.NewTickTime(),
		metrics.NewSettled(),
	)

	ticks := int(cfg.Scene.Duration / phys.FixedTimestep)
	samples := make([]storage.TickSample, 0, ticks)

	fmt.Printf("running %s: %d bodies, %d ticks\n", cfg.Scene.Name, cfg.Scene.Bodies, ticks)
	start := time.Now()

	for i := 0; i < ticks; i++ {
		world.TickOnce()
		stats := world.Stats()
		collector.Observe(world.Store(), stats)
		samples = append(samples, storage.TickSample{
			Tick:     i,
			Entities: world.Store().Len(),
			Stats:    stats,
		})
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scene:    cfg.Scene.Name,
		Seed:     cfg.Seed,
		Bodies:   cfg.Scene.Bodies,
		Duration: float64(cfg.Scene.Duration),
		Workers:  cfg.Solver.Workers,
		Metrics:  collector.Values(),
	}, samples)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f ticks/sec)\n", elapsed, float64(ticks)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range collector.Values() {
		fmt.Printf("  %s: %.4f\n", name, val)
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := sceneConfig(cmd, args)
	if err != nil {
		return err
	}

	counts := []int{256, 1024, 4096}
	if cmd.Flags().Changed("bodies") {
		counts = []int{cfg.Scene.Bodies}
	}
	const benchTicks = 300

	fmt.Printf("benchmarking %s (%d ticks each)\n\n", cfg.Scene.Name, benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tTICKS/SEC\tBROAD\tNARROW\tRESOLVE\tINTEGRATE\tCONTACTS")

	for _, n := range counts {
		bcfg := *cfg
		bcfg.Scene.Bodies = n
		if bcfg.Seed == 0 {
			bcfg.Seed = 42
		}

		world, err := sim.BuildScene(&bcfg, nil)
		if err != nil {
			return err
		}

		var total phys.TickStats
		start := time.Now()
		for i := 0; i < benchTicks; i++ {
			world.TickOnce()
			total.Add(world.Stats())
		}
		elapsed := time.Since(start)

		perTick := func(v int64) string {
			return fmt.Sprintf("%dus", v/benchTicks)
		}
		fmt.Fprintf(w, "%d\t%.0f\t%s\t%s\t%s\t%s\t%d\n",
			n,
			float64(benchTicks)/elapsed.Seconds(),
			perTick(total.BroadPhaseMicros),
			perTick(total.NarrowPhaseMicros),
			perTick(total.ResolveMicros),
			perTick(total.IntegrateMicros),
			total.Contacts/benchTicks,
		)
	}

	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tBODIES\tTICKS\tWORKERS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Ticks,
			run.Workers,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("ticks: %d\n\n", len(series))

	plots := []struct {
		caption string
		extract func(storage.TickSample) float64
	}{
		{"contacts per tick", func(s storage.TickSample) float64 { return float64(s.Stats.Contacts) }},
		{"candidate pairs per tick", func(s storage.TickSample) float64 { return float64(s.Stats.CandidatePairs) }},
		{"resolve time (us)", func(s storage.TickSample) float64 { return float64(s.Stats.ResolveMicros) }},
	}

	for _, p := range plots {
		data := make([]float64, len(series))
		for i, s := range series {
			data[i] = p.extract(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func contactSeries(runID string) ([]float64, error) {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no data in run %s", runID)
	}
	data := make([]float64, len(series))
	for i, s := range series {
		data[i] = float64(s.Stats.Contacts)
	}
	return data, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	data, err := contactSeries(args[0])
	if err != nil {
		return err
	}

	ps := analysis.Spectrum(data)
	plotData := ps
	if len(ps) >= 8 {
		plotData = ps[:len(ps)/2]
	}

	fmt.Printf("frequency analysis: %s\n\n", args[0])
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("contact spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	sampleRate := 1.0 / float64(phys.FixedTimestep)
	freq := analysis.DominantFrequency(ps, sampleRate)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	data, err := contactSeries(args[0])
	if err != nil {
		return err
	}
	fmt.Println(export.SeriesSVG(data, 800, 300, "#00ff00"))
	return nil
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	cfg, err := sceneConfig(cmd, args)
	if err != nil {
		return err
	}
	world, err := sim.BuildScene(cfg, nil)
	if err != nil {
		return err
	}

	ticks := int(snapshotAt / float64(phys.FixedTimestep))
	for i := 0; i < ticks; i++ {
		world.TickOnce()
	}

	fmt.Println(export.SnapshotSVG(world.Store(), 32, 800))
	return nil
}

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := sceneConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	const tuneTicks = 120

	gs := optim.NewGridSearch(
		[]string{"cell_size", "iterations"},
		[][]float64{{2, 4, 8}, {2, 4, 8}},
	)

	objective := func(_ context.Context, params map[string]float64) (float64, error) {
		tcfg := *cfg
		tcfg.Spatial.CellSize = float32(params["cell_size"])
		tcfg.Solver.Iterations = int(params["iterations"])

		world, err := sim.BuildScene(&tcfg, nil)
		if err != nil {
			return 0, err
		}

		start := time.Now()
		for i := 0; i < tuneTicks; i++ {
			world.TickOnce()
		}
		return float64(time.Since(start).Microseconds()) / tuneTicks, nil
	}

	fmt.Printf("tuning %s (%d bodies, %d ticks per point)\n", cfg.Scene.Name, cfg.Scene.Bodies, tuneTicks)
	params, best, err := gs.Search(context.Background(), objective)
	if err != nil {
		return err
	}
	if params == nil {
		return fmt.Errorf("no configuration completed")
	}

	fmt.Printf("best: cell_size=%.0f iterations=%.0f (%.0fus/tick)\n",
		params["cell_size"], params["iterations"], best)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
