package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/analysis"
	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/export"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/metrics"
	"github.com/san-kum/fluidsim/internal/optim"
	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
	"github.com/san-kum/fluidsim/internal/viz"
)

// buildConfig resolves the preset argument, then the config file, then any
// flags the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.SimulationConfig, string, error) {
	name := "default"
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		name = args[0]
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) == 0 {
			name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("particles") {
		cfg.ParticleCount = particles
	}
	if flags.Changed("restitution") {
		cfg.Restitution = restitution
	}
	if flags.Changed("smoothing") {
		cfg.SmoothingRadius = smoothing
	}
	if flags.Changed("speed") {
		cfg.InitialSpeed = speed
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("gravity") {
		cfg.GravityEnabled = gravity
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger := slog.Default().With("run", name)
	s, err := sim.New(cfg, sim.WithLogger(logger), sim.WithMetrics(metrics.Default(cfg, logger)...))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, runErr := s.Run(ctx, cfg.Ticks)
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}

	// partial runs are still worth keeping
	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return errors.Join(runErr, err)
	}

	status := viz.StatusRunning.Render("completed")
	if runErr != nil {
		status = viz.StatusFailed.Render("stopped")
	}
	fmt.Println(viz.Header(fmt.Sprintf("%s %s", name, status)))
	fmt.Println(viz.Row("Run id", runID))
	fmt.Println(viz.Row("Particles", fmt.Sprintf("%d", cfg.ParticleCount)))
	fmt.Println(viz.Row("Ticks", fmt.Sprintf("%d / %d", result.Ticks, cfg.Ticks)))
	fmt.Println(viz.Row("Elapsed", elapsed.Round(time.Millisecond).String()))
	fmt.Println(viz.Row("Frames", fmt.Sprintf("%d", len(result.Frames))))
	fmt.Println()
	for _, k := range sortedKeys(result.Metrics) {
		fmt.Println(viz.Row(k, fmt.Sprintf("%.6f", result.Metrics[k])))
	}

	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// the alternate screen owns the terminal while the view runs
	s, err := sim.New(cfg, sim.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		return err
	}
	return viz.Run(s, name, frameRate)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tTICKS\tDT\tENERGY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\t%.2f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Ticks,
			run.Dt,
			run.Metrics["kinetic_energy"],
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if svgPath != "" {
		return exportSVG(st, meta.ID)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportSVG(st *storage.Store, runID string) error {
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	walls, err := fluid.NewBoxWalls(cfg.WorldBounds(), cfg.WallThickness)
	if err != nil {
		return err
	}
	scene := export.Scene{
		Bounds:         cfg.WorldBounds(),
		Walls:          walls,
		ParticleRadius: cfg.ParticleRadius,
		Scale:          svgScale,
	}

	var svg string
	if trajectory >= 0 {
		svg = export.TrajectorySVG(scene, frames, trajectory, "#00ff88")
		if svg == "" {
			return fmt.Errorf("particle %d has fewer than two recorded positions", trajectory)
		}
	} else {
		f, err := pickFrame(frames)
		if err != nil {
			return err
		}
		svg = export.FrameSVG(scene, f)
	}

	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err
	}
	slog.Info("svg written", "run", runID, "path", svgPath)
	return nil
}

// pickFrame resolves --frame against the recorded frames.
func pickFrame(frames []sim.Frame) (sim.Frame, error) {
	if len(frames) == 0 {
		return sim.Frame{}, fmt.Errorf("no recorded frames")
	}
	idx := frameIdx
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return sim.Frame{}, fmt.Errorf("frame %d out of range (run has %d)", frameIdx, len(frames))
	}
	return frames[idx], nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("ticks: %d\n\n", meta.Ticks)

	for _, name := range sortedKeys(series) {
		data := series[name]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data, ok := series[metric]
	if !ok {
		return fmt.Errorf("run %s has no series %q (available: %v)", runID, metric, sortedKeys(series))
	}
	if len(data) < 4 {
		return fmt.Errorf("series %q too short for analysis: %d samples", metric, len(data))
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("series: %s\n\n", metric)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[1:]
	if len(plotData) > 4 {
		plotData = plotData[:len(plotData)/2]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+metric+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	sum := analysis.Summarize(data)
	fmt.Printf("mean: %.4f  stddev: %.4f  min: %.4f  max: %.4f\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)

	freq, power := analysis.DominantFrequency(data, 1/meta.Dt)
	if freq == 0 {
		fmt.Println("no dominant frequency")
		return nil
	}
	fmt.Printf("dominant frequency: %.3f hz (power %.3f)\n", freq, power)
	fmt.Printf("period: %.3f s\n", 1.0/freq)
	return nil
}

// densityMap renders a recorded frame when the argument names a run and a
// freshly spawned preset otherwise.
func densityMap(cmd *cobra.Command, args []string) error {
	target := args[0]

	cfg := config.GetPreset(target)
	if cfg != nil {
		s, err := sim.New(cfg)
		if err != nil {
			return err
		}
		n := 0
		if cmd.Flags().Changed("ticks") {
			n = ticks
		}
		for i := 0; i < n; i++ {
			if err := s.Step(); err != nil {
				return err
			}
		}
		return printDensity(fmt.Sprintf("%s at tick %d", target, s.Tick()), s.DensityGrid(gridCols, gridRows))
	}

	st := storage.New(dataDir)
	cfg, err := st.LoadConfig(target)
	if err != nil {
		return fmt.Errorf("%s is neither a preset nor a run: %w", target, err)
	}
	frames, err := st.LoadFrames(target)
	if err != nil {
		return err
	}
	f, err := pickFrame(frames)
	if err != nil {
		return fmt.Errorf("run %s: %w", target, err)
	}
	grid := cfg.DensityField().Grid(f.Particles, cfg.WorldBounds().Box(), gridCols, gridRows)
	return printDensity(fmt.Sprintf("%s at tick %d", target, f.Tick), grid)
}

func printDensity(title string, grid [][]float64) error {
	if grid == nil {
		return fmt.Errorf("invalid grid size %dx%d", gridCols, gridRows)
	}
	cells := make([]float64, 0, gridCols*gridRows)
	for _, row := range grid {
		cells = append(cells, row...)
	}
	sum := analysis.Summarize(cells)

	fmt.Println(viz.Header(title))
	fmt.Print(viz.Heatmap(grid))
	fmt.Println()
	fmt.Println(viz.Row("Peak", fmt.Sprintf("%.5f", sum.Max)))
	fmt.Println(viz.Row("Mean", fmt.Sprintf("%.5f", sum.Mean)))
	return nil
}

func sweepSeeds(cmd *cobra.Command, args []string) error {
	base, name, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}

	configs := make([]*config.SimulationConfig, runs)
	for i := range configs {
		c := base.Clone()
		c.Seed = base.Seed + int64(i)
		configs[i] = c
	}

	ens := sim.NewEnsemble(configs, base.Ticks, func(i int) []sim.Option {
		logger := slog.Default().With("run", name, "seed", configs[i].Seed)
		return []sim.Option{
			sim.WithLogger(logger),
			sim.WithMetrics(metrics.Default(configs[i], logger)...),
		}
	})
	if parallel > 0 {
		ens.SetLimit(parallel)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))
	for i, r := range results {
		row := []string{fmt.Sprintf("%d", configs[i].Seed)}
		for _, n := range names {
			row = append(row, fmt.Sprintf("%.4f", r.Metrics[n]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func tuneParameters(cmd *cobra.Command, args []string) error {
	base, _, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", optim.ParamNames())
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, p := range tuneParams {
		name, values, err := parseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	if parallel > 0 {
		search.SetLimit(parallel)
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, trials, err := search.Search(ctx, base, base.Ticks, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metric))
	for _, t := range trials {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, fmt.Sprintf("%g", t.Params[n]))
		}
		if t.Err != nil {
			row = append(row, "invalid")
		} else {
			row = append(row, fmt.Sprintf("%.4f", t.Value))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.Header("best"))
	for _, n := range names {
		fmt.Println(viz.Row(n, fmt.Sprintf("%g", best.Params[n])))
	}
	fmt.Println(viz.Row(metric, fmt.Sprintf("%.6f", best.Value)))
	return nil
}

// parseParam splits "name=v1,v2" into a name and its values.
func parseParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=v1,v2", s)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid value in --param %q: %w", s, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, p := range config.ListPresets() {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
