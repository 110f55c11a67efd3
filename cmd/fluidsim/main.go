package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string

	ticks       int
	dt          float64
	particles   int
	restitution float64
	smoothing   float64
	speed       float64
	seed        int64
	gravity     bool

	frameRate int
	gridCols  int
	gridRows  int
	frameIdx  int
	metric    string
	runs      int
	parallel  int

	tuneParams []string

	svgPath    string
	trajectory int
	svgScale   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fluidsim",
		Short:         "2d particle fluid simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "write a recorded frame as svg instead of printing metadata")
	exportCmd.Flags().IntVar(&frameIdx, "frame", -1, "recorded frame index, negative counts from the end")
	exportCmd.Flags().IntVar(&trajectory, "trajectory", -1, "draw this particle's path instead of a frame")
	exportCmd.Flags().Float64Var(&svgScale, "scale", 1, "svg pixels per world unit")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metric, "metric", "kinetic_energy", "series to analyze")

	densityCmd := &cobra.Command{
		Use:   "density [run_id|preset]",
		Short: "density heat map of a recorded frame or a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  densityMap,
	}
	densityCmd.Flags().IntVar(&gridCols, "cols", 60, "heat map columns")
	densityCmd.Flags().IntVar(&gridRows, "rows", 20, "heat map rows")
	densityCmd.Flags().IntVar(&frameIdx, "frame", -1, "recorded frame index, negative counts from the end")
	densityCmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to advance a preset before sampling")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run one preset over several seeds concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepSeeds,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", 4, "number of seeds")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs, 0 for unlimited")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search config parameters minimizing a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneParameters,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "kinetic_energy", "metric to minimize")
	tuneCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs, 0 for unlimited")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, exportCmd, plotCmd, analyzeCmd, densityCmd, sweepCmd, tuneCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&ticks, "ticks", 600, "ticks to simulate")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "fixed timestep")
	cmd.Flags().IntVar(&particles, "particles", 36, "particle count")
	cmd.Flags().Float64Var(&restitution, "restitution", 0.4, "fraction of velocity kept on a bounce")
	cmd.Flags().Float64Var(&smoothing, "smoothing", 40, "density smoothing radius")
	cmd.Flags().Float64Var(&speed, "speed", 0, "initial random speed per axis")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&gravity, "gravity", false, "enable gravity")
}

// setupLogging installs the default slog handler on stderr so that stdout
// stays free for command output.
func setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch logFormat {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", logFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
