package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/galaxysim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	configFile string
	preset     string
	runName    string

	numBodies  int
	frames     int
	dt         float64
	gm         float64
	diameter   float64
	lengthUnit string
	seed       uint64
	ordering   string
	backend    string
	workers    int
	invert     bool
	drift      float64
	playAfter  bool

	ensembleRuns  int
	ensembleLimit int

	frameIdx int
	plane    string
	tracks   bool
	output   string
	svgSize  int

	benchBodies int
	benchSteps  int
)

// main registers the commands and flags, opens the start menu when no
// subcommand is given, and exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "galaxysim",
		Short: "colliding disc galaxy simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: runMenu,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".galaxysim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "initialize two galaxies, integrate and save the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (default run_<unix time>)")
	runCmd.Flags().BoolVar(&playAfter, "play", false, "open the player when the run finishes")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same setup under consecutive seeds and compare metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 4, "number of seeds")
	ensembleCmd.Flags().IntVar(&ensembleLimit, "parallel", 0, "concurrent members (0 = all)")

	playCmd := &cobra.Command{
		Use:   "play [run]",
		Short: "replay a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	infoCmd := &cobra.Command{
		Use:   "info [run]",
		Short: "show run metadata and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  infoRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run]",
		Short: "plot mean acceleration and galaxy separation",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run]",
		Short: "acceleration statistics and spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run]",
		Short: "export a frame or the centroid tracks to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index (default last)")
	exportSVGCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane: xy, xz or yz")
	exportSVGCmd.Flags().BoolVar(&tracks, "tracks", false, "draw galaxy centroid tracks instead of a frame")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-10s %s\n", name, config.Presets[name].Description)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark force backends",
		Args:  cobra.NoArgs,
		RunE:  benchBackends,
	}
	benchCmd.Flags().IntVar(&benchBodies, "bodies", 2000, "body count")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 10, "steps per backend")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = NumCPU)")

	rootCmd.AddCommand(runCmd, ensembleCmd, playCmd, listCmd, infoCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "total bodies (even)")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to record")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&gm, "gm", config.DefaultGm, "gravitational parameter")
	cmd.Flags().Float64Var(&diameter, "diameter", config.DefaultDiameter, "body contact diameter")
	cmd.Flags().StringVar(&lengthUnit, "unit", config.DefaultUnit, "length unit label")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "sampling seed")
	cmd.Flags().StringVar(&ordering, "ordering", "snapshot", "update ordering: snapshot or interleaved")
	cmd.Flags().StringVar(&backend, "backend", "parallel", "force backend: parallel or serial")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = NumCPU)")
	cmd.Flags().BoolVar(&invert, "invert", false, "counter-rotate the top galaxy")
	cmd.Flags().Float64Var(&drift, "drift", config.DefaultDrift, "vertical approach speed of each galaxy")
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// buildConfig layers preset, config file and explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.NumBodies = numBodies
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("gm") {
		cfg.Gm = gm
	}
	if flags.Changed("diameter") {
		cfg.Diameter = diameter
	}
	if flags.Changed("unit") {
		cfg.LengthUnit = lengthUnit
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("ordering") {
		cfg.Ordering = ordering
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("invert") {
		cfg.Galaxy.InvertRotation = invert
	}
	if flags.Changed("drift") {
		cfg.Galaxy.DriftSpeed = drift
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
