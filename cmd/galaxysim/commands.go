package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/galaxysim/internal/analysis"
	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/export"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/nbody"
	"github.com/san-kum/galaxysim/internal/sampler"
	"github.com/san-kum/galaxysim/internal/sim"
	"github.com/san-kum/galaxysim/internal/storage"
	"github.com/san-kum/galaxysim/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

func runMenu(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	items := make([]viz.MenuItem, 0)
	for _, name := range config.ListPresets() {
		items = append(items, viz.MenuItem{Kind: viz.ChoiceNew, Name: name, Desc: config.Presets[name].Description})
	}
	runs, err := st.List()
	if err != nil {
		return err
	}
	for _, r := range runs {
		desc := fmt.Sprintf("%d bodies, %d frames, %s", r.Bodies, r.Frames, r.Created.Format("2006-01-02 15:04"))
		items = append(items, viz.MenuItem{Kind: viz.ChoiceReplay, Name: r.Name, Desc: desc})
	}

	choice, ok, err := viz.RunMenu(items)
	if err != nil || !ok {
		return err
	}

	if choice.Kind == viz.ChoiceReplay {
		return play(st, choice.Name)
	}

	cfg := config.GetPreset(choice.Name)
	name, err := simulateAndSave(cfg, "")
	if err != nil {
		return err
	}
	return play(st, name)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	name, err := simulateAndSave(cfg, runName)
	if err != nil {
		return err
	}

	if playAfter {
		return play(storage.New(dataDir), name)
	}
	return nil
}

// simulateAndSave runs cfg to completion and stores it. An interrupted run
// keeps the frames recorded so far.
func simulateAndSave(cfg *config.Config, name string) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	step := max(cfg.Frames/100, 1)
	progress := sim.ObserverFunc(func(done, total int) {
		if done%step == 0 || done == total {
			fmt.Print(viz.ProgressLine(done, total, 30))
		}
	})

	s, err := sim.New(cfg, sim.WithLogger(slog.Default()), sim.WithObserver(progress))
	if err != nil {
		return "", err
	}

	fmt.Printf("initializing %d bodies (seed %d)...\n", cfg.NumBodies, cfg.Seed)
	if err := s.InitializeStates(); err != nil {
		return "", err
	}

	result, runErr := s.Run(ctx, 0)
	fmt.Println()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return "", runErr
	}
	if result == nil || result.Frames == 0 {
		if runErr != nil {
			return "", runErr
		}
		return "", errors.New("no frames recorded")
	}

	name, err = st.Save(name, result.Series, storage.RunInfo{
		Seed:    cfg.Seed,
		Dt:      cfg.Dt,
		Config:  cfg,
		Metrics: result.Metrics,
	})
	if err != nil {
		return "", err
	}

	if runErr != nil {
		fmt.Printf("interrupted after %d frames\n", result.Frames)
	}
	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", name)
	fmt.Printf("frames: %d\n", result.Frames)
	printMetrics(os.Stdout, result.Metrics)
	return name, nil
}

func printMetrics(out io.Writer, m map[string]float64) {
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range []string{"momentum_drift", "energy_drift", "exclusions", "peak_acceleration"} {
		if v, ok := m[name]; ok {
			fmt.Fprintf(out, "  %s: %.6g\n", name, v)
		}
	}
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if ensembleRuns < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", ensembleRuns)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d seeds from %d...\n", ensembleRuns, cfg.Seed)
	start := time.Now()
	results, err := sim.NewEnsemble(cfg, ensembleRuns, cfg.Seed, ensembleLimit).Run(ctx, sim.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tMOMENTUM\tENERGY\tEXCLUSIONS\tCLOSEST\tTIME")
	for i, r := range results {
		sep, err := analysis.Separation(r.Series)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%d\t%.3g\t%.3g\t%d\t%.4g\t%v\n",
			cfg.Seed+uint64(i),
			r.Frames,
			r.Metrics["momentum_drift"],
			r.Metrics["energy_drift"],
			r.Exclusions,
			floats.Min(sep),
			r.Elapsed.Round(time.Millisecond),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntotal %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func playRun(cmd *cobra.Command, args []string) error {
	return play(storage.New(dataDir), args[0])
}

func play(st *storage.Store, name string) error {
	s, err := sim.LoadSaved(st, name)
	if err != nil {
		return err
	}
	return viz.Play(s.Series(), name)
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
	fmt.Fprintln(w, "ID\tCREATED\tBODIES\tFRAMES\tDT\tSEED\tUNIT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%d\t%s\n",
			run.Name,
			run.Created.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Frames,
			run.Dt,
			run.Seed,
			run.Unit,
		)
	}
	return w.Flush()
}

func infoRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.LoadMeta(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", meta.Name)
	fmt.Fprintf(w, "created\t%s\n", meta.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "bodies\t%d\n", meta.Bodies)
	fmt.Fprintf(w, "frames\t%d\n", meta.Frames)
	fmt.Fprintf(w, "dt\t%g\n", meta.Dt)
	fmt.Fprintf(w, "seed\t%d\n", meta.Seed)
	fmt.Fprintf(w, "unit\t%s\n", meta.Unit)

	if cfg, err := st.LoadConfig(meta.Name); err == nil {
		fmt.Fprintf(w, "gm\t%g\n", cfg.Gm)
		fmt.Fprintf(w, "diameter\t%g\n", cfg.Diameter)
		fmt.Fprintf(w, "ordering\t%s\n", cfg.Ordering)
		fmt.Fprintf(w, "rotation\t%s\n", rotationLabel(cfg.Galaxy.InvertRotation))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	printMetrics(os.Stdout, meta.Metrics)
	return nil
}

func rotationLabel(inverted bool) string {
	if inverted {
		return "counter-rotating"
	}
	return "co-rotating"
}

func plotRun(cmd *cobra.Command, args []string) error {
	s, err := sim.LoadSaved(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	ser := s.Series()

	fmt.Printf("run: %s\n", args[0])
	fmt.Printf("frames: %d\n\n", ser.Len())

	fmt.Println(asciigraph.Plot(analysis.MeanAccelerationSeries(ser),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mean |a| per frame"),
	))
	fmt.Println()

	sep, err := analysis.Separation(ser)
	if err != nil {
		return err
	}
	fmt.Println(asciigraph.Plot(sep,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("centroid separation (%s)", ser.Unit())),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	s, err := sim.LoadSaved(st, args[0])
	if err != nil {
		return err
	}
	ser := s.Series()
	if ser.Len() < 2 {
		return fmt.Errorf("need at least 2 frames, have %d", ser.Len())
	}

	fmt.Printf("analysis: %s\n\n", args[0])

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tMIN |a|\tMEAN |a|\tMAX |a|\tSTD")
	for _, t := range []int{0, ser.Len() / 2, ser.Len() - 1} {
		fs, err := analysis.FrameStats(ser, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%.4g\t%.4g\t%.4g\t%.4g\n", t, fs.Min, fs.Mean, fs.Max, fs.Std)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sep, err := analysis.Separation(ser)
	if err != nil {
		return err
	}
	closest := floats.MinIdx(sep)
	fmt.Printf("\nclosest approach: frame %d, %.4g %s\n", closest, sep[closest], ser.Unit())

	mean := analysis.MeanAccelerationSeries(ser)
	ps := analysis.PowerSpectrum(mean)
	fmt.Println()
	fmt.Println(asciigraph.Plot(ps,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("spectrum of mean |a|"),
	))

	if period := analysis.DominantPeriod(mean); period > 0 {
		fmt.Printf("\ndominant period: %.1f frames", period)
		if meta, err := st.LoadMeta(args[0]); err == nil && meta.Dt > 0 {
			fmt.Printf(" (%.4g time units)", period*meta.Dt)
		}
		fmt.Println()
	}
	return nil
}

func openOutput() (io.Writer, func() error, error) {
	if output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ser, meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := openOutput()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, ser, meta.Metrics); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	p, err := export.ParsePlane(strings.ToLower(plane))
	if err != nil {
		return err
	}

	s, err := sim.LoadSaved(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	ser := s.Series()

	w, closeFn, err := openOutput()
	if err != nil {
		return err
	}

	if tracks {
		err = export.CentroidTracksToSVG(w, ser, p, svgSize)
	} else {
		t := frameIdx
		if t < 0 {
			t = ser.Len() - 1
		}
		err = export.FrameToSVG(w, ser, t, p, svgSize)
	}
	if err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func benchBackends(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.NumBodies = benchBodies
	if err := cfg.Validate(); err != nil {
		return err
	}

	initial := nbody.NewBodies(cfg.NumBodies)
	if _, err := galaxy.Initialize(initial, cfg.GalaxyParams(), sampler.New(cfg.Seed)); err != nil {
		return err
	}

	fmt.Printf("benchmarking %d bodies, %d steps\n\n", cfg.NumBodies, benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tORDERING\tTIME\tSTEPS/SEC\tPAIRS/SEC")

	pairs := float64(cfg.NumBodies) * float64(cfg.NumBodies-1) / 2
	for _, name := range compute.Names() {
		be, err := compute.Lookup(name, workers)
		if err != nil {
			return err
		}
		for _, ord := range []nbody.Ordering{nbody.Snapshot, nbody.Interleaved} {
			if ord == nbody.Interleaved && name != "serial" {
				continue
			}
			b := cloneBodies(initial)
			k := nbody.NewKernel(cfg.Gm, cfg.Diameter, ord, be)

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				k.Step(b, cfg.Dt)
			}
			elapsed := time.Since(start)

			rate := float64(benchSteps) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%s\t%v\t%.2f\t%.3g\n", be.Name(), ord, elapsed.Round(time.Microsecond), rate, rate*pairs)
		}
	}
	return w.Flush()
}

func cloneBodies(b *nbody.Bodies) *nbody.Bodies {
	c := nbody.NewBodies(b.Len())
	copy(c.Pos, b.Pos)
	copy(c.Vel, b.Vel)
	return c
}
