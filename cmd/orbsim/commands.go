package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbsim/internal/analysis"
	"github.com/san-kum/orbsim/internal/automation"
	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/export"
	"github.com/san-kum/orbsim/internal/metrics"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/pcg"
	"github.com/san-kum/orbsim/internal/sim"
	"github.com/san-kum/orbsim/internal/storage"
	"github.com/san-kum/orbsim/internal/viz"
	"github.com/spf13/cobra"
)

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, s, used, err := build(cmd)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default(cfg.Bounds()) {
		s.AddMetric(m)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fmt.Printf("running %s for %d frames...\n", cfg.Variant, frames)
	start := time.Now()

	run := sim.Config{Frames: frames, Stride: stride}
	result, err := s.Run(ctx, run)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.MetadataFor(cfg, used, run), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("seed: %d\n", used)
	fmt.Printf("resets: %d\n", result.Resets)
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)
	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, m[name])
	}
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
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tRNG\tSEED\tFRAMES\tRESETS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.RNG,
			run.Seed,
			run.Frames,
			run.Resets,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("frames: %d\n\n", meta.Frames)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
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
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	spread := series["spread"]
	if len(spread) < 4 {
		return fmt.Errorf("not enough spread samples: %d", len(spread))
	}

	fmt.Printf("spread analysis: %s\n", meta.ID)
	fmt.Printf("variant: %s\n\n", meta.Variant)

	ps := analysis.PowerSpectrum(spread)
	plotData := ps
	if len(plotData) > 200 {
		plotData = plotData[:200]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (spread)"),
	)
	fmt.Println(graph)
	fmt.Println()

	period, power := analysis.DominantPeriod(spread)
	if period == 0 {
		fmt.Println("no dominant period")
	} else {
		fmt.Printf("dominant period: %.1f frames (magnitude %.2f)\n", period, power)
	}
	fmt.Printf("reset period: %d frames\n", meta.Threshold+2)

	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return nil
	}
	f, err := orbit.FromOrbiters(snaps[0].Orbiters, meta.Increment)
	if err != nil {
		return err
	}
	if m, err := orbit.ParseMode(meta.Mode); err == nil {
		f.SetMode(m)
	}
	fmt.Printf("divergence over %d frames (eps %g): %.4f\n",
		meta.Threshold, eps, analysis.Divergence(f, eps, meta.Threshold))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
}

// output opens --out, or stdout when unset.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func svgOptions() export.Options {
	opt := export.DefaultOptions(orbit.Style{Trail: trail, Thickness: 1, Tracked: tracked})
	opt.Scale = scale
	return opt
}

func snapshotSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("run %s has no recorded frames", args[0])
	}

	snap := snaps[len(snaps)-1]
	if frame >= 0 {
		i := sort.Search(len(snaps), func(i int) bool { return snaps[i].Frame >= frame })
		if i == len(snaps) || snaps[i].Frame != frame {
			return fmt.Errorf("frame %d not recorded (stride %d)", frame, meta.Stride)
		}
		snap = snaps[i]
	}

	out, err := output()
	if err != nil {
		return err
	}
	if err := export.SnapshotSVG(out, snap, meta.Bounds(), svgOptions()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func trajectorySVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	out, err := output()
	if err != nil {
		return err
	}
	if err := export.TrajectorySVG(out, snaps, index, meta.Bounds(), svgOptions()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	p, err := analysis.PhasePortrait(snaps, index, axis)
	if err != nil {
		return err
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("orbiter %d, %s against v%s, %d samples, %d cycles\n\n", index, axis, axis, len(p.Points), len(p.Cycles()))
	fmt.Print(p.ASCII(70, 20))
	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")
	return nil
}

func benchSteppers(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}

	fmt.Printf("benchmarking %d orbiters for %d frames (seed %d)\n\n", base.Count, frames, base.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tFRAMES/S\tMAX_DIFF")

	var reference []orbit.Orbiter
	for _, name := range orbit.StepperNames() {
		cfg := base.Clone()
		cfg.Stepper = name
		s, _, err := sim.FromConfig(cfg, time.Now())
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := s.Run(context.Background(), sim.Config{Frames: frames}); err != nil {
			return err
		}
		elapsed := time.Since(start)

		final := s.Field().Orbiters()
		if reference == nil {
			reference = final
		}
		fmt.Fprintf(w, "%s\t%.0f\t%.3g\n", name, float64(frames)/elapsed.Seconds(), maxDiff(reference, final))
	}

	return w.Flush()
}

func maxDiff(a, b []orbit.Orbiter) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, a[i].Pos.Sub(b[i].Pos).Len())
	}
	return d
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sw := &automation.IncrementSweep{
		Base:     base,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Frames:   frames,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	results, err := automation.RunSweep(ctx, sw, os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INCREMENT\tMEAN_SPREAD\tFINAL_SPREAD\tCONTAINED\tRESETS")
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.2f\t%.2f\t%.3f\t%d\n",
			r.Increment, r.MeanSpread, r.FinalSpread, r.Containment, r.Resets)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRNG\tMODE\tINCREMENT\tRESET\tTRAIL\tTRACKED")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%gs\t%g\t%d\n",
			name, p.RNG, p.Mode, p.Increment, p.ResetSeconds, p.Style.Trail, p.Style.Tracked)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nthemes: %s\n", strings.Join(viz.ThemeNames(), ", "))
	return nil
}

func sampleCheck(cmd *cobra.Command, args []string) error {
	if bins < 2 || samples < bins {
		return fmt.Errorf("need at least 2 bins and one draw per bin")
	}

	var rng *pcg.PCG
	if seed != 0 {
		rng = pcg.Seeded(uint64(seed), 54)
	} else {
		rng = pcg.FromClock(time.Now())
	}

	counts := make([]int, bins)
	for i := 0; i < samples; i++ {
		counts[rng.Bounded(uint32(bins))]++
	}

	data := make([]float64, bins)
	for i, c := range counts {
		data[i] = float64(c)
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(bins*4),
		asciigraph.Caption(fmt.Sprintf("bounded(%d) counts, %d draws", bins, samples)),
	))
	fmt.Println()

	stat := analysis.ChiSquare(counts)
	crit := analysis.ChiSquareQuantile(bins-1, 0.99)
	verdict := "uniform"
	if stat > crit {
		verdict = "NOT uniform"
	}
	fmt.Printf("chi-square: %.2f (df %d, 99%% critical %.2f): %s\n", stat, bins-1, crit, verdict)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, storage.New(dataDir), os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tSEED\tFRAMES\tRESETS\tSPREAD")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.2f\n",
			r.Name, r.RunID, r.Seed, r.Result.Frames, r.Result.Resets, r.Result.Metrics["spread"])
	}
	return w.Flush()
}
