package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/orbsim/internal/audio"
	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/gui"
	"github.com/san-kum/orbsim/internal/sim"
	"github.com/san-kum/orbsim/internal/term"
	"github.com/san-kum/orbsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	count      int
	increment  float64
	mode       string
	stepper    string
	fps        int
	resetSecs  float64
	rngName    string
	sound      string
	showFPS    bool
	// headless runs
	frames int
	stride int
	// analysis and export
	eps     float64
	frame   int
	index   int
	axis    string
	trail   float64
	tracked int
	scale   float64
	outFile string
	// sweep
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// sampler check
	samples int
	bins    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbsim",
		Short: "pairwise orbiter field simulation",
		RunE:  runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".orbsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "variant preset (classic, pcg, tracked, orbit)")
	pf.Int64Var(&seed, "seed", 0, "sampler seed (0 seeds from the clock)")
	pf.IntVar(&count, "count", config.DefaultCount, "number of orbiters")
	pf.Float64Var(&increment, "increment", config.DefaultIncrement, "velocity nudge per pair")
	pf.StringVar(&mode, "mode", "repel", "pairwise rule (repel, attract)")
	pf.StringVar(&stepper, "stepper", "accumulate", "update strategy (accumulate, inplace, parallel)")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.Float64Var(&resetSecs, "reset", config.DefaultResetSeconds, "seconds between resets")
	pf.StringVar(&rngName, "rng", "std", "sampler (std, pcg)")
	pf.StringVar(&sound, "sound", "off", "audio (off, cue, pad)")
	pf.BoolVar(&showFPS, "show-fps", false, "print frame rate to the console")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run the field in a raylib window",
		RunE:  runWindow,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the field in the terminal (bubbletea); picker when no preset is given",
		RunE:  runLive,
	}

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "run the field on a raw tcell screen",
		RunE:  runTerm,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save the result",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", 1000, "frames to simulate")
	runCmd.Flags().IntVar(&stride, "stride", 10, "snapshot every n frames")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spread spectrum and divergence",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&eps, "eps", 1e-6, "initial perturbation for divergence")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render a recorded frame to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotSVG,
	}
	snapshotCmd.Flags().IntVar(&frame, "frame", -1, "recorded frame (-1 for the last)")

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory [run_id]",
		Short: "render one orbiter's recorded path to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  trajectorySVG,
	}
	trajectoryCmd.Flags().IntVar(&index, "index", 0, "orbiter index")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "position/velocity portrait of one orbiter",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&index, "index", 0, "orbiter index")
	phaseCmd.Flags().StringVar(&axis, "axis", "x", "axis (x, y)")

	for _, c := range []*cobra.Command{snapshotCmd, trajectoryCmd} {
		c.Flags().Float64Var(&trail, "trail", config.DefaultTrail, "segment length in frames of velocity")
		c.Flags().IntVar(&tracked, "tracked", -1, "highlighted orbiter (-1 for none)")
		c.Flags().Float64Var(&scale, "scale", 1, "output scale")
		c.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare update strategies",
		RunE:  benchSteppers,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one seeded field across a range of increments",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.001, "smallest increment")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.01, "largest increment")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of increments")

	for _, c := range []*cobra.Command{benchCmd, sweepCmd} {
		c.Flags().IntVar(&frames, "frames", 1000, "frames to simulate")
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list variant presets",
		RunE:  listPresets,
	}

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "check the pcg bounded sampler for uniformity",
		RunE:  sampleCheck,
	}
	sampleCmd.Flags().IntVar(&samples, "n", 100000, "number of draws")
	sampleCmd.Flags().IntVar(&bins, "bins", 16, "number of bins")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario and save each step",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(windowCmd, liveCmd, termCmd, runCmd, listCmd, plotCmd, analyzeCmd,
		exportJSONCmd, snapshotCmd, trajectoryCmd, phaseCmd, benchCmd, presetsCmd, sampleCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("increment") {
		cfg.Increment = increment
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("stepper") {
		cfg.Stepper = stepper
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("reset") {
		cfg.ResetSeconds = resetSecs
	}
	if flags.Changed("rng") {
		cfg.RNG = rngName
	}
	if flags.Changed("sound") {
		cfg.Sound = sound
	}
	if flags.Changed("show-fps") {
		cfg.ShowFPS = showFPS
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(cmd *cobra.Command) (*config.Config, *sim.Simulator, int64, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, 0, err
	}
	s, used, err := sim.FromConfig(cfg, time.Now())
	if err != nil {
		return nil, nil, 0, err
	}
	return cfg, s, used, nil
}

// attachAudio wires the configured sound to s. Audio that cannot start is
// logged and skipped.
func attachAudio(s *sim.Simulator, cfg *config.Config) func() {
	switch cfg.Sound {
	case "cue":
		cue := audio.NewCue(880, 80*time.Millisecond)
		if err := cue.Initialize(); err != nil {
			log.Printf("audio: %v", err)
			return func() {}
		}
		s.AddObserver(cue)
		return cue.Close
	case "pad":
		pad := audio.NewPad(cfg.Bounds())
		if err := pad.Start(); err != nil {
			log.Printf("audio: %v", err)
			return func() {}
		}
		s.AddObserver(pad)
		return pad.Stop
	}
	return func() {}
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, s, _, err := build(cmd)
	if err != nil {
		return err
	}

	w, err := gui.Open(gui.Options{
		Title:   "orbsim",
		Bounds:  cfg.Bounds(),
		Style:   cfg.RenderStyle(),
		HUD:     cfg.ShowFPS,
		OnReset: s.ForceReset,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	stop := attachAudio(s, cfg)
	defer stop()

	var meter *sim.FPSMeter
	if cfg.ShowFPS {
		meter = sim.NewFPSMeter(os.Stdout, sim.SystemClock)
		defer fmt.Println()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return s.Loop(ctx, w, sim.NewPacer(cfg.FPS, sim.SystemClock), meter)
}

func runLive(cmd *cobra.Command, args []string) error {
	if preset == "" && configFile == "" {
		return viz.RunInteractive()
	}

	cfg, s, _, err := build(cmd)
	if err != nil {
		return err
	}
	stop := attachAudio(s, cfg)
	defer stop()

	return viz.RunLive(s, cfg)
}

func runTerm(cmd *cobra.Command, args []string) error {
	cfg, s, _, err := build(cmd)
	if err != nil {
		return err
	}

	screen, err := term.New(nil, term.Options{
		Bounds:  cfg.Bounds(),
		Style:   cfg.RenderStyle(),
		OnReset: s.ForceReset,
		Status: func() string {
			return fmt.Sprintf("%s  frame %d  resets %d  next reset %d  [r]eset [q]uit",
				cfg.Variant, s.Frame(), s.Resets(), s.Cycle().Remaining())
		},
	})
	if err != nil {
		return err
	}
	defer screen.Close()

	stop := attachAudio(s, cfg)
	defer stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return s.Loop(ctx, screen, sim.NewPacer(cfg.FPS, sim.SystemClock), nil)
}
