package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gridflow/internal/analysis"
	"github.com/san-kum/gridflow/internal/automation"
	"github.com/san-kum/gridflow/internal/config"
	"github.com/san-kum/gridflow/internal/export"
	"github.com/san-kum/gridflow/internal/gui"
	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/optim"
	"github.com/san-kum/gridflow/internal/scenario"
	"github.com/san-kum/gridflow/internal/sim"
	"github.com/san-kum/gridflow/internal/storage"
	"github.com/san-kum/gridflow/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	configFile  string
	preset      string
	width       int
	height      int
	cellDim     int
	dt          float64
	frames      int
	advectColor bool
	renderMode  string
	workers     int
	velocity    float64
	seed        int64

	runs     int
	pngPath  string
	gifPath  string
	svgPath  string
	scale    int
	gifEvery int
	outPath  string

	scriptFile string
	vary       []string
	metricName string
	maximize   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridflow",
		Short: "interactive semi-Lagrangian grid advection",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gridflow", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a headless simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&runs, "runs", 1, "ensemble size, one seed per run")
	runCmd.Flags().StringVar(&pngPath, "png", "", "write the final frame as PNG")
	runCmd.Flags().StringVar(&gifPath, "gif", "", "record the run as an animated GIF")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as SVG")
	runCmd.Flags().IntVar(&scale, "scale", 4, "image upscale factor")
	runCmd.Flags().IntVar(&gifEvery, "gif-every", 2, "keep one GIF frame out of N")
	runCmd.Flags().StringVar(&scriptFile, "script", "", "frame event script (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [scenario]",
		Short: "run interactively in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			s, setup, err := buildSimulation(cfg, cfg.Seed)
			if err != nil {
				return err
			}
			return gui.Run(s, setup, cfg.Scenario)
		},
	}
	addSimFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-frame statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default stdout)")
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "also plot moving cells per frame as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of moving cells per frame",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "grid search over parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepParams,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&vary, "vary", nil, "parameter values, e.g. velocity=2,4,8 (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "coverage", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise instead of minimise")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCENARIO\tSIZE\tCELL\tFRAMES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\n", name, p.Scenario, p.Width, p.Height, p.CellDim, p.Frames)
			}
			return w.Flush()
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := scenario.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportCmd, analyzeCmd, sweepCmd, presetsCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&width, "width", d.Width, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", d.Height, "image height in pixels")
	cmd.Flags().IntVar(&cellDim, "cell-dim", d.CellDim, "cell edge in pixels")
	cmd.Flags().Float64Var(&dt, "dt", d.TimeStep, "time step")
	cmd.Flags().IntVar(&frames, "frames", d.Frames, "frames to run")
	cmd.Flags().BoolVar(&advectColor, "color", d.AdvectColor, "advect the color field")
	cmd.Flags().StringVar(&renderMode, "mode", d.RenderMode, "render mode (motion, color)")
	cmd.Flags().IntVar(&workers, "workers", d.Workers, "parallel workers for row passes")
	cmd.Flags().Float64Var(&velocity, "velocity", d.InjectionVelocity, "vertical velocity stamped by activations")
	cmd.Flags().Int64Var(&seed, "seed", 0, "scenario seed")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if runs > 1 {
		return runEnsemble(ctx, st, cfg)
	}

	s, setup, err := buildSimulation(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	if err := s.Seed(setup.Vx, setup.Vy, setup.Activated); err != nil {
		return err
	}

	schedule := cfg.Schedule()
	var runner *automation.Runner
	if scriptFile != "" {
		script, err := automation.LoadScript(scriptFile)
		if err != nil {
			return err
		}
		for f, pixels := range script.Schedule(cfg.Width, cfg.Height) {
			schedule[f] = append(schedule[f], pixels...)
		}
		runner = automation.NewRunner(s, script)
		s.AddObserver(runner)
	}

	var rec *export.GIFRecorder
	if gifPath != "" {
		rec = export.NewGIFRecorder(scale, gifEvery)
		s.AddObserver(rec)
	}

	logrus.WithFields(logrus.Fields{
		"scenario": cfg.Scenario,
		"size":     fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"cells":    s.Grid().CellsPerSide(),
		"frames":   cfg.Frames,
	}).Info("starting run")

	result, err := s.Run(ctx, cfg.Frames, schedule)
	if result == nil {
		return err
	}
	if runner != nil && runner.Err() != nil {
		logrus.WithError(runner.Err()).Warn("script event failed")
	}
	if err != nil {
		logrus.WithError(err).Warnf("run stopped after %d frames", result.Frames)
	}

	runID, saveErr := st.Save(runInfo(cfg, cfg.Seed), result)
	if saveErr != nil {
		return saveErr
	}

	if pngPath != "" {
		if err := export.WritePNG(pngPath, s.Buffer(), scale); err != nil {
			return err
		}
	}
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.BufferToSVG(s.Buffer(), float64(scale))), 0644); err != nil {
			return err
		}
	}
	if rec != nil {
		if err := rec.WriteFile(gifPath); err != nil {
			return err
		}
	}

	fmt.Printf("run saved: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	for _, name := range []string{"moving_cells", "peak_speed", "mean_speed", "coverage"} {
		fmt.Printf("%s: %.4f\n", name, result.Metrics[name])
	}
	return err
}

func runEnsemble(ctx context.Context, st *storage.Store, cfg *config.Config) error {
	results, err := sim.NewEnsemble(factory(cfg), runs, cfg.Seed).Run(ctx, cfg.Frames)
	if err != nil {
		return err
	}
	for i, result := range results {
		runSeed := cfg.Seed + int64(i)
		runID, err := st.Save(runInfo(cfg, runSeed), result)
		if err != nil {
			return err
		}
		fmt.Printf("run saved: %s (seed %d, moving %.0f)\n", runID, runSeed, result.Metrics["moving_cells"])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, setup, err := buildSimulation(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	m, err := viz.NewModel(s, setup, cfg.Scenario)
	if err != nil {
		return err
	}
	return viz.Run(m)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSIZE\tCELL\tDT\tFRAMES\tMODE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%.2f\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.CellDim,
			run.TimeStep,
			run.Frames,
			run.RenderMode,
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

	stats, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(stats))

	series := []struct {
		caption string
		value   func(metrics.FrameStats) float64
	}{
		{"moving cells", func(f metrics.FrameStats) float64 { return float64(f.MovingCells) }},
		{"peak speed", func(f metrics.FrameStats) float64 { return f.PeakSpeed }},
		{"mean speed", func(f metrics.FrameStats) float64 { return f.MeanSpeed }},
		{"coverage", func(f metrics.FrameStats) float64 { return f.Coverage }},
	}

	for _, s := range series {
		data := make([]float64, len(stats))
		for i, f := range stats {
			data[i] = s.value(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	if err := st.ExportJSON(runID, outPath); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Printf("exported to %s\n", outPath)
	}

	if svgPath == "" {
		return nil
	}
	stats, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	values := make([]float64, len(stats))
	for i, f := range stats {
		values[i] = float64(f.MovingCells)
	}
	return os.WriteFile(svgPath, []byte(export.SeriesToSVG(values, 800, 300, "#00ccff")), 0644)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(stats) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	data := make([]float64, len(stats))
	for i, f := range stats {
		data[i] = float64(f.MovingCells)
	}

	ps := analysis.PowerSpectrum(data)
	graph := asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (moving cells)"),
	)
	fmt.Println(graph)
	fmt.Println()

	if period, ok := analysis.DominantPeriod(data); ok {
		fmt.Printf("dominant period: %.2f frames\n", period)
	} else {
		fmt.Println("no dominant period")
	}
	return nil
}

// parseVary splits "name=v1,v2" flags into parameter names and ranges.
func parseVary(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid --vary %q, want name=v1,v2", arg)
		}
		values := make([]float64, 0)
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid --vary %q: %w", arg, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func sweepParams(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseVary(vary)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing to sweep, pass --vary")
	}

	build := func(c *config.Config) (*sim.Simulator, sim.Schedule, error) {
		return factory(c)(c.Seed)
	}

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = maximize
	trials, best, err := g.Search(cmd.Context(), cfg, build, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metricName))
	for _, t := range trials {
		cols := make([]string, len(names))
		for i, n := range names {
			cols[i] = strconv.FormatFloat(t.Params[n], 'g', -1, 64)
		}
		value := fmt.Sprintf("%.4f", t.Value)
		if t.Err != nil {
			value = "error: " + t.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(cols, "\t"), value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == nil {
		return fmt.Errorf("every trial failed")
	}
	fmt.Printf("\nbest: %v -> %.4f\n", best.Params, best.Value)
	return nil
}
