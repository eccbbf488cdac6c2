package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gasmix/internal/config"
	"github.com/san-kum/gasmix/internal/experiment"
	"github.com/san-kum/gasmix/internal/export"
	"github.com/san-kum/gasmix/internal/gas"
	"github.com/san-kum/gasmix/internal/metrics"
	"github.com/san-kum/gasmix/internal/optim"
	"github.com/san-kum/gasmix/internal/server"
	"github.com/san-kum/gasmix/internal/storage"
	"github.com/san-kum/gasmix/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	configFile  string
	preset      string
	seed        int64
	dt          float64
	frames      int
	fps         int
	sampleEvery int
	theme       string
	countA      int
	countB      int
	tempA       float64
	tempB       float64
	massA       float64
	massB       float64

	runName     string
	runs        int
	metricNames []string
	addr        string
	gifPath     string
	sweepParams []string
	sweepMetric string
	top         int
	outPath     string
	seriesName  string
	svgSize     int
	plotMetric  string
)

var logger gas.Logger = gas.NopLogger{}

func main() {
	rootCmd := &cobra.Command{
		Use:           "gasmix",
		Short:         "two-gas mixing simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = NewLogger(logLevel, os.Stderr)
		},
		RunE: runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gasmix", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	addSimFlags(rootCmd)
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames to simulate")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record metrics every N frames")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to run in parallel")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to collect (default: mixing, mixing_time, kinetic_energy, speed_a, speed_b)")
	runCmd.Flags().StringVar(&runName, "name", "run", "run name prefix")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	addLiveFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the simulation over websockets",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "simulation frames per second")

	sweepCmd := &cobra.Command{
		Use:     "sweep",
		Short:   "grid search over gas parameters",
		Example: "  gasmix sweep --param temperature_a=100,300,900 --param mass_b=5,20 --metric mixing_time",
		Args:    cobra.NoArgs,
		RunE:    runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per trial")
	sweepCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record metrics every N frames")
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "axis as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "mixing_time", "metric to minimize")
	sweepCmd.Flags().IntVar(&top, "top", 10, "number of trials to print")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotMetric, "metric", "", "plot only this metric")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final particle snapshot or a metric as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&seriesName, "series", "", "plot this metric instead of the particles")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, sweepCmd, listCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	f.Float64Var(&dt, "dt", config.DefaultDt, "frame time step")
	f.IntVar(&countA, "count-a", config.DefaultCount, "particles of gas A")
	f.IntVar(&countB, "count-b", config.DefaultCount, "particles of gas B")
	f.Float64Var(&tempA, "temp-a", config.DefaultTemperature, "temperature of gas A")
	f.Float64Var(&tempB, "temp-b", config.DefaultTemperature, "temperature of gas B")
	f.Float64Var(&massA, "mass-a", config.DefaultMassA, "particle mass of gas A")
	f.Float64Var(&massB, "mass-b", config.DefaultMassB, "particle mass of gas B")
}

func addLiveFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	f.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	f.StringVar(&gifPath, "gif", "gasmix.gif", "where G saves recordings")
	f.StringVar(&logFile, "log-file", "", "write logs here while the TUI runs")
}

func resolveSeed(s int64) int64 {
	if s == 0 {
		return time.Now().UnixNano()
	}
	return s
}

func newSimulation(cfg *config.Config) *gas.Simulation {
	return gas.New(gas.WithSource(gas.NewSource(resolveSeed(cfg.Seed))), gas.WithLogger(logger))
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Seed = resolveSeed(cfg.Seed)

	registry := experiment.NewRegistry()
	if _, err := registry.Metrics(metricNames); err != nil {
		return err
	}
	newMetrics := func() []metrics.Metric {
		ms, _ := registry.Metrics(metricNames)
		return ms
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	expCfg := experimentConfig(cfg)
	start := time.Now()

	if runs > 1 {
		fmt.Printf("running %d seeds from %d...\n", runs, expCfg.Seed)
		results, err := experiment.NewEnsemble(expCfg, runs, expCfg.Seed, newMetrics).Run(ctx)
		if err != nil {
			return err
		}
		for i, r := range results {
			c := expCfg
			c.Seed = expCfg.Seed + int64(i)
			id, err := st.Save(runName, c, r)
			if err != nil {
				return err
			}
			logger.Infof("saved seed %d as %s", c.Seed, id)
		}

		fmt.Printf("completed in %v\n\n", time.Since(start))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tRUNS")
		for _, s := range experiment.Summarize(results) {
			fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%d\n", s.Name, s.Mean, s.Std, s.Runs)
		}
		return w.Flush()
	}

	exp := experiment.New(expCfg)
	exp.SetLogger(logger)
	if err := exp.Setup(newMetrics()); err != nil {
		return err
	}

	fmt.Printf("running %d + %d particles for %d frames...\n", cfg.GasA.Count, cfg.GasB.Count, cfg.Frames)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := st.Save(runName, expCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d, wall hits: %d\n", len(result.Times), result.WallHits)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal; logs go to a file or nowhere.
	logger = gas.NopLogger{}
	if logFile != "" {
		l := NewLogger(logLevel, io.Discard)
		f, err := tea.LogToFileWith(logFile, "gasmix ", l.out)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = l
	}

	viz.SetTheme(cfg.Theme)

	names := config.ListPresets()
	presets := make([]viz.Preset, 0, len(names))
	for _, name := range names {
		p := config.GetPreset(name)
		a, b := p.Populations()
		presets = append(presets, viz.Preset{Name: name, A: a, B: b})
	}

	a, b := cfg.Populations()
	m := viz.NewModel(newSimulation(cfg), a, b, viz.Options{
		Dt:              cfg.Dt,
		FPS:             cfg.FPS,
		GIFPath:         gifPath,
		Presets:         presets,
		MixingThreshold: experiment.DefaultMixingThreshold,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sim := newSimulation(cfg)
	sim.Reset(cfg.Populations())

	srv := server.New(sim, server.Options{FPS: cfg.FPS, Dt: cfg.Dt, Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("serving on %s (ws: /ws, state: /state)\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Seed = resolveSeed(cfg.Seed)

	names, ranges, err := parseSweepParams(sweepParams)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(sweepMetric); err != nil {
		return err
	}
	newMetrics := func() []metrics.Metric {
		m, _ := registry.GetMetric(sweepMetric)
		return []metrics.Metric{m}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	total := 1
	for _, r := range ranges {
		total *= len(r)
	}
	fmt.Printf("sweeping %d grid points, minimizing %s...\n", total, sweepMetric)

	start := time.Now()
	best, trials, err := grid.Search(ctx, experimentConfig(cfg), sweepMetric, newMetrics)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(sweepMetric))
	for i, tr := range trials {
		if i >= top {
			break
		}
		row := make([]string, 0, len(names)+1)
		for _, name := range names {
			row = append(row, fmt.Sprintf("%g", tr.Params[name]))
		}
		row = append(row, fmt.Sprintf("%.4f", tr.Value))
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", name, best.Params[name]))
	}
	fmt.Printf("\nbest: %s (%s %.4f)\n", strings.Join(parts, " "), sweepMetric, best.Value)
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tFRAMES\tGAS A\tGAS B\tMIXING\tMIXED AT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			formatGas(run.GasA),
			formatGas(run.GasB),
			formatMetric(run.Metrics, "mixing"),
			formatMetric(run.Metrics, "mixing_time"),
		)
	}

	return w.Flush()
}

func formatGas(g storage.GasMeta) string {
	return fmt.Sprintf("%d@%gK m=%g", g.Count, g.Temperature, g.Mass)
}

func formatMetric(ms map[string]float64, name string) string {
	v, ok := ms[name]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("gas A: %s, gas B: %s\n", formatGas(meta.GasA), formatGas(meta.GasB))
	fmt.Printf("samples: %d over t=%.2f\n\n", len(times), meta.Elapsed)

	names := make([]string, 0, len(series))
	for name := range series {
		if plotMetric == "" || name == plotMetric {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("metric %s not recorded in %s", plotMetric, runID)
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
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// output returns stdout or the --out file.
func output() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportJSON(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportCSV(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var svg string
	if seriesName != "" {
		times, series, err := st.LoadSamples(runID)
		if err != nil {
			return err
		}
		vals, ok := series[seriesName]
		if !ok {
			return fmt.Errorf("metric %s not recorded in %s", seriesName, runID)
		}
		svg = export.SeriesToSVG(times, vals, svgSize, svgSize/2, export.ColorB)
	} else {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		ps, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		svg = export.SnapshotToSVG(ps, meta.HalfSize, svgSize, meta.Frames == 0)
	}
	if svg == "" {
		return fmt.Errorf("nothing to render for %s", runID)
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg+"\n"); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGAS A\tGAS B\tFRAMES\tTHEME")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", name,
			formatGas(storage.GasMeta(p.GasA)), formatGas(storage.GasMeta(p.GasB)), p.Frames, p.Theme)
	}
	return w.Flush()
}
