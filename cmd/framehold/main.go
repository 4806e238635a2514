package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/config"
	"github.com/san-kum/framehold/internal/export"
	"github.com/san-kum/framehold/internal/logging"
	"github.com/san-kum/framehold/internal/metrics"
	"github.com/san-kum/framehold/internal/policy"
	"github.com/san-kum/framehold/internal/sim"
	"github.com/san-kum/framehold/internal/storage"
	"github.com/san-kum/framehold/internal/tui"
	"github.com/san-kum/framehold/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	logLevel    string
	noColor     bool
	configFile  string
	mode        string
	dt          float64
	duration    float64
	watch       bool
	frameRate   int
	noSave      bool
	metricsAddr string
	outFile     string
	svgKind     string

	log zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "framehold",
		Short: "surface-relative attitude hold simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.New(os.Stderr, logLevel, noColor)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(viz.NewApp(log), tea.WithAltScreen()).Run()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured log output")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the run in the terminal while it progresses")
	runCmd.Flags().IntVar(&frameRate, "fps", 20, "frame rate for --watch")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "step a scenario interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "run a scenario under every mode and compare metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareModes,
	}
	addScenarioFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot drift and correction state of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a drift or ground-track plot as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "drift", "plot kind (drift, track)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tDURATION\tVESSELS\tEVENTS")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%.0fs\t%d\t%d\n", name, p.Mode, p.Duration, len(p.Vessels), len(p.Events))
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default scenario as a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, deleteCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "starting mode (auto, on, off)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "fixed timestep in seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
}

// loadScenario picks the scenario from --config, a preset name or the
// default, then applies any flags the user set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
		}
	default:
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("mode") {
		cfg.Mode = mode
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if !cmd.Flags().Changed("data") && cfg.DataDir != "" {
		dataDir = cfg.DataDir
	}
	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		log = log.Level(logging.ParseLevel(cfg.LogLevel))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	return storage.Open(dataDir, log)
}

func parseRunID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q", arg)
	}
	return uint(id), nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	sc, err := sim.Build(cfg, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	for _, m := range metrics.Default() {
		sc.Sim.AddMetric(m)
	}
	telemetry, err := metrics.NewTelemetry(metrics.Meter(), cfg.Scenario)
	if err != nil {
		return err
	}
	sc.Sim.AddObserver(telemetry)

	if metricsAddr != "" {
		stop, err := serveMetrics(sc.Sim, cfg.Scenario)
		if err != nil {
			return err
		}
		defer stop()
	}

	if watch {
		renderer := tui.NewLiveRenderer(os.Stdout, cfg.Scenario, frameRate)
		renderer.Start()
		defer renderer.Stop()
		sc.Sim.AddObserver(renderer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%s, %d ticks)...\n", cfg.Scenario, cfg.Mode, cfg.Ticks())
	start := time.Now()

	result, err := sc.Sim.Run(ctx, sc.Config)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, e := range result.Errors {
		log.Warn().Err(e).Msg("event failed")
	}

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %d\n", id)
	}
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)

	return nil
}

// serveMetrics attaches a prometheus exporter to s and serves it on
// --metrics-addr until the returned func is called.
func serveMetrics(s *sim.Simulator, scenario string) (func(), error) {
	reg := prometheus.NewRegistry()
	exporter, err := metrics.NewExporter(reg, scenario)
	if err != nil {
		return nil, err
	}
	s.AddObserver(exporter)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: metricsAddr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", metricsAddr).Msg("metrics server failed")
		}
	}()
	log.Info().Str("addr", metricsAddr).Msg("serving metrics")

	return func() { srv.Close() }, nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	for _, metric := range metrics.Default() {
		if v, ok := m[metric.Name()]; ok {
			fmt.Fprintf(w, "  %s: %.6f\n", metric.Name(), v)
		}
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" {
		_, err := tea.NewProgram(viz.NewApp(log), tea.WithAltScreen()).Run()
		return err
	}

	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	sc, err := sim.Build(cfg, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	_, err = tea.NewProgram(viz.NewModel(sc, cfg.Scenario), tea.WithAltScreen()).Run()
	return err
}

func compareModes(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	modes := []policy.Mode{policy.Automatic, policy.On, policy.Off}
	results, err := sim.NewSweep(cfg, metrics.Default, log).Run(context.Background(), modes)
	if err != nil {
		return err
	}

	names := make([]string, 0)
	for _, m := range metrics.Default() {
		names = append(names, m.Name())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "MODE\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for i, r := range results {
		fmt.Fprint(w, modes[i].String())
		for _, name := range names {
			fmt.Fprintf(w, "\t%.6f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tMODE\tTIME\tDURATION\tDT\tMAX DRIFT\tCORRECTING")

	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2fs\t%.4fs\t%.6f\t%.0f%%\n",
			run.ID,
			run.Scenario,
			run.Mode,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Metric("max_drift_deg"),
			run.Metric("correction_ratio")*100,
		)
	}

	return w.Flush()
}

func loadRun(arg string) (*storage.Run, []sim.Sample, error) {
	id, err := parseRunID(arg)
	if err != nil {
		return nil, nil, err
	}

	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	run, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadTicks(id)
	if err != nil {
		return nil, nil, err
	}
	return run, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	run, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %d\n", run.ID)
	fmt.Printf("scenario: %s (%s)\n", run.Scenario, run.Mode)
	fmt.Printf("samples: %d\n\n", len(samples))

	drift := make([]float64, len(samples))
	working := make([]float64, len(samples))
	for i, s := range samples {
		drift[i] = s.DriftDeg
		if s.Working {
			working[i] = 1
		}
	}

	fmt.Println(asciigraph.Plot(drift,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.Caption("drift from surface lock (deg)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(working,
		asciigraph.Height(3),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("correcting (button pressed)"),
	))
	fmt.Println()
	return nil
}

// output returns stdout, or the file named by -o.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeOutput(write func(w io.Writer) error) error {
	out, err := output()
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return writeOutput(func(w io.Writer) error {
		return export.WriteCSV(w, samples)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	run, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	meta := export.Meta{
		ID:       run.ID,
		Scenario: run.Scenario,
		Mode:     run.Mode,
		Dt:       run.Dt,
		Duration: run.Duration,
		Metrics:  make(map[string]float64, len(run.Metrics)),
	}
	for k := range run.Metrics {
		meta.Metrics[k] = run.Metric(k)
	}

	return writeOutput(func(w io.Writer) error {
		return export.WriteJSON(w, meta, samples)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var points []export.Point
	switch svgKind {
	case "drift":
		points = export.DriftPoints(samples)
	case "track":
		points = export.TrackPoints(samples)
	default:
		return fmt.Errorf("unknown plot kind %q (drift, track)", svgKind)
	}

	return writeOutput(func(w io.Writer) error {
		return export.PolylineSVG(w, points, 800, 400, "#00ff88")
	})
}

func deleteRun(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(id); err != nil {
		return err
	}
	fmt.Printf("deleted run %d\n", id)
	return nil
}
