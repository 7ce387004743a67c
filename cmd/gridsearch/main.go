package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gridsearch/internal/config"
	"github.com/san-kum/gridsearch/internal/experiment"
	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/logging"
	"github.com/san-kum/gridsearch/internal/report"
	"github.com/san-kum/gridsearch/internal/search"
	"github.com/san-kum/gridsearch/internal/telemetry"
	"github.com/san-kum/gridsearch/internal/tui"
	"github.com/san-kum/gridsearch/internal/viz"
)

var (
	configFile  string
	preset      string
	solution    string
	randomOrder bool
	seed        int64
	iterations  int
	caseNumber  int
	verbose     bool
	logLevel    string
	logJSON     bool
	liveView    bool
	plot        bool
	reportDir   string
	metricsAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gridsearch",
		Short:         "hyperparameter grid search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&solution, "solution", config.DefaultSolution, "solution family")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "search the configured grid",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	runCmd.Flags().BoolVar(&randomOrder, "random", false, "sample combinations in random order")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "trial iterations per combination")
	runCmd.Flags().IntVar(&caseNumber, "case", 0, "case number")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "log every trial")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&logJSON, "log-json", false, "log in json")
	runCmd.Flags().BoolVar(&liveView, "tui", false, "show live progress")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot mean time per accepted combination")
	runCmd.Flags().StringVar(&reportDir, "report-dir", config.DefaultReportDir, "directory for run reports (empty disables)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	spaceCmd := &cobra.Command{
		Use:   "space",
		Short: "list every combination of the configured grid",
		Args:  cobra.NoArgs,
		RunE:  listSpace,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets for a solution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(solution)
			if len(presets) == 0 {
				fmt.Printf("no presets for solution: %s\n", solution)
				return nil
			}
			fmt.Printf("presets for %s:\n", solution)
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [config]",
		Short: "check a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(os.Stdout, args[0])
		},
	}

	rootCmd.AddCommand(runCmd, spaceCmd, presetsCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// validateConfig checks the file at path and reports the grid a run of it
// would search, including a solution's declared grid when params is empty.
func validateConfig(w io.Writer, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg, nil)
	if err != nil {
		return err
	}
	space, err := exp.Space()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: ok (%s, %d parameters, %d combinations)\n", path, cfg.Solution, space.Len(), space.Size())
	return nil
}

// loadConfig layers the preset, the config file and explicitly set flags,
// in that order. A config file overlays the preset key by key.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Solution = solution

	if preset != "" {
		p := config.GetPreset(solution, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(solution))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if cmd.Flags().Changed("solution") {
			cfg.Solution = solution
		}
	}

	flags := cmd.Flags()
	if flags.Lookup("seed") != nil {
		if flags.Changed("random") {
			cfg.RandomOrder = randomOrder
		}
		if flags.Changed("seed") || cfg.Seed == 0 {
			cfg.Seed = seed
		}
		if flags.Changed("iterations") {
			cfg.Iterations = iterations
		}
		if flags.Changed("case") {
			cfg.CaseNumber = caseNumber
		}
		if flags.Changed("verbose") {
			cfg.Verbose = verbose
		}
		if flags.Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if flags.Changed("log-json") {
			cfg.Log.JSON = logJSON
		}
		if flags.Changed("plot") {
			cfg.Report.Plot = plot
		}
		if flags.Changed("report-dir") {
			cfg.Report.Dir = reportDir
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupExperiment(cfg *config.Config, logger *slog.Logger) (*experiment.Experiment, error) {
	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	return exp, nil
}

func listSpace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg, nil)
	if err != nil {
		return err
	}
	space, err := exp.Space()
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d combinations\n", cfg.Solution, space.Size())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tKEY")
	for i := 0; i < space.Size(); i++ {
		fmt.Fprintf(w, "%d\t%s\n", i, grid.Encode(space.Decode(i)))
	}
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logOut := io.Writer(os.Stderr)
	noticeOut := io.Writer(os.Stdout)
	if liveView {
		logOut = io.Discard
		noticeOut = io.Discard
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Writer: logOut})
	if err != nil {
		return err
	}

	exp, err := setupExperiment(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	searchCtx, cancelSearch := context.WithCancel(gctx)
	defer cancelSearch()

	hooks := experiment.Hooks{Notifier: viz.NewNotifier(noticeOut)}

	var stopMetrics context.CancelFunc = func() {}
	if metricsAddr != "" {
		l, err := net.Listen("tcp", metricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		reg := prometheus.NewRegistry()
		hooks.Metrics = telemetry.New(reg)

		var metricsCtx context.Context
		metricsCtx, stopMetrics = context.WithCancel(gctx)
		g.Go(func() error {
			return telemetry.Serve(metricsCtx, l, reg, logger)
		})
	}

	var program *tea.Program
	if liveView {
		program = tea.NewProgram(tui.New(cfg.Name))
		hooks.Observer = tui.Observer(program)
		g.Go(func() error {
			final, err := program.Run()
			if err != nil {
				cancelSearch()
				return err
			}
			if m, ok := final.(tui.Model); ok && m.Canceled() {
				cancelSearch()
			}
			return nil
		})
	}

	var rep *search.Report
	g.Go(func() error {
		defer stopMetrics()
		var runErr error
		rep, runErr = exp.Run(searchCtx, hooks)
		if program != nil {
			program.Send(tui.DoneMsg{Err: runErr})
		}
		return runErr
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("search canceled after %d combinations", completed(rep))
		}
		return err
	}

	fmt.Print(viz.Summary(rep))
	if cfg.Report.Plot {
		if graph := viz.PlotMeanTimes(rep, 60, 12); graph != "" {
			fmt.Println(graph)
		}
	}

	if cfg.Report.Dir != "" {
		w := report.Writer{BaseDir: cfg.Report.Dir, Name: cfg.Name, Seed: cfg.Seed}
		runID, err := w.Write(rep, exp.Cache())
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("report saved: %s\n", runID)
	}
	return nil
}

func completed(rep *search.Report) int {
	if rep == nil {
		return 0
	}
	return len(rep.Combinations)
}
