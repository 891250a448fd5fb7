package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/iko-commits/gantt-chart-pro/internal/config"
	"github.com/iko-commits/gantt-chart-pro/internal/cpm"
	"github.com/iko-commits/gantt-chart-pro/internal/ingest"
	"github.com/iko-commits/gantt-chart-pro/internal/logging"
	"github.com/iko-commits/gantt-chart-pro/internal/reporter"
	"github.com/iko-commits/gantt-chart-pro/internal/scenario"
	"github.com/iko-commits/gantt-chart-pro/internal/ui"
	"github.com/iko-commits/gantt-chart-pro/internal/viewer"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagInput     string
	flagFormat    string
	flagEpoch     string
	flagLogLevel  string
	flagLogFormat string
	flagJSON      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ganttpro",
		Short: "Critical path scheduling for project workbooks",
		Long: `Ganttpro reads activities and precedence logic from a JSON or SQLite
workbook, computes early and late dates, float and the critical path, and
simulates what-if duration changes against the baseline.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to ganttpro.yaml")
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "Workbook path (.json, .db, .sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Workbook format (json, sqlite); inferred when empty")
	rootCmd.PersistentFlags().StringVar(&flagEpoch, "epoch", "", "Project epoch YYYY-MM-DD; earliest baseline start when empty")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(scenarioCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(criticalCmd())
	rootCmd.AddCommand(ganttCmd())
	rootCmd.AddCommand(dotCmd())
	rootCmd.AddCommand(domainCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// project is the loaded workbook, ready to simulate.
type project struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *scenario.Engine
	dataset *ingest.Dataset
}

// loadProject is shared logic for every command: config, workbook, engine.
func loadProject() (*project, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
	}
	if flagInput != "" {
		cfg.Input.Path = flagInput
	}
	if flagFormat != "" {
		cfg.Input.Format = flagFormat
	}
	if flagEpoch != "" {
		cfg.Schedule.Epoch = flagEpoch
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Input.Path == "" {
		return nil, errors.New("no workbook given; pass --input or set input.path")
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	wb, err := ingest.Open(cfg.Input.Path, cfg.Input.Format)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	opts := ingest.DefaultOptions()
	if len(cfg.Relationships.Sheets) > 0 {
		opts.RelationshipSheets = cfg.Relationships.Sheets
	}
	if len(cfg.Relationships.PredecessorFields) > 0 {
		opts.PredecessorFields = cfg.Relationships.PredecessorFields
	}

	ds, err := ingest.Load(wb, opts)
	if err != nil {
		return nil, err
	}
	if len(ds.Activities) == 0 {
		return nil, fmt.Errorf("no activities found in sheet %q", ds.ActivitySheet)
	}

	logger.Info("workbook loaded",
		"path", cfg.Input.Path,
		"sheet", ds.ActivitySheet,
		"activities", len(ds.Activities),
		"relationships", len(ds.Relationships.Edges),
		"source", ds.Relationships.Source,
		"skipped_rows", ds.SkippedRows)
	if ds.Relationships.Empty() {
		logger.Warn("no precedence logic found; every activity starts at its baseline or the epoch")
	}

	epoch := cpm.DefaultEpoch(ds.Activities, time.Now().UTC().Truncate(24*time.Hour))
	if t, ok := cfg.Epoch(); ok {
		epoch = cpm.DayOf(t)
	}

	return &project{
		cfg:     cfg,
		logger:  logger,
		engine:  scenario.NewEngine(ds.Activities, ds.Relationships.Edges, epoch, logger),
		dataset: ds,
	}, nil
}

func scheduleCmd() *cobra.Command {
	var flagSummary bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute and print the baseline schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			snap, err := p.engine.Simulate(nil)
			if err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(snap)
			}

			rpt := reporter.New(snap)
			if flagSummary {
				fmt.Println(rpt.Summary())
				return nil
			}
			ui.PrintLogo(os.Stdout)
			rpt.PrintSchedule(os.Stdout)
			fmt.Println(rpt.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagSummary, "summary", false, "Print only the summary")

	return cmd
}

func scenarioCmd() *cobra.Command {
	var (
		flagActivity int
		flagDelta    float64
		flagTitle    string
	)

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Simulate a duration change on one activity",
		Long: `Adds --delta days to the duration of --activity (clamped at zero),
re-solves the network and reports how the finish dates and float moved
against the baseline. The workbook is never modified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}

			lib, err := scenario.NewLibrary(p.engine)
			if err != nil {
				return err
			}
			sc, err := lib.Save(flagTitle, flagActivity, flagDelta)
			if err != nil {
				return err
			}
			snap, err := lib.Activate(sc.ID)
			if err != nil {
				return err
			}
			cmp := scenario.Compare(lib.Baseline(), snap)

			if flagJSON {
				return outputJSON(map[string]interface{}{
					"scenario":   sc,
					"schedule":   snap,
					"comparison": cmp,
				})
			}

			rpt := reporter.New(snap)
			rpt.Title = sc.Title
			rpt.PrintSchedule(os.Stdout)
			fmt.Println()
			reporter.PrintComparison(os.Stdout, cmp)
			fmt.Println(rpt.Summary())
			return nil
		},
	}

	cmd.Flags().IntVarP(&flagActivity, "activity", "a", 0, "Activity id to change")
	cmd.Flags().Float64VarP(&flagDelta, "delta", "d", 0, "Days to add to the duration (negative to shorten)")
	cmd.Flags().StringVar(&flagTitle, "title", "", "Scenario title")
	cmd.MarkFlagRequired("activity")
	cmd.MarkFlagRequired("delta")

	return cmd
}

func batchCmd() *cobra.Command {
	var flagParallel int

	cmd := &cobra.Command{
		Use:   "batch <plans.yaml>",
		Short: "Solve a batch of scenarios in parallel and compare each to the baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open plans: %w", err)
			}
			defer f.Close()
			plans, err := scenario.ReadPlans(f)
			if err != nil {
				return err
			}

			lib, err := scenario.NewLibrary(p.engine)
			if err != nil {
				return err
			}
			saved, err := lib.SaveAll(plans)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := lib.PrecomputeAll(ctx, flagParallel); err != nil {
				return err
			}

			type outcome struct {
				Scenario   scenario.Scenario   `json:"scenario"`
				Comparison scenario.Comparison `json:"comparison"`
			}
			var outcomes []outcome
			for _, sc := range saved {
				snap, _ := lib.Solved(sc.ID)
				outcomes = append(outcomes, outcome{Scenario: sc, Comparison: scenario.Compare(lib.Baseline(), snap)})
			}

			if flagJSON {
				return outputJSON(outcomes)
			}

			fmt.Printf("🎯 %s %d scenarios against baseline finish %s\n\n",
				ui.BoldCyan("Ganttpro:"), len(outcomes), ui.Bold(lib.Baseline().ProjectFinish.String()))
			for _, o := range outcomes {
				fmt.Printf("  %-40s finish %s  (%s)  %d shifted\n",
					o.Scenario.Title, o.Comparison.ProjectFinishAfter,
					ui.Delta(o.Comparison.ProjectDeltaDays), len(o.Comparison.Shifts))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flagParallel, "parallel", runtime.NumCPU(), "Max scenarios solved at once")

	return cmd
}

func criticalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "critical",
		Short: "Print the critical path and start waves",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			snap, err := p.engine.Simulate(nil)
			if err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(map[string]interface{}{
					"critical_path": snap.CriticalPath,
					"waves":         snap.Result.Waves,
				})
			}

			reporter.New(snap).PrintCritical(os.Stdout)
			return nil
		},
	}
}

func ganttCmd() *cobra.Command {
	var flagWidth int

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Draw a text Gantt chart of the baseline schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			snap, err := p.engine.Simulate(nil)
			if err != nil {
				return err
			}
			domain, ok := cpm.ScheduleDomain(snap.Result, p.cfg.Padding())
			if !ok {
				return errors.New("schedule has no activities")
			}
			reporter.New(snap).PrintGantt(os.Stdout, domain, flagWidth)
			return nil
		},
	}

	cmd.Flags().IntVarP(&flagWidth, "width", "w", 72, "Chart width in columns")

	return cmd
}

func dotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dot",
		Short: "Print the activity network in Graphviz DOT format",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			snap, err := p.engine.Simulate(nil)
			if err != nil {
				return err
			}
			reporter.PrintDOT(os.Stdout, p.engine.Network(), snap)
			return nil
		},
	}
}

func domainCmd() *cobra.Command {
	var flagPadding float64

	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Print the padded time domain covering every scheduled date",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			snap, err := p.engine.Simulate(nil)
			if err != nil {
				return err
			}

			padding := p.cfg.Padding()
			if cmd.Flags().Changed("padding") {
				padding = flagPadding
			}
			domain, ok := cpm.ScheduleDomain(snap.Result, padding)
			if !ok {
				return errors.New("schedule has no activities")
			}

			if flagJSON {
				return outputJSON(domain)
			}
			fmt.Printf("%s → %s  (%gd)\n", domain.Start, domain.End, domain.Width())
			return nil
		},
	}

	cmd.Flags().Float64Var(&flagPadding, "padding", config.DefaultPaddingDays, "Days of padding on each side")

	return cmd
}

func serveCmd() *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule and scenario library over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			lib, err := scenario.NewLibrary(p.engine)
			if err != nil {
				return err
			}

			addr := p.cfg.Server.Addr
			if flagAddr != "" {
				addr = flagAddr
			}

			// Setup signal handling
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := viewer.New(lib, p.cfg.Padding(), p.logger)
			url, err := srv.Start(ctx, addr)
			if err != nil {
				return err
			}

			if !flagJSON {
				ui.PrintLogo(os.Stdout)
			}
			fmt.Printf("🌐 %s serving %d activities on %s\n",
				ui.BoldCyan("Ganttpro:"), len(p.dataset.Activities), ui.Bold(url))

			<-ctx.Done()
			fmt.Fprintf(os.Stderr, "\n🛑 %s\n", ui.Yellow("Received interrupt, shutting down..."))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :7171)")

	return cmd
}

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
