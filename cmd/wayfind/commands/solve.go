package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wayfind/wayfind/pkg/config"
	"github.com/wayfind/wayfind/pkg/domains/disks"
	"github.com/wayfind/wayfind/pkg/engine"
	"github.com/wayfind/wayfind/pkg/stores"
	"github.com/wayfind/wayfind/pkg/telemetry"
)

func newSolveCommand() *cobra.Command {
	var (
		mergeMethod   string
		sortNewNodes  bool
		verify        bool
		watch         bool
		noHistory     bool
		metricsAddr   string
		traceExporter string
		traceEndpoint string
	)

	cmd := &cobra.Command{
		Use:   "solve <scenario.yaml>",
		Short: "Solve a scenario",
		Long: `Load a scenario file, search its state space, and print the solution
path with node statistics. Completed runs are recorded in the run
history database unless --no-history is set.

With --watch the scenario file is monitored and re-solved on every
change, which is useful while tuning heuristics or disciplines.`,
		Example: `  # Solve a scenario with its embedded settings
  wayfind solve scenarios/two-disks.yaml

  # Override the open-list discipline
  wayfind solve scenarios/two-disks.yaml --merge merge --sort-new-nodes

  # Re-solve on every file change and expose Prometheus metrics
  wayfind solve scenarios/two-disks.yaml --watch --metrics-addr :9090`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			logger, err := newRootLogger()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			metrics, err := telemetry.NewMetrics(telemetry.MetricsConfig{
				Enabled:       metricsAddr != "",
				ListenAddress: metricsAddr,
				Path:          "/metrics",
				Namespace:     "wayfind",
			})
			if err != nil {
				return fmt.Errorf("failed to create metrics: %w", err)
			}
			if err := metrics.StartMetricsServer(); err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}

			tracer, err := telemetry.NewTracer(telemetry.TracingConfig{
				Enabled:       traceExporter != "" && traceExporter != "none",
				Exporter:      traceExporter,
				Endpoint:      traceEndpoint,
				SamplingRate:  1.0,
				ExportTimeout: 30 * time.Second,
				Insecure:      true,
			}, "wayfind", cmd.Root().Version, "cli")
			if err != nil {
				return fmt.Errorf("failed to create tracer: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tracer.Shutdown(shutdownCtx)
			}()

			var store stores.Store
			if !noHistory {
				sqlStore, err := openStore(ctx)
				if err != nil {
					return fmt.Errorf("failed to open run history: %w", err)
				}
				defer func() { _ = sqlStore.Close() }()
				store = sqlStore
			}

			overrides := searchOverrides{}
			if cmd.Flags().Changed("merge") {
				overrides.mergeMethod = &mergeMethod
			}
			if cmd.Flags().Changed("sort-new-nodes") {
				overrides.sortNewNodes = &sortNewNodes
			}
			if cmd.Flags().Changed("verify") {
				overrides.verify = &verify
			}

			s := &solver{
				logger:    logger.NewComponentLogger("solver"),
				metrics:   metrics,
				tracer:    tracer,
				store:     store,
				overrides: overrides,
			}

			sc, err := config.LoadScenario(path)
			if err != nil {
				return err
			}

			if err := s.solve(ctx, sc); err != nil && !watch {
				return err
			}

			if !watch {
				return nil
			}

			watcher := config.NewWatcher(logger.Zerolog())
			if err := watcher.Watch(ctx, path, func(sc *config.Scenario) error {
				return s.solve(ctx, sc)
			}); err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&mergeMethod, "merge", "m", "", "open-list discipline (prepend, append, merge); overrides the scenario")
	cmd.Flags().BoolVar(&sortNewNodes, "sort-new-nodes", false, "sort each successor batch by heuristic value; overrides the scenario")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-apply rules along the returned path; overrides the scenario")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-solve whenever the scenario file changes")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "skip recording the run in the history database")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address")
	cmd.Flags().StringVar(&traceExporter, "trace-exporter", "", "trace exporter (otlp, stdout, none)")
	cmd.Flags().StringVar(&traceEndpoint, "trace-endpoint", "localhost:4317", "OTLP trace endpoint")

	return cmd
}

// searchOverrides carries flag values that take precedence over the
// scenario's own search settings. Nil fields mean the flag was not set.
type searchOverrides struct {
	mergeMethod  *string
	sortNewNodes *bool
	verify       *bool
}

func (o searchOverrides) apply(sc *config.Scenario) {
	if o.mergeMethod != nil {
		sc.Search.MergeMethod = *o.mergeMethod
	}
	if o.sortNewNodes != nil {
		sc.Search.SortNewNodes = *o.sortNewNodes
	}
	if o.verify != nil {
		sc.Search.VerifySolution = *o.verify
	}
}

// solver runs scenarios and fans results out to the log, metrics,
// traces, and the run history store.
type solver struct {
	logger    *telemetry.Logger
	metrics   *telemetry.Metrics
	tracer    *telemetry.Tracer
	store     stores.Store
	overrides searchOverrides
}

// solve runs a single search for the scenario and reports the outcome.
func (s *solver) solve(ctx context.Context, sc *config.Scenario) error {
	s.overrides.apply(sc)
	if err := sc.Validate(); err != nil {
		return err
	}

	runID := uuid.New().String()
	logger := s.logger.WithRunID(runID).WithScenario(sc.Name)

	opts := sc.Search.EngineOptions()
	initial := stateFromStacks(sc.Pegs)
	goal := stateFromStacks(sc.Goal)

	heuristic, err := s.buildHeuristic(ctx, sc, goal)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(disks.NewRegistry(), disks.State.Key).
		WithLogger(logger.Zerolog())

	spanCtx, span := s.tracer.StartSearchSpan(ctx, runID, disks.RuleSetName, string(opts.MergeMethod))
	defer span.End()

	logger.WithRuleSet(disks.RuleSetName).
		WithField("merge_method", string(opts.MergeMethod)).
		Info("Starting search")
	s.metrics.RecordSearchStarted(disks.RuleSetName, string(opts.MergeMethod))
	startedAt := time.Now()

	result, err := eng.Search(spanCtx, engine.Request[disks.State]{
		Initial:   initial,
		Goal:      disks.GoalState(goal),
		RuleSet:   disks.RuleSetName,
		Heuristic: heuristic,
		Options:   opts,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordSearchCompleted("error", time.Since(startedAt))
		s.metrics.RecordError(errorCode(err))
		s.recordRun(sc, runID, opts, nil, startedAt, time.Since(startedAt), err)
		return err
	}

	outcome := "exhausted"
	if result.Found {
		outcome = "found"
	}

	s.metrics.RecordSearchCompleted(outcome, result.Duration)
	s.metrics.RecordNodes(disks.RuleSetName, result.Summary.TotalGenerated, result.Summary.Expanded)
	if result.Found {
		s.metrics.RecordSolutionLength(disks.RuleSetName, len(result.Path))
	}
	span.SetAttributes(
		telemetry.AttrFound.Bool(result.Found),
		telemetry.AttrPathLength.Int(len(result.Path)),
		telemetry.AttrGenerated.Int(result.Summary.TotalGenerated),
		telemetry.AttrExpanded.Int(result.Summary.Expanded),
	)
	telemetry.RecordSuccess(span)

	s.recordRun(sc, runID, opts, result, startedAt, result.Duration, nil)
	printResult(sc, result)

	logger.WithField("outcome", outcome).
		WithField("generated", result.Summary.TotalGenerated).
		WithField("expanded", result.Summary.Expanded).
		Info("Search completed")

	return nil
}

// buildHeuristic resolves the scenario's heuristic spec into an engine
// heuristic for the disk domain.
func (s *solver) buildHeuristic(ctx context.Context, sc *config.Scenario, goal disks.State) (engine.Heuristic[disks.State], error) {
	switch sc.Heuristic.Kind {
	case "misplaced":
		return disks.MisplacedDisks(goal), nil
	case "starlark":
		prog, err := config.CompileHeuristic(ctx, sc.Heuristic.Script, time.Duration(sc.Heuristic.Timeout))
		if err != nil {
			return nil, err
		}
		logger := s.logger
		return func(state disks.State, cost int) float64 {
			pegs := make([][]int, len(state.Pegs))
			for i := range state.Pegs {
				pegs[i] = state.Pegs[i]
			}
			v, err := prog.Value(pegs, cost)
			if err != nil {
				logger.WithError(err).Warn("Heuristic evaluation failed, scoring state as zero")
				return 0
			}
			return v
		}, nil
	default:
		return func(disks.State, int) float64 { return 0 }, nil
	}
}

// recordRun writes the run to the history store if one is configured.
// Recording is best effort and never fails the search itself.
func (s *solver) recordRun(sc *config.Scenario, runID string, opts engine.Options, result *engine.Result[disks.State], startedAt time.Time, duration time.Duration, searchErr error) {
	if s.store == nil {
		return
	}

	run := &stores.SearchRun{
		ID:           runID,
		Scenario:     sc.Name,
		RuleSet:      disks.RuleSetName,
		MergeMethod:  string(opts.MergeMethod),
		SortNewNodes: opts.SortNewNodes,
		Duration:     duration,
		StartedAt:    startedAt,
	}
	if result != nil {
		run.Found = result.Found
		run.PathLength = len(result.Path)
		run.Generated = result.Summary.TotalGenerated
		run.Expanded = result.Summary.Expanded
	}
	if searchErr != nil {
		msg := searchErr.Error()
		run.Error = &msg
	}

	// The search context may already be cancelled by the time we record.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.RecordRun(ctx, run); err != nil {
		s.logger.WithError(err).Warn("Failed to record run history")
	}
}

// printResult writes the human-readable outcome to stdout.
func printResult(sc *config.Scenario, result *engine.Result[disks.State]) {
	if !result.Found {
		fmt.Printf("No solution for %s: explored %d states in %v\n",
			sc.Name, result.Summary.Expanded, result.Duration)
		return
	}

	fmt.Printf("Solved %s in %d moves (%v)\n", sc.Name, len(result.Path)-1, result.Duration)
	for i, state := range result.Path {
		fmt.Printf("  %3d  %s\n", i, state)
	}
	fmt.Printf("Generated %d nodes, expanded %d\n",
		result.Summary.TotalGenerated, result.Summary.Expanded)
}

// stateFromStacks builds a disk state from the scenario's peg layout.
func stateFromStacks(pegs [][]int) disks.State {
	return disks.NewState(pegs[0], pegs[1], pegs[2])
}

// errorCode extracts the classification code used in metrics labels.
func errorCode(err error) string {
	var serr *engine.SearchError
	if errors.As(err, &serr) && serr.Code != "" {
		return serr.Code
	}
	return "INTERNAL_ERROR"
}
