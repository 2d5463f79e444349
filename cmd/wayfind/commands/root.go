package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayfind/wayfind/pkg/stores"
	"github.com/wayfind/wayfind/pkg/telemetry"
)

var (
	// Global flags
	logLevel  string
	logFormat string
	dbPath    string
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wayfind",
		Short: "Wayfind - rule-driven state-space search",
		Long: `Wayfind explores state spaces defined by rule sets: each rule pairs a
precondition with an action, and the engine expands states best-first,
deduplicating revisited configurations and relaxing path costs as
cheaper routes are found.

Scenarios are YAML files naming a domain, an initial and goal
configuration, the open-list discipline (prepend, append, or merge),
and optionally a Starlark heuristic script.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "wayfind.db", "run history database path")

	rootCmd.AddCommand(newSolveCommand())
	rootCmd.AddCommand(newRunsCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}

// newRootLogger builds the logger configured by the persistent flags.
func newRootLogger() (*telemetry.Logger, error) {
	return telemetry.NewLogger(telemetry.LoggingConfig{
		Level:      logLevel,
		Format:     logFormat,
		Output:     "stderr",
		TimeFormat: "rfc3339",
	})
}

// openStore opens and migrates the run history database.
func openStore(ctx context.Context) (*stores.SQLiteStore, error) {
	store, err := stores.NewSQLiteStore(stores.Config{Path: dbPath})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
