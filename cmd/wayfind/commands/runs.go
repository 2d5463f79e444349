package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCommand() *cobra.Command {
	var (
		limit   int
		offset  int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded search runs",
		Long: `List search runs from the history database, newest first. Each row
shows the scenario, open-list discipline, outcome, and node statistics.`,
		Example: `  # Show the last 20 runs
  wayfind runs

  # Page through older runs as JSON
  wayfind runs --limit 50 --offset 50 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(ctx, limit, offset)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENARIO\tMERGE\tFOUND\tPATH\tGEN\tEXP\tDURATION\tSTARTED")
			for _, run := range runs {
				id := run.ID
				if len(id) > 8 {
					id = id[:8]
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%d\t%d\t%v\t%s\n",
					id,
					run.Scenario,
					run.MergeMethod,
					run.Found,
					run.PathLength,
					run.Generated,
					run.Expanded,
					run.Duration.Round(time.Microsecond),
					run.StartedAt.Format("2006-01-02 15:04:05"),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of runs to skip")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output in JSON format")

	return cmd
}
