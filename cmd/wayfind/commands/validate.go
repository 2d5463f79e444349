package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayfind/wayfind/pkg/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Validate a scenario file",
		Long: `Parse and validate a scenario file without running the search. Disk
placements are checked for legality and a Starlark heuristic, if
present, is compiled.`,
		Example: `  wayfind validate scenarios/two-disks.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := config.LoadScenario(args[0])
			if err != nil {
				return err
			}

			if sc.Heuristic.Kind == "starlark" {
				if _, err := config.CompileHeuristic(cmd.Context(), sc.Heuristic.Script, time.Duration(sc.Heuristic.Timeout)); err != nil {
					return err
				}
			}

			fmt.Printf("Scenario %q is valid (domain: %s, merge: %s, heuristic: %s)\n",
				sc.Name, sc.Domain, sc.Search.MergeMethod, sc.Heuristic.Kind)
			return nil
		},
	}

	return cmd
}
