package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/allworldit/ezplugins"
)

var runPlugin string

var runCmd = &cobra.Command{
	Use:   "run <method> [args...]",
	Short: "Invoke matching plugin methods",
	Long: `Invoke every plugin method with the given name, in run order. Remaining
arguments are passed to each method as strings.

Examples:
  ezplugins run Greet world
  ezplugins run Greet --plugin greeter world`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := buildManager()
		if err != nil {
			return err
		}
		return runMethods(cmd.OutOrStdout(), mgr, args[0], runPlugin, args[1:])
	},
}

func init() {
	runCmd.Flags().StringVar(&runPlugin, "plugin", "", "only methods from this plugin (fqn, #ClassName, or alias)")
	rootCmd.AddCommand(runCmd)
}

func runMethods(out io.Writer, mgr *ezplugins.Manager, name, plugin string, args []string) error {
	runID := uuid.NewString()
	callArgs := make([]any, len(args))
	for i, a := range args {
		callArgs[i] = a
	}

	count := 0
	for method, owner := range mgr.Methods(queryOptions(name, plugin)...) {
		count++
		slog.Debug("invoking plugin method",
			"run_id", runID,
			"method", method.String(),
			"order", method.Order())

		results, err := method.Run(callArgs...)
		if err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		for _, r := range results {
			_, _ = fmt.Fprintf(out, "%s => %v\n", owner.FQN(), r)
		}
	}
	if count == 0 {
		_, _ = fmt.Fprintln(out, "No matching methods.")
	}
	return nil
}
