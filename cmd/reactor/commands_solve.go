package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reactrun/reactor/internal/models"
)

// buildSolveCmd creates the "solve" command: run one task through the
// ReAct loop to completion and print the final answer.
func buildSolveCmd() *cobra.Command {
	opts := cliOptions{}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "solve [task]",
		Short: "Run a single task through the ReAct loop to completion",
		Long: `solve drives the reason -> sandboxed-execute -> judge loop until the
model reports task_status=completed, a success criterion is met, or
max-iterations is reached.`,
		Example: `  reactor solve "What is 6 * 7?"
  reactor solve --provider openai --max-iterations 5 "Summarize this file"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := args[0]

			a, err := newConfiguredAgent(opts)
			if err != nil {
				return err
			}
			if verbose {
				a.AddObserver(func(e models.Event) { printEvent(e) })
			}

			answer, err := a.Solve(cmd.Context(), task)
			if err != nil {
				return fmt.Errorf("solve: %w", err)
			}
			fmt.Println(answer)
			return nil
		},
	}

	addCommonFlags(cmd, &opts)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every lifecycle event as it's emitted")

	return cmd
}
