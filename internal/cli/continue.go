package cli

import (
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/runtime"
)

// newContinueCmd creates the continue command
func newContinueCmd() *cobra.Command {
	var addAll bool

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Continues the most recent restack command halted by a rebase conflict",
		Long: `Continues the most recent restack command halted by a rebase conflict.
This command will continue the rebase and resume restacking remaining branches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				outcome, err := actions.Continue(ctx, actions.ContinueOptions{AddAll: addAll})
				return common.OutcomeError(ctx, outcome, err)
			})
		},
	}

	cmd.Flags().BoolVarP(&addAll, "all", "a", false, "Stage all changes before continuing")

	return cmd
}
