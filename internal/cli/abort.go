package cli

import (
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/runtime"
)

// newAbortCmd creates the abort command
func newAbortCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "abort",
		Short: "Abort the current restack command halted by a rebase conflict",
		Long: `Aborts the current restack command halted by a rebase conflict.

The in-progress rebase is aborted and the saved operation is discarded. Branches
that were already restacked before the conflict stay restacked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Abort(ctx, actions.AbortOptions{Force: force})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not prompt for confirmation; abort immediately.")

	return cmd
}
