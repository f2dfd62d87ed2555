package cli

import (
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/runtime"
)

// newRestackCmd creates the restack command
func newRestackCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "restack",
		Short: "Rebase a branch and everything above it onto their parents",
		Long: `Ensure the current (or given) branch and every branch above it are based on
the latest version of their parents. On trunk, every tracked branch is restacked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				outcome, err := actions.RestackUpstack(ctx, actions.RestackOptions{BranchName: branch})
				return common.OutcomeError(ctx, outcome, err)
			})
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Which branch to start restacking from. Defaults to the current branch")
	_ = cmd.RegisterFlagCompletionFunc("branch", common.CompleteBranches)

	return cmd
}
