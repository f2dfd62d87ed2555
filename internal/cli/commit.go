package cli

import (
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/runtime"
)

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var opts actions.CommitCreateOptions

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit staged changes and restack the branches above",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				outcome, err := actions.CommitCreate(ctx, opts)
				return common.OutcomeError(ctx, outcome, err)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "The commit message")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Stage all changes before committing")
	cmd.Flags().BoolVar(&opts.NoVerify, "no-verify", false, "Skip git hooks")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}
