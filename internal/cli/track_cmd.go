package cli

import (
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/runtime"
)

// newTrackCmd creates the track command
func newTrackCmd() *cobra.Command {
	var (
		force  bool
		parent string
	)

	cmd := &cobra.Command{
		Use:   "track [branch]",
		Short: "Start tracking a branch by recording its parent",
		Long: `Start tracking the current (or provided) branch by recording its parent.
The parent defaults to trunk and must be trunk or a tracked branch.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				branchName := ""
				if len(args) > 0 {
					branchName = args[0]
				}
				return actions.TrackAction(ctx, actions.TrackOptions{
					BranchName: branchName,
					Parent:     parent,
					Force:      force,
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Track the branch even if the parent is not one of its ancestors")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "The tracked branch's parent. Must be trunk or a tracked branch.")
	_ = cmd.RegisterFlagCompletionFunc("parent", common.CompleteBranches)

	return cmd
}
