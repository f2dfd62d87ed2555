package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	var (
		pull     bool
		noPull   bool
		del      bool
		resubmit bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull trunk, clean up merged branches and resubmit rebased ones",
		Long: `Fast-forward trunk from the remote, then delete every branch whose changes
have landed in trunk after moving its children onto trunk. With --resubmit,
branches whose pull request base no longer matches their parent are pushed and
their pull requests updated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				result, err := actions.Sync(ctx, actions.SyncOptions{
					Pull:            pull && !noPull,
					DeleteMerged:    del,
					ResubmitRebased: resubmit,
					Force:           force,
				})
				if result != nil {
					printSyncResult(ctx, result)
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&pull, "pull", true, "Fast-forward trunk from the remote")
	cmd.Flags().BoolVar(&noPull, "no-pull", false, "Skip pulling trunk")
	cmd.Flags().BoolVar(&del, "delete", true, "Delete branches that are merged into trunk")
	cmd.Flags().BoolVar(&resubmit, "resubmit", false, "Push rebased branches and update their pull request bases")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Don't prompt for confirmation before deleting or resubmitting")

	return cmd
}

func printSyncResult(ctx *runtime.Context, result *actions.SyncResult) {
	sections := []struct {
		label    string
		branches []string
	}{
		{"Deleted", result.Deleted},
		{"Moved onto trunk", result.Promoted},
		{"Resubmitted", result.Resubmitted},
	}
	printed := false
	for _, section := range sections {
		if len(section.branches) == 0 {
			continue
		}
		ctx.Splog.Info("%s: %s", section.label, strings.Join(section.branches, ", "))
		printed = true
	}
	if !printed {
		ctx.Splog.Info("%s", tui.ColorDim("Nothing to clean up."))
	}
}
