package cli

import (
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// newCreateCmd creates the create command
func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create [branch]",
		Aliases: []string{"c"},
		Short:   "Create a new branch stacked on top of the current branch",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				name := ""
				if len(args) > 0 {
					name = args[0]
				} else {
					prompted, err := tui.PromptText("Name of the new branch", "")
					if err != nil {
						return err
					}
					name = prompted
				}
				return actions.CreateAction(ctx, actions.CreateOptions{BranchName: name})
			})
		},
	}

	return cmd
}
