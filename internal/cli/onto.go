package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/cli/common"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// newOntoCmd creates the onto command
func newOntoCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "onto [parent]",
		Short: "Move a branch onto a new parent and restack everything above it",
		Long: `Rebase the current (or given) branch onto a new parent, record the new parent
and restack every branch above it. If the rebase stops at a conflict, resolve it
and run 'restack continue'.

Without a parent, an interactive selector lists the possible targets.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				target := ""
				if len(args) > 0 {
					target = args[0]
				} else {
					selected, err := selectOntoTarget(ctx, branch)
					if err != nil {
						return err
					}
					target = selected
				}

				outcome, err := actions.Onto(ctx, actions.OntoOptions{
					BranchName: branch,
					Onto:       target,
				})
				return common.OutcomeError(ctx, outcome, err)
			})
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "The branch to move. Defaults to the current branch")
	_ = cmd.RegisterFlagCompletionFunc("branch", common.CompleteBranches)

	return cmd
}

func selectOntoTarget(ctx *runtime.Context, branchName string) (string, error) {
	if branchName == "" {
		current, err := ctx.Git.CurrentBranch()
		if err != nil {
			return "", restackerrors.NewPreconditionsFailedError(err, "not on a branch; pass --branch")
		}
		branchName = current
	}

	targets := actions.OntoTargets(ctx, branchName)
	initial := 0
	if parent, err := ctx.Engine.GetParent(branchName); err == nil {
		initial = max(slices.Index(targets, parent), 0)
	}
	return tui.PromptSelect("Choose a new parent for "+branchName, targets, initial)
}
