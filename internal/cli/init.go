package cli

import (
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/config"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// commonTrunkNames are tried in order when no trunk is given
var commonTrunkNames = []string{"main", "master", "develop", "trunk"}

// inferTrunk picks a commonly named trunk, falling back to the current branch
func inferTrunk(branchNames []string, current string) string {
	for _, name := range commonTrunkNames {
		if slices.Contains(branchNames, name) {
			return name
		}
	}
	return current
}

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var trunk string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize restack in the current repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()
			return common.RunWithOptions(cmd, runtime.Options{Fs: fs, AllowUninitialized: true}, func(ctx *runtime.Context) error {
				branchNames, err := ctx.Git.BranchNames()
				if err != nil {
					return err
				}
				if len(branchNames) == 0 {
					return restackerrors.NewPreconditionsFailedError(nil,
						"no branches found in current repo; create your first commit and then re-run restack init")
				}

				trunkName := trunk
				if trunkName == "" {
					current, _ := ctx.Git.CurrentBranch()
					trunkName = inferTrunk(branchNames, current)
				}
				if trunkName == "" || !slices.Contains(branchNames, trunkName) {
					return restackerrors.NewPreconditionsFailedError(restackerrors.NewBranchNotFoundError(trunkName),
						"branch '%s' not found; pass an existing branch with --trunk", trunkName)
				}

				loader := config.NewLoader(fs, ctx.Git.GitDir())
				wasInitialized := loader.IsInitialized()
				ctx.Config.Trunk = trunkName
				if err := loader.Save(ctx.Config); err != nil {
					return err
				}

				if wasInitialized {
					ctx.Splog.Info("Reinitializing restack...")
				}
				ctx.Splog.Info("Trunk set to %s", tui.ColorBranchName(trunkName, false))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&trunk, "trunk", "", "The name of your trunk branch")
	_ = cmd.RegisterFlagCompletionFunc("trunk", common.CompleteBranches)

	return cmd
}
