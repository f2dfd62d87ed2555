package cli

import (
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/cli/common"
	"stackit.dev/restack/internal/config"
	"stackit.dev/restack/internal/runtime"
)

// newRepoCmd creates the repo command
func newRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Read or change repository settings",
	}

	cmd.AddCommand(newRepoIgnoredBranchesCmd())

	return cmd
}

// newRepoIgnoredBranchesCmd creates the repo ignored-branches command
func newRepoIgnoredBranchesCmd() *cobra.Command {
	var add, remove []string

	cmd := &cobra.Command{
		Use:   "ignored-branches",
		Short: "List, add or remove branches that restack never tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()
			return common.RunWithOptions(cmd, runtime.Options{Fs: fs}, func(ctx *runtime.Context) error {
				if len(add) == 0 && len(remove) == 0 {
					if len(ctx.Config.IgnoreBranches) == 0 {
						ctx.Splog.Info("No ignored branches.")
						return nil
					}
					ctx.Splog.Page(strings.Join(ctx.Config.IgnoreBranches, "\n"))
					return nil
				}

				for _, name := range add {
					if err := ctx.Config.AddIgnoredBranch(name); err != nil {
						return err
					}
				}
				for _, name := range remove {
					if err := ctx.Config.RemoveIgnoredBranch(name); err != nil {
						return err
					}
				}
				if err := config.NewLoader(fs, ctx.Git.GitDir()).Save(ctx.Config); err != nil {
					return err
				}
				ctx.Splog.Info("Ignored branches: %s", strings.Join(ctx.Config.IgnoreBranches, ", "))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&add, "add", nil, "Branches to ignore")
	cmd.Flags().StringSliceVar(&remove, "remove", nil, "Branches to stop ignoring")

	return cmd
}
