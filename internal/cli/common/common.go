// Package common provides shared helper functions for CLI commands.
package common

import (
	"github.com/spf13/cobra"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/checkpoint"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
	"stackit.dev/restack/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	return RunWithOptions(cmd, runtime.Options{}, fn)
}

// RunWithOptions is Run with explicit runtime options
func RunWithOptions(cmd *cobra.Command, opts runtime.Options, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.GetContext(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = ctx.Close()
		_ = ctx.Splog.Close()
	}()

	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		ctx.Splog.SetQuiet(true)
	}
	return fn(ctx)
}

// OutcomeError reports a suspended operation as a RebaseConflictError so the
// process exits non-zero while the checkpoint waits for continue.
func OutcomeError(ctx *runtime.Context, outcome actions.Outcome, err error) error {
	if err != nil || outcome != actions.ConflictSuspended {
		return err
	}

	branchName := ""
	if cp, _ := ctx.Checkpoints.MostRecent(ctx.Context); cp != nil {
		switch args := cp.Args.(type) {
		case checkpoint.OntoArgs:
			branchName = args.Branch
		case checkpoint.RestackArgs:
			branchName = args.Branch
		}
	}
	return restackerrors.NewRebaseConflictError(branchName, "resolve it and run 'restack continue'")
}

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all branch names in the repository.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	repo, err := git.OpenRepository(cmd.Context(), ".")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := repo.BranchNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}
