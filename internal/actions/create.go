package actions

import (
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// CreateOptions contains options for the create command
type CreateOptions struct {
	BranchName string
}

// CreateAction creates a new branch on top of the current one, checks it out
// and tracks it with the current branch as its parent.
func CreateAction(ctx *runtime.Context, opts CreateOptions) error {
	if err := ensureNoRebaseInProgress(ctx); err != nil {
		return err
	}

	eng := ctx.Engine
	current, err := ctx.Git.CurrentBranch()
	if err != nil {
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrNotOnBranch, "not on a branch")
	}
	if !eng.IsTrunk(current) && !eng.IsTracked(current) {
		return restackerrors.NewPreconditionsFailedError(nil,
			"current branch %s is not tracked; run 'restack track' first", current)
	}
	if opts.BranchName == "" {
		return restackerrors.NewPreconditionsFailedError(nil, "no branch name given")
	}
	if ctx.Git.BranchExists(opts.BranchName) {
		return restackerrors.NewPreconditionsFailedError(nil, "branch %s already exists", opts.BranchName)
	}

	if err := ctx.Git.CreateAndCheckoutBranch(ctx.Context, opts.BranchName); err != nil {
		return err
	}
	if err := eng.TrackBranch(ctx.Context, opts.BranchName, current); err != nil {
		return err
	}

	ctx.Splog.Info("Created %s on top of %s.",
		tui.ColorBranchName(opts.BranchName, true),
		tui.ColorBranchName(current, false))
	return nil
}
