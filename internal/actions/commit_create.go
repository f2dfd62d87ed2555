package actions

import (
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
	"stackit.dev/restack/internal/runtime"
)

// CommitCreateOptions contains options for the commit command
type CommitCreateOptions struct {
	Message  string
	All      bool // Stage all changes before committing (-a)
	NoVerify bool
}

// CommitCreate commits the staged changes on the current branch and restacks
// the branches above it. The restack is skipped while the working tree still
// has changes.
func CommitCreate(ctx *runtime.Context, opts CommitCreateOptions) (Outcome, error) {
	if err := ensureNoRebaseInProgress(ctx); err != nil {
		return Success, err
	}

	current, err := ctx.Git.CurrentBranch()
	if err != nil {
		return Success, restackerrors.NewPreconditionsFailedError(restackerrors.ErrNotOnBranch, "not on a branch")
	}

	if opts.All {
		if err := ctx.Git.StageAll(ctx.Context); err != nil {
			return Success, err
		}
	}
	staged, err := ctx.Git.HasStagedChanges(ctx.Context)
	if err != nil {
		return Success, err
	}
	if !staged {
		return Success, restackerrors.NewPreconditionsFailedError(nil, "no staged changes to commit")
	}

	if err := ctx.Git.Commit(ctx.Context, git.CommitOptions{
		Message:  opts.Message,
		NoVerify: opts.NoVerify,
	}); err != nil {
		return Success, err
	}

	children := ctx.Engine.GetChildren(current)
	if len(children) == 0 {
		return Success, nil
	}

	dirty, err := ctx.Git.HasUncommittedChanges(ctx.Context)
	if err != nil {
		return Success, err
	}
	if dirty {
		ctx.Splog.Warn("Working tree has uncommitted changes; skipped restacking the branches above %s.", current)
		return Success, nil
	}

	outcome, err := restackQueue(ctx, children)
	if err != nil || outcome == ConflictSuspended {
		return outcome, err
	}
	return Success, restoreBranch(ctx, current)
}
