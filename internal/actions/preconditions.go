package actions

import (
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/runtime"
)

// ensureNoRebaseInProgress refuses to start a new operation while git has a
// rebase open. A checkpoint without a native rebase is stale and is cleared.
func ensureNoRebaseInProgress(ctx *runtime.Context) error {
	if ctx.Git.IsRebaseInProgress() {
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrRebaseInProgress,
			"a rebase is in progress. Resolve it and run 'restack continue', or run 'restack abort'")
	}

	cp, err := ctx.Checkpoints.MostRecent(ctx.Context)
	if err != nil {
		ctx.Splog.Debug("Failed to read checkpoint: %v", err)
		return nil
	}
	if cp != nil {
		ctx.Splog.Debug("Clearing stale %s checkpoint %s", cp.Action(), cp.ID)
		if err := ctx.Checkpoints.Clear(ctx.Context); err != nil {
			return err
		}
	}
	return nil
}

// ensureCleanWorkingTree fails if there are uncommitted changes
func ensureCleanWorkingTree(ctx *runtime.Context, action string) error {
	dirty, err := ctx.Git.HasUncommittedChanges(ctx.Context)
	if err != nil {
		return err
	}
	if dirty {
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrDirtyWorkingTree,
			"you have uncommitted changes. Please commit or stash them before %s", action)
	}
	return nil
}
