package actions

import (
	"fmt"

	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/runtime"
)

// AbortOptions contains options for the abort command
type AbortOptions struct {
	Force bool
}

// Abort abandons the suspended operation: the native rebase is aborted and
// the checkpoint cleared. Parent pointers are untouched, since they only
// change after a rebase succeeds.
func Abort(ctx *runtime.Context, opts AbortOptions) error {
	if !ctx.Git.IsRebaseInProgress() {
		if cp, _ := ctx.Checkpoints.MostRecent(ctx.Context); cp != nil {
			ctx.Splog.Debug("Clearing stale %s checkpoint %s", cp.Action(), cp.ID)
			_ = ctx.Checkpoints.Clear(ctx.Context)
		}
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrRebaseNotInProgress, "no rebase in progress. Nothing to abort")
	}

	if !opts.Force {
		confirmed, err := ctx.Confirmer.Confirm("Abort the current rebase? Branches already restacked stay restacked.")
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Splog.Info("Abort canceled.")
			return nil
		}
	}

	ctx.Splog.Info("Aborting rebase...")
	if err := ctx.Git.RebaseAbort(ctx.Context); err != nil {
		return fmt.Errorf("failed to abort rebase: %w", err)
	}
	if err := ctx.Checkpoints.Clear(ctx.Context); err != nil {
		return err
	}
	ctx.Splog.Info("Operation aborted.")
	return nil
}
