package actions

import (
	"fmt"

	"stackit.dev/restack/internal/checkpoint"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// ContinueOptions are options for the continue command
type ContinueOptions struct {
	// AddAll stages all changes before continuing
	AddAll bool
}

// Continue resumes the operation recorded in the checkpoint once the user has
// resolved the conflict that suspended it.
func Continue(ctx *runtime.Context, opts ContinueOptions) (Outcome, error) {
	cp, err := ctx.Checkpoints.MostRecent(ctx.Context)
	if err != nil {
		return Success, err
	}
	if cp == nil {
		return Success, restackerrors.NewPreconditionsFailedError(restackerrors.ErrNoCheckpoint, "no restack operation to continue")
	}
	if !ctx.Git.IsRebaseInProgress() {
		return Success, restackerrors.NewPreconditionsFailedError(restackerrors.ErrRebaseNotInProgress,
			"no rebase in progress. Nothing to continue")
	}

	if opts.AddAll {
		if err := ctx.Git.StageAll(ctx.Context); err != nil {
			return Success, fmt.Errorf("failed to stage changes: %w", err)
		}
	}

	result, err := ctx.Git.RebaseContinue(ctx.Context)
	if err != nil {
		return Success, err
	}

	switch args := cp.Args.(type) {
	case checkpoint.OntoArgs:
		if result == git.RebaseConflict {
			PrintConflictStatus(ctx, args.Branch, args.Onto)
			return ConflictSuspended, nil
		}
		ctx.Splog.Info("Resolved rebase conflict for %s.", tui.ColorBranchName(args.Branch, true))
		return finishOnto(ctx, args.Branch, args.Onto)

	case checkpoint.RestackArgs:
		parent, err := ctx.Engine.GetParent(args.Branch)
		if err != nil {
			return Success, err
		}
		if result == git.RebaseConflict {
			PrintConflictStatus(ctx, args.Branch, parent)
			return ConflictSuspended, nil
		}
		ctx.Splog.Info("Resolved rebase conflict for %s.", tui.ColorBranchName(args.Branch, true))
		if err := ctx.Engine.SetParent(ctx.Context, args.Branch, parent); err != nil {
			return Success, err
		}
		queue := append(args.Remaining, ctx.Engine.GetChildren(args.Branch)...)
		return restackQueue(ctx, queue)

	default:
		panic(fmt.Sprintf("unhandled checkpoint action %q", cp.Action()))
	}
}
