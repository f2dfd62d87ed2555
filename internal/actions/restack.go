package actions

import (
	"fmt"
	"slices"

	"stackit.dev/restack/internal/checkpoint"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// RestackOptions contains options for the restack command
type RestackOptions struct {
	// BranchName is the bottom of the restacked range; defaults to the current branch
	BranchName string
}

// RestackUpstack rebases BranchName onto its parent, then every branch above
// it onto its own parent, breadth first. On trunk only the branches above are
// restacked. The originally checked out branch is restored on success.
func RestackUpstack(ctx *runtime.Context, opts RestackOptions) (Outcome, error) {
	if err := ensureNoRebaseInProgress(ctx); err != nil {
		return Success, err
	}

	original, _ := ctx.Git.CurrentBranch()
	branchName := opts.BranchName
	if branchName == "" {
		if original == "" {
			return Success, restackerrors.NewPreconditionsFailedError(restackerrors.ErrNotOnBranch, "not on a branch; pass --branch")
		}
		branchName = original
	}

	eng := ctx.Engine
	var queue []string
	switch {
	case eng.IsTrunk(branchName):
		queue = eng.GetChildren(branchName)
	case eng.IsTracked(branchName):
		queue = []string{branchName}
	default:
		return Success, restackerrors.NewPreconditionsFailedError(nil, "branch %s is not tracked", branchName)
	}

	outcome, err := restackQueue(ctx, queue)
	if err != nil || outcome == ConflictSuspended {
		return outcome, err
	}
	return Success, restoreBranch(ctx, original)
}

// restackQueue restacks each queued branch onto its recorded parent, queueing
// its children behind it. A conflict saves the branch in flight and the rest
// of the queue as a RESTACK checkpoint.
func restackQueue(ctx *runtime.Context, queue []string) (Outcome, error) {
	eng := ctx.Engine
	for len(queue) > 0 {
		branchName := queue[0]
		queue = queue[1:]

		parent, err := eng.GetParent(branchName)
		if err != nil {
			return Success, err
		}

		result, err := restackBranch(ctx, branchName, parent, checkpoint.RestackArgs{
			Branch:    branchName,
			Remaining: slices.Clone(queue),
		})
		if err != nil {
			return Success, err
		}
		if result == git.RebaseConflict {
			PrintConflictStatus(ctx, branchName, parent)
			return ConflictSuspended, nil
		}

		queue = append(queue, eng.GetChildren(branchName)...)
	}

	return Success, ctx.Checkpoints.Clear(ctx.Context)
}

// restackBranch replays branchName's own commits onto the tip of parent and
// re-records the parent. A branch already based on the parent's tip is left
// alone. cp is saved right before the rebase runs.
func restackBranch(ctx *runtime.Context, branchName, parent string, cp checkpoint.Args) (git.RebaseResult, error) {
	eng := ctx.Engine

	base, err := eng.ParentRevision(ctx.Context, branchName)
	if err != nil {
		return git.RebaseDone, err
	}
	parentRev, err := ctx.Git.GetRevision(ctx.Context, parent)
	if err != nil {
		return git.RebaseDone, err
	}

	upToDate := base == parentRev
	if !upToDate {
		upToDate, err = ctx.Git.IsAncestor(ctx.Context, parentRev, branchName)
		if err != nil {
			return git.RebaseDone, err
		}
	}
	if upToDate {
		if base != parentRev {
			if err := eng.SetParent(ctx.Context, branchName, parent); err != nil {
				return git.RebaseDone, err
			}
		}
		current, _ := ctx.Git.CurrentBranch()
		ctx.Splog.Info("%s does not need to be restacked on %s.",
			tui.ColorBranchName(branchName, branchName == current),
			tui.ColorBranchName(parent, false))
		return git.RebaseDone, nil
	}

	if _, err := ctx.Checkpoints.Save(ctx.Context, cp); err != nil {
		return git.RebaseDone, fmt.Errorf("failed to save checkpoint: %w", err)
	}

	result, err := ctx.Git.RebaseOnto(ctx.Context, branchName, parent, base)
	if err != nil {
		_ = ctx.Checkpoints.Clear(ctx.Context)
		return git.RebaseDone, err
	}
	if result == git.RebaseConflict {
		return result, nil
	}

	if err := eng.SetParent(ctx.Context, branchName, parent); err != nil {
		return git.RebaseDone, err
	}
	ctx.Splog.Info("Restacked %s on %s.",
		tui.ColorBranchName(branchName, true),
		tui.ColorBranchName(parent, false))
	return git.RebaseDone, nil
}

// restoreBranch checks out branchName if it still exists, else trunk
func restoreBranch(ctx *runtime.Context, branchName string) error {
	if ctx.Git.IsRebaseInProgress() {
		return nil
	}
	target := branchName
	if target == "" || !ctx.Git.BranchExists(target) {
		target = ctx.Engine.Trunk()
	}
	if current, err := ctx.Git.CurrentBranch(); err == nil && current == target {
		return nil
	}
	return ctx.Git.CheckoutBranch(ctx.Context, target)
}
