package actions

import (
	"fmt"

	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// TrackOptions contains options for the track command
type TrackOptions struct {
	// BranchName defaults to the current branch
	BranchName string
	// Parent defaults to trunk
	Parent string
	// Force skips the check that Parent is an ancestor of BranchName
	Force bool
}

// TrackAction starts tracking an existing branch on top of Parent
func TrackAction(ctx *runtime.Context, opts TrackOptions) error {
	if err := ensureNoRebaseInProgress(ctx); err != nil {
		return err
	}

	eng := ctx.Engine
	branchName := opts.BranchName
	if branchName == "" {
		current, err := ctx.Git.CurrentBranch()
		if err != nil {
			return restackerrors.NewPreconditionsFailedError(restackerrors.ErrNotOnBranch, "not on a branch; pass a branch name")
		}
		branchName = current
	}
	parent := opts.Parent
	if parent == "" {
		parent = eng.Trunk()
	}

	if eng.IsTrunk(branchName) {
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrTrunkOperation, "cannot track trunk branch %s", branchName)
	}
	if eng.IsIgnored(branchName) {
		return restackerrors.NewPreconditionsFailedError(nil, "branch %s is ignored", branchName)
	}
	if !ctx.Git.BranchExists(parent) {
		return restackerrors.NewPreconditionsFailedError(restackerrors.NewBranchNotFoundError(parent), "parent branch %s does not exist", parent)
	}
	if !eng.IsTrunk(parent) && !eng.IsTracked(parent) {
		return restackerrors.NewPreconditionsFailedError(nil, "parent branch %s must be tracked (or be trunk)", parent)
	}

	if !opts.Force {
		isAnc, err := ctx.Git.IsAncestor(ctx.Context, parent, branchName)
		if err != nil {
			return fmt.Errorf("failed to check ancestry: %w", err)
		}
		if !isAnc {
			return restackerrors.NewPreconditionsFailedError(nil,
				"parent branch %s is not an ancestor of %s (use --force to override)", parent, branchName)
		}
	}

	if err := eng.TrackBranch(ctx.Context, branchName, parent); err != nil {
		return fmt.Errorf("failed to track branch: %w", err)
	}

	ctx.Splog.Info("Tracked %s on top of %s.",
		tui.ColorBranchName(branchName, false),
		tui.ColorBranchName(parent, false))
	return nil
}
