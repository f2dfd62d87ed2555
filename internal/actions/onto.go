package actions

import (
	"slices"

	"stackit.dev/restack/internal/checkpoint"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// OntoOptions contains options for the onto command
type OntoOptions struct {
	// BranchName is the branch to move; defaults to the current branch
	BranchName string
	Onto       string
}

// Onto re-parents a branch onto a new base, replays its own commits there and
// restacks everything above it. The parent pointer only changes once the
// replay has succeeded; a conflict leaves an ONTO checkpoint instead.
func Onto(ctx *runtime.Context, opts OntoOptions) (Outcome, error) {
	if err := ensureNoRebaseInProgress(ctx); err != nil {
		return Success, err
	}

	branchName := opts.BranchName
	if branchName == "" {
		current, err := ctx.Git.CurrentBranch()
		if err != nil {
			return Success, restackerrors.NewPreconditionsFailedError(err, "not on a branch; pass --branch")
		}
		branchName = current
	}

	outcome, err := onto(ctx, branchName, opts.Onto)
	if err != nil || outcome == ConflictSuspended {
		return outcome, err
	}
	return Success, restoreBranch(ctx, branchName)
}

// OntoTargets lists the branches branchName can be moved onto: trunk and
// every tracked branch that is not branchName or above it.
func OntoTargets(ctx *runtime.Context, branchName string) []string {
	eng := ctx.Engine
	excluded := append(eng.GetDescendants(branchName), branchName)
	targets := []string{eng.Trunk()}
	for _, name := range eng.AllTrackedBranches() {
		if !slices.Contains(excluded, name) {
			targets = append(targets, name)
		}
	}
	return targets
}

func onto(ctx *runtime.Context, branchName, ontoName string) (Outcome, error) {
	if err := validateOnto(ctx, branchName, ontoName); err != nil {
		return Success, err
	}

	base, err := ctx.Engine.ParentRevision(ctx.Context, branchName)
	if err != nil {
		return Success, err
	}

	if _, err := ctx.Checkpoints.Save(ctx.Context, checkpoint.OntoArgs{Branch: branchName, Onto: ontoName}); err != nil {
		return Success, err
	}

	result, err := ctx.Git.RebaseOnto(ctx.Context, branchName, ontoName, base)
	if err != nil {
		_ = ctx.Checkpoints.Clear(ctx.Context)
		return Success, err
	}
	if result == git.RebaseConflict {
		PrintConflictStatus(ctx, branchName, ontoName)
		return ConflictSuspended, nil
	}

	return finishOnto(ctx, branchName, ontoName)
}

// finishOnto commits the deferred parent change and restacks the branches above
func finishOnto(ctx *runtime.Context, branchName, ontoName string) (Outcome, error) {
	if err := ctx.Engine.SetParent(ctx.Context, branchName, ontoName); err != nil {
		return Success, err
	}
	if err := ctx.Checkpoints.Clear(ctx.Context); err != nil {
		return Success, err
	}
	ctx.Splog.Info("Restacked %s on %s.",
		tui.ColorBranchName(branchName, true),
		tui.ColorBranchName(ontoName, false))

	return restackQueue(ctx, ctx.Engine.GetChildren(branchName))
}

func validateOnto(ctx *runtime.Context, branchName, ontoName string) error {
	eng := ctx.Engine
	if eng.IsTrunk(branchName) {
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrTrunkOperation, "cannot move trunk branch %s", branchName)
	}
	if !eng.IsTracked(branchName) {
		return restackerrors.NewPreconditionsFailedError(nil, "branch %s is not tracked", branchName)
	}
	if ontoName == "" {
		return restackerrors.NewPreconditionsFailedError(nil, "no target branch given")
	}
	if !ctx.Git.BranchExists(ontoName) {
		return restackerrors.NewPreconditionsFailedError(restackerrors.NewBranchNotFoundError(ontoName), "branch %s does not exist", ontoName)
	}
	if !eng.IsTrunk(ontoName) && !eng.IsTracked(ontoName) {
		return restackerrors.NewPreconditionsFailedError(nil, "target branch %s is not tracked", ontoName)
	}
	if ontoName == branchName || slices.Contains(eng.GetDescendants(branchName), ontoName) {
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrCycle,
			"cannot move %s onto %s: %s is above %s", branchName, ontoName, ontoName, branchName)
	}
	return nil
}
