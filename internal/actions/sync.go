package actions

import (
	"errors"
	"fmt"
	"slices"

	"stackit.dev/restack/internal/engine"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
	"stackit.dev/restack/internal/github"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// SyncOptions contains options for the sync command
type SyncOptions struct {
	// Pull fast-forwards trunk from the remote first
	Pull bool
	// DeleteMerged deletes merged branches after promoting their children
	DeleteMerged bool
	// ResubmitRebased pushes branches whose review base no longer matches their parent
	ResubmitRebased bool
	// Force skips every confirmation
	Force bool
}

// SyncResult reports what a sync changed
type SyncResult struct {
	Pull         git.PullResult
	Deleted      []string
	Promoted     []string
	Resubmitted  []string
	Pruned       []string
	MergeReasons map[string]engine.MergeReason
}

// Sync brings the stacks up to date with trunk: merged branches are removed
// after their children move onto trunk, stale review bases are resubmitted
// and orphaned metadata is pruned.
func Sync(ctx *runtime.Context, opts SyncOptions) (*SyncResult, error) {
	if err := ensureNoRebaseInProgress(ctx); err != nil {
		return nil, err
	}
	if err := ensureCleanWorkingTree(ctx, "syncing"); err != nil {
		return nil, err
	}
	if opts.ResubmitRebased && ctx.Reviews == nil {
		return nil, restackerrors.NewPreconditionsFailedError(nil, "no review platform is configured; cannot resubmit")
	}

	trunk := ctx.Engine.Trunk()
	original, err := ctx.Git.CurrentBranch()
	if err != nil {
		return nil, restackerrors.NewPreconditionsFailedError(err, "not on a branch; check out a branch before syncing")
	}
	result := &SyncResult{MergeReasons: map[string]engine.MergeReason{}}

	if err := ctx.Git.CheckoutBranch(ctx.Context, trunk); err != nil {
		return nil, err
	}

	runErr := syncSteps(ctx, opts, result)

	if err := restoreBranch(ctx, original); err != nil && runErr == nil {
		runErr = err
	}

	pruned, err := ctx.Engine.PruneOrphans(ctx.Context)
	result.Pruned = pruned
	for _, name := range pruned {
		ctx.Splog.Debug("Pruned metadata for deleted branch %s", name)
	}
	if err != nil && runErr == nil {
		runErr = err
	}

	return result, runErr
}

func syncSteps(ctx *runtime.Context, opts SyncOptions, result *SyncResult) error {
	if opts.Pull {
		if err := pullTrunk(ctx, result); err != nil {
			return err
		}
	}

	if opts.DeleteMerged {
		if err := deleteMergedBranches(ctx, opts, result); err != nil {
			return err
		}
	}

	if opts.ResubmitRebased {
		if err := resubmitRebased(ctx, opts, result); err != nil {
			return err
		}
	}
	return nil
}

func pullTrunk(ctx *runtime.Context, result *SyncResult) error {
	trunk := ctx.Engine.Trunk()
	remote := ctx.Config.Remote
	if !ctx.Git.HasRemote(remote) {
		ctx.Splog.Debug("No remote %s; skipping pull of %s", remote, trunk)
		result.Pull = git.PullUnneeded
		return nil
	}

	ctx.Splog.Info("Pulling %s from %s...", tui.ColorBranchName(trunk, false), remote)
	pull, err := ctx.Git.PullCurrentBranch(ctx.Context, remote, trunk)
	if err != nil {
		var exitErr *restackerrors.ExitFailedError
		if errors.As(err, &exitErr) {
			return exitErr.WithMessage("failed to pull trunk %s", trunk)
		}
		return err
	}

	result.Pull = pull
	if pull == git.PullDone {
		ctx.Splog.Info("%s fast-forwarded.", tui.ColorBranchName(trunk, true))
	} else {
		ctx.Splog.Info("%s is up to date.", tui.ColorBranchName(trunk, true))
	}
	return nil
}

// deleteMergedBranches walks trunk's subtree with an explicit worklist. A
// merged branch has its children moved onto trunk, and those children are
// then evaluated themselves.
func deleteMergedBranches(ctx *runtime.Context, opts SyncOptions, result *SyncResult) error {
	eng := ctx.Engine
	trunk := eng.Trunk()

	toVisit := eng.GetChildren(trunk)
	for len(toVisit) > 0 {
		candidate := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]

		children := eng.GetChildren(candidate)

		reason := ctx.MergeDetector.Detect(ctx.Context, candidate, trunk)
		if reason == engine.NotMerged {
			continue
		}
		result.MergeReasons[candidate] = reason
		ctx.Splog.Debug("%s is merged: %s", candidate, reason)
		ctx.Splog.Info("%s is merged into %s.", tui.ColorBranchName(candidate, false), tui.ColorBranchName(trunk, false))

		for _, child := range children {
			if err := ctx.Git.CheckoutBranch(ctx.Context, child); err != nil {
				return err
			}
			outcome, err := onto(ctx, child, trunk)
			if err != nil {
				return err
			}
			if outcome == ConflictSuspended {
				return restackerrors.NewRebaseConflictError(child, fmt.Sprintf("hit conflict moving %s onto %s", child, trunk))
			}
			result.Promoted = append(result.Promoted, child)
			toVisit = append(toVisit, child)
		}

		if err := ctx.Git.CheckoutBranch(ctx.Context, trunk); err != nil {
			return err
		}

		deleted, err := deleteMergedBranch(ctx, opts, candidate)
		if err != nil {
			return err
		}
		if deleted {
			result.Deleted = append(result.Deleted, candidate)
		}
	}
	return nil
}

func deleteMergedBranch(ctx *runtime.Context, opts SyncOptions, branchName string) (bool, error) {
	if !opts.Force {
		confirmed, err := ctx.Confirmer.Confirm(fmt.Sprintf("%s is merged into %s. Delete it?", branchName, ctx.Engine.Trunk()))
		if err != nil {
			return false, err
		}
		if !confirmed {
			ctx.Splog.Info("Keeping %s.", tui.ColorBranchName(branchName, false))
			return false, nil
		}
	}

	if unpushed, err := ctx.Git.HasUnpushedCommits(ctx.Context, branchName); err == nil && unpushed {
		ctx.Splog.Warn("%s has commits that were never pushed.", branchName)
	}

	deletion, err := ctx.Engine.DeleteBranch(ctx.Context, branchName)
	if err != nil {
		return false, err
	}
	if err := deletion.InvalidateCache(); err != nil {
		return false, err
	}
	ctx.Splog.Info("Deleted %s.", tui.ColorBranchName(branchName, false))
	return true, nil
}

// resubmitRebased pushes every branch whose cached review base differs from
// its recorded parent and updates all of their bases in one call.
func resubmitRebased(ctx *runtime.Context, opts SyncOptions, result *SyncResult) error {
	eng := ctx.Engine

	var requests []github.SubmitRequest
	for _, branchName := range eng.AllTrackedBranches() {
		review, err := eng.GetReviewRecord(branchName)
		if err != nil || review == nil {
			continue
		}
		parent, err := eng.GetParent(branchName)
		if err != nil {
			return err
		}
		if review.Base != parent {
			requests = append(requests, github.SubmitRequest{Branch: branchName, Base: parent, Number: review.Number})
		}
	}
	if len(requests) == 0 {
		return nil
	}

	if !opts.Force {
		confirmed, err := ctx.Confirmer.Confirm(fmt.Sprintf("Update the base of %d pull request(s) on the review platform?", len(requests)))
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	for _, req := range requests {
		if err := ctx.Git.PushBranch(ctx.Context, ctx.Config.Remote, req.Branch, true); err != nil {
			return err
		}
	}

	records, err := ctx.Reviews.SubmitForBranches(ctx.Context, requests)
	if err != nil {
		return fmt.Errorf("failed to update pull request bases: %w", err)
	}
	for branchName, record := range records {
		if err := eng.UpsertReviewRecord(ctx.Context, branchName, record); err != nil {
			return err
		}
		result.Resubmitted = append(result.Resubmitted, branchName)
	}
	slices.Sort(result.Resubmitted)
	for _, name := range result.Resubmitted {
		ctx.Splog.Info("Updated the base of %s.", tui.ColorBranchName(name, false))
	}
	return nil
}
