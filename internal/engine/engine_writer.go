package engine

import (
	"context"
	"fmt"
	"slices"

	restackerrors "stackit.dev/restack/internal/errors"
)

// TrackBranch records parentBranchName as the parent of an existing branch
func (e *engineImpl) TrackBranch(ctx context.Context, branchName, parentBranchName string) error {
	if err := e.validateTrackable(branchName); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.writeParentInternal(ctx, branchName, parentBranchName); err != nil {
		return err
	}
	e.branches[branchName] = true
	return nil
}

// SetParent re-points an already tracked branch
func (e *engineImpl) SetParent(ctx context.Context, branchName, newParent string) error {
	if err := e.validateTrackable(branchName); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.parentMap[branchName]; !ok {
		return restackerrors.NewPreconditionsFailedError(nil, "branch %s is not tracked", branchName)
	}
	return e.writeParentInternal(ctx, branchName, newParent)
}

func (e *engineImpl) validateTrackable(branchName string) error {
	if branchName == e.trunk {
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrTrunkOperation, "cannot set a parent on trunk branch %s", branchName)
	}
	if e.ignored[branchName] {
		return restackerrors.NewPreconditionsFailedError(nil, "branch %s is ignored", branchName)
	}
	if !e.git.BranchExists(branchName) {
		return restackerrors.NewPreconditionsFailedError(restackerrors.NewBranchNotFoundError(branchName), "branch %s does not exist", branchName)
	}
	return nil
}

// writeParentInternal validates the new edge, persists it and updates the maps.
// Caller must hold e.mu.
func (e *engineImpl) writeParentInternal(ctx context.Context, branchName, parentBranchName string) error {
	if parentBranchName != e.trunk {
		if !e.git.BranchExists(parentBranchName) {
			return restackerrors.NewPreconditionsFailedError(restackerrors.NewBranchNotFoundError(parentBranchName), "parent branch %s does not exist", parentBranchName)
		}
		if _, ok := e.parentMap[parentBranchName]; !ok {
			return restackerrors.NewPreconditionsFailedError(nil, "parent branch %s is not tracked", parentBranchName)
		}
	}
	if e.isSelfOrDescendantInternal(branchName, parentBranchName) {
		return restackerrors.NewPreconditionsFailedError(restackerrors.ErrCycle,
			"cannot make %s the parent of %s: %s is already above %s", parentBranchName, branchName, parentBranchName, branchName)
	}

	parentRev, err := e.git.GetRevision(ctx, parentBranchName)
	if err != nil {
		return err
	}

	meta, err := e.readMeta(branchName)
	if err != nil {
		return err
	}
	meta.ParentBranchName = stringPtr(parentBranchName)
	meta.ParentBranchRevision = stringPtr(parentRev)
	if err := e.writeMeta(ctx, branchName, meta); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", branchName, err)
	}

	e.setParentInternal(branchName, parentBranchName)
	return nil
}

// UpsertReviewRecord caches a review record for a branch that has a metadata record.
// Branches without a record are skipped so a late write never recreates one.
func (e *engineImpl) UpsertReviewRecord(ctx context.Context, branchName string, record ReviewRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	meta, err := e.git.ReadMetadataRef(branchName)
	if err != nil {
		return err
	}
	if meta == nil {
		return nil
	}

	meta.PrInfo = prInfoFromReviewRecord(record)
	if err := e.writeMeta(ctx, branchName, meta); err != nil {
		return fmt.Errorf("failed to write review record for %s: %w", branchName, err)
	}
	cp := record
	e.reviews[branchName] = &cp
	return nil
}

// DeleteRecord removes the metadata record only
func (e *engineImpl) DeleteRecord(ctx context.Context, branchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.git.DeleteMetadataRef(ctx, branchName); err != nil {
		return err
	}
	e.removeInternal(branchName)
	return nil
}

// PruneOrphans deletes every record whose branch is gone
func (e *engineImpl) PruneOrphans(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	names, err := e.git.ListMetadataRefs()
	if err != nil {
		return nil, err
	}

	var pruned []string
	for _, name := range names {
		if e.git.BranchExists(name) {
			continue
		}
		if err := e.git.DeleteMetadataRef(ctx, name); err != nil {
			return pruned, err
		}
		e.removeInternal(name)
		delete(e.branches, name)
		pruned = append(pruned, name)
	}
	slices.Sort(pruned)
	return pruned, nil
}

// DeleteBranch deletes the native branch
func (e *engineImpl) DeleteBranch(ctx context.Context, branchName string) (*BranchDeletion, error) {
	if branchName == e.trunk {
		return nil, restackerrors.NewPreconditionsFailedError(restackerrors.ErrTrunkOperation, "cannot delete trunk branch %s", branchName)
	}
	if current, err := e.git.CurrentBranch(); err == nil && current == branchName {
		return nil, restackerrors.NewPreconditionsFailedError(nil, "cannot delete %s while it is checked out", branchName)
	}

	if err := e.git.DeleteBranch(ctx, branchName); err != nil {
		return nil, err
	}

	return &BranchDeletion{
		Branch: branchName,
		invalidate: func() error {
			return e.Rebuild(ctx)
		},
	}, nil
}
