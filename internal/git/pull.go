package git

import (
	"context"
	"fmt"
)

// PullResult represents the result of a pull operation
type PullResult int

const (
	// PullDone indicates the pull moved the branch forward
	PullDone PullResult = iota
	// PullUnneeded indicates the branch was already up to date
	PullUnneeded
)

// PullCurrentBranch fast-forwards the checked out branch from remote.
// A branch that cannot be fast-forwarded is an error.
func (r *Repository) PullCurrentBranch(ctx context.Context, remote, branchName string) (PullResult, error) {
	oldRev, err := r.GetRevision(ctx, branchName)
	if err != nil {
		return PullUnneeded, err
	}

	if _, err := r.runner.Run(ctx, "pull", "--ff-only", "-q", remote, branchName); err != nil {
		return PullUnneeded, fmt.Errorf("failed to pull %s from %s: %w", branchName, remote, err)
	}

	newRev, err := r.GetRevision(ctx, branchName)
	if err != nil {
		return PullUnneeded, err
	}
	if oldRev == newRev {
		return PullUnneeded, nil
	}
	return PullDone, nil
}
