package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates the rebase stopped at a conflict and is waiting for resolution
	RebaseConflict
)

func (r RebaseResult) String() string {
	switch r {
	case RebaseDone:
		return "done"
	case RebaseConflict:
		return "conflict"
	default:
		return fmt.Sprintf("RebaseResult(%d)", int(r))
	}
}

// RebaseOnto replays the commits of branchName after upstream onto onto:
//
//	git rebase --onto <onto> <upstream> <branchName>
//
// The branch is checked out afterwards. A conflict leaves the native rebase
// session open and returns RebaseConflict. Any other failure is returned as
// an error; git has not started a rebase session in that case.
func (r *Repository) RebaseOnto(ctx context.Context, branchName, onto, upstream string) (RebaseResult, error) {
	_, err := r.runner.Run(ctx, "rebase", "--onto", onto, upstream, branchName)
	if err == nil {
		return RebaseDone, nil
	}
	if r.IsRebaseInProgress() {
		return RebaseConflict, nil
	}
	return RebaseDone, fmt.Errorf("failed to rebase %s onto %s: %w", branchName, onto, err)
}

// IsRebaseInProgress checks for the rebase-merge or rebase-apply state directories
func (r *Repository) IsRebaseInProgress() bool {
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(r.gitDir, dir)); err == nil {
			return true
		}
	}
	return false
}

// RebaseContinue continues an in-progress rebase without opening an editor
func (r *Repository) RebaseContinue(ctx context.Context) (RebaseResult, error) {
	_, err := r.runner.WithEnv("GIT_EDITOR=true").Run(ctx, "-c", "core.editor=true", "rebase", "--continue")
	if err != nil {
		// Check if rebase is still in progress (another conflict)
		if r.IsRebaseInProgress() {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase continue failed: %w", err)
	}
	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase
func (r *Repository) RebaseAbort(ctx context.Context) error {
	_, err := r.runner.Run(ctx, "rebase", "--abort")
	if err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}

// UnmergedFiles lists the paths with unresolved conflicts
func (r *Repository) UnmergedFiles(ctx context.Context) ([]string, error) {
	return r.runner.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
}
