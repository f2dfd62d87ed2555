package git

import (
	"context"
	"fmt"
	"strings"
)

// PushBranch pushes a branch to remote.
// If forceWithLease is true, uses --force-with-lease so rebased branches can be updated.
func (r *Repository) PushBranch(ctx context.Context, remote, branchName string, forceWithLease bool) error {
	args := []string{"push", "-q", "-u", remote}
	if forceWithLease {
		args = append(args, "--force-with-lease")
	}
	args = append(args, branchName)

	if _, err := r.runner.Run(ctx, args...); err != nil {
		if strings.Contains(err.Error(), "stale info") {
			return fmt.Errorf("force-with-lease push of %s failed due to external changes to the remote branch. Run 'restack sync' to pull in changes: %w", branchName, err)
		}
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}
	return nil
}

// HasUnpushedCommits reports whether branchName has commits that are not on any remote
func (r *Repository) HasUnpushedCommits(ctx context.Context, branchName string) (bool, error) {
	output, err := r.runner.Run(ctx, "log", branchName, "--not", "--remotes", "--simplify-by-decoration", "--decorate", "--oneline")
	if err != nil {
		return false, fmt.Errorf("failed to check unpushed commits for %s: %w", branchName, err)
	}
	return output != "", nil
}
