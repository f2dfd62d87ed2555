package git

import (
	"context"
	"fmt"
	"strings"
)

// CreateAndCheckoutBranch creates and checks out a new branch at HEAD
func (r *Repository) CreateAndCheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "checkout", "-b", branchName)
	if err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutBranch checks out an existing branch
func (r *Repository) CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "checkout", "-q", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch
func (r *Repository) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// GetRevision resolves a branch or revision to a commit SHA
func (r *Repository) GetRevision(ctx context.Context, rev string) (string, error) {
	sha, err := r.runner.Run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %s: %w", rev, err)
	}
	return sha, nil
}

// GetMergeBase returns the best common ancestor of two revisions
func (r *Repository) GetMergeBase(ctx context.Context, rev1, rev2 string) (string, error) {
	sha, err := r.runner.Run(ctx, "merge-base", rev1, rev2)
	if err != nil {
		return "", fmt.Errorf("failed to get merge base of %s and %s: %w", rev1, rev2, err)
	}
	return sha, nil
}

// IsAncestor checks if ancestor is reachable from descendant
func (r *Repository) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	_, err := r.runner.Run(ctx, "merge-base", "--is-ancestor", ancestor, descendant)
	if err == nil {
		return true, nil
	}
	if ExitCode(err) == 1 {
		return false, nil
	}
	return false, fmt.Errorf("failed to check ancestry of %s in %s: %w", ancestor, descendant, err)
}

// HasUncommittedChanges reports staged, unstaged or untracked changes in the working copy
func (r *Repository) HasUncommittedChanges(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "status", "--porcelain=v1")
	if err != nil {
		return false, fmt.Errorf("failed to check working copy status: %w", err)
	}
	return strings.TrimSpace(output) != "", nil
}

// HasStagedChanges checks if there are staged changes
func (r *Repository) HasStagedChanges(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
	return strings.TrimSpace(output) != "", nil
}

// StageAll stages all changes including untracked files
func (r *Repository) StageAll(ctx context.Context) error {
	_, err := r.runner.Run(ctx, "add", "--all")
	if err != nil {
		return fmt.Errorf("failed to stage all changes: %w", err)
	}
	return nil
}

// CommitOptions contains options for creating a commit
type CommitOptions struct {
	Message  string
	NoVerify bool
}

// Commit records the staged changes
func (r *Repository) Commit(ctx context.Context, opts CommitOptions) error {
	args := []string{"commit", "-q", "-m", opts.Message}
	if opts.NoVerify {
		args = append(args, "--no-verify")
	}
	_, err := r.runner.Run(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}
	return nil
}
