package git

import (
	"context"
	"fmt"
	"strings"
)

// IsPatchEquivalent squashes branchName into one synthetic commit on top of its
// merge base with trunkName and asks git cherry whether an equivalent patch is
// already in trunk. This catches squash and rebase merges where the original
// commits never reached trunk.
func (r *Repository) IsPatchEquivalent(ctx context.Context, branchName, trunkName string) (bool, error) {
	mergeBase, err := r.GetMergeBase(ctx, trunkName, branchName)
	if err != nil {
		return false, err
	}

	tree, err := r.runner.Run(ctx, "rev-parse", branchName+"^{tree}")
	if err != nil {
		return false, fmt.Errorf("failed to resolve tree of %s: %w", branchName, err)
	}

	synthetic, err := r.runner.Run(ctx, "commit-tree", tree, "-p", mergeBase, "-m", "_")
	if err != nil {
		return false, fmt.Errorf("failed to create synthetic commit for %s: %w", branchName, err)
	}

	cherryOutput, err := r.runner.Run(ctx, "cherry", trunkName, synthetic)
	if err != nil {
		return false, fmt.Errorf("failed to compare %s with %s: %w", branchName, trunkName, err)
	}

	return strings.HasPrefix(cherryOutput, "-"), nil
}

// IsDiffEmpty reports whether the trees of two revisions are identical
func (r *Repository) IsDiffEmpty(ctx context.Context, branchName, base string) (bool, error) {
	_, err := r.runner.Run(ctx, "diff", "--quiet", branchName, base)
	if err == nil {
		return true, nil
	}
	// diff --quiet exits 1 when there are differences
	if ExitCode(err) == 1 {
		return false, nil
	}
	return false, fmt.Errorf("failed to diff %s against %s: %w", branchName, base, err)
}
