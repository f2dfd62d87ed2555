package git

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	restackerrors "stackit.dev/restack/internal/errors"
)

// Repository bundles a go-git handle for reads with a CommandRunner for
// everything that mutates the working copy or refs.
type Repository struct {
	repo   *git.Repository
	runner *CommandRunner
	root   string
	gitDir string
}

// OpenRepository opens the git repository containing path
func OpenRepository(ctx context.Context, path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	runner := NewCommandRunner(absPath)
	root, err := runner.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}
	gitDir, err := runner.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get git dir: %w", err)
	}

	return &Repository{
		repo:   repo,
		runner: NewCommandRunner(root),
		root:   root,
		gitDir: gitDir,
	}, nil
}

// Root returns the top-level directory of the working copy
func (r *Repository) Root() string {
	return r.root
}

// GitDir returns the absolute path of the .git directory
func (r *Repository) GitDir() string {
	return r.gitDir
}

// Runner returns the command runner bound to the repository root
func (r *Repository) Runner() *CommandRunner {
	return r.runner
}

// BranchNames returns all local branch names
func (r *Repository) BranchNames() ([]string, error) {
	branches, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	return names, nil
}

// BranchExists reports whether a local branch with the given name exists
func (r *Repository) BranchExists(name string) bool {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	return err == nil
}

// CurrentBranch returns the checked out branch name.
// It returns ErrNotOnBranch when HEAD is detached, as it is mid-rebase.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", restackerrors.ErrNotOnBranch
	}
	return head.Target().Short(), nil
}
