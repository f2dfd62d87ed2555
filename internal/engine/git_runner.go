package engine

import (
	"context"

	"stackit.dev/restack/internal/git"
)

// GitRunner defines the git operations used by the engine.
// *git.Repository implements it.
type GitRunner interface {
	BranchNames() ([]string, error)
	BranchExists(branchName string) bool
	CurrentBranch() (string, error)
	GetRevision(ctx context.Context, rev string) (string, error)
	GetMergeBase(ctx context.Context, rev1, rev2 string) (string, error)
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	DeleteBranch(ctx context.Context, branchName string) error

	ListMetadataRefs() ([]string, error)
	ReadMetadataRef(branchName string) (*git.Meta, error)
	WriteMetadataRef(ctx context.Context, branchName string, meta *git.Meta) error
	DeleteMetadataRef(ctx context.Context, branchName string) error
}

var _ GitRunner = (*git.Repository)(nil)
