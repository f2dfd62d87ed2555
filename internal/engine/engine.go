package engine

import (
	"context"
)

// BranchReader provides read-only access to the branch graph.
// Thread-safe: All methods are safe for concurrent use
type BranchReader interface {
	Trunk() string
	IsTrunk(branchName string) bool
	IsTracked(branchName string) bool
	IsIgnored(branchName string) bool
	BranchExists(branchName string) bool

	// GetParent returns "" for trunk and a CorruptMetadataError for any other
	// branch without a recorded parent.
	GetParent(branchName string) (string, error)
	// GetChildren returns the branches whose recorded parent is branchName,
	// in the order they were tracked.
	GetChildren(branchName string) []string
	// GetDescendants returns every branch above branchName, breadth first.
	GetDescendants(branchName string) []string
	GetReviewRecord(branchName string) (*ReviewRecord, error)
	AllTrackedBranches() []string

	// ParentRevision returns the commit branchName's own commits start after.
	ParentRevision(ctx context.Context, branchName string) (string, error)
}

// BranchWriter provides the only mutation path for branch metadata.
// Thread-safe: All methods are safe for concurrent use
type BranchWriter interface {
	TrackBranch(ctx context.Context, branchName, parentBranchName string) error
	// SetParent points branchName at newParent and records newParent's current
	// revision as the base. Changes that would create a cycle are refused.
	SetParent(ctx context.Context, branchName, newParent string) error
	UpsertReviewRecord(ctx context.Context, branchName string, record ReviewRecord) error
	DeleteRecord(ctx context.Context, branchName string) error
	// PruneOrphans deletes the records of branches that no longer exist and
	// returns their names.
	PruneOrphans(ctx context.Context) ([]string, error)

	// DeleteBranch removes the native branch but keeps its record. The
	// in-memory graph is stale until the returned deletion is invalidated.
	DeleteBranch(ctx context.Context, branchName string) (*BranchDeletion, error)
	Rebuild(ctx context.Context) error
}

// Engine is the branch metadata store
type Engine interface {
	BranchReader
	BranchWriter
}
