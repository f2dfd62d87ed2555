package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"

	restackerrors "stackit.dev/restack/internal/errors"
)

// Options configures a new engine
type Options struct {
	Git             GitRunner
	Trunk           string
	IgnoredBranches []string
}

// engineImpl keeps an in-memory copy of the graph that is rebuilt from the
// metadata refs on construction and on cache invalidation.
type engineImpl struct {
	git         GitRunner
	trunk       string
	ignored     map[string]bool
	branches    map[string]bool     // live local branches
	parentMap   map[string]string   // branch -> parent, live tracked branches only
	childrenMap map[string][]string // branch -> children in tracking order
	reviews     map[string]*ReviewRecord
	mu          sync.RWMutex
}

// NewEngine creates a new engine instance and loads the graph
func NewEngine(ctx context.Context, opts Options) (Engine, error) {
	if opts.Git == nil {
		return nil, fmt.Errorf("engine requires a git runner")
	}
	if opts.Trunk == "" {
		return nil, fmt.Errorf("engine requires a trunk branch")
	}

	e := &engineImpl{
		git:     opts.Git,
		trunk:   opts.Trunk,
		ignored: make(map[string]bool, len(opts.IgnoredBranches)),
	}
	for _, name := range opts.IgnoredBranches {
		e.ignored[name] = true
	}

	if err := e.Rebuild(ctx); err != nil {
		return nil, fmt.Errorf("failed to rebuild engine: %w", err)
	}
	return e, nil
}

// Rebuild reloads all branches and their metadata from git
func (e *engineImpl) Rebuild(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuildInternal()
}

func (e *engineImpl) rebuildInternal() error {
	names, err := e.git.BranchNames()
	if err != nil {
		return err
	}

	e.branches = make(map[string]bool, len(names))
	for _, name := range names {
		e.branches[name] = true
	}
	e.parentMap = make(map[string]string)
	e.childrenMap = make(map[string][]string)
	e.reviews = make(map[string]*ReviewRecord)

	// Sorted so children order is deterministic for a freshly loaded graph
	slices.Sort(names)
	for _, name := range names {
		if name == e.trunk || e.ignored[name] {
			continue
		}
		meta, err := e.git.ReadMetadataRef(name)
		if err != nil {
			return err
		}
		if meta == nil {
			continue
		}
		if review := reviewRecordFromMeta(meta); review != nil {
			e.reviews[name] = review
		}
		parent := getStringValue(meta.ParentBranchName)
		if parent == "" {
			continue
		}
		e.parentMap[name] = parent
		e.childrenMap[parent] = append(e.childrenMap[parent], name)
	}
	return nil
}

// Trunk returns the trunk branch name
func (e *engineImpl) Trunk() string {
	return e.trunk
}

// IsTrunk reports whether branchName is trunk
func (e *engineImpl) IsTrunk(branchName string) bool {
	return branchName == e.trunk
}

// IsIgnored reports whether branchName is excluded from the graph by config
func (e *engineImpl) IsIgnored(branchName string) bool {
	return e.ignored[branchName]
}

// IsTracked reports whether branchName has a recorded parent
func (e *engineImpl) IsTracked(branchName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.parentMap[branchName]
	return ok
}

// BranchExists reports whether a local branch exists as of the last rebuild
func (e *engineImpl) BranchExists(branchName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.branches[branchName]
}

// GetParent returns the parent branch name, or "" for trunk
func (e *engineImpl) GetParent(branchName string) (string, error) {
	if branchName == e.trunk {
		return "", nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	parent, ok := e.parentMap[branchName]
	if !ok {
		return "", restackerrors.NewCorruptMetadataError(branchName, "no parent recorded")
	}
	return parent, nil
}

// GetChildren returns the children branches
func (e *engineImpl) GetChildren(branchName string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.childrenMap[branchName])
}

// GetDescendants returns all branches above branchName in breadth-first order
func (e *engineImpl) GetDescendants(branchName string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.descendantsInternal(branchName)
}

func (e *engineImpl) descendantsInternal(branchName string) []string {
	var result []string
	queue := slices.Clone(e.childrenMap[branchName])
	seen := map[string]bool{branchName: true}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		result = append(result, current)
		queue = append(queue, e.childrenMap[current]...)
	}
	return result
}

// GetReviewRecord returns the cached review record, or nil if none is cached
func (e *engineImpl) GetReviewRecord(branchName string) (*ReviewRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	review, ok := e.reviews[branchName]
	if !ok {
		return nil, nil
	}
	cp := *review
	return &cp, nil
}

// AllTrackedBranches returns the live tracked branches, sorted by name
func (e *engineImpl) AllTrackedBranches() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]string, 0, len(e.parentMap))
	for name := range e.parentMap {
		if e.branches[name] {
			result = append(result, name)
		}
	}
	slices.Sort(result)
	return result
}

// ParentRevision returns the recorded parent revision when it is still an
// ancestor of the branch, and the merge base with the parent otherwise.
func (e *engineImpl) ParentRevision(ctx context.Context, branchName string) (string, error) {
	parent, err := e.GetParent(branchName)
	if err != nil {
		return "", err
	}
	if parent == "" {
		return "", fmt.Errorf("%w: %s has no parent", restackerrors.ErrTrunkOperation, branchName)
	}

	meta, err := e.git.ReadMetadataRef(branchName)
	if err != nil {
		return "", err
	}
	if meta != nil && meta.ParentBranchRevision != nil {
		recorded := *meta.ParentBranchRevision
		isAncestor, err := e.git.IsAncestor(ctx, recorded, branchName)
		if err == nil && isAncestor {
			return recorded, nil
		}
	}

	return e.git.GetMergeBase(ctx, branchName, parent)
}
