package engine

// ReviewState is the state of a branch's review on the review platform
type ReviewState string

const (
	// ReviewStateOpen indicates the review is still open
	ReviewStateOpen ReviewState = "OPEN"
	// ReviewStateMerged indicates the review was merged
	ReviewStateMerged ReviewState = "MERGED"
	// ReviewStateClosed indicates the review was closed without merging
	ReviewStateClosed ReviewState = "CLOSED"
)

// ReviewRecord is the review platform state cached in a branch's metadata.
// It is a hint and never decides the shape of the graph.
type ReviewRecord struct {
	Number int
	Base   string
	State  ReviewState
	URL    string
}

// BranchDeletion is the result of deleting a native branch
type BranchDeletion struct {
	Branch     string
	invalidate func() error
}

// InvalidateCache refreshes the engine's view of the repository after the deletion
func (d *BranchDeletion) InvalidateCache() error {
	if d == nil || d.invalidate == nil {
		return nil
	}
	return d.invalidate()
}
