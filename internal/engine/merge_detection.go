package engine

import (
	"context"
)

// MergeReason names the heuristic that proved a branch merged
type MergeReason int

const (
	// NotMerged indicates no heuristic proved the branch merged
	NotMerged MergeReason = iota
	// MergedByReviewState indicates the cached review record is MERGED
	MergedByReviewState
	// MergedByPatchEquivalence indicates trunk already contains an equivalent patch
	MergedByPatchEquivalence
	// MergedByEmptyDiff indicates the branch and trunk have identical content
	MergedByEmptyDiff
)

func (r MergeReason) String() string {
	switch r {
	case MergedByReviewState:
		return "review merged"
	case MergedByPatchEquivalence:
		return "equivalent patch in trunk"
	case MergedByEmptyDiff:
		return "no diff against trunk"
	default:
		return "not merged"
	}
}

// MergeChecker runs the git side of merge detection.
// *git.Repository implements it.
type MergeChecker interface {
	IsPatchEquivalent(ctx context.Context, branchName, trunkName string) (bool, error)
	IsDiffEmpty(ctx context.Context, branchName, base string) (bool, error)
}

// ReviewRecordReader looks up cached review records
type ReviewRecordReader interface {
	GetReviewRecord(branchName string) (*ReviewRecord, error)
}

// MergeDetector decides whether a branch's content already landed in trunk.
// Heuristics run cheapest first and stop at the first positive. A heuristic
// that errors counts as negative.
type MergeDetector struct {
	reviews        ReviewRecordReader
	checker        MergeChecker
	onInconclusive func(branchName, heuristic string, err error)
}

// MergeDetectorOption configures a MergeDetector
type MergeDetectorOption func(*MergeDetector)

// WithInconclusiveHandler registers a callback for heuristics that failed to run
func WithInconclusiveHandler(fn func(branchName, heuristic string, err error)) MergeDetectorOption {
	return func(d *MergeDetector) {
		d.onInconclusive = fn
	}
}

// NewMergeDetector creates a MergeDetector
func NewMergeDetector(reviews ReviewRecordReader, checker MergeChecker, opts ...MergeDetectorOption) *MergeDetector {
	d := &MergeDetector{reviews: reviews, checker: checker}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsMerged reports whether branchName is merged into trunkName
func (d *MergeDetector) IsMerged(ctx context.Context, branchName, trunkName string) bool {
	return d.Detect(ctx, branchName, trunkName) != NotMerged
}

// Detect returns the first heuristic that proves branchName merged, or NotMerged
func (d *MergeDetector) Detect(ctx context.Context, branchName, trunkName string) MergeReason {
	review, err := d.reviews.GetReviewRecord(branchName)
	switch {
	case err != nil:
		d.inconclusive(branchName, "review state", err)
	case review != nil && review.State == ReviewStateMerged:
		return MergedByReviewState
	}

	equivalent, err := d.checker.IsPatchEquivalent(ctx, branchName, trunkName)
	if err != nil {
		d.inconclusive(branchName, "patch equivalence", err)
	} else if equivalent {
		return MergedByPatchEquivalence
	}

	empty, err := d.checker.IsDiffEmpty(ctx, branchName, trunkName)
	if err != nil {
		d.inconclusive(branchName, "content diff", err)
	} else if empty {
		return MergedByEmptyDiff
	}

	return NotMerged
}

func (d *MergeDetector) inconclusive(branchName, heuristic string, err error) {
	if d.onInconclusive != nil {
		d.onInconclusive(branchName, heuristic, err)
	}
}
