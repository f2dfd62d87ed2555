package github

import (
	"context"

	"stackit.dev/restack/internal/engine"
)

// SubmitRequest asks for the pull request of Branch to target Base.
// Number selects the pull request when it is known; otherwise the open pull
// request whose head is Branch is used.
type SubmitRequest struct {
	Branch string
	Base   string
	Number int
}

// Client is the review platform as seen by the core
type Client interface {
	// FetchReviewRecord returns the current state of pull request number, or nil if it does not exist
	FetchReviewRecord(ctx context.Context, number int) (*engine.ReviewRecord, error)

	// SubmitForBranches updates the base of every listed pull request in one call.
	// Branches without a pull request are left out of the result.
	SubmitForBranches(ctx context.Context, requests []SubmitRequest) (map[string]engine.ReviewRecord, error)
}
