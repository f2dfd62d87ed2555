package testhelpers

import (
	"fmt"
	"time"

	"github.com/google/go-github/v62/github"
)

// SamplePRData provides common PR data for testing
type SamplePRData struct {
	Number int
	Head   string
	Base   string
	State  string
	Merged bool
}

// NewSamplePullRequest creates a github.PullRequest from sample data
func NewSamplePullRequest(data SamplePRData) *github.PullRequest {
	state := data.State
	if state == "" {
		state = "open"
	}
	pr := &github.PullRequest{
		Number:  github.Int(data.Number),
		Head:    &github.PullRequestBranch{Ref: github.String(data.Head)},
		Base:    &github.PullRequestBranch{Ref: github.String(data.Base)},
		HTMLURL: github.String(fmt.Sprintf("https://github.com/owner/repo/pull/%d", data.Number)),
		State:   github.String(state),
	}
	if data.Merged {
		pr.State = github.String("closed")
		pr.MergedAt = &github.Timestamp{Time: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	}
	return pr
}
