package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"

	"stackit.dev/restack/internal/engine"
)

// RESTClient implements Client on the GitHub REST API
type RESTClient struct {
	client *github.Client
	owner  string
	repo   string
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient wraps a go-github client for owner/repo
func NewRESTClient(client *github.Client, owner, repo string) *RESTClient {
	return &RESTClient{client: client, owner: owner, repo: repo}
}

// GetOwnerRepo returns the repository owner and name
func (c *RESTClient) GetOwnerRepo() (owner, repo string) {
	return c.owner, c.repo
}

// FetchReviewRecord implements Client
func (c *RESTClient) FetchReviewRecord(ctx context.Context, number int) (*engine.ReviewRecord, error) {
	pr, err := c.pullRequestByNumber(ctx, number)
	if err != nil || pr == nil {
		return nil, err
	}
	record := reviewRecordFromPullRequest(pr)
	return &record, nil
}

// SubmitForBranches implements Client.
// GitHub has no batch endpoint, so each pull request is edited in turn and the
// first failure aborts the rest.
func (c *RESTClient) SubmitForBranches(ctx context.Context, requests []SubmitRequest) (map[string]engine.ReviewRecord, error) {
	result := make(map[string]engine.ReviewRecord, len(requests))
	for _, req := range requests {
		var pr *github.PullRequest
		var err error
		if req.Number != 0 {
			pr, err = c.pullRequestByNumber(ctx, req.Number)
		} else {
			pr, err = c.pullRequestForBranch(ctx, req.Branch)
		}
		if err != nil {
			return result, err
		}
		if pr == nil {
			continue
		}

		if pr.GetBase().GetRef() != req.Base {
			base := req.Base
			update := &github.PullRequest{
				Base: &github.PullRequestBranch{Ref: &base},
			}
			edited, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, pr.GetNumber(), update)
			if err != nil {
				return result, fmt.Errorf("failed to update base of pull request #%d for %s: %w", pr.GetNumber(), req.Branch, err)
			}
			if edited != nil {
				pr = edited
			}
		}

		record := reviewRecordFromPullRequest(pr)
		if record.Base == "" {
			record.Base = req.Base
		}
		result[req.Branch] = record
	}
	return result, nil
}

// pullRequestByNumber returns pull request number, or nil if GitHub does not know it
func (c *RESTClient) pullRequestByNumber(ctx context.Context, number int) (*github.PullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return pr, nil
}

// pullRequestForBranch returns the open pull request whose head is branchName.
// Closed and merged pull requests are ignored since a branch name can be reused.
func (c *RESTClient) pullRequestForBranch(ctx context.Context, branchName string) (*github.PullRequest, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", c.owner, branchName),
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s: %w", branchName, err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return prs[0], nil
}

func reviewRecordFromPullRequest(pr *github.PullRequest) engine.ReviewRecord {
	state := engine.ReviewStateOpen
	switch {
	case pr.GetMerged() || pr.MergedAt != nil:
		state = engine.ReviewStateMerged
	case pr.GetState() == "closed":
		state = engine.ReviewStateClosed
	}
	return engine.ReviewRecord{
		Number: pr.GetNumber(),
		Base:   pr.GetBase().GetRef(),
		State:  state,
		URL:    pr.GetHTMLURL(),
	}
}
