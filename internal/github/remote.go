package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"stackit.dev/restack/internal/git"
)

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseGitHubRemoteURL parses a git remote URL and extracts hostname, owner, and repo.
// Supports both github.com and GitHub Enterprise URLs:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - https://github.company.com/owner/repo.git
//   - git@github.company.com:owner/repo.git
func ParseGitHubRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	var hostname, owner, repo string

	if strings.Contains(remoteURL, "@") && !strings.Contains(remoteURL, "://") {
		parts := strings.SplitN(remoteURL, "@", 2)
		hostAndPath := parts[1]

		var path string
		if strings.Contains(hostAndPath, ":") {
			hostPathParts := strings.SplitN(hostAndPath, ":", 2)
			hostname, path = hostPathParts[0], hostPathParts[1]
		} else {
			pathParts := strings.SplitN(hostAndPath, "/", 2)
			if len(pathParts) < 2 {
				return nil, fmt.Errorf("invalid SSH remote URL: missing path")
			}
			hostname, path = pathParts[0], pathParts[1]
		}

		pathParts := strings.Split(path, "/")
		if len(pathParts) < 2 {
			return nil, fmt.Errorf("invalid SSH remote URL: path must be owner/repo")
		}
		owner = pathParts[len(pathParts)-2]
		repo = pathParts[len(pathParts)-1]
	} else {
		parsed, err := url.Parse(remoteURL)
		if err != nil {
			return nil, fmt.Errorf("invalid remote URL: %w", err)
		}
		parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if parsed.Host == "" || len(parts) < 2 {
			return nil, fmt.Errorf("invalid HTTPS remote URL: must be protocol://hostname/owner/repo")
		}
		hostname = parsed.Hostname()
		owner = parts[len(parts)-2]
		repo = parts[len(parts)-1]
	}

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL")
	}

	return &RepoInfo{Hostname: hostname, Owner: owner, Repo: repo}, nil
}

// newGitHubClient creates a go-github client for hostname.
// Hosts other than github.com are treated as GitHub Enterprise.
func newGitHubClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if hostname != "github.com" {
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}

	return client, nil
}

// getGitHubToken reads GITHUB_TOKEN, falling back to the gh CLI
func getGitHubToken(ctx context.Context, runner *git.CommandRunner) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	output, err := runner.RunGH(ctx, "auth", "token")
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w", err)
	}
	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}

// NewClientForRemote builds a REST client for the repository behind remoteName.
// It fails when the remote is missing or no token is available.
func NewClientForRemote(ctx context.Context, repo *git.Repository, remoteName string) (*RESTClient, error) {
	remoteURL, err := repo.GetRemoteURL(ctx, remoteName)
	if err != nil {
		return nil, err
	}
	info, err := ParseGitHubRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}
	token, err := getGitHubToken(ctx, repo.Runner())
	if err != nil {
		return nil, err
	}
	client, err := newGitHubClient(ctx, info.Hostname, token)
	if err != nil {
		return nil, err
	}
	return NewRESTClient(client, info.Owner, info.Repo), nil
}
