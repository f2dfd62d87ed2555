package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	// PRs maps head branch names to pull requests
	PRs map[string]*github.PullRequest
	// UpdatedPRs records every PATCHed pull request by number
	UpdatedPRs map[int]*github.PullRequest
	// FailBranches makes requests for pull requests with these head branches return 500
	FailBranches map[string]bool
	// Owner and Repo for the mock server
	Owner string
	Repo  string

	mu sync.Mutex
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		PRs:          make(map[string]*github.PullRequest),
		UpdatedPRs:   make(map[int]*github.PullRequest),
		FailBranches: make(map[string]bool),
		Owner:        "owner",
		Repo:         "repo",
	}
}

// AddPR registers a pull request under its head branch
func (c *MockGitHubServerConfig) AddPR(pr *github.PullRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PRs[pr.GetHead().GetRef()] = pr
}

// Updated returns the PATCHed pull request with the given number, if any
func (c *MockGitHubServerConfig) Updated(number int) *github.PullRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.UpdatedPRs[number]
}

// NewMockGitHubServer creates an httptest server that mocks the pull request endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	basePath := "/repos/" + config.Owner + "/" + config.Repo + "/pulls"
	mux := http.NewServeMux()

	// GET /repos/{owner}/{repo}/pulls?head=owner:branch&state=open
	mux.HandleFunc("GET "+basePath, func(w http.ResponseWriter, r *http.Request) {
		branchName := strings.TrimPrefix(r.URL.Query().Get("head"), config.Owner+":")
		state := r.URL.Query().Get("state")

		config.mu.Lock()
		fail := config.FailBranches[branchName]
		prs := []*github.PullRequest{}
		if pr, exists := config.PRs[branchName]; exists && (state == "all" || state == pr.GetState() || (state == "" && pr.GetState() == "open")) {
			cp := *pr
			prs = append(prs, &cp)
		}
		config.mu.Unlock()

		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, prs)
	})

	// GET /repos/{owner}/{repo}/pulls/{number}
	mux.HandleFunc("GET "+basePath+"/{number}", func(w http.ResponseWriter, r *http.Request) {
		number, err := strconv.Atoi(r.PathValue("number"))
		if err != nil {
			http.Error(w, "invalid PR number", http.StatusBadRequest)
			return
		}

		config.mu.Lock()
		var found *github.PullRequest
		for _, pr := range config.PRs {
			if pr.GetNumber() == number {
				cp := *pr
				found = &cp
				break
			}
		}
		fail := found != nil && config.FailBranches[found.GetHead().GetRef()]
		config.mu.Unlock()

		switch {
		case fail:
			http.Error(w, "boom", http.StatusInternalServerError)
		case found == nil:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		default:
			writeJSON(w, http.StatusOK, found)
		}
	})

	// PATCH /repos/{owner}/{repo}/pulls/{number}
	mux.HandleFunc("PATCH "+basePath+"/{number}", func(w http.ResponseWriter, r *http.Request) {
		number, err := strconv.Atoi(r.PathValue("number"))
		if err != nil {
			http.Error(w, "invalid PR number", http.StatusBadRequest)
			return
		}

		// The API sends {"base": "branch-name"}, not {"base": {"ref": ...}}
		var update struct {
			Base *string `json:"base,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		config.mu.Lock()
		var found *github.PullRequest
		for _, pr := range config.PRs {
			if pr.GetNumber() == number {
				found = pr
				break
			}
		}
		if found == nil {
			config.mu.Unlock()
			http.Error(w, "PR not found", http.StatusNotFound)
			return
		}
		if update.Base != nil {
			base := *update.Base
			found.Base = &github.PullRequestBranch{Ref: &base}
		}
		cp := *found
		config.UpdatedPRs[number] = &cp
		config.mu.Unlock()

		writeJSON(w, http.StatusOK, &cp)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// NewMockGitHubClient creates a GitHub client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return client, config.Owner, config.Repo
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
