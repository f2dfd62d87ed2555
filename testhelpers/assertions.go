// Package testhelpers provides testing utilities for restack,
// including a scene system, Git repository helpers, a mock GitHub server
// and custom assertions.
package testhelpers

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExpectBranches asserts the exact set of local branches, in any order.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err)
	require.ElementsMatch(t, expected, branches)
}

// ExpectCommits asserts the subjects of the newest commits on branch,
// newest first. Older history beyond len(expected) is ignored.
func ExpectCommits(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	output, err := repo.RunGitCommandAndGetOutput("log", "--format=%s", "-n", strconv.Itoa(len(expected)), branch)
	require.NoError(t, err)
	require.Equal(t, expected, splitLines(output))
}

// ExpectMergedInto asserts that branch's tip is reachable from target.
func ExpectMergedInto(t *testing.T, repo *GitRepo, branch, target string) {
	t.Helper()

	merged, err := repo.IsAncestor(branch, target)
	require.NoError(t, err)
	require.True(t, merged, "%s is not merged into %s", branch, target)
}
