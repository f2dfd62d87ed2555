package actions_test

import (
	"testing"

	"stackit.dev/restack/testhelpers/scenario"
)

// newConflictScenario tracks two branches off main that each rewrite
// shared.txt, so moving one onto the other always conflicts.
func newConflictScenario(t *testing.T) *scenario.Scenario {
	t.Helper()
	s := scenario.NewScenario(t, nil)
	s.CommitFile("shared.txt", "base\n", "base").
		CreateBranch("other").
		CommitFile("shared.txt", "other\n", "other change").
		TrackBranch("other", "main").
		Checkout("main").
		CreateBranch("feature").
		CommitFile("shared.txt", "feature\n", "feature change").
		TrackBranch("feature", "main").
		Checkout("main")
	return s
}

// resolveConflict settles shared.txt and stages it
func resolveConflict(s *scenario.Scenario) {
	s.T.Helper()
	s.RunGit("checkout", "--theirs", "shared.txt")
	s.RunGit("add", "shared.txt")
}
