// Package scenario provides a high-level test scenario that combines a Scene,
// an Engine, and a runtime Context to provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"stackit.dev/restack/internal/checkpoint"
	"stackit.dev/restack/internal/engine"
	"stackit.dev/restack/internal/github"
	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
	"stackit.dev/restack/testhelpers"
)

// Scenario represents a high-level test scenario that combines a Scene,
// an Engine, and a runtime Context to provide a terse API for integration tests.
type Scenario struct {
	T         *testing.T
	Scene     *testhelpers.Scene
	Context   *runtime.Context
	Output    *bytes.Buffer
	Confirmer *tui.ScriptedConfirmer
}

// NewScenario creates a new Scenario with an optional setup function.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv and NewScene.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	scene := testhelpers.NewScene(t, setup)
	output := &bytes.Buffer{}
	confirmer := &tui.ScriptedConfirmer{Fallback: true}

	ctx, err := runtime.NewContext(context.Background(), scene.Dir, runtime.Options{
		Splog:     tui.NewSplogWithWriter(output),
		Confirmer: confirmer,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Close() })

	return &Scenario{
		T:         t,
		Scene:     scene,
		Context:   ctx,
		Output:    output,
		Confirmer: confirmer,
	}
}

// Engine returns the scenario's engine
func (s *Scenario) Engine() engine.Engine {
	return s.Context.Engine
}

// WithReviews installs a review platform client
func (s *Scenario) WithReviews(client github.Client) *Scenario {
	s.Context.Reviews = client
	return s
}

// WithInitialCommit creates an initial commit on the main branch.
func (s *Scenario) WithInitialCommit() *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChangeAndCommit("initial", "init")
	require.NoError(s.T, err)
	return s
}

// WithUncommittedChange creates an uncommitted change in the repository.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChange("unstaged content", name, true)
	require.NoError(s.T, err)
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.RunGitCommand(args...)
	require.NoError(s.T, err)
	return s
}

// Checkout checks out a branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CheckoutBranch(branch)
	require.NoError(s.T, err)
	return s
}

// CreateBranch creates and checks out a new untracked branch.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateAndCheckoutBranch(name)
	require.NoError(s.T, err)
	return s
}

// Rebuild reloads the engine's graph from the metadata refs.
func (s *Scenario) Rebuild() *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Engine().Rebuild(context.Background()))
	return s
}

// Commit creates an empty commit with the given message.
func (s *Scenario) Commit(message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.RunGitCommand("commit", "--allow-empty", "-m", message)
	require.NoError(s.T, err)
	return s
}

// CommitChange creates a file change and commits it.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChangeAndCommit(message, name)
	require.NoError(s.T, err)
	return s
}

// CommitFile writes content to name and commits it.
func (s *Scenario) CommitFile(name, content, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.WriteFile(name, content))
	s.RunGit("add", name)
	s.RunGit("commit", "-m", message)
	return s
}

// TrackBranch tracks a branch with a parent in the engine.
func (s *Scenario) TrackBranch(branch, parent string) *Scenario {
	s.T.Helper()
	err := s.Engine().TrackBranch(context.Background(), branch, parent)
	require.NoError(s.T, err)
	return s
}

// WithStack sets up a branch hierarchy. The map keys are branch names,
// and values are their parent branch names.
// It automatically creates a commit on each branch and tracks it. Branches
// are created parents first, siblings in name order, and main is checked
// out afterwards.
func (s *Scenario) WithStack(structure map[string]string) *Scenario {
	s.T.Helper()

	trunk := s.Engine().Trunk()
	if messages, _ := s.Scene.Repo.ListCurrentBranchCommitMessages(); len(messages) == 0 {
		s.WithInitialCommit()
	}

	names := make([]string, 0, len(structure))
	for name := range structure {
		names = append(names, name)
	}
	slices.Sort(names)

	created := map[string]bool{trunk: true}
	for len(created) < len(structure)+1 {
		progress := false
		for _, branch := range names {
			parent := structure[branch]
			if created[branch] || !created[parent] {
				continue
			}
			s.Checkout(parent)
			s.CreateBranch(branch)
			s.CommitChange(branch, "change on "+branch)
			s.TrackBranch(branch, parent)
			created[branch] = true
			progress = true
		}
		if !progress {
			s.T.Fatalf("could not resolve stack structure: circular dependency or missing parent")
		}
	}

	return s.Checkout(trunk)
}

// WithReviewRecord caches a review record for branch.
func (s *Scenario) WithReviewRecord(branch string, record engine.ReviewRecord) *Scenario {
	s.T.Helper()
	err := s.Engine().UpsertReviewRecord(context.Background(), branch, record)
	require.NoError(s.T, err)
	return s
}

// ExpectStackStructure asserts that the engine's parent-child relationships match the expected map.
func (s *Scenario) ExpectStackStructure(expected map[string]string) *Scenario {
	s.T.Helper()
	for branch, expectedParent := range expected {
		actualParent, err := s.Engine().GetParent(branch)
		require.NoError(s.T, err)
		require.Equal(s.T, expectedParent, actualParent, "Parent of %s does not match", branch)
	}
	return s
}

// ExpectRestacked asserts that branch contains the tip of its recorded parent.
func (s *Scenario) ExpectRestacked(branch string) *Scenario {
	s.T.Helper()
	parent, err := s.Engine().GetParent(branch)
	require.NoError(s.T, err)
	isAnc, err := s.Scene.Repo.IsAncestor(parent, branch)
	require.NoError(s.T, err)
	require.True(s.T, isAnc, "%s should be restacked on %s", branch, parent)
	return s
}

// ExpectBranch asserts that the current branch is as expected.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Scene.Repo.CurrentBranchName()
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual)
	return s
}

// ExpectCheckpoint asserts that the suspended operation has the given arguments.
func (s *Scenario) ExpectCheckpoint(expected checkpoint.Args) *Scenario {
	s.T.Helper()
	cp, err := s.Context.Checkpoints.MostRecent(context.Background())
	require.NoError(s.T, err)
	require.NotNil(s.T, cp, "expected a checkpoint")
	require.Equal(s.T, expected, cp.Args)
	return s
}

// ExpectNoCheckpoint asserts that no operation is suspended.
func (s *Scenario) ExpectNoCheckpoint() *Scenario {
	s.T.Helper()
	cp, err := s.Context.Checkpoints.MostRecent(context.Background())
	require.NoError(s.T, err)
	require.Nil(s.T, cp, "expected no checkpoint")
	return s
}
