package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"stackit.dev/restack/internal/checkpoint"
	"stackit.dev/restack/internal/cli"
	"stackit.dev/restack/internal/config"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/testhelpers/scenario"
)

// runCLI executes the root command in-process against the scenario's repository
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("RESTACK_LOG_FILE", filepath.Join(t.TempDir(), "restack.log"))

	cmd := cli.NewRootCmd("test", "none", "unknown")
	cmd.SetArgs(append([]string{"--quiet"}, args...))
	return cmd.ExecuteContext(context.Background())
}

func loadConfig(t *testing.T, s *scenario.Scenario) *config.RepoConfig {
	t.Helper()
	cfg, err := config.NewLoader(afero.NewOsFs(), s.Scene.GitDir()).Load()
	require.NoError(t, err)
	return cfg
}

func TestInitCommand(t *testing.T) {
	t.Run("writes the trunk", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithInitialCommit()
		require.NoError(t, os.Remove(filepath.Join(s.Scene.GitDir(), ".restack_config")))

		require.NoError(t, runCLI(t, "init", "--trunk", "main"))
		require.Equal(t, "main", loadConfig(t, s).Trunk)
	})

	t.Run("infers a common trunk name", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithInitialCommit()
		require.NoError(t, os.Remove(filepath.Join(s.Scene.GitDir(), ".restack_config")))
		s.CreateBranch("feature")

		require.NoError(t, runCLI(t, "init"))
		require.Equal(t, "main", loadConfig(t, s).Trunk)
	})

	t.Run("errors on a missing trunk", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithInitialCommit()
		require.NoError(t, os.Remove(filepath.Join(s.Scene.GitDir(), ".restack_config")))

		err := runCLI(t, "init", "--trunk", "random")
		var precondition *restackerrors.PreconditionsFailedError
		require.ErrorAs(t, err, &precondition)
		require.ErrorIs(t, err, restackerrors.ErrBranchNotFound)
	})

	t.Run("other commands require init", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithInitialCommit()
		require.NoError(t, os.Remove(filepath.Join(s.Scene.GitDir(), ".restack_config")))

		err := runCLI(t, "restack")
		require.ErrorIs(t, err, restackerrors.ErrNotInitialized)
	})
}

func TestStackCommands(t *testing.T) {
	t.Run("track, commit and restack", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithInitialCommit()
		s.CreateBranch("a").CommitChange("a", "a change")

		require.NoError(t, runCLI(t, "track"))
		require.NoError(t, runCLI(t, "create", "b"))
		s.CommitChange("b", "b change")

		s.Checkout("main").CommitChange("main2", "main moves")
		require.NoError(t, runCLI(t, "restack", "--branch", "a"))

		s.Rebuild().
			ExpectStackStructure(map[string]string{"a": "main", "b": "a"}).
			ExpectRestacked("a").
			ExpectRestacked("b").
			ExpectBranch("main")
	})

	t.Run("commit restacks the branches above", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithStack(map[string]string{"a": "main", "b": "a"})
		s.Checkout("a")
		require.NoError(t, s.Scene.Repo.CreateChange("more", "a", true))

		require.NoError(t, runCLI(t, "commit", "-a", "-m", "more a"))

		s.Rebuild().ExpectRestacked("b").ExpectBranch("a")
	})

	t.Run("onto conflict then continue", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		s.CommitFile("shared.txt", "base\n", "base").
			CreateBranch("other").
			CommitFile("shared.txt", "other\n", "other change").
			TrackBranch("other", "main").
			Checkout("main").
			CreateBranch("feature").
			CommitFile("shared.txt", "feature\n", "feature change").
			TrackBranch("feature", "main")

		err := runCLI(t, "onto", "other")
		require.ErrorIs(t, err, restackerrors.ErrRebaseConflict)
		var conflict *restackerrors.RebaseConflictError
		require.ErrorAs(t, err, &conflict)
		require.Equal(t, "feature", conflict.BranchName)
		s.ExpectCheckpoint(checkpoint.OntoArgs{Branch: "feature", Onto: "other"})

		require.ErrorIs(t, runCLI(t, "restack"), restackerrors.ErrRebaseInProgress)

		s.RunGit("checkout", "--theirs", "shared.txt")
		require.NoError(t, runCLI(t, "continue", "--all"))

		s.Rebuild().
			ExpectNoCheckpoint().
			ExpectStackStructure(map[string]string{"feature": "other"}).
			ExpectRestacked("feature")
	})

	t.Run("abort needs force without a terminal", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		s.CommitFile("shared.txt", "base\n", "base").
			CreateBranch("other").
			CommitFile("shared.txt", "other\n", "other change").
			TrackBranch("other", "main").
			Checkout("main").
			CreateBranch("feature").
			CommitFile("shared.txt", "feature\n", "feature change").
			TrackBranch("feature", "main")
		require.Error(t, runCLI(t, "onto", "other"))

		require.Error(t, runCLI(t, "abort"))
		require.NoError(t, runCLI(t, "abort", "--force"))

		s.Rebuild().
			ExpectNoCheckpoint().
			ExpectBranch("feature").
			ExpectStackStructure(map[string]string{"feature": "main"})
	})
}

func TestSyncCommand(t *testing.T) {
	s := scenario.NewScenario(t, nil).WithStack(map[string]string{"a": "main", "b": "a"})
	require.NoError(t, s.Scene.Repo.SquashMerge("a", "main", "squash a"))

	require.NoError(t, runCLI(t, "sync", "--no-pull", "--force"))

	s.Rebuild().ExpectStackStructure(map[string]string{"b": "main"}).ExpectRestacked("b")
	require.False(t, s.Engine().IsTracked("a"))
	branches, err := s.Scene.Repo.GetLocalBranches()
	require.NoError(t, err)
	require.NotContains(t, branches, "a")
}

func TestRepoIgnoredBranchesCommand(t *testing.T) {
	s := scenario.NewScenario(t, nil).WithInitialCommit()

	require.NoError(t, runCLI(t, "repo", "ignored-branches", "--add", "wip,scratch"))
	require.Equal(t, []string{"scratch", "wip"}, loadConfig(t, s).IgnoreBranches)

	require.NoError(t, runCLI(t, "repo", "ignored-branches", "--remove", "wip"))
	require.Equal(t, []string{"scratch"}, loadConfig(t, s).IgnoreBranches)

	require.Error(t, runCLI(t, "repo", "ignored-branches", "--add", "main"))

	s.CreateBranch("scratch")
	require.Error(t, runCLI(t, "track"))
}
