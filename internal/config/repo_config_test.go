package config_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"stackit.dev/restack/internal/config"
)

const gitDir = "/repo/.git"

func TestLoader(t *testing.T) {
	t.Run("returns defaults when config does not exist", func(t *testing.T) {
		loader := config.NewLoader(afero.NewMemMapFs(), gitDir)
		require.False(t, loader.IsInitialized())

		cfg, err := loader.Load()
		require.NoError(t, err)
		require.Equal(t, "main", cfg.Trunk)
		require.Equal(t, "origin", cfg.Remote)
		require.Equal(t, "file", cfg.CheckpointBackend)
		require.Empty(t, cfg.IgnoreBranches)
	})

	t.Run("round trips a saved config", func(t *testing.T) {
		loader := config.NewLoader(afero.NewMemMapFs(), gitDir)
		err := loader.Save(&config.RepoConfig{
			Trunk:             "develop",
			Remote:            "upstream",
			IgnoreBranches:    []string{"release"},
			CheckpointBackend: "sqlite",
		})
		require.NoError(t, err)
		require.True(t, loader.IsInitialized())

		cfg, err := loader.Load()
		require.NoError(t, err)
		require.Equal(t, "develop", cfg.Trunk)
		require.Equal(t, "upstream", cfg.Remote)
		require.Equal(t, []string{"release"}, cfg.IgnoreBranches)
		require.Equal(t, "sqlite", cfg.CheckpointBackend)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("RESTACK_TRUNK", "trunk")
		t.Setenv("RESTACK_CHECKPOINT_BACKEND", "sqlite")

		loader := config.NewLoader(afero.NewMemMapFs(), gitDir)
		require.NoError(t, loader.Save(&config.RepoConfig{Trunk: "main"}))

		cfg, err := loader.Load()
		require.NoError(t, err)
		require.Equal(t, "trunk", cfg.Trunk)
		require.Equal(t, "sqlite", cfg.CheckpointBackend)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		loader := config.NewLoader(fs, gitDir)
		require.NoError(t, afero.WriteFile(fs, loader.Path(), []byte("{not json"), 0600))

		_, err := loader.Load()
		require.Error(t, err)
	})
}

func TestIgnoredBranches(t *testing.T) {
	t.Run("adds and removes ignored branches", func(t *testing.T) {
		cfg := &config.RepoConfig{Trunk: "main"}

		require.NoError(t, cfg.AddIgnoredBranch("release"))
		require.NoError(t, cfg.AddIgnoredBranch("deploy"))
		require.Equal(t, []string{"deploy", "release"}, cfg.IgnoreBranches)
		require.True(t, cfg.IsIgnored("release"))

		require.NoError(t, cfg.RemoveIgnoredBranch("release"))
		require.False(t, cfg.IsIgnored("release"))
	})

	t.Run("rejects trunk and duplicates", func(t *testing.T) {
		cfg := &config.RepoConfig{Trunk: "main", IgnoreBranches: []string{"release"}}

		require.Error(t, cfg.AddIgnoredBranch("main"))
		require.Error(t, cfg.AddIgnoredBranch("release"))
		require.Error(t, cfg.RemoveIgnoredBranch("unknown"))
	})
}
