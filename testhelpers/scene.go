package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and an
// initialized Git repository, and changes into it. Git commands started by
// the code under test see neither the global nor the system git config.
// NOTE: not safe for parallel tests as it uses t.Setenv and t.Chdir.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("RESTACK_NO_INTERACTIVE", "1")

	tmpDir, err := os.MkdirTemp("", "restack-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	// macOS puts temp dirs behind a symlink; git reports the resolved path
	if resolved, err := filepath.EvalSymlinks(tmpDir); err == nil {
		tmpDir = resolved
	}
	t.Cleanup(func() {
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
		}
	})

	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  tmpDir,
		Repo: repo,
	}

	t.Chdir(tmpDir)

	if err := scene.writeDefaultConfigs(); err != nil {
		t.Fatalf("Failed to write config files: %v", err)
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// GitDir returns the scene's .git directory.
func (s *Scene) GitDir() string {
	return filepath.Join(s.Dir, ".git")
}

// writeDefaultConfigs marks the repository as initialized with trunk main.
func (s *Scene) writeDefaultConfigs() error {
	repoConfig := `{"trunk": "main"}`
	return os.WriteFile(filepath.Join(s.GitDir(), ".restack_config"), []byte(repoConfig), 0600)
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}
