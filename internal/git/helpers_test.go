package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stackit.dev/restack/internal/git"
	"stackit.dev/restack/testhelpers"
)

const mainBranch = "main"

// openScene creates a scene with one commit on main and opens it
func openScene(t *testing.T) (*testhelpers.Scene, *git.Repository) {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo, err := git.OpenRepository(context.Background(), scene.Dir)
	require.NoError(t, err)
	return scene, repo
}
