package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("squash merge is patch equivalent", func(t *testing.T) {
		scene, repo := openScene(t)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("one", "one"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("two", "two"))
		require.NoError(t, scene.Repo.SquashMerge("feature", mainBranch, "squashed"))

		equivalent, err := repo.IsPatchEquivalent(ctx, "feature", mainBranch)
		require.NoError(t, err)
		require.True(t, equivalent)
	})

	t.Run("unmerged branch is not patch equivalent", func(t *testing.T) {
		scene, repo := openScene(t)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("one", "one"))

		equivalent, err := repo.IsPatchEquivalent(ctx, "feature", mainBranch)
		require.NoError(t, err)
		require.False(t, equivalent)

		empty, err := repo.IsDiffEmpty(ctx, "feature", mainBranch)
		require.NoError(t, err)
		require.False(t, empty)
	})

	t.Run("identical trees have an empty diff", func(t *testing.T) {
		scene, repo := openScene(t)
		require.NoError(t, scene.Repo.CreateBranch("feature"))

		empty, err := repo.IsDiffEmpty(ctx, "feature", mainBranch)
		require.NoError(t, err)
		require.True(t, empty)
	})

	t.Run("unknown branch is an error", func(t *testing.T) {
		_, repo := openScene(t)

		_, err := repo.IsDiffEmpty(ctx, "missing", mainBranch)
		require.Error(t, err)
		_, err = repo.IsPatchEquivalent(ctx, "missing", mainBranch)
		require.Error(t, err)
	})
}
