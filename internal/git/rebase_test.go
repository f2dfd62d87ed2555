package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
)

func TestRebase(t *testing.T) {
	ctx := context.Background()

	t.Run("replays a branch onto its moved parent", func(t *testing.T) {
		scene, repo := openScene(t)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("branch1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("branch1 change", "b1"))
		base, err := scene.Repo.GetRevision(mainBranch)
		require.NoError(t, err)

		require.NoError(t, scene.Repo.CheckoutBranch(mainBranch))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main update", "main"))

		result, err := repo.RebaseOnto(ctx, "branch1", mainBranch, base)
		require.NoError(t, err)
		require.Equal(t, git.RebaseDone, result)

		isAnc, err := repo.IsAncestor(ctx, mainBranch, "branch1")
		require.NoError(t, err)
		require.True(t, isAnc)

		current, err := repo.CurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "branch1", current)
	})

	t.Run("stops at a conflict and continues once resolved", func(t *testing.T) {
		scene, repo := openScene(t)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("branch1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("branch1 side", "shared"))
		base, err := scene.Repo.GetRevision(mainBranch)
		require.NoError(t, err)

		require.NoError(t, scene.Repo.CheckoutBranch(mainBranch))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main side", "shared"))

		result, err := repo.RebaseOnto(ctx, "branch1", mainBranch, base)
		require.NoError(t, err)
		require.Equal(t, git.RebaseConflict, result)
		require.True(t, repo.IsRebaseInProgress())

		unmerged, err := repo.UnmergedFiles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"shared_test.txt"}, unmerged)

		_, err = repo.CurrentBranch()
		require.ErrorIs(t, err, restackerrors.ErrNotOnBranch)

		require.NoError(t, scene.Repo.ResolveMergeConflicts())
		require.NoError(t, scene.Repo.MarkMergeConflictsAsResolved())

		result, err = repo.RebaseContinue(ctx)
		require.NoError(t, err)
		require.Equal(t, git.RebaseDone, result)
		require.False(t, repo.IsRebaseInProgress())
	})

	t.Run("abort restores the branch", func(t *testing.T) {
		scene, repo := openScene(t)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("branch1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("branch1 side", "shared"))
		before, err := scene.Repo.GetRevision("branch1")
		require.NoError(t, err)
		base, err := scene.Repo.GetRevision(mainBranch)
		require.NoError(t, err)

		require.NoError(t, scene.Repo.CheckoutBranch(mainBranch))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main side", "shared"))

		result, err := repo.RebaseOnto(ctx, "branch1", mainBranch, base)
		require.NoError(t, err)
		require.Equal(t, git.RebaseConflict, result)

		require.NoError(t, repo.RebaseAbort(ctx))
		require.False(t, repo.IsRebaseInProgress())
		after, err := scene.Repo.GetRevision("branch1")
		require.NoError(t, err)
		require.Equal(t, before, after)
	})

	t.Run("fails without leaving a rebase for an unknown upstream", func(t *testing.T) {
		scene, repo := openScene(t)
		require.NoError(t, scene.Repo.CreateBranch("branch1"))

		_, err := repo.RebaseOnto(ctx, "branch1", mainBranch, "does-not-exist")
		require.Error(t, err)
		require.False(t, repo.IsRebaseInProgress())
	})
}
