package actions_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/engine"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
	restackgithub "stackit.dev/restack/internal/github"
	"stackit.dev/restack/internal/tui"
	"stackit.dev/restack/testhelpers"
	"stackit.dev/restack/testhelpers/scenario"
)

func TestSync(t *testing.T) {
	t.Run("promotes the children of a merged branch and deletes it", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"feature-a": "main",
				"feature-b": "feature-a",
			}).
			WithReviewRecord("feature-a", engine.ReviewRecord{Number: 1, Base: "main", State: engine.ReviewStateMerged})

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, Force: true})
		require.NoError(t, err)

		require.Equal(t, []string{"feature-a"}, result.Deleted)
		require.Equal(t, []string{"feature-b"}, result.Promoted)
		require.Equal(t, []string{"feature-a"}, result.Pruned)
		require.Equal(t, engine.MergedByReviewState, result.MergeReasons["feature-a"])

		s.ExpectStackStructure(map[string]string{"feature-b": "main"}).
			ExpectRestacked("feature-b").
			ExpectNoCheckpoint().
			ExpectBranch("main")
		require.False(t, s.Engine().BranchExists("feature-a"))
		require.False(t, s.Scene.Repo.HasMetadataRef("feature-a"))
		require.Equal(t, []string{"feature-b"}, s.Engine().GetChildren("main"))
	})

	t.Run("refuses to run with uncommitted changes and stays on the branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature-a": "main"}).
			Checkout("feature-a").
			WithUncommittedChange("dirty")

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, Force: true})
		require.Nil(t, result)
		var precondition *restackerrors.PreconditionsFailedError
		require.True(t, errors.As(err, &precondition))
		require.ErrorIs(t, err, restackerrors.ErrDirtyWorkingTree)
		s.ExpectBranch("feature-a")
	})

	t.Run("deletes a squash merged branch found by patch equivalence", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature-a": "main"})
		require.NoError(t, s.Scene.Repo.SquashMerge("feature-a", "main", "squash feature-a"))

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, Force: true})
		require.NoError(t, err)
		require.Equal(t, []string{"feature-a"}, result.Deleted)
		require.Equal(t, engine.MergedByPatchEquivalence, result.MergeReasons["feature-a"])
	})

	t.Run("deletes a branch landed with a merge commit", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature-a": "main"})
		require.NoError(t, s.Scene.Repo.MergeBranch("main", "feature-a"))
		testhelpers.ExpectMergedInto(t, s.Scene.Repo, "feature-a", "main")

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, Force: true})
		require.NoError(t, err)
		require.Equal(t, []string{"feature-a"}, result.Deleted)
		require.NotEqual(t, engine.NotMerged, result.MergeReasons["feature-a"])
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"main"})
	})

	t.Run("refuses to run from a detached HEAD", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature-a": "main"}).
			WithReviewRecord("feature-a", engine.ReviewRecord{Number: 1, Base: "main", State: engine.ReviewStateMerged})
		require.NoError(t, s.Scene.Repo.CheckoutDetached("feature-a"))

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, Force: true})
		require.Nil(t, result)
		var precondition *restackerrors.PreconditionsFailedError
		require.True(t, errors.As(err, &precondition))
		require.ErrorIs(t, err, restackerrors.ErrNotOnBranch)

		require.True(t, s.Engine().BranchExists("feature-a"))
		head, err := s.Scene.Repo.RunGitCommandAndGetOutput("rev-parse", "--abbrev-ref", "HEAD")
		require.NoError(t, err)
		require.Equal(t, "HEAD", head)
	})

	t.Run("keeps a merged branch when the deletion is declined", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature-a": "main"}).
			WithReviewRecord("feature-a", engine.ReviewRecord{Number: 1, Base: "main", State: engine.ReviewStateMerged})
		s.Confirmer.Answers = []bool{false}

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true})
		require.NoError(t, err)
		require.Empty(t, result.Deleted)
		require.Len(t, s.Confirmer.Asked, 1)
		require.True(t, s.Engine().BranchExists("feature-a"))
		require.True(t, s.Scene.Repo.HasMetadataRef("feature-a"))
	})

	t.Run("stops when the confirmation is cancelled", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature-a": "main"}).
			WithReviewRecord("feature-a", engine.ReviewRecord{Number: 1, Base: "main", State: engine.ReviewStateMerged})
		s.Context.Confirmer = tui.CancellingConfirmer{}

		_, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true})
		require.True(t, restackerrors.IsKilled(err))
		require.True(t, s.Engine().BranchExists("feature-a"))
	})

	t.Run("leaves unmerged branches alone", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"feature-a": "main",
				"feature-b": "feature-a",
			})

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, Force: true})
		require.NoError(t, err)
		require.Empty(t, result.Deleted)
		require.Empty(t, result.Promoted)
		s.ExpectStackStructure(map[string]string{"feature-a": "main", "feature-b": "feature-a"})
	})

	t.Run("prunes metadata of branches deleted outside the tool", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature-a": "main"}).
			RunGit("branch", "-D", "feature-a")

		result, err := actions.Sync(s.Context, actions.SyncOptions{})
		require.NoError(t, err)
		require.Equal(t, []string{"feature-a"}, result.Pruned)
		require.False(t, s.Scene.Repo.HasMetadataRef("feature-a"))
	})

	t.Run("fast-forwards trunk from the remote", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature-a": "main"})
		_, err := s.Scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, s.Scene.Repo.PushBranch("origin", "main"))

		s.CreateBranch("upstream-work").
			CommitChange("upstream", "landed elsewhere").
			RunGit("push", "origin", "upstream-work:main").
			Checkout("feature-a").
			RunGit("branch", "-D", "upstream-work")

		result, err := actions.Sync(s.Context, actions.SyncOptions{Pull: true})
		require.NoError(t, err)
		require.Equal(t, git.PullDone, result.Pull)
		s.ExpectBranch("feature-a")

		count, err := s.Scene.Repo.GetCommitCount("feature-a", "main")
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("skips the pull without a remote", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)

		result, err := actions.Sync(s.Context, actions.SyncOptions{Pull: true})
		require.NoError(t, err)
		require.Equal(t, git.PullUnneeded, result.Pull)
	})

	t.Run("resubmits branches whose review base went stale", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		config.AddPR(testhelpers.NewSamplePullRequest(testhelpers.SamplePRData{
			Number: 7, Head: "feature-b", Base: "feature-a",
		}))
		client, owner, repo := testhelpers.NewMockGitHubClient(t, config)

		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"feature-a": "main",
				"feature-b": "feature-a",
			}).
			WithReviewRecord("feature-a", engine.ReviewRecord{Number: 6, Base: "main", State: engine.ReviewStateMerged}).
			WithReviewRecord("feature-b", engine.ReviewRecord{Number: 7, Base: "feature-a", State: engine.ReviewStateOpen}).
			WithReviews(restackgithub.NewRESTClient(client, owner, repo))
		_, err := s.Scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, ResubmitRebased: true, Force: true})
		require.NoError(t, err)
		require.Equal(t, []string{"feature-b"}, result.Resubmitted)

		updated := config.Updated(7)
		require.NotNil(t, updated)
		require.Equal(t, "main", updated.GetBase().GetRef())

		record, err := s.Engine().GetReviewRecord("feature-b")
		require.NoError(t, err)
		require.Equal(t, "main", record.Base)

		remoteRev, err := s.Scene.Repo.RunGitCommandAndGetOutput("rev-parse", "origin/feature-b")
		require.NoError(t, err)
		localRev, err := s.Scene.Repo.GetRevision("feature-b")
		require.NoError(t, err)
		require.Equal(t, localRev, remoteRev)
	})

	t.Run("keeps a reused branch name whose old pull request merged", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		config.AddPR(testhelpers.NewSamplePullRequest(testhelpers.SamplePRData{
			Number: 3, Head: "feature", Base: "main", Merged: true,
		}))
		client, owner, repo := testhelpers.NewMockGitHubClient(t, config)
		reviews := restackgithub.NewRESTClient(client, owner, repo)

		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature": "main"}).
			WithReviews(reviews)
		require.False(t, s.Context.MergeDetector.IsMerged(s.Context.Context, "feature", "main"))

		awaitRefresh(t, restackgithub.RefreshInBackground(s.Context.Context, reviews, s.Engine(), s.Engine().AllTrackedBranches()))

		record, err := s.Engine().GetReviewRecord("feature")
		require.NoError(t, err)
		require.Nil(t, record)

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, Force: true})
		require.NoError(t, err)
		require.Empty(t, result.Deleted)
		require.NotContains(t, result.MergeReasons, "feature")
		require.True(t, s.Engine().BranchExists("feature"))
	})

	t.Run("deletes a branch once the refresh sees its pull request merged", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		config.AddPR(testhelpers.NewSamplePullRequest(testhelpers.SamplePRData{
			Number: 4, Head: "feature", Base: "main", Merged: true,
		}))
		client, owner, repo := testhelpers.NewMockGitHubClient(t, config)
		reviews := restackgithub.NewRESTClient(client, owner, repo)

		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feature": "main"}).
			WithReviewRecord("feature", engine.ReviewRecord{Number: 4, Base: "main", State: engine.ReviewStateOpen}).
			WithReviews(reviews)

		awaitRefresh(t, restackgithub.RefreshInBackground(s.Context.Context, reviews, s.Engine(), s.Engine().AllTrackedBranches()))

		result, err := actions.Sync(s.Context, actions.SyncOptions{DeleteMerged: true, Force: true})
		require.NoError(t, err)
		require.Equal(t, []string{"feature"}, result.Deleted)
		require.Equal(t, engine.MergedByReviewState, result.MergeReasons["feature"])
	})

	t.Run("refuses to resubmit without a review platform", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)

		_, err := actions.Sync(s.Context, actions.SyncOptions{ResubmitRebased: true})
		var precondition *restackerrors.PreconditionsFailedError
		require.True(t, errors.As(err, &precondition))
	})
}

func TestMergeDetection(t *testing.T) {
	t.Run("finds a branch whose content reached trunk by other commits", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		s.CommitFile("base.txt", "base\n", "base").
			CreateBranch("x").
			CommitFile("f.txt", "a\nb\n", "x change").
			TrackBranch("x", "main").
			Checkout("main").
			CommitFile("f.txt", "a\n", "first half").
			CommitFile("f.txt", "a\nb\n", "second half")

		ctx := context.Background()
		require.Equal(t, engine.MergedByEmptyDiff, s.Context.MergeDetector.Detect(ctx, "x", "main"))
		require.True(t, s.Context.MergeDetector.IsMerged(ctx, "x", "main"))
		require.True(t, s.Context.MergeDetector.IsMerged(ctx, "x", "main"))
	})

	t.Run("does not report a branch with unique content", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"x": "main"})

		require.False(t, s.Context.MergeDetector.IsMerged(context.Background(), "x", "main"))
	})
}

func awaitRefresh(t *testing.T, r *restackgithub.Refresh) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("review refresh did not finish")
	}
}
