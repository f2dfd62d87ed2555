package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stackit.dev/restack/internal/actions"
	"stackit.dev/restack/internal/checkpoint"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/tui"
	"stackit.dev/restack/testhelpers"
	"stackit.dev/restack/testhelpers/scenario"
)

func TestAbort(t *testing.T) {
	t.Run("reports when no rebase is in progress", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)

		err := actions.Abort(s.Context, actions.AbortOptions{Force: true})
		require.ErrorIs(t, err, restackerrors.ErrRebaseNotInProgress)
	})

	t.Run("clears a stale checkpoint", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		_, err := s.Context.Checkpoints.Save(context.Background(), checkpoint.RestackArgs{Branch: "a"})
		require.NoError(t, err)

		err = actions.Abort(s.Context, actions.AbortOptions{Force: true})
		require.ErrorIs(t, err, restackerrors.ErrRebaseNotInProgress)
		s.ExpectNoCheckpoint()
	})

	t.Run("aborts the rebase and keeps the old parent", func(t *testing.T) {
		s := newConflictScenario(t)
		before, err := s.Scene.Repo.GetRevision("feature")
		require.NoError(t, err)

		_, err = actions.Onto(s.Context, actions.OntoOptions{BranchName: "feature", Onto: "other"})
		require.NoError(t, err)

		err = actions.Abort(s.Context, actions.AbortOptions{Force: true})
		require.NoError(t, err)

		require.False(t, s.Scene.Repo.RebaseInProgress())
		s.ExpectNoCheckpoint().
			ExpectStackStructure(map[string]string{"feature": "main"})
		after, err := s.Scene.Repo.GetRevision("feature")
		require.NoError(t, err)
		require.Equal(t, before, after)
	})

	t.Run("does nothing when the prompt is declined", func(t *testing.T) {
		s := newConflictScenario(t)
		_, err := actions.Onto(s.Context, actions.OntoOptions{BranchName: "feature", Onto: "other"})
		require.NoError(t, err)
		s.Confirmer.Answers = []bool{false}

		err = actions.Abort(s.Context, actions.AbortOptions{})
		require.NoError(t, err)
		require.True(t, s.Scene.Repo.RebaseInProgress())
		s.ExpectCheckpoint(checkpoint.OntoArgs{Branch: "feature", Onto: "other"})
	})

	t.Run("propagates a cancelled prompt", func(t *testing.T) {
		s := newConflictScenario(t)
		_, err := actions.Onto(s.Context, actions.OntoOptions{BranchName: "feature", Onto: "other"})
		require.NoError(t, err)
		s.Context.Confirmer = tui.CancellingConfirmer{}

		err = actions.Abort(s.Context, actions.AbortOptions{})
		require.True(t, restackerrors.IsKilled(err))
		require.True(t, s.Scene.Repo.RebaseInProgress())
	})
}
