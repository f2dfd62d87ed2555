package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	restackerrors "stackit.dev/restack/internal/errors"
)

func TestPreconditionsFailedError(t *testing.T) {
	err := restackerrors.NewPreconditionsFailedError(restackerrors.ErrDirtyWorkingTree, "commit before %s", "syncing")
	require.Equal(t, "commit before syncing", err.Error())
	require.ErrorIs(t, err, restackerrors.ErrDirtyWorkingTree)

	wrapped := fmt.Errorf("sync: %w", err)
	var precondition *restackerrors.PreconditionsFailedError
	require.True(t, errors.As(wrapped, &precondition))

	require.NotErrorIs(t, restackerrors.NewPreconditionsFailedError(nil, "plain"), restackerrors.ErrDirtyWorkingTree)
}

func TestExitFailedError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := restackerrors.NewExitFailedError("git", []string{"pull", "--ff-only"}, "", "fatal: not possible", cause)
	require.Contains(t, err.Error(), "git command failed [pull --ff-only]")
	require.Contains(t, err.Error(), "stderr: fatal: not possible")
	require.ErrorIs(t, err, cause)

	labelled := err.WithMessage("failed to pull trunk %s", "main")
	require.Contains(t, labelled.Error(), "failed to pull trunk main: git command failed")
	require.Empty(t, err.Message, "WithMessage must not modify the original")
}

func TestTypedErrors(t *testing.T) {
	t.Run("branch not found matches its sentinel", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", restackerrors.NewBranchNotFoundError("feature"))
		require.ErrorIs(t, err, restackerrors.ErrBranchNotFound)
		require.Contains(t, err.Error(), "branch feature does not exist")
	})

	t.Run("rebase conflict matches its sentinel", func(t *testing.T) {
		err := restackerrors.NewRebaseConflictError("feature", "hit conflict moving feature onto main")
		require.ErrorIs(t, err, restackerrors.ErrRebaseConflict)
		require.Equal(t, "rebase conflict on branch feature: hit conflict moving feature onto main", err.Error())
		require.Equal(t, "rebase conflict on branch feature", restackerrors.NewRebaseConflictError("feature", "").Error())
	})

	t.Run("killed is detected through wrapping", func(t *testing.T) {
		require.True(t, restackerrors.IsKilled(fmt.Errorf("prompt: %w", restackerrors.NewKilledError())))
		require.False(t, restackerrors.IsKilled(errors.New("other")))
		require.False(t, restackerrors.IsKilled(nil))
	})

	t.Run("corrupt metadata names the branch", func(t *testing.T) {
		err := restackerrors.NewCorruptMetadataError("feature", "no parent recorded")
		require.Equal(t, "corrupt metadata for branch feature: no parent recorded", err.Error())
	})
}
