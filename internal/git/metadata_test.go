package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
)

func strPtr(s string) *string { return &s }

func TestMetadataRefs(t *testing.T) {
	t.Run("returns nil when metadata does not exist", func(t *testing.T) {
		_, repo := openScene(t)

		meta, err := repo.ReadMetadataRef("branch1")
		require.NoError(t, err)
		require.Nil(t, meta)
	})

	t.Run("round trips a record", func(t *testing.T) {
		scene, repo := openScene(t)
		ctx := context.Background()
		number := 12

		err := repo.WriteMetadataRef(ctx, "branch1", &git.Meta{
			ParentBranchName:     strPtr(mainBranch),
			ParentBranchRevision: strPtr("abc123"),
			PrInfo: &git.PrInfo{
				Number: &number,
				Base:   strPtr(mainBranch),
				State:  strPtr("OPEN"),
			},
		})
		require.NoError(t, err)
		require.True(t, scene.Repo.HasMetadataRef("branch1"))

		meta, err := repo.ReadMetadataRef("branch1")
		require.NoError(t, err)
		require.Equal(t, mainBranch, *meta.ParentBranchName)
		require.Equal(t, "abc123", *meta.ParentBranchRevision)
		require.Equal(t, 12, *meta.PrInfo.Number)
		require.Nil(t, meta.PrInfo.URL)
	})

	t.Run("stores plain JSON", func(t *testing.T) {
		scene, repo := openScene(t)

		err := repo.WriteMetadataRef(context.Background(), "branch1", &git.Meta{ParentBranchName: strPtr(mainBranch)})
		require.NoError(t, err)

		raw, err := scene.Repo.ReadMetadataRef("branch1")
		require.NoError(t, err)
		require.JSONEq(t, `{"parentBranchName":"main"}`, raw)
	})

	t.Run("reports invalid JSON as corrupt", func(t *testing.T) {
		scene, repo := openScene(t)
		require.NoError(t, scene.Repo.WriteRawMetadataRef("branch1", "{not json"))

		_, err := repo.ReadMetadataRef("branch1")
		var corrupt *restackerrors.CorruptMetadataError
		require.ErrorAs(t, err, &corrupt)
	})

	t.Run("lists and deletes records", func(t *testing.T) {
		scene, repo := openScene(t)
		ctx := context.Background()
		for _, name := range []string{"a", "feature/b"} {
			require.NoError(t, repo.WriteMetadataRef(ctx, name, &git.Meta{ParentBranchName: strPtr(mainBranch)}))
		}

		names, err := repo.ListMetadataRefs()
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"a", "feature/b"}, names)

		require.NoError(t, repo.DeleteMetadataRef(ctx, "a"))
		require.False(t, scene.Repo.HasMetadataRef("a"))

		names, err = repo.ListMetadataRefs()
		require.NoError(t, err)
		require.Equal(t, []string{"feature/b"}, names)
	})
}
