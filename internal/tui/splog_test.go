package tui_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/tui"
)

func TestSplog(t *testing.T) {
	t.Run("console output has no timestamps and carries level prefixes", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		var buf bytes.Buffer
		splog := tui.NewSplogWithWriter(&buf)

		splog.Info("restacked %s", "feature")
		splog.Warn("careful")
		splog.Error("broken")
		splog.Debug("hidden")

		require.Equal(t, "restacked feature\n⚠️  careful\n❌ broken\n", buf.String())
	})

	t.Run("debug is shown when DEBUG is set", func(t *testing.T) {
		t.Setenv("DEBUG", "1")
		var buf bytes.Buffer
		tui.NewSplogWithWriter(&buf).Debug("details %d", 3)
		require.Equal(t, "details 3\n", buf.String())
	})

	t.Run("quiet suppresses console output", func(t *testing.T) {
		var buf bytes.Buffer
		splog := tui.NewSplogWithWriter(&buf)
		splog.SetQuiet(true)
		splog.Info("nothing")
		require.Empty(t, buf.String())
	})

	t.Run("file logging records debug messages", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		logPath := filepath.Join(t.TempDir(), "logs", "restack.log")
		splog, err := tui.NewSplogWithConfig(logPath)
		require.NoError(t, err)
		splog.SetQuiet(true)
		splog.Debug("pruned %s", "old-branch")
		require.NoError(t, splog.Close())

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(content), "pruned old-branch")
		require.Contains(t, string(content), "level=DEBUG")
	})
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("RESTACK_LOG_FILE", "/tmp/custom.log")
	require.Equal(t, "/tmp/custom.log", tui.GetLogFilePath())
}

func TestScriptedConfirmer(t *testing.T) {
	c := &tui.ScriptedConfirmer{Answers: []bool{true, false}}

	first, err := c.Confirm("delete a?")
	require.NoError(t, err)
	require.True(t, first)

	second, err := c.Confirm("delete b?")
	require.NoError(t, err)
	require.False(t, second)

	third, err := c.Confirm("delete c?")
	require.NoError(t, err)
	require.False(t, third)

	require.Equal(t, []string{"delete a?", "delete b?", "delete c?"}, c.Asked)
}

func TestSurveyConfirmerNonInteractive(t *testing.T) {
	t.Setenv("RESTACK_NO_INTERACTIVE", "1")
	_, err := tui.NewSurveyConfirmer().Confirm("proceed?")
	require.ErrorIs(t, err, tui.ErrInteractiveDisabled)
}

func TestCancellingConfirmer(t *testing.T) {
	_, err := tui.CancellingConfirmer{}.Confirm("proceed?")
	require.True(t, restackerrors.IsKilled(err))
}
