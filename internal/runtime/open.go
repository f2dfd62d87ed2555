package runtime

import (
	"context"

	"stackit.dev/restack/internal/github"
	"stackit.dev/restack/internal/tui"
)

// GetContext opens the repository containing the working directory for a
// command. Output is mirrored to the log file, and when the remote is a
// GitHub repository with credentials available, review records of all
// tracked branches are refreshed in the background.
func GetContext(ctx context.Context, opts Options) (*Context, error) {
	if opts.Splog == nil {
		splog, err := tui.NewSplogWithConfig(tui.GetLogFilePath())
		if err != nil {
			splog = tui.NewSplog()
			splog.Debug("Failed to open log file: %v", err)
		}
		opts.Splog = splog
	}

	rctx, err := NewContext(ctx, ".", opts)
	if err != nil {
		return nil, err
	}

	if rctx.Reviews == nil {
		client, err := github.NewClientForRemote(ctx, rctx.Git, rctx.Config.Remote)
		if err != nil {
			rctx.Splog.Debug("Review platform unavailable: %v", err)
			return rctx, nil
		}
		rctx.Reviews = client
	}

	github.RefreshInBackground(ctx, rctx.Reviews, rctx.Engine, rctx.Engine.AllTrackedBranches())
	return rctx, nil
}
