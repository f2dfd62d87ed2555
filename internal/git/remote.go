package git

import (
	"context"
	"fmt"
)

// GetRemoteURL returns the configured URL of a remote
func (r *Repository) GetRemoteURL(ctx context.Context, remote string) (string, error) {
	url, err := r.runner.Run(ctx, "config", "--get", fmt.Sprintf("remote.%s.url", remote))
	if err != nil {
		return "", fmt.Errorf("failed to get URL of remote %s: %w", remote, err)
	}
	return url, nil
}

// HasRemote reports whether a remote with the given name is configured
func (r *Repository) HasRemote(remote string) bool {
	_, err := r.repo.Remote(remote)
	return err == nil
}
