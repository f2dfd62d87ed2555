package github

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"stackit.dev/restack/internal/engine"
)

// DefaultRefreshConcurrency bounds in-flight review lookups
const DefaultRefreshConcurrency = 4

// ReviewRecordStore holds the cached review records being refreshed
type ReviewRecordStore interface {
	GetReviewRecord(branchName string) (*engine.ReviewRecord, error)
	UpsertReviewRecord(ctx context.Context, branchName string, record engine.ReviewRecord) error
}

// Refresh is a running background refresh
type Refresh struct {
	done chan struct{}
}

// Done is closed once every lookup has finished
func (r *Refresh) Done() <-chan struct{} {
	return r.done
}

// RefreshInBackground re-reads the pull request of every branch that already
// has a cached record with a number, and caches the result through store.
// Branches without a known pull request are skipped: a pull request is never
// attached to a branch by name. It returns immediately. Failures and panics
// are dropped so the caller is never affected by the review platform.
func RefreshInBackground(ctx context.Context, client Client, store ReviewRecordStore, branches []string) *Refresh {
	r := &Refresh{done: make(chan struct{})}
	if client == nil || len(branches) == 0 {
		close(r.done)
		return r
	}

	go func() {
		defer close(r.done)

		p := pool.New().WithMaxGoroutines(DefaultRefreshConcurrency)
		for _, branchName := range branches {
			p.Go(func() {
				defer func() { _ = recover() }()

				cached, err := store.GetReviewRecord(branchName)
				if err != nil || cached == nil || cached.Number == 0 {
					return
				}
				record, err := client.FetchReviewRecord(ctx, cached.Number)
				if err != nil || record == nil {
					return
				}
				_ = store.UpsertReviewRecord(ctx, branchName, *record)
			})
		}
		p.Wait()
	}()

	return r
}
