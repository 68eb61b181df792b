// Package fetcher wraps the catalog store and index refresher with the
// remote section's fetch policy: an incremental refresh before the first
// page of any fresh pagination sequence, a forced refresh exactly once
// after a user-initiated refetch, and plain page reads for pagination.
package fetcher

import (
	"context"
	"sync"

	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/errors"
	"github.com/modhub/modhub/pkg/logging"
)

// Fetcher mediates remote-section reads. Safe for concurrent use; the
// refetch flag's read-modify-write is a critical section.
type Fetcher struct {
	store     catalog.Store
	refresher catalog.IndexRefresher

	mu      sync.Mutex
	refetch bool
}

// New creates a fetcher over the given store and refresher.
func New(store catalog.Store, refresher catalog.IndexRefresher) *Fetcher {
	return &Fetcher{store: store, refresher: refresher}
}

// Page reads one page from the store at the given ordering. It never
// refreshes the index; pagination always takes this path.
func (f *Fetcher) Page(ctx context.Context, offset int, order catalog.Order) ([]*catalog.RemoteEntry, error) {
	page, err := f.store.Page(ctx, offset, order)
	if err != nil {
		return nil, errors.WrapStore("page", err)
	}
	return page, nil
}

// EnsureFresh refreshes the index before a first-page read. The refresh is
// incremental unless a refetch was armed, in which case it is forced; the
// flag is consumed either way, so the very next first-page load reverts to
// incremental behavior. A failed refresh does not re-arm the flag: the next
// user-initiated refresh is the retry mechanism.
func (f *Fetcher) EnsureFresh(ctx context.Context) error {
	f.mu.Lock()
	force := f.refetch
	f.refetch = false
	f.mu.Unlock()

	logging.Debug().Bool("forced", force).Msg("Refreshing remote index")
	if err := f.refresher.Refresh(ctx, force); err != nil {
		return errors.WrapRefresh(force, 0, err)
	}
	return nil
}

// Arm marks the next first-page load as requiring a forced refresh.
func (f *Fetcher) Arm() {
	f.mu.Lock()
	f.refetch = true
	f.mu.Unlock()
}

// Armed reports whether a forced refresh is pending.
func (f *Fetcher) Armed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refetch
}
