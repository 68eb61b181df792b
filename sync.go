package modhub

import (
	"context"
	"sync"

	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/difflist"
	"github.com/modhub/modhub/pkg/errors"
	"github.com/modhub/modhub/pkg/logging"
)

// LoadInstalled loads the installed-module set, attaches repository detail
// per entry, derives the updatable list, and applies both diffs atomically.
//
// Repository detail attachment runs concurrently per entry and is awaited
// before the installed diff is computed, so the published list content is
// deterministic; the updatable derivation runs concurrently with attachment
// and does not wait for it. Each attachment failure is isolated and never
// fails the load.
func (h *hub) LoadInstalled(ctx context.Context) error {
	if !h.beginInstalledLoad() {
		return nil
	}

	entries, err := h.installs.Installed(ctx)
	if err != nil {
		h.state.Store(int32(StateIdle))
		logging.Warn().Err(err).Msg("Installed load failed")
		return errors.WrapStore("installed", err)
	}

	// Attach repo detail best-effort, one goroutine per entry. The entry
	// object is mutated in place and never replaced.
	var attach sync.WaitGroup
	for _, e := range entries {
		attach.Add(1)
		go func(e *catalog.InstalledEntry) {
			defer attach.Done()
			remote, err := h.store.ByID(ctx, e.ID)
			if err != nil {
				logging.Debug().Err(err).Str("entry_id", e.ID).Msg("Repo detail unavailable")
				return
			}
			if remote != nil {
				e.Repo = remote.Repo
			}
		}(e)
	}

	// Derive the updatable list concurrently with detail attachment.
	updatesCh := make(chan []*catalog.UpdateEntry, 1)
	go func() {
		var updates []*catalog.UpdateEntry
		for _, e := range entries {
			remote, err := h.store.Updatable(ctx, e.ID, e.VersionCode)
			if err != nil {
				logging.Debug().Err(err).Str("entry_id", e.ID).Msg("Update check failed")
				continue
			}
			if remote != nil {
				updates = append(updates, &catalog.UpdateEntry{
					ID:        e.ID,
					Installed: e,
					Remote:    remote,
				})
			}
		}
		updatesCh <- updates
	}()

	attach.Wait()
	updates := <-updatesCh

	// Diff computation is CPU-bound and independent across the two lists;
	// run both in parallel and join before either is applied.
	var (
		installedCS *difflist.Changeset[*catalog.InstalledEntry]
		updatableCS *difflist.Changeset[*catalog.UpdateEntry]
		diffs       sync.WaitGroup
	)
	diffs.Add(2)
	go func() {
		defer diffs.Done()
		installedCS = h.sections.Installed.Calculate(entries)
	}()
	go func() {
		defer diffs.Done()
		updatableCS = h.sections.Updatable.Calculate(updates)
	}()
	diffs.Wait()

	h.apply(func() {
		h.sections.Installed.Update(entries, installedCS)
		h.sections.Updatable.Update(updates, updatableCS)

		modified := false
		for _, e := range entries {
			if e.Modified {
				modified = true
				break
			}
		}
		h.sections.InstalledHeader.SetEnabled(modified)
	})

	h.state.Store(int32(StateLoaded))
	logging.Debug().
		Int("installed", len(entries)).
		Int("updatable", len(updates)).
		Msg("Installed load applied")
	return nil
}

// beginInstalledLoad transitions the load state to Loading, refusing to
// start while another installed load is running.
func (h *hub) beginInstalledLoad() bool {
	return h.state.CompareAndSwap(int32(StateIdle), int32(StateLoading)) ||
		h.state.CompareAndSwap(int32(StateLoaded), int32(StateLoading))
}

// LoadRemote loads the next remote page. An empty remote list starts a
// fresh pagination sequence: pagination bookkeeping is reset, the index is
// refreshed under the session's first-load policy, and page 0 is read. A
// non-empty list reads the page at the current size. The in-flight guard is
// cleared, and the refetch flag already consumed, before results are
// appended on the presentation goroutine.
func (h *hub) LoadRemote(ctx context.Context) error {
	if !h.remoteLoading.CompareAndSwap(false, true) {
		// A load is already running; this call is a no-op.
		return nil
	}

	// Ordering is read once and holds for this whole page fetch.
	order := h.settings.Order()
	remote := h.sections.Remote

	var (
		page []*catalog.RemoteEntry
		err  error
	)
	if remote.Len() == 0 {
		h.paginationReset()
		if err = h.fetcher.EnsureFresh(ctx); err == nil {
			page, err = h.fetcher.Page(ctx, 0, order)
		}
	} else {
		page, err = h.fetcher.Page(ctx, remote.Len(), order)
	}

	if err != nil {
		h.remoteLoading.Store(false)
		logging.Warn().Err(err).Str("order", order.String()).Msg("Remote load failed")
		return err
	}

	// The fetch is fully complete; release the guard before publishing so
	// false -> true -> false is the only observable transition.
	h.remoteLoading.Store(false)
	h.apply(func() {
		remote.Append(page...)
	})

	logging.Debug().Int("count", len(page)).Str("order", order.String()).Msg("Remote page applied")
	return nil
}

// Refresh is the top-level entry point for view re-entry and pull-to-
// refresh. The remote list is reloaded only when empty, preventing a
// redundant refetch on every re-entry; the installed list always reloads.
func (h *hub) Refresh(ctx context.Context) error {
	var (
		wg                      sync.WaitGroup
		remoteErr, installedErr error
	)

	if h.sections.Remote.Len() == 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			remoteErr = h.LoadRemote(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		installedErr = h.LoadInstalled(ctx)
	}()

	wg.Wait()
	return errors.Join(remoteErr, installedErr)
}

// ForceRefresh clears the remote and search lists, arms a forced index
// refresh for the next first-page load, then re-runs Refresh and the
// current query.
func (h *hub) ForceRefresh(ctx context.Context) error {
	h.apply(func() {
		h.sections.Remote.Clear()
		h.sections.Search.Clear()
	})
	h.fetcher.Arm()

	err := h.Refresh(ctx)
	h.query.Resubmit()
	return err
}
