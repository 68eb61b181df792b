// Package modhub is a catalog synchronization and query engine for module
// repositories. It maintains four derived, UI-agnostic lists (installed,
// updatable, remote, search) over a catalog store, keeps them consistent
// under concurrent refresh, debounced search, and download-progress events,
// and guarantees at most one in-flight remote fetch per section.
package modhub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/errors"
	"github.com/modhub/modhub/pkg/fetcher"
	"github.com/modhub/modhub/pkg/query"
	"github.com/modhub/modhub/pkg/sections"
)

// Hub coordinates catalog loads, search, and progress routing. All
// externally visible list mutations are published on a single presentation
// goroutine owned by the hub, so observers never see a torn state.
type Hub interface {
	// Sections returns the render-ready section store.
	Sections() *sections.Store

	// LoadInstalled loads the installed list and derives the updatable list.
	LoadInstalled(ctx context.Context) error

	// LoadRemote loads the next remote page, or the first page (with the
	// session's refresh policy) when the remote list is empty. Concurrent
	// calls while a load is running are no-ops.
	LoadRemote(ctx context.Context) error

	// Refresh reloads the installed list, and the remote list only if it is
	// currently empty.
	Refresh(ctx context.Context) error

	// ForceRefresh clears the remote and search lists, arms a forced index
	// refresh, then re-runs Refresh and the current query.
	ForceRefresh(ctx context.Context) error

	// Query records a query-string edit (debounced).
	Query(text string)

	// QueryMore fetches the next search page.
	QueryMore(ctx context.Context) error

	// HandleProgress routes a download-progress event (fraction 0.0-1.0)
	// into the matching remote or search entry. Unknown IDs are dropped.
	HandleProgress(id string, fraction float64)

	// RemoteLoading reports whether a remote fetch is in flight.
	RemoteLoading() bool

	// SearchLoading reports the search engine's optimistic loading flag.
	SearchLoading() bool

	// State returns the installed-side load state.
	State() LoadState

	// OnPaginationReset registers a callback fired when remote pagination
	// bookkeeping should be reset.
	OnPaginationReset(fn func())

	// OnNotice registers a callback for one-shot user-visible notices.
	OnNotice(fn func(msg string))

	// Notify surfaces a one-shot user-visible notice.
	Notify(msg string)

	// Close stops the presentation goroutine and progress delivery.
	Close() error
}

// LoadState is the installed-side loading state machine. A load is allowed
// to start only from Idle or Loaded.
type LoadState int32

const (
	// StateIdle means no installed load has completed yet.
	StateIdle LoadState = iota
	// StateLoading means an installed load is running.
	StateLoading
	// StateLoaded means the last installed load completed.
	StateLoaded
)

// hub is the internal implementation of the Hub interface.
type hub struct {
	store    catalog.Store
	installs catalog.InstallState
	fetcher  *fetcher.Fetcher
	query    *query.Engine
	sections *sections.Store
	settings catalog.Settings

	remoteLoading atomic.Bool
	state         atomic.Int32

	hooks        *hooks
	stopProgress func()

	applyCh   chan applyTask
	stopCh    chan struct{}
	closeOnce sync.Once
}

type applyTask struct {
	fn   func()
	done chan struct{}
}

// New creates a hub with the given options. A store, an install state, and
// an index refresher are required.
func New(opts ...Option) (Hub, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.WrapStore("configure", err)
		}
	}
	if cfg.store == nil {
		return nil, errors.New("catalog store is required")
	}
	if cfg.installs == nil {
		return nil, errors.New("install state is required")
	}
	if cfg.refresher == nil {
		return nil, errors.New("index refresher is required")
	}

	h := &hub{
		store:    cfg.store,
		installs: cfg.installs,
		fetcher:  fetcher.New(cfg.store, cfg.refresher),
		settings: cfg.settings,
		sections: sections.New(cfg.settings.Order()),
		hooks:    newHooks(),
		applyCh:  make(chan applyTask),
		stopCh:   make(chan struct{}),
	}

	h.query = query.New(cfg.store, h.sections.Search, cfg.debounce, h.apply)

	h.sections.RemoteHeader.OnToggle(h.toggleOrder)
	if cfg.reboot != nil {
		h.sections.InstalledHeader.OnTap(cfg.reboot)
	}

	go h.loop()

	if cfg.progress != nil {
		h.stopProgress = cfg.progress.Subscribe(h.HandleProgress)
	}

	return h, nil
}

// loop is the presentation goroutine: the single place list mutations are
// published from.
func (h *hub) loop() {
	for {
		select {
		case t := <-h.applyCh:
			t.fn()
			close(t.done)
		case <-h.stopCh:
			return
		}
	}
}

// apply runs fn on the presentation goroutine and waits for it to finish.
// After Close it is a no-op. Must not be called from the presentation
// goroutine itself.
func (h *hub) apply(fn func()) {
	t := applyTask{fn: fn, done: make(chan struct{})}
	select {
	case h.applyCh <- t:
	case <-h.stopCh:
		return
	}
	select {
	case <-t.done:
	case <-h.stopCh:
	}
}

// Sections returns the render-ready section store.
func (h *hub) Sections() *sections.Store { return h.sections }

// RemoteLoading reports whether a remote fetch is in flight.
func (h *hub) RemoteLoading() bool { return h.remoteLoading.Load() }

// SearchLoading reports the search engine's optimistic loading flag.
func (h *hub) SearchLoading() bool { return h.query.Loading() }

// State returns the installed-side load state.
func (h *hub) State() LoadState { return LoadState(h.state.Load()) }

// Query records a query-string edit.
func (h *hub) Query(text string) { h.query.Submit(text) }

// QueryMore fetches the next search page.
func (h *hub) QueryMore(ctx context.Context) error { return h.query.LoadMore(ctx) }

// Close stops the presentation goroutine and progress delivery.
func (h *hub) Close() error {
	h.closeOnce.Do(func() {
		if h.stopProgress != nil {
			h.stopProgress()
		}
		h.query.Cancel()
		close(h.stopCh)
	})
	return nil
}

// toggleOrder persists the new remote ordering, clears accumulated remote
// results so the pagination sequence restarts, and kicks off a fresh
// incremental load.
func (h *hub) toggleOrder(order catalog.Order) {
	if err := h.settings.SetOrder(order); err != nil {
		h.Notify("could not save ordering preference")
	}
	h.apply(func() {
		h.sections.Remote.Clear()
	})
	go func() {
		_ = h.LoadRemote(context.Background())
	}()
}
