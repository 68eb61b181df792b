// Package query debounces free-text catalog searches, cancels stale
// in-flight queries, and publishes diffed result pages to the search list.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/difflist"
	"github.com/modhub/modhub/pkg/errors"
	"github.com/modhub/modhub/pkg/logging"
)

// DefaultDebounce is the quiet interval after the last edit before a
// search is executed.
const DefaultDebounce = 350 * time.Millisecond

// Engine owns the search state machine: Idle, PendingDebounce while the
// timer runs, Querying while a store call is in flight, back to Idle on
// delivery. Every edit bumps a generation; results tagged with a stale
// generation are discarded on arrival, so at most one query's results are
// ever applied.
type Engine struct {
	store    catalog.Store
	list     *difflist.List[*catalog.RemoteEntry]
	debounce time.Duration

	// apply publishes list mutations on the presentation goroutine.
	apply func(func())

	mu       sync.Mutex
	text     string
	timer    *time.Timer
	gen      uint64
	inflight context.CancelFunc
	paging   bool

	loadingMu sync.RWMutex
	loading   bool
	onLoading func(bool)
}

// New creates an engine over the given store and search list. apply runs
// list mutations on the presentation goroutine; pass nil to run them inline.
func New(store catalog.Store, list *difflist.List[*catalog.RemoteEntry], debounce time.Duration, apply func(func())) *Engine {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if apply == nil {
		apply = func(fn func()) { fn() }
	}
	return &Engine{
		store:    store,
		list:     list,
		debounce: debounce,
		apply:    apply,
	}
}

// OnLoading registers an observer for the loading flag.
func (e *Engine) OnLoading(fn func(bool)) {
	e.loadingMu.Lock()
	e.onLoading = fn
	e.loadingMu.Unlock()
}

// Loading reports the optimistic loading flag. It is set at query-edit time
// and cleared only when results are delivered, so it intentionally runs
// ahead of the true in-flight state.
func (e *Engine) Loading() bool {
	e.loadingMu.RLock()
	defer e.loadingMu.RUnlock()
	return e.loading
}

func (e *Engine) setLoading(v bool) {
	e.loadingMu.Lock()
	e.loading = v
	fn := e.onLoading
	e.loadingMu.Unlock()
	if fn != nil {
		fn(v)
	}
}

// Text returns the current query string.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// Submit records a query-string edit. The loading flag is raised
// synchronously before anything else happens. Any pending debounce timer
// and in-flight query are canceled. A blank query short-circuits: the
// search list is cleared immediately and no store call is made. A non-blank
// query is executed after the debounce interval elapses with no further
// edits.
func (e *Engine) Submit(text string) {
	e.setLoading(true)

	e.mu.Lock()
	e.text = text
	e.gen++
	gen := e.gen
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.inflight != nil {
		e.inflight()
		e.inflight = nil
	}

	if strings.TrimSpace(text) == "" {
		e.mu.Unlock()
		e.apply(func() {
			e.list.Clear()
			e.setLoading(false)
		})
		return
	}

	e.timer = time.AfterFunc(e.debounce, func() {
		e.run(gen, text)
	})
	e.mu.Unlock()
}

// Resubmit re-runs the current query, bypassing nothing: it goes through
// Submit so cancellation and the blank-query path behave identically.
func (e *Engine) Resubmit() {
	e.Submit(e.Text())
}

// run executes one debounced search at offset 0.
func (e *Engine) run(gen uint64, text string) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.inflight = cancel
	e.mu.Unlock()

	results, err := e.store.Search(ctx, text, 0)

	e.mu.Lock()
	stale := gen != e.gen
	if !stale {
		e.inflight = nil
	}
	e.mu.Unlock()
	cancel()

	if stale {
		// A newer edit superseded this query while it was in flight.
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logging.Warn().Err(err).Str("query", text).Msg("Search failed")
		}
		e.setLoading(false)
		return
	}

	cs := e.list.Calculate(results)
	e.apply(func() {
		e.mu.Lock()
		stale := gen != e.gen
		e.mu.Unlock()
		if stale {
			return
		}
		e.list.Update(results, cs)
		e.setLoading(false)
	})
}

// LoadMore fetches the next search page, using the current list size as the
// offset, and appends without diffing; pages are monotonically increasing
// offsets of a stable query. It is a no-op while a query is in flight or
// another page load is running.
func (e *Engine) LoadMore(ctx context.Context) error {
	e.mu.Lock()
	if e.inflight != nil || e.paging || strings.TrimSpace(e.text) == "" {
		e.mu.Unlock()
		return nil
	}
	e.paging = true
	text := e.text
	gen := e.gen
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.paging = false
		e.mu.Unlock()
	}()

	results, err := e.store.Search(ctx, text, e.list.Len())
	if err != nil {
		return errors.WrapStore("search", err)
	}

	e.mu.Lock()
	stale := gen != e.gen
	e.mu.Unlock()
	if stale || len(results) == 0 {
		return nil
	}

	e.apply(func() {
		e.list.Append(results...)
	})
	return nil
}

// Cancel stops any pending debounce timer and in-flight query without
// touching the list or the loading flag.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.inflight != nil {
		e.inflight()
		e.inflight = nil
	}
}
