package modhub

import (
	"sync"
)

// hooks manages event callbacks exposed to the presentation layer. Hooks
// must not call back into the hub synchronously.
type hooks struct {
	mu                sync.RWMutex
	onPaginationReset []func()
	onNotice          []func(string)
}

// newHooks creates a new hooks instance.
func newHooks() *hooks {
	return &hooks{}
}

// OnPaginationReset registers a callback fired before the first page of a
// fresh remote pagination sequence, so scroll bookkeeping can be reset.
func (h *hub) OnPaginationReset(fn func()) {
	h.hooks.mu.Lock()
	defer h.hooks.mu.Unlock()
	h.hooks.onPaginationReset = append(h.hooks.onPaginationReset, fn)
}

// OnNotice registers a callback for one-shot user-visible notices, such as
// a permission denial for a destructive operation.
func (h *hub) OnNotice(fn func(msg string)) {
	h.hooks.mu.Lock()
	defer h.hooks.mu.Unlock()
	h.hooks.onNotice = append(h.hooks.onNotice, fn)
}

// Notify surfaces a one-shot user-visible notice.
func (h *hub) Notify(msg string) {
	h.hooks.mu.RLock()
	fns := make([]func(string), len(h.hooks.onNotice))
	copy(fns, h.hooks.onNotice)
	h.hooks.mu.RUnlock()

	for _, fn := range fns {
		fn(msg)
	}
}

// paginationReset fires the pagination-reset callbacks.
func (h *hub) paginationReset() {
	h.hooks.mu.RLock()
	fns := make([]func(), len(h.hooks.onPaginationReset))
	copy(fns, h.hooks.onPaginationReset)
	h.hooks.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
