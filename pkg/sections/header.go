package sections

import (
	"sync"

	"github.com/modhub/modhub/pkg/catalog"
)

// RemoteHeader is the remote section's header. Its action flips the
// persisted ordering; the owning coordinator registers OnToggle to persist
// the setting, clear the remote list, and reload.
type RemoteHeader struct {
	mu       sync.RWMutex
	order    catalog.Order
	onToggle func(catalog.Order)
}

func newRemoteHeader(order catalog.Order) *RemoteHeader {
	return &RemoteHeader{order: order}
}

// Order returns the ordering the header currently displays.
func (h *RemoteHeader) Order() catalog.Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.order
}

// Icon returns the presentational icon name for the current ordering.
func (h *RemoteHeader) Icon() string {
	if h.Order() == catalog.OrderByName {
		return "sort-alpha"
	}
	return "sort-clock"
}

// OnToggle registers the action invoked with the new ordering when the
// header is tapped.
func (h *RemoteHeader) OnToggle(fn func(catalog.Order)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onToggle = fn
}

// Toggle flips the displayed ordering and invokes the registered action
// with the new value.
func (h *RemoteHeader) Toggle() {
	h.mu.Lock()
	h.order = h.order.Flip()
	order := h.order
	fn := h.onToggle
	h.mu.Unlock()

	if fn != nil {
		fn(order)
	}
}

// InstalledHeader is the installed section's header. Its action triggers
// the external reboot flow and is enabled only while at least one installed
// module is locally modified; the flag is recomputed after every installed
// load.
type InstalledHeader struct {
	mu      sync.RWMutex
	enabled bool
	onTap   func()
}

func newInstalledHeader() *InstalledHeader {
	return &InstalledHeader{}
}

// Enabled reports whether the reboot action is currently offered.
func (h *InstalledHeader) Enabled() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.enabled
}

// SetEnabled updates the action-enabled flag.
func (h *InstalledHeader) SetEnabled(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enabled = enabled
}

// OnTap registers the reboot action.
func (h *InstalledHeader) OnTap(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onTap = fn
}

// Tap invokes the reboot action if it is enabled; otherwise it is a no-op.
func (h *InstalledHeader) Tap() {
	h.mu.RLock()
	enabled := h.enabled
	fn := h.onTap
	h.mu.RUnlock()

	if enabled && fn != nil {
		fn()
	}
}
