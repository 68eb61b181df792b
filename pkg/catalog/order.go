package catalog

import (
	"sync"
)

// Order is the remote-section ordering. It is a persisted setting and must
// stay stable for the duration of a single pagination sequence; switching
// order mid-pagination requires clearing accumulated results first.
type Order string

const (
	// OrderByName sorts entries by display name.
	OrderByName Order = "name"
	// OrderByUpdated sorts entries by last upstream update, newest first.
	OrderByUpdated Order = "updated"
)

// ParseOrder returns the Order for s, defaulting to OrderByName.
func ParseOrder(s string) Order {
	if Order(s) == OrderByUpdated {
		return OrderByUpdated
	}
	return OrderByName
}

// Flip returns the other ordering.
func (o Order) Flip() Order {
	if o == OrderByName {
		return OrderByUpdated
	}
	return OrderByName
}

// String implements fmt.Stringer.
func (o Order) String() string { return string(o) }

// Settings persists process-wide catalog preferences.
type Settings interface {
	// Order returns the current remote-section ordering.
	Order() Order

	// SetOrder persists a new remote-section ordering.
	SetOrder(Order) error
}

// MemorySettings is an in-memory Settings implementation, used as the
// default when no durable backend is configured.
type MemorySettings struct {
	mu    sync.RWMutex
	order Order
}

// NewMemorySettings returns settings seeded with the given ordering.
func NewMemorySettings(order Order) *MemorySettings {
	if order == "" {
		order = OrderByName
	}
	return &MemorySettings{order: order}
}

// Order returns the current ordering.
func (s *MemorySettings) Order() Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order
}

// SetOrder stores a new ordering.
func (s *MemorySettings) SetOrder(order Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	return nil
}
