// Package store provides the in-memory catalog store backing the engine:
// a snapshot of the remote index with ordered pagination, lookup, and
// free-text search. It is fed by the index client and read by the hub.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/modhub/modhub/pkg/catalog"
)

// DefaultPageSize is the number of entries per page.
const DefaultPageSize = 16

// Option configures a Store.
type Option func(*Store)

// WithPageSize sets the pagination page size.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// Store is an in-memory catalog.Store implementation. Safe for concurrent
// use.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*catalog.RemoteEntry
	pageSize int
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		entries:  make(map[string]*catalog.RemoteEntry),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace swaps the entire index snapshot. Used by a forced refresh.
func (s *Store) Replace(entries []*catalog.RemoteEntry) {
	next := make(map[string]*catalog.RemoteEntry, len(entries))
	for _, e := range entries {
		next[e.ID] = e
	}

	s.mu.Lock()
	s.entries = next
	s.mu.Unlock()
}

// Merge applies an incremental refresh result. Rows that did not change
// upstream keep their existing entry object, so in-flight progress state on
// unaffected rows is left untouched; changed and new rows take the fresh
// object, and rows absent from the document are dropped.
func (s *Store) Merge(entries []*catalog.RemoteEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]*catalog.RemoteEntry, len(entries))
	for _, e := range entries {
		if old, ok := s.entries[e.ID]; ok &&
			old.VersionCode == e.VersionCode &&
			old.UpdatedAt.Equal(e.UpdatedAt) {
			next[e.ID] = old
			continue
		}
		next[e.ID] = e
	}
	s.entries = next
}

// Len returns the number of indexed entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Page returns one page at the given offset and ordering.
func (s *Store) Page(ctx context.Context, offset int, order catalog.Order) ([]*catalog.RemoteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return paginate(s.sorted(order), offset, s.pageSize), nil
}

// ByID returns the entry for id, or nil if the index has none. A missing
// entry is not an error; detail attachment treats it as best-effort.
func (s *Store) ByID(ctx context.Context, id string) (*catalog.RemoteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id], nil
}

// Updatable returns the entry for id only if its version code is strictly
// greater than versionCode.
func (s *Store) Updatable(ctx context.Context, id string, versionCode int64) (*catalog.RemoteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entries[id]
	if e == nil || e.VersionCode <= versionCode {
		return nil, nil
	}
	return e, nil
}

// Search returns one page of entries matching text, by-name ordered.
// Matching is a case-insensitive substring test over ID, name, author, and
// description.
func (s *Store) Search(ctx context.Context, text string, offset int) ([]*catalog.RemoteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))

	var matched []*catalog.RemoteEntry
	for _, e := range s.sorted(catalog.OrderByName) {
		if matches(e, needle) {
			matched = append(matched, e)
		}
	}
	return paginate(matched, offset, s.pageSize), nil
}

// sorted returns a snapshot of all entries in the given ordering. By-name
// ordering uses locale-aware, case-insensitive collation.
func (s *Store) sorted(order catalog.Order) []*catalog.RemoteEntry {
	s.mu.RLock()
	out := make([]*catalog.RemoteEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()

	switch order {
	case catalog.OrderByUpdated:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
				return out[i].UpdatedAt.After(out[j].UpdatedAt)
			}
			return out[i].ID < out[j].ID
		})
	default:
		coll := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			if c := coll.CompareString(out[i].Name, out[j].Name); c != 0 {
				return c < 0
			}
			return out[i].ID < out[j].ID
		})
	}
	return out
}

func matches(e *catalog.RemoteEntry, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.ID), needle) ||
		strings.Contains(strings.ToLower(e.Name), needle) ||
		strings.Contains(strings.ToLower(e.Author), needle) ||
		strings.Contains(strings.ToLower(e.Description), needle)
}

func paginate(entries []*catalog.RemoteEntry, offset, size int) []*catalog.RemoteEntry {
	if offset >= len(entries) || offset < 0 {
		return nil
	}
	end := offset + size
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}
