package modhub_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/modhub/modhub/pkg/catalog"
)

// fakeStore serves remote entries from an in-memory slice with a fixed page
// size, recording call counts. gate, when set, blocks Page until released.
type fakeStore struct {
	mu       sync.Mutex
	remote   []*catalog.RemoteEntry
	pageSize int

	pageCalls   atomic.Int32
	searchCalls atomic.Int32

	gate chan struct{}
}

func newFakeStore(pageSize int, entries ...*catalog.RemoteEntry) *fakeStore {
	return &fakeStore{remote: entries, pageSize: pageSize}
}

func (f *fakeStore) snapshot() []*catalog.RemoteEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*catalog.RemoteEntry, len(f.remote))
	copy(out, f.remote)
	return out
}

func (f *fakeStore) setRemote(entries ...*catalog.RemoteEntry) {
	f.mu.Lock()
	f.remote = entries
	f.mu.Unlock()
}

func (f *fakeStore) Page(ctx context.Context, offset int, _ catalog.Order) ([]*catalog.RemoteEntry, error) {
	f.pageCalls.Add(1)

	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	entries := f.snapshot()
	if offset >= len(entries) {
		return nil, nil
	}
	end := offset + f.pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], nil
}

func (f *fakeStore) ByID(_ context.Context, id string) (*catalog.RemoteEntry, error) {
	for _, e := range f.snapshot() {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Updatable(_ context.Context, id string, versionCode int64) (*catalog.RemoteEntry, error) {
	for _, e := range f.snapshot() {
		if e.ID == id && e.VersionCode > versionCode {
			return e, nil
		}
	}
	return nil, nil
}

// Search returns fresh copies so search rows never alias remote rows.
func (f *fakeStore) Search(_ context.Context, text string, offset int) ([]*catalog.RemoteEntry, error) {
	f.searchCalls.Add(1)
	var matched []*catalog.RemoteEntry
	for _, e := range f.snapshot() {
		if text == "" || strings.Contains(e.Name, text) || strings.Contains(e.ID, text) {
			row := *e
			matched = append(matched, &row)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	return matched[offset:], nil
}

// fakeInstalls serves a fixed installed set.
type fakeInstalls struct {
	mu      sync.Mutex
	entries []*catalog.InstalledEntry
	err     error
}

func (f *fakeInstalls) set(entries ...*catalog.InstalledEntry) {
	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()
}

func (f *fakeInstalls) Installed(context.Context) ([]*catalog.InstalledEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*catalog.InstalledEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

// fakeRefresher records the force flag of every refresh call.
type fakeRefresher struct {
	mu     sync.Mutex
	forced []bool
	err    error
}

func (f *fakeRefresher) Refresh(_ context.Context, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced = append(f.forced, force)
	return f.err
}

func (f *fakeRefresher) calls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.forced))
	copy(out, f.forced)
	return out
}

// fakeProgress is a manual progress source.
type fakeProgress struct {
	mu      sync.Mutex
	fn      catalog.ProgressFunc
	stopped bool
}

func (f *fakeProgress) Subscribe(fn catalog.ProgressFunc) func() {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.stopped = true
		f.mu.Unlock()
	}
}

func (f *fakeProgress) emit(id string, fraction float64) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		fn(id, fraction)
	}
}

func remoteEntry(id string, versionCode int64) *catalog.RemoteEntry {
	return &catalog.RemoteEntry{
		Entry: catalog.Entry{ID: id, Name: id, VersionCode: versionCode},
	}
}

func installedEntry(id string, versionCode int64, modified bool) *catalog.InstalledEntry {
	return &catalog.InstalledEntry{
		Entry:    catalog.Entry{ID: id, Name: id, VersionCode: versionCode},
		Modified: modified,
	}
}
