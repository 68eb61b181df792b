package index

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modhub/modhub/pkg/catalog"
)

const indexDoc = `name: test-index
modules:
  - id: busybox
    name: BusyBox
    version: 1.36.1
    versionCode: 3
    author: osm0sis
    updated: 2026-03-03
    zipUrl: https://example.com/busybox.zip
    size: 1048576
  - id: adblock
    name: AdBlock
    versionCode: 1
    updated: "2026-03-06 10:30:00"
  - name: no-id-row-is-skipped
    versionCode: 9
`

// recordSink captures which sink method the client chose.
type recordSink struct {
	mu       sync.Mutex
	replaced [][]*catalog.RemoteEntry
	merged   [][]*catalog.RemoteEntry
}

func (r *recordSink) Replace(entries []*catalog.RemoteEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaced = append(r.replaced, entries)
}

func (r *recordSink) Merge(entries []*catalog.RemoteEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.merged = append(r.merged, entries)
}

// indexServer serves indexDoc with an ETag and honors If-None-Match,
// recording every request's conditional headers.
type indexServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []http.Header
}

func newIndexServer(t *testing.T, etag string) *indexServer {
	t.Helper()
	s := &indexServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Header.Clone())
		s.mu.Unlock()

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		_, _ = w.Write([]byte(indexDoc))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *indexServer) header(i int) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

func (s *indexServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func TestRefreshIncrementalMergesDocument(t *testing.T) {
	srv := newIndexServer(t, `"v1"`)
	sink := &recordSink{}
	c := New(srv.URL, sink)

	require.NoError(t, c.Refresh(context.Background(), false))

	require.Len(t, sink.merged, 1)
	assert.Empty(t, sink.replaced)

	entries := sink.merged[0]
	require.Len(t, entries, 2) // the row without an id is skipped
	assert.Equal(t, "busybox", entries[0].ID)
	assert.Equal(t, int64(3), entries[0].VersionCode)
	assert.Equal(t, "https://example.com/busybox.zip", entries[0].DownloadURL)
	assert.Equal(t, int64(1048576), entries[0].Size)
	assert.Equal(t, 2026, entries[0].UpdatedAt.Year())
	assert.Equal(t, 10, entries[1].UpdatedAt.Hour())

	// First request carries no conditional header; the ETag was not known.
	assert.Empty(t, srv.header(0).Get("If-None-Match"))
}

func TestRefreshSecondIncrementalIsConditional(t *testing.T) {
	srv := newIndexServer(t, `"v1"`)
	sink := &recordSink{}
	c := New(srv.URL, sink)

	require.NoError(t, c.Refresh(context.Background(), false))
	require.NoError(t, c.Refresh(context.Background(), false))

	require.Equal(t, 2, srv.count())
	assert.Equal(t, `"v1"`, srv.header(1).Get("If-None-Match"))

	// The 304 left the sink untouched.
	assert.Len(t, sink.merged, 1)
	assert.Empty(t, sink.replaced)
}

func TestRefreshForcedBypassesConditionalAndReplaces(t *testing.T) {
	srv := newIndexServer(t, `"v1"`)
	sink := &recordSink{}
	c := New(srv.URL, sink)

	// Learn the ETag first, then force.
	require.NoError(t, c.Refresh(context.Background(), false))
	require.NoError(t, c.Refresh(context.Background(), true))

	forced := srv.header(1)
	assert.Empty(t, forced.Get("If-None-Match"))
	assert.Equal(t, "no-cache", forced.Get("Cache-Control"))

	assert.Len(t, sink.merged, 1)
	require.Len(t, sink.replaced, 1)
	assert.Len(t, sink.replaced[0], 2)
}

func TestRefreshSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, &recordSink{})
	err := c.Refresh(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestRefreshSurfacesParseErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("modules: {not: [valid"))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, &recordSink{})
	err := c.Refresh(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing index document")
}

func TestRefreshCanceledContext(t *testing.T) {
	srv := newIndexServer(t, `"v1"`)
	c := New(srv.URL, &recordSink{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Refresh(ctx, false)
	assert.Error(t, err)
}
