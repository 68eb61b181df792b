// Package index fetches the remote module index over HTTP and feeds the
// local store. An incremental refresh is an ETag-conditional GET; a forced
// refresh bypasses every cache layer and replaces the snapshot wholesale.
package index

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-yaml"

	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/logging"
)

// DefaultTimeout bounds one index fetch.
const DefaultTimeout = 30 * time.Second

// Sink receives parsed index rows. Replace swaps the whole snapshot
// (forced refresh); Merge keeps unaffected rows untouched (incremental).
type Sink interface {
	Replace(entries []*catalog.RemoteEntry)
	Merge(entries []*catalog.RemoteEntry)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithHTTPClient replaces the underlying resty client, for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// Client implements catalog.IndexRefresher over an HTTP index document.
type Client struct {
	http *resty.Client
	url  string
	sink Sink

	mu   sync.Mutex
	etag string
}

// New creates an index client for the given document URL.
func New(url string, sink Sink, opts ...Option) *Client {
	c := &Client{
		http: resty.New().SetTimeout(DefaultTimeout),
		url:  url,
		sink: sink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh implements catalog.IndexRefresher. With force=false the request
// carries If-None-Match and a 304 leaves the snapshot as it is; rows the
// document did change are merged in. With force=true the conditional header
// is omitted, caches are bypassed, and every row is replaced from the
// response.
func (c *Client) Refresh(ctx context.Context, force bool) error {
	c.mu.Lock()
	etag := c.etag
	c.mu.Unlock()

	req := c.http.R().SetContext(ctx)
	if force {
		req.SetHeader("Cache-Control", "no-cache")
	} else if etag != "" {
		req.SetHeader("If-None-Match", etag)
	}

	resp, err := req.Get(c.url)
	if err != nil {
		return fmt.Errorf("fetching index: %w", err)
	}

	if !force && resp.StatusCode() == http.StatusNotModified {
		logging.Debug().Str("etag", etag).Msg("Index unchanged")
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("index returned status %d", resp.StatusCode())
	}

	var doc Document
	if err := yaml.Unmarshal(resp.Body(), &doc); err != nil {
		return fmt.Errorf("parsing index document: %w", err)
	}
	entries := doc.Entries()

	if force {
		c.sink.Replace(entries)
	} else {
		c.sink.Merge(entries)
	}

	c.mu.Lock()
	c.etag = resp.Header().Get("ETag")
	c.mu.Unlock()

	logging.Debug().
		Int("entries", len(entries)).
		Bool("forced", force).
		Msg("Index refreshed")
	return nil
}
