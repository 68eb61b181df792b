package catalog

import (
	"context"
)

// Store is the read surface of the local module index. Implementations must
// be safe for concurrent use; every call is a potential suspension point for
// the engine and receives a context.
type Store interface {
	// Page returns one page of remote entries at the given offset, in the
	// given ordering. It never triggers a remote refresh.
	Page(ctx context.Context, offset int, order Order) ([]*RemoteEntry, error)

	// ByID returns the remote entry for id, or nil if the index has none.
	ByID(ctx context.Context, id string) (*RemoteEntry, error)

	// Updatable returns the remote entry for id only if its version code is
	// strictly greater than versionCode, otherwise nil.
	Updatable(ctx context.Context, id string, versionCode int64) (*RemoteEntry, error)

	// Search returns one page of entries matching text at the given offset.
	Search(ctx context.Context, text string, offset int) ([]*RemoteEntry, error)
}

// InstallState reads the set of locally installed modules.
type InstallState interface {
	// Installed lists every installed module.
	Installed(ctx context.Context) ([]*InstalledEntry, error)
}

// IndexRefresher updates the local index from upstream.
//
// With force=false the implementation may use a conditional, incremental
// check and skip rows unaffected by upstream change; the only requirement
// is that affected rows become visible afterward. With force=true every row
// must be unconditionally refreshed regardless of cached state. This
// conditional-vs-forced split is a hard contract.
type IndexRefresher interface {
	Refresh(ctx context.Context, force bool) error
}

// ProgressFunc receives download progress for one entry. Fraction is in the
// range 0.0-1.0.
type ProgressFunc func(id string, fraction float64)

// ProgressSource delivers download-progress events at arbitrary times for
// the lifetime of a subscription. Stop cancels delivery.
type ProgressSource interface {
	Subscribe(fn ProgressFunc) (stop func())
}
