// Package catalog defines the core domain types for the module catalog:
// entries as seen from the local install state and from the remote index,
// derived update pairs, ordering, and the collaborator contracts the
// synchronization engine consumes.
package catalog

import (
	"time"
)

// Entry is one catalog item, identified by a stable ID and a version code.
// Identity is by ID; VersionCode is monotonic per ID and drives
// update-eligibility checks.
type Entry struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Version     string    `yaml:"version"`
	VersionCode int64     `yaml:"versionCode"`
	Author      string    `yaml:"author"`
	Description string    `yaml:"description"`
	UpdatedAt   time.Time `yaml:"updated"`

	// Repo is attached lazily after the entry is already visible in a list.
	// It is only ever filled in, never swapped, so an applied diff stays valid.
	Repo *RepoInfo `yaml:"-"`

	// Progress is 0-100 and only meaningful while a download is active.
	// It is reset implicitly when a load cycle replaces the entry.
	Progress int `yaml:"-"`
}

// Key returns the stable identity of the entry.
func (e *Entry) Key() string { return e.ID }

// RepoInfo is optional repository detail attached to an entry best-effort.
type RepoInfo struct {
	URL     string `yaml:"url"`
	Support string `yaml:"support"`
	Donate  string `yaml:"donate"`
}

// InstalledEntry is an Entry materialized from local installation state.
type InstalledEntry struct {
	Entry

	// Modified is true when the module is locally patched or disabled,
	// which gates whether a reboot action is offered.
	Modified bool
}

// Key returns the stable identity of the installed entry.
func (e *InstalledEntry) Key() string { return e.ID }

// RemoteEntry is an Entry materialized from the remote index. The same
// identity may appear in the Remote and Search lists independently.
type RemoteEntry struct {
	Entry `yaml:",inline"`

	DownloadURL string `yaml:"zipUrl"`
	Size        int64  `yaml:"size"`
}

// Key returns the stable identity of the remote entry.
func (e *RemoteEntry) Key() string { return e.ID }

// UpdateEntry pairs an installed entry with a remote entry whose version
// code is strictly greater. It is derived on every installed load and never
// persisted.
type UpdateEntry struct {
	ID        string
	Installed *InstalledEntry
	Remote    *RemoteEntry
}

// Key returns the stable identity of the update pair.
func (e *UpdateEntry) Key() string { return e.ID }

// Eligible reports whether remote is a valid update for installed.
func Eligible(installed *InstalledEntry, remote *RemoteEntry) bool {
	if installed == nil || remote == nil {
		return false
	}
	return remote.ID == installed.ID && remote.VersionCode > installed.VersionCode
}
