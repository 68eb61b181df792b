// Package sections composes the four catalog lists, their empty-state
// placeholders, and the two actionable section headers into one render-ready
// surface for a presentation layer.
package sections

import (
	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/difflist"
)

// Section is one of the three catalog groupings.
type Section int

const (
	// SectionUpdatable groups installed modules with a newer remote version.
	SectionUpdatable Section = iota
	// SectionInstalled groups locally installed modules.
	SectionInstalled
	// SectionRemote groups modules available from the remote index.
	SectionRemote
)

// String implements fmt.Stringer.
func (s Section) String() string {
	switch s {
	case SectionUpdatable:
		return "updatable"
	case SectionInstalled:
		return "installed"
	case SectionRemote:
		return "remote"
	}
	return "unknown"
}

// Placeholder is the singleton empty-state item of a section.
type Placeholder struct {
	Section Section
}

// Key returns the placeholder's identity within its helper list.
func (p *Placeholder) Key() string { return "placeholder:" + p.Section.String() }

// Store holds the four diffable lists plus their placeholder helper lists
// and the two section headers. All placeholder maintenance is wired as list
// subscriptions, so any path that mutates a list keeps the invariant:
// placeholder present iff the real list and the helper list are both empty.
type Store struct {
	Updatable *difflist.List[*catalog.UpdateEntry]
	Installed *difflist.List[*catalog.InstalledEntry]
	Remote    *difflist.List[*catalog.RemoteEntry]
	Search    *difflist.List[*catalog.RemoteEntry]

	updatablePH *difflist.List[*Placeholder]
	installedPH *difflist.List[*Placeholder]
	remotePH    *difflist.List[*Placeholder]

	RemoteHeader    *RemoteHeader
	InstalledHeader *InstalledHeader
}

// New creates a section store with empty lists and placeholders seeded, and
// the remote header showing the given ordering.
func New(order catalog.Order) *Store {
	s := &Store{
		Updatable:       difflist.New[*catalog.UpdateEntry](),
		Installed:       difflist.New[*catalog.InstalledEntry](),
		Remote:          difflist.New[*catalog.RemoteEntry](),
		Search:          difflist.New[*catalog.RemoteEntry](),
		updatablePH:     difflist.New[*Placeholder](),
		installedPH:     difflist.New[*Placeholder](),
		remotePH:        difflist.New[*Placeholder](),
		RemoteHeader:    newRemoteHeader(order),
		InstalledHeader: newInstalledHeader(),
	}

	maintain(s.Updatable, s.updatablePH, SectionUpdatable)
	maintain(s.Installed, s.installedPH, SectionInstalled)
	maintain(s.Remote, s.remotePH, SectionRemote)

	// Lists start empty, so every section starts with its placeholder.
	s.updatablePH.Append(&Placeholder{Section: SectionUpdatable})
	s.installedPH.Append(&Placeholder{Section: SectionInstalled})
	s.remotePH.Append(&Placeholder{Section: SectionRemote})

	return s
}

// maintain keeps a section's placeholder consistent with its real list.
// Insertions clear the placeholder; a notification that leaves the real list
// empty inserts it, guarded by the helper list being empty so the insert is
// idempotent.
func maintain[T difflist.Keyed](real *difflist.List[T], ph *difflist.List[*Placeholder], section Section) {
	real.Subscribe(func(cs *difflist.Changeset[T]) {
		if len(cs.Added) > 0 {
			ph.Clear()
			return
		}
		if real.Len() == 0 && ph.Len() == 0 {
			ph.Append(&Placeholder{Section: section})
		}
	})
}

// HasPlaceholder reports whether the section's placeholder is present.
func (s *Store) HasPlaceholder(section Section) bool {
	switch section {
	case SectionUpdatable:
		return s.updatablePH.Len() > 0
	case SectionInstalled:
		return s.installedPH.Len() > 0
	case SectionRemote:
		return s.remotePH.Len() > 0
	}
	return false
}

// RowKind discriminates rows in the rendered sequence.
type RowKind int

const (
	// RowHeader is a section header row.
	RowHeader RowKind = iota
	// RowPlaceholder is a section empty-state row.
	RowPlaceholder
	// RowEntry is a catalog entry row.
	RowEntry
)

// Row is one element of the render-ready sequence. Entry holds a
// *catalog.UpdateEntry, *catalog.InstalledEntry, or *catalog.RemoteEntry
// depending on the section.
type Row struct {
	Kind    RowKind
	Section Section
	Entry   any
}

// Rows flattens the three catalog sections into one render-ready sequence:
// updatable entries first, then the installed section with its header, then
// the remote section with its header.
func (s *Store) Rows() []Row {
	var rows []Row

	for _, e := range s.Updatable.Items() {
		rows = append(rows, Row{Kind: RowEntry, Section: SectionUpdatable, Entry: e})
	}
	if s.HasPlaceholder(SectionUpdatable) {
		rows = append(rows, Row{Kind: RowPlaceholder, Section: SectionUpdatable})
	}

	rows = append(rows, Row{Kind: RowHeader, Section: SectionInstalled})
	for _, e := range s.Installed.Items() {
		rows = append(rows, Row{Kind: RowEntry, Section: SectionInstalled, Entry: e})
	}
	if s.HasPlaceholder(SectionInstalled) {
		rows = append(rows, Row{Kind: RowPlaceholder, Section: SectionInstalled})
	}

	rows = append(rows, Row{Kind: RowHeader, Section: SectionRemote})
	for _, e := range s.Remote.Items() {
		rows = append(rows, Row{Kind: RowEntry, Section: SectionRemote, Entry: e})
	}
	if s.HasPlaceholder(SectionRemote) {
		rows = append(rows, Row{Kind: RowPlaceholder, Section: SectionRemote})
	}

	return rows
}

// SearchRows returns the search results as a render-ready sequence.
func (s *Store) SearchRows() []Row {
	var rows []Row
	for _, e := range s.Search.Items() {
		rows = append(rows, Row{Kind: RowEntry, Section: SectionRemote, Entry: e})
	}
	return rows
}
