// Package difflist provides an ordered, uniquely-keyed list that computes
// changesets between its current content and a proposed replacement, applies
// them atomically, and notifies subscribers with exactly the computed diff.
package difflist

// Keyed is implemented by items with a stable string identity.
type Keyed interface {
	Key() string
}

// Insertion records one item added at an index of the new content.
type Insertion[T Keyed] struct {
	Index int
	Item  T
}

// Removal records one item removed from an index of the old content.
type Removal[T Keyed] struct {
	Index int
	Item  T
}

// Change records an item whose identity survived but whose value changed.
// Index is the item's position in the new content.
type Change[T Keyed] struct {
	Key      string
	Index    int
	Existing T
	New      T
}

// Move records an item whose identity survived but whose position changed.
type Move struct {
	Key  string
	From int
	To   int
}

// Changeset is the minimal set of operations turning one list snapshot into
// another. Identity is by key; change detection is by full-value equality.
type Changeset[T Keyed] struct {
	Added   []Insertion[T]
	Removed []Removal[T]
	Updated []Change[T]
	Moved   []Move

	// Before and After are the list lengths on either side of the update.
	Before int
	After  int
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset[T]) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0 || len(c.Updated) > 0 || len(c.Moved) > 0
}

// TotalChanges returns the number of individual operations in the changeset.
func (c *Changeset[T]) TotalChanges() int {
	return len(c.Added) + len(c.Removed) + len(c.Updated) + len(c.Moved)
}
