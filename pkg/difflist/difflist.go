package difflist

import (
	"reflect"
	"sort"
	"sync"
)

// List is an ordered container of uniquely-keyed items. Calculate is pure
// and safe to run on a worker goroutine; Update replaces content atomically
// and notifies subscribers with exactly the supplied changeset, including
// when the changeset is empty, so downstream maintenance (placeholders)
// always observes the transition.
type List[T Keyed] struct {
	mu      sync.RWMutex
	items   []T
	subs    map[int]func(*Changeset[T])
	nextSub int
}

// New creates an empty list.
func New[T Keyed]() *List[T] {
	return &List[T]{subs: make(map[int]func(*Changeset[T]))}
}

// Len returns the current number of items.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items returns a copy of the current content.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// At returns the item at index i.
func (l *List[T]) At(i int) T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items[i]
}

// IndexOf returns the position of the item with the given key, or -1.
func (l *List[T]) IndexOf(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i, it := range l.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// Mutate applies fn to the item with the given key, in place, and reports
// whether a matching item was found. The item object itself is not replaced,
// so previously applied diffs stay valid.
func (l *List[T]) Mutate(key string, fn func(T)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.Key() == key {
			fn(it)
			return true
		}
	}
	return false
}

// Subscribe registers fn to be called after every content change with the
// changeset that was applied. It returns an unsubscribe function.
func (l *List[T]) Subscribe(fn func(*Changeset[T])) func() {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// Calculate computes the changeset turning the current content into
// newItems. It does not modify the list and may run off the coordination
// goroutine; CPU-bound move detection happens here, not in Update.
func (l *List[T]) Calculate(newItems []T) *Changeset[T] {
	l.mu.RLock()
	old := make([]T, len(l.items))
	copy(old, l.items)
	l.mu.RUnlock()

	return diff(old, newItems)
}

// Update atomically replaces the content with newItems and notifies
// subscribers with cs. Callers normally pass the changeset produced by
// Calculate for the same newItems; Set combines the two steps.
func (l *List[T]) Update(newItems []T, cs *Changeset[T]) {
	l.mu.Lock()
	l.items = make([]T, len(newItems))
	copy(l.items, newItems)
	l.mu.Unlock()

	l.notify(cs)
}

// Set calculates the diff against the current content and applies it.
func (l *List[T]) Set(newItems []T) *Changeset[T] {
	cs := l.Calculate(newItems)
	l.Update(newItems, cs)
	return cs
}

// Append adds items at the tail and notifies subscribers synchronously.
// Appends are assumed conflict-free; no diffing is performed.
func (l *List[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}

	l.mu.Lock()
	before := len(l.items)
	cs := &Changeset[T]{Before: before, After: before + len(items)}
	for i, it := range items {
		cs.Added = append(cs.Added, Insertion[T]{Index: before + i, Item: it})
	}
	l.items = append(l.items, items...)
	l.mu.Unlock()

	l.notify(cs)
}

// Clear removes all items and notifies subscribers synchronously.
func (l *List[T]) Clear() {
	l.mu.Lock()
	before := len(l.items)
	cs := &Changeset[T]{Before: before, After: 0}
	for i, it := range l.items {
		cs.Removed = append(cs.Removed, Removal[T]{Index: i, Item: it})
	}
	l.items = nil
	l.mu.Unlock()

	l.notify(cs)
}

// Remove deletes the item with the given key, if present, and notifies
// subscribers synchronously.
func (l *List[T]) Remove(key string) bool {
	l.mu.Lock()
	idx := -1
	for i, it := range l.items {
		if it.Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	before := len(l.items)
	cs := &Changeset[T]{
		Removed: []Removal[T]{{Index: idx, Item: l.items[idx]}},
		Before:  before,
		After:   before - 1,
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	l.mu.Unlock()

	l.notify(cs)
	return true
}

// notify calls every subscriber outside the content lock so subscribers can
// read the list without deadlocking.
func (l *List[T]) notify(cs *Changeset[T]) {
	l.mu.RLock()
	fns := make([]func(*Changeset[T]), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		fn(cs)
	}
}

// diff computes the changeset between two snapshots. Identity is by key,
// change detection by deep equality, and moves are the survivors left out of
// the longest increasing subsequence of surviving old positions.
func diff[T Keyed](old, updated []T) *Changeset[T] {
	cs := &Changeset[T]{Before: len(old), After: len(updated)}

	oldIndex := make(map[string]int, len(old))
	for i, it := range old {
		oldIndex[it.Key()] = i
	}
	newIndex := make(map[string]int, len(updated))
	for i, it := range updated {
		newIndex[it.Key()] = i
	}

	// Added and updated items, in new order.
	for i, it := range updated {
		oi, exists := oldIndex[it.Key()]
		if !exists {
			cs.Added = append(cs.Added, Insertion[T]{Index: i, Item: it})
			continue
		}
		if !reflect.DeepEqual(old[oi], it) {
			cs.Updated = append(cs.Updated, Change[T]{
				Key:      it.Key(),
				Index:    i,
				Existing: old[oi],
				New:      it,
			})
		}
	}

	// Removed items, in old order.
	for i, it := range old {
		if _, exists := newIndex[it.Key()]; !exists {
			cs.Removed = append(cs.Removed, Removal[T]{Index: i, Item: it})
		}
	}

	cs.Moved = moves(old, updated, oldIndex, newIndex)
	return cs
}

// moves detects reordered survivors. The old positions of surviving keys,
// read in new order, form a sequence; members of its longest increasing
// subsequence kept their relative order, everything else moved.
func moves[T Keyed](old, updated []T, oldIndex, newIndex map[string]int) []Move {
	type survivor struct {
		key    string
		oldPos int
		newPos int
	}

	var survivors []survivor
	for i, it := range updated {
		if oi, exists := oldIndex[it.Key()]; exists {
			survivors = append(survivors, survivor{key: it.Key(), oldPos: oi, newPos: i})
		}
	}
	if len(survivors) < 2 {
		return nil
	}

	seq := make([]int, len(survivors))
	for i, s := range survivors {
		seq[i] = s.oldPos
	}

	stable := longestIncreasing(seq)

	var out []Move
	for i, s := range survivors {
		if !stable[i] {
			out = append(out, Move{Key: s.key, From: s.oldPos, To: s.newPos})
		}
	}
	return out
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq.
func longestIncreasing(seq []int) []bool {
	n := len(seq)
	tails := []int{} // indices into seq of subsequence tails
	prev := make([]int, n)

	for i := 0; i < n; i++ {
		pos := sort.Search(len(tails), func(j int) bool {
			return seq[tails[j]] >= seq[i]
		})
		if pos > 0 {
			prev[i] = tails[pos-1]
		} else {
			prev[i] = -1
		}
		if pos == len(tails) {
			tails = append(tails, i)
		} else {
			tails[pos] = i
		}
	}

	member := make([]bool, n)
	if len(tails) == 0 {
		return member
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		member[i] = true
		if prev[i] == -1 {
			break
		}
	}
	return member
}
