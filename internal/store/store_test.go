package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modhub/modhub/pkg/catalog"
)

func entry(id, name string, versionCode int64, updated time.Time) *catalog.RemoteEntry {
	return &catalog.RemoteEntry{
		Entry: catalog.Entry{
			ID:          id,
			Name:        name,
			VersionCode: versionCode,
			UpdatedAt:   updated,
		},
	}
}

func seeded(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := New(opts...)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Replace([]*catalog.RemoteEntry{
		entry("busybox", "BusyBox", 3, base.AddDate(0, 0, 2)),
		entry("adblock", "AdBlock", 1, base.AddDate(0, 0, 5)),
		entry("zram", "zRAM Tuner", 2, base),
	})
	return s
}

func ids(entries []*catalog.RemoteEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestPageOrderByName(t *testing.T) {
	s := seeded(t)
	page, err := s.Page(context.Background(), 0, catalog.OrderByName)
	require.NoError(t, err)
	// Case-insensitive collation: lowercase "zRAM" still sorts last.
	assert.Equal(t, []string{"adblock", "busybox", "zram"}, ids(page))
}

func TestPageOrderByUpdated(t *testing.T) {
	s := seeded(t)
	page, err := s.Page(context.Background(), 0, catalog.OrderByUpdated)
	require.NoError(t, err)
	assert.Equal(t, []string{"adblock", "busybox", "zram"}, ids(page))
}

func TestPagePagination(t *testing.T) {
	s := seeded(t, WithPageSize(2))

	first, err := s.Page(context.Background(), 0, catalog.OrderByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"adblock", "busybox"}, ids(first))

	second, err := s.Page(context.Background(), 2, catalog.OrderByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"zram"}, ids(second))

	past, err := s.Page(context.Background(), 3, catalog.OrderByName)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestPageCanceledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Page(ctx, 0, catalog.OrderByName)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestByID(t *testing.T) {
	s := seeded(t)

	e, err := s.ByID(context.Background(), "busybox")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "BusyBox", e.Name)

	missing, err := s.ByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdatableStrictlyGreater(t *testing.T) {
	s := seeded(t)

	e, err := s.Updatable(context.Background(), "busybox", 2)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(3), e.VersionCode)

	equal, err := s.Updatable(context.Background(), "busybox", 3)
	require.NoError(t, err)
	assert.Nil(t, equal)

	newer, err := s.Updatable(context.Background(), "busybox", 4)
	require.NoError(t, err)
	assert.Nil(t, newer)

	missing, err := s.Updatable(context.Background(), "ghost", 0)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	s := New()
	s.Replace([]*catalog.RemoteEntry{
		{Entry: catalog.Entry{ID: "one", Name: "Magisk Helper", Author: "topjohnwu"}},
		{Entry: catalog.Entry{ID: "two", Name: "Other", Description: "a magisk companion"}},
		{Entry: catalog.Entry{ID: "magisk-core", Name: "Core"}},
		{Entry: catalog.Entry{ID: "three", Name: "Unrelated"}},
	})

	got, err := s.Search(context.Background(), "MAGISK", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two", "magisk-core"}, ids(got))
}

func TestSearchBlankMatchesEverything(t *testing.T) {
	s := seeded(t)
	got, err := s.Search(context.Background(), "   ", 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	// Search is always by-name ordered.
	assert.Equal(t, []string{"adblock", "busybox", "zram"}, ids(got))
}

func TestSearchPagination(t *testing.T) {
	s := seeded(t, WithPageSize(2))
	got, err := s.Search(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"zram"}, ids(got))
}

func TestReplaceDropsEverything(t *testing.T) {
	s := seeded(t)
	s.Replace([]*catalog.RemoteEntry{entry("solo", "Solo", 1, time.Time{})})

	assert.Equal(t, 1, s.Len())
	e, err := s.ByID(context.Background(), "busybox")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestMergeKeepsUnchangedObjects(t *testing.T) {
	s := seeded(t)
	old, err := s.ByID(context.Background(), "busybox")
	require.NoError(t, err)
	old.Progress = 40

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Merge([]*catalog.RemoteEntry{
		// Same version and timestamp: the existing object survives.
		entry("busybox", "BusyBox", 3, base.AddDate(0, 0, 2)),
		// Bumped version: the fresh object wins.
		entry("adblock", "AdBlock", 2, base.AddDate(0, 0, 6)),
		// Rows absent from the document ("zram") are dropped.
	})

	kept, err := s.ByID(context.Background(), "busybox")
	require.NoError(t, err)
	assert.Same(t, old, kept)
	assert.Equal(t, 40, kept.Progress)

	bumped, err := s.ByID(context.Background(), "adblock")
	require.NoError(t, err)
	assert.Equal(t, int64(2), bumped.VersionCode)

	gone, err := s.ByID(context.Background(), "zram")
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, 2, s.Len())
}

func TestMergeTimestampChangeReplacesObject(t *testing.T) {
	s := seeded(t)
	old, err := s.ByID(context.Background(), "busybox")
	require.NoError(t, err)

	fresh := entry("busybox", "BusyBox", 3, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	s.Merge([]*catalog.RemoteEntry{fresh})

	got, err := s.ByID(context.Background(), "busybox")
	require.NoError(t, err)
	assert.NotSame(t, old, got)
	assert.Same(t, fresh, got)
}
