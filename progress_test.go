package modhub_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modhub/modhub"
)

func TestHandleProgressUpdatesRemoteEntryInPlace(t *testing.T) {
	store := newFakeStore(16, remoteEntry("alpha", 1), remoteEntry("beta", 1))
	h := newHub(t,
		modhub.WithStore(store),
		modhub.WithInstallState(&fakeInstalls{}),
		modhub.WithRefresher(&fakeRefresher{}),
	)
	require.NoError(t, h.LoadRemote(context.Background()))

	before := h.Sections().Remote.At(0)
	h.HandleProgress("alpha", 0.42)

	after := h.Sections().Remote.At(h.Sections().Remote.IndexOf("alpha"))
	assert.Same(t, before, h.Sections().Remote.At(0))
	assert.Equal(t, 42, after.Progress)

	// The other entry is untouched.
	other := h.Sections().Remote.At(h.Sections().Remote.IndexOf("beta"))
	assert.Zero(t, other.Progress)
}

func TestHandleProgressPrefersRemoteOverSearch(t *testing.T) {
	store := newFakeStore(16, remoteEntry("alpha", 1))
	h := newHub(t,
		modhub.WithStore(store),
		modhub.WithInstallState(&fakeInstalls{}),
		modhub.WithRefresher(&fakeRefresher{}),
	)
	require.NoError(t, h.LoadRemote(context.Background()))

	h.Query("alpha")
	require.Eventually(t, func() bool {
		return h.Sections().Search.Len() == 1
	}, time.Second, 5*time.Millisecond)

	h.HandleProgress("alpha", 0.5)

	// First match wins: the remote row carries the progress, the search row
	// keeps whatever it had.
	assert.Equal(t, 50, h.Sections().Remote.At(0).Progress)
	assert.Zero(t, h.Sections().Search.At(0).Progress)
}

func TestHandleProgressFallsBackToSearch(t *testing.T) {
	store := newFakeStore(16, remoteEntry("alpha", 1))
	h := newHub(t,
		modhub.WithStore(store),
		modhub.WithInstallState(&fakeInstalls{}),
		modhub.WithRefresher(&fakeRefresher{}),
	)

	// Populate search only; the remote list stays empty.
	h.Query("alpha")
	require.Eventually(t, func() bool {
		return h.Sections().Search.Len() == 1
	}, time.Second, 5*time.Millisecond)

	h.HandleProgress("alpha", 0.75)
	assert.Equal(t, 75, h.Sections().Search.At(0).Progress)
}

func TestHandleProgressUnknownIDIsDropped(t *testing.T) {
	store := newFakeStore(16, remoteEntry("alpha", 1))
	h := newHub(t,
		modhub.WithStore(store),
		modhub.WithInstallState(&fakeInstalls{}),
		modhub.WithRefresher(&fakeRefresher{}),
	)
	require.NoError(t, h.LoadRemote(context.Background()))

	h.HandleProgress("ghost", 0.9)
	assert.Zero(t, h.Sections().Remote.At(0).Progress)
}

func TestHandleProgressClampsFraction(t *testing.T) {
	store := newFakeStore(16, remoteEntry("alpha", 1))
	h := newHub(t,
		modhub.WithStore(store),
		modhub.WithInstallState(&fakeInstalls{}),
		modhub.WithRefresher(&fakeRefresher{}),
	)
	require.NoError(t, h.LoadRemote(context.Background()))

	h.HandleProgress("alpha", 1.7)
	assert.Equal(t, 100, h.Sections().Remote.At(0).Progress)

	h.HandleProgress("alpha", -0.3)
	assert.Zero(t, h.Sections().Remote.At(0).Progress)
}

func TestProgressSourceDeliversThroughSubscription(t *testing.T) {
	store := newFakeStore(16, remoteEntry("alpha", 1))
	progress := &fakeProgress{}
	h := newHub(t,
		modhub.WithStore(store),
		modhub.WithInstallState(&fakeInstalls{}),
		modhub.WithRefresher(&fakeRefresher{}),
		modhub.WithProgressSource(progress),
	)
	require.NoError(t, h.LoadRemote(context.Background()))

	progress.emit("alpha", 0.25)
	assert.Equal(t, 25, h.Sections().Remote.At(0).Progress)
}
