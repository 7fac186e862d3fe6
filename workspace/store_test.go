package workspace

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := New(t.TempDir(), ttl)
	require.NoError(t, err)
	return store
}

func writeAsset(t *testing.T, store *Store, handle string) string {
	t.Helper()
	path := store.Path(handle)
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake"), 0644))
	return path
}

func TestNewHandleShape(t *testing.T) {
	store := newTestStore(t, time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		h := store.NewHandle()
		assert.Len(t, h, 12)
		assert.False(t, seen[h], "handle %q repeated", h)
		seen[h] = true
	}
}

func TestResolveUnknownHandle(t *testing.T) {
	store := newTestStore(t, time.Hour)

	_, err := store.Resolve("nope")
	require.Error(t, err)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.Handle)
}

func TestResolveExistingAsset(t *testing.T) {
	store := newTestStore(t, time.Hour)
	handle := store.NewHandle()
	want := writeAsset(t, store, handle)

	got, err := store.Resolve(handle)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveTouchesLastAccess(t *testing.T) {
	store := newTestStore(t, time.Hour)
	handle := store.NewHandle()
	path := writeAsset(t, store, handle)

	stale := time.Now().Add(-30 * time.Minute)
	require.NoError(t, os.Chtimes(path, stale, stale))

	_, err := store.Resolve(handle)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), info.ModTime(), time.Minute)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t, time.Hour)
	handle := store.NewHandle()
	writeAsset(t, store, handle)

	require.NoError(t, store.Delete(handle))
	require.NoError(t, store.Delete(handle))

	_, err := store.Resolve(handle)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	store := newTestStore(t, time.Hour)

	expired := store.NewHandle()
	expiredPath := writeAsset(t, store, expired)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(expiredPath, old, old))

	fresh := store.NewHandle()
	writeAsset(t, store, fresh)

	store.Sweep()

	_, err := store.Resolve(expired)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = store.Resolve(fresh)
	assert.NoError(t, err)
}

func TestSweepIgnoresForeignFiles(t *testing.T) {
	store := newTestStore(t, time.Hour)
	foreign := store.dir + "/notes.txt"
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(foreign, old, old))

	store.Sweep()

	_, err := os.Stat(foreign)
	assert.NoError(t, err)
}

func TestMetadataRegistry(t *testing.T) {
	store := newTestStore(t, time.Hour)
	handle := store.NewHandle()

	_, ok := store.Lookup(handle)
	assert.False(t, ok)

	store.Register(handle, "My Song", 12.5)
	meta, ok := store.Lookup(handle)
	require.True(t, ok)
	assert.Equal(t, "My Song", meta.DisplayName)
	assert.Equal(t, 12.5, meta.Duration)

	require.NoError(t, store.Delete(handle))
	_, ok = store.Lookup(handle)
	assert.False(t, ok)
}
