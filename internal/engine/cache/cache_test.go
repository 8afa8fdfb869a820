package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttlSeconds, maxSizeMB int) (*FileStore, *time.Time) {
	t.Helper()
	store, err := NewFileStore(Options{
		Directory:  t.TempDir(),
		Enabled:    true,
		TTLSeconds: ttlSeconds,
		MaxSizeMB:  maxSizeMB,
	})
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestEntry(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	e := newEntry("k", json.RawMessage(`[1,2]`), time.Minute, created)
	assert.False(t, e.ExpiredAt(created.Add(59*time.Second)))
	assert.True(t, e.ExpiredAt(created.Add(61*time.Second)))
	assert.Equal(t, 30*time.Second, e.AgeAt(created.Add(30*time.Second)))

	var got []int
	require.NoError(t, e.Decode(&got))
	assert.Equal(t, []int{1, 2}, got)

	forever := newEntry("k", nil, 0, created)
	assert.True(t, forever.ExpiresAt.IsZero())
	assert.False(t, forever.ExpiredAt(created.Add(1000*time.Hour)))
}

func TestFileStore(t *testing.T) {
	store, now := newTestStore(t, 60, 0)
	data := json.RawMessage(`{"hello":"world"}`)

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, store.Set("http://api/Posts|all", data))

		entry, err := store.Get("http://api/Posts|all")
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(entry.Data))
		assert.Equal(t, "http://api/Posts|all", entry.Key)

		st, err := store.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1, st.Entries)
		assert.Positive(t, st.SizeBytes)
	})

	t.Run("KeysAreHashed", func(t *testing.T) {
		files, err := os.ReadDir(store.Directory())
		require.NoError(t, err)
		for _, f := range files {
			assert.Len(t, f.Name(), 64+len(cacheFileExtension))
		}
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := store.Get("nope")
		assert.ErrorIs(t, err, ErrCacheNotFound)
		_, err = store.Get("")
		assert.ErrorIs(t, err, ErrInvalidCacheKey)
	})

	t.Run("ExpiredStillReadable", func(t *testing.T) {
		require.NoError(t, store.Set("old", data))
		*now = now.Add(2 * time.Minute)

		entry, err := store.Get("old")
		assert.ErrorIs(t, err, ErrCacheExpired)
		require.NotNil(t, entry)

		st, err := store.Stats()
		require.NoError(t, err)
		assert.Equal(t, 2, st.Expired)

		removed, err := store.Prune()
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
	})

	t.Run("DeletePrefix", func(t *testing.T) {
		require.NoError(t, store.Set("a|all", data))
		require.NoError(t, store.Set("a|owner:bob", data))
		require.NoError(t, store.Set("b|all", data))

		removed, err := store.DeletePrefix("a|")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		_, err = store.Get("b|all")
		require.NoError(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete("b|all"))
		require.NoError(t, store.Delete("b|all"))
		_, err := store.Get("b|all")
		assert.ErrorIs(t, err, ErrCacheNotFound)
	})

	t.Run("ClearRemovesGarbage", func(t *testing.T) {
		require.NoError(t, store.Set("k1", data))
		require.NoError(t, os.WriteFile(filepath.Join(store.Directory(), "junk.json"), []byte("{"), 0600))

		removed, err := store.Clear()
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		st, err := store.Stats()
		require.NoError(t, err)
		assert.Zero(t, st.Entries)
	})
}

func TestFileStore_Disabled(t *testing.T) {
	store, err := NewFileStore(Options{Enabled: false})
	require.NoError(t, err)
	assert.False(t, store.Enabled())

	assert.ErrorIs(t, store.Set("k", nil), ErrCacheDisabled)
	_, err = store.Get("k")
	assert.ErrorIs(t, err, ErrCacheDisabled)
	_, err = store.Clear()
	assert.ErrorIs(t, err, ErrCacheDisabled)
	_, err = store.Stats()
	assert.ErrorIs(t, err, ErrCacheDisabled)
}

func TestNewFileStore_Invalid(t *testing.T) {
	_, err := NewFileStore(Options{Enabled: true})
	require.Error(t, err)

	_, err = NewFileStore(Options{Enabled: true, Directory: t.TempDir(), TTLSeconds: -1})
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestFileStore_EvictsOldest(t *testing.T) {
	store, _ := newTestStore(t, 0, 1)
	big := json.RawMessage(`"` + randomPayload(400*1024) + `"`)

	require.NoError(t, store.Set("first", big))
	past := time.Now().Add(-time.Hour)
	first := store.keyToFilePath("first")
	require.NoError(t, os.Chtimes(first, past, past))

	require.NoError(t, store.Set("second", big))
	require.NoError(t, store.Set("third", big))

	_, err := store.Get("first")
	assert.ErrorIs(t, err, ErrCacheNotFound)
	_, err = store.Get("third")
	require.NoError(t, err)

	st, err := store.Stats()
	require.NoError(t, err)
	assert.LessOrEqual(t, st.SizeBytes, int64(bytesPerMB))
}

func randomPayload(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a' + byte(i%26)
	}
	return string(b)
}

type item struct {
	ID string `json:"id"`
}

func TestListCache(t *testing.T) {
	store, now := newTestStore(t, 60, 0)
	posts := NewListCache[item](store, "http://api")
	other := NewListCache[item](store, "http://other")

	require.NoError(t, posts.Put("all", []item{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, posts.Put("owner:bob", nil))
	require.NoError(t, other.Put("all", []item{{ID: "z"}}))

	got, err := posts.Get("all")
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a"}, {ID: "b"}}, got.Items)
	assert.False(t, got.Stale)
	assert.Equal(t, *now, got.CachedAt.UTC())

	empty, err := posts.Get("owner:bob")
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	*now = now.Add(time.Hour)
	got, err = posts.Get("all")
	require.NoError(t, err)
	assert.True(t, got.Stale)

	removed, err := posts.InvalidateAll()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	_, err = posts.Get("all")
	assert.ErrorIs(t, err, ErrCacheNotFound)
	_, err = other.Get("all")
	require.NoError(t, err)

	var nilCache *ListCache[item]
	assert.False(t, nilCache.Enabled())
	assert.ErrorIs(t, nilCache.Put("all", nil), ErrCacheDisabled)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "30s", FormatDuration(30*time.Second))
	assert.Equal(t, "5m", FormatDuration(5*time.Minute))
	assert.Equal(t, "2h", FormatDuration(2*time.Hour))
	assert.Equal(t, "2h30m", FormatDuration(2*time.Hour+30*time.Minute))
	assert.Equal(t, "3d", FormatDuration(72*time.Hour))
	assert.Equal(t, "3d2h", FormatDuration(74*time.Hour))
	assert.Equal(t, "0s", FormatDuration(-time.Second))
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3600", 3600, false},
		{"1h", 3600, false},
		{" 90s ", 90, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"8d", 0, true},
		{"invalid", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
