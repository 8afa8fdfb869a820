package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ListCache stores whole lists of T in a FileStore under a namespace, one
// entry per list key.
type ListCache[T any] struct {
	store     *FileStore
	namespace string
}

// CachedList is a list read back from the cache.
type CachedList[T any] struct {
	Items    []T
	CachedAt time.Time
	// Stale is set when the entry is past its TTL.
	Stale bool
}

// NewListCache wraps store. namespace separates lists from different
// sources sharing one directory.
func NewListCache[T any](store *FileStore, namespace string) *ListCache[T] {
	return &ListCache[T]{store: store, namespace: namespace}
}

// Enabled reports whether the underlying store is active.
func (c *ListCache[T]) Enabled() bool {
	return c != nil && c.store != nil && c.store.Enabled()
}

// Get returns the list stored under key. Expired lists are returned with
// Stale set rather than as an error.
func (c *ListCache[T]) Get(key string) (CachedList[T], error) {
	if !c.Enabled() {
		return CachedList[T]{}, ErrCacheDisabled
	}
	entry, err := c.store.Get(c.fullKey(key))
	stale := errors.Is(err, ErrCacheExpired)
	if err != nil && !stale {
		return CachedList[T]{}, err
	}
	var items []T
	if decodeErr := entry.Decode(&items); decodeErr != nil {
		return CachedList[T]{}, fmt.Errorf("decoding cached list: %w", decodeErr)
	}
	return CachedList[T]{Items: items, CachedAt: entry.CreatedAt, Stale: stale}, nil
}

// Put stores items under key.
func (c *ListCache[T]) Put(key string, items []T) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding list: %w", err)
	}
	return c.store.Set(c.fullKey(key), data)
}

// InvalidateAll drops every list in the namespace.
func (c *ListCache[T]) InvalidateAll() (int, error) {
	if !c.Enabled() {
		return 0, ErrCacheDisabled
	}
	return c.store.DeletePrefix(c.namespace + "|")
}

func (c *ListCache[T]) fullKey(key string) string {
	return c.namespace + "|" + key
}
