// Package history keeps session-scoped memory of which pages were viewed and
// what they showed at the time.
//
// A Cache records the order of page visits (collapsing consecutive repeats)
// and a snapshot of each page's items. Snapshots are copies taken at visit
// time and go stale as soon as the source list changes; they are meant to be
// shown as a placeholder while a fresh fetch is in flight, never as truth.
//
// A Registry hands out one Cache per filter scope so that toggling a filter
// back and forth within a session finds its earlier history again.
package history

import "time"

// Snapshot is the cached content of one page.
type Snapshot[T any] struct {
	// Page is the 1-based page index the snapshot was taken from.
	Page int

	// Items is a copy of the page's visible items.
	Items []T

	// CachedAt is when the snapshot was stored.
	CachedAt time.Time
}

// Age returns how long ago the snapshot was stored.
func (s Snapshot[T]) Age() time.Duration {
	return time.Since(s.CachedAt)
}

// Cache is the per-scope view history. The zero value is not usable; create
// one with NewCache. A Cache is not safe for concurrent use.
type Cache[T any] struct {
	pages   map[int]Snapshot[T]
	visits  []int
	visited map[int]struct{}
	now     func() time.Time
}

// NewCache creates an empty Cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{
		pages:   make(map[int]Snapshot[T]),
		visited: make(map[int]struct{}),
		now:     time.Now,
	}
}

// RecordVisit appends page to the visit history unless it equals the most
// recent entry.
func (c *Cache[T]) RecordVisit(page int) {
	if n := len(c.visits); n > 0 && c.visits[n-1] == page {
		return
	}
	c.visits = append(c.visits, page)
	c.visited[page] = struct{}{}
}

// CachePage stores a copy of items as the snapshot for page, replacing any
// earlier snapshot.
func (c *Cache[T]) CachePage(page int, items []T) {
	snapshot := make([]T, len(items))
	copy(snapshot, items)
	c.pages[page] = Snapshot[T]{
		Page:     page,
		Items:    snapshot,
		CachedAt: c.now(),
	}
}

// HasVisited reports whether page appears anywhere in the visit history.
func (c *Cache[T]) HasVisited(page int) bool {
	_, ok := c.visited[page]
	return ok
}

// GetCached returns the last snapshot stored for page.
// The boolean is false when the page was never cached.
func (c *Cache[T]) GetCached(page int) (Snapshot[T], bool) {
	s, ok := c.pages[page]
	if !ok {
		return Snapshot[T]{}, false
	}
	items := make([]T, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s, true
}

// History returns a copy of the visit history, oldest first.
func (c *Cache[T]) History() []int {
	out := make([]int, len(c.visits))
	copy(out, c.visits)
	return out
}

// LastVisited returns the most recent visit, or false when nothing was visited.
func (c *Cache[T]) LastVisited() (int, bool) {
	if len(c.visits) == 0 {
		return 0, false
	}
	return c.visits[len(c.visits)-1], true
}

// PreviousVisit returns the page visited before the most recent one, for a
// back affordance. The boolean is false with fewer than two visits.
func (c *Cache[T]) PreviousVisit() (int, bool) {
	if len(c.visits) < 2 {
		return 0, false
	}
	return c.visits[len(c.visits)-2], true
}

// CachedPages returns the number of stored snapshots.
func (c *Cache[T]) CachedPages() int {
	return len(c.pages)
}

// Invalidate drops every snapshot but keeps the visit history. Used when page
// boundaries move, for example after a page size change.
func (c *Cache[T]) Invalidate() {
	c.pages = make(map[int]Snapshot[T])
}

// Reset drops snapshots and visit history.
func (c *Cache[T]) Reset() {
	c.Invalidate()
	c.visits = nil
	c.visited = make(map[int]struct{})
}
