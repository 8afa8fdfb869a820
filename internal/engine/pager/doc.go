// Package pager provides client-side pagination over an in-memory, ordered,
// variable-length list.
//
// A Paginator owns the authoritative item list for the current filter and a
// page size, and keeps the current page clamped into [1, TotalPages] whenever
// either changes. Navigation requests outside that range are ignored rather
// than rejected, because they routinely arrive from stale event handlers after
// the list has shrunk.
//
// Basic usage:
//
//	p := pager.New[Post](pager.DefaultPageSize)
//	p.OnPageChange(func(page int, visible []Post) { ... })
//	p.SetItems(posts)
//	p.Next()
//	items := p.VisibleItems()
//	window := p.PageNumberWindow(pager.DefaultWindowSize)
//
// A Paginator is not safe for concurrent use. It is meant to be driven from a
// single event loop; asynchronous fetch results are delivered by calling
// SetItems from that loop.
package pager
