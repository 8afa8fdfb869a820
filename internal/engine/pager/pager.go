package pager

// Paging defaults.
const (
	// DefaultPageSize is the number of posts shown per page.
	DefaultPageSize = 5

	// MinPageSize is the smallest accepted page size.
	MinPageSize = 1

	// FirstPage is the 1-based index of the first page.
	FirstPage = 1
)

// PageChangeFunc is called after the current page changes through navigation.
// visible is the newly visible slice; callers must not retain it without copying.
type PageChangeFunc[T any] func(page int, visible []T)

// Paginator maps (items, pageSize, currentPage) to the visible slice and page
// metadata. The zero value is not usable; create one with New.
type Paginator[T any] struct {
	// items is the authoritative list for the current filter.
	items []T

	// pageSize is the number of items per page (always >= MinPageSize).
	pageSize int

	// currentPage is the 1-based current page, always in [1, totalPages].
	currentPage int

	listeners []PageChangeFunc[T]
}

// New creates an empty Paginator. A pageSize below MinPageSize falls back to
// DefaultPageSize.
func New[T any](pageSize int) *Paginator[T] {
	if pageSize < MinPageSize {
		pageSize = DefaultPageSize
	}
	return &Paginator[T]{
		pageSize:    pageSize,
		currentPage: FirstPage,
	}
}

// OnPageChange registers fn to be called after every successful GoToPage
// (including Next, Previous, First and Last). Re-clamping caused by SetItems
// or SetPageSize does not notify.
func (p *Paginator[T]) OnPageChange(fn PageChangeFunc[T]) {
	if fn == nil {
		return
	}
	p.listeners = append(p.listeners, fn)
}

// SetItems replaces the authoritative list and re-clamps the current page.
// A nil or empty list is valid and yields page 1 of 1.
func (p *Paginator[T]) SetItems(items []T) {
	p.items = items
	p.clamp()
}

// SetPageSize changes the page size, keeping the first visible item on the
// current page where possible. Sizes below MinPageSize are ignored.
// It reports whether the size changed.
func (p *Paginator[T]) SetPageSize(size int) bool {
	if size < MinPageSize || size == p.pageSize {
		return false
	}
	firstIndex := (p.currentPage - 1) * p.pageSize
	p.pageSize = size
	p.currentPage = firstIndex/size + 1
	p.clamp()
	return true
}

// GoToPage moves to page n. Requests outside [1, TotalPages] are ignored.
// It reports whether the request was applied.
func (p *Paginator[T]) GoToPage(n int) bool {
	if n < FirstPage || n > p.TotalPages() {
		return false
	}
	p.currentPage = n
	p.notify()
	return true
}

// Next moves to the following page. No-op on the last page.
func (p *Paginator[T]) Next() bool {
	return p.GoToPage(p.currentPage + 1)
}

// Previous moves to the preceding page. No-op on the first page.
func (p *Paginator[T]) Previous() bool {
	return p.GoToPage(p.currentPage - 1)
}

// First moves to page 1.
func (p *Paginator[T]) First() bool {
	return p.GoToPage(FirstPage)
}

// Last moves to the final page.
func (p *Paginator[T]) Last() bool {
	return p.GoToPage(p.TotalPages())
}

// VisibleItems returns the current page's slice of the list. The result
// shares backing storage with the list passed to SetItems.
func (p *Paginator[T]) VisibleItems() []T {
	start, end := p.bounds()
	return p.items[start:end:end]
}

// CurrentPage returns the 1-based current page.
func (p *Paginator[T]) CurrentPage() int {
	return p.currentPage
}

// PageSize returns the number of items per page.
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

// TotalItems returns the length of the authoritative list.
func (p *Paginator[T]) TotalItems() int {
	return len(p.items)
}

// TotalPages returns max(1, ceil(TotalItems/PageSize)).
func (p *Paginator[T]) TotalPages() int {
	return TotalPages(len(p.items), p.pageSize)
}

// HasNext reports whether Next would move.
func (p *Paginator[T]) HasNext() bool {
	return p.currentPage < p.TotalPages()
}

// HasPrevious reports whether Previous would move.
func (p *Paginator[T]) HasPrevious() bool {
	return p.currentPage > FirstPage
}

// Items returns the full list last passed to SetItems.
func (p *Paginator[T]) Items() []T {
	return p.items
}

// PageOf returns the 1-based page that holds the item at index i, or 0 when
// i is out of range.
func (p *Paginator[T]) PageOf(i int) int {
	if i < 0 || i >= len(p.items) {
		return 0
	}
	return i/p.pageSize + 1
}

// TotalPages computes max(1, ceil(total/pageSize)). A pageSize below
// MinPageSize is treated as a single page holding everything.
func TotalPages(total, pageSize int) int {
	if pageSize < MinPageSize || total <= 0 {
		return 1
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// clamp pulls currentPage back into [1, TotalPages].
func (p *Paginator[T]) clamp() {
	last := p.TotalPages()
	switch {
	case p.currentPage < FirstPage:
		p.currentPage = FirstPage
	case p.currentPage > last:
		p.currentPage = last
	}
}

// bounds returns the [start, end) indices of the current page.
func (p *Paginator[T]) bounds() (int, int) {
	start := (p.currentPage - 1) * p.pageSize
	if start > len(p.items) {
		start = len(p.items)
	}
	end := start + p.pageSize
	if end > len(p.items) {
		end = len(p.items)
	}
	return start, end
}

func (p *Paginator[T]) notify() {
	if len(p.listeners) == 0 {
		return
	}
	visible := p.VisibleItems()
	for _, fn := range p.listeners {
		fn(p.currentPage, visible)
	}
}
