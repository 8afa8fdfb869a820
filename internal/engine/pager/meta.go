package pager

// Meta summarizes pagination state for output and rendering.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// Meta returns the current pagination metadata.
func (p *Paginator[T]) Meta() Meta {
	return Meta{
		CurrentPage: p.currentPage,
		PageSize:    p.pageSize,
		TotalPages:  p.TotalPages(),
		TotalItems:  len(p.items),
		HasPrevious: p.HasPrevious(),
		HasNext:     p.HasNext(),
	}
}

// FirstItem returns the 1-based position of the first visible item, or 0
// when the page is empty.
func (m Meta) FirstItem() int {
	if m.TotalItems == 0 {
		return 0
	}
	return (m.CurrentPage-1)*m.PageSize + 1
}

// LastItem returns the 1-based position of the last visible item, or 0 when
// the page is empty.
func (m Meta) LastItem() int {
	if m.TotalItems == 0 {
		return 0
	}
	last := m.CurrentPage * m.PageSize
	if last > m.TotalItems {
		last = m.TotalItems
	}
	return last
}
