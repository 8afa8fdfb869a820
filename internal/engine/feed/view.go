package feed

import (
	"github.com/reelfeed/reelfeed/internal/engine/pager"
)

// PageLink is one entry of the page-number control.
type PageLink struct {
	pager.WindowEntry

	Current bool `json:"current,omitempty" yaml:"current,omitempty"`
	Visited bool `json:"visited,omitempty" yaml:"visited,omitempty"`
}

// PageView is everything needed to render the current page.
type PageView struct {
	Filter Filter     `json:"-"               yaml:"-"`
	Items  []Post     `json:"items"           yaml:"items"`
	Meta   pager.Meta `json:"pagination"      yaml:"pagination"`
	Window []PageLink `json:"pages"           yaml:"pages"`
	Err    error      `json:"-"               yaml:"-"`
	Owner  string     `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// Empty reports whether the current filter has no posts. A failed fetch is
// not empty; check Err first.
func (v PageView) Empty() bool {
	return v.Err == nil && v.Meta.TotalItems == 0
}

// Page renders the current state.
func (s *Session) Page() PageView {
	entries := s.pager.PageNumberWindow(s.windowSize)
	links := make([]PageLink, 0, len(entries))
	current := s.pager.CurrentPage()
	for _, e := range entries {
		link := PageLink{WindowEntry: e}
		if !e.Ellipsis {
			link.Current = e.Page == current
			link.Visited = s.hist.HasVisited(e.Page)
		}
		links = append(links, link)
	}
	return PageView{
		Filter: s.filter,
		Items:  s.pager.VisibleItems(),
		Meta:   s.pager.Meta(),
		Window: links,
		Err:    s.lastErr,
		Owner:  s.filter.Owner,
	}
}
