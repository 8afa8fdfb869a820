package pager

import "strconv"

// DefaultWindowSize is the number of page links shown before the window
// switches to the anchored, elided layout.
const DefaultWindowSize = 5

// Ellipsis is the marker rendered for an elided run of pages.
const Ellipsis = "…"

// nearEdge is how close to either end the current page must be for the
// window to stick to that end.
const nearEdge = 3

// WindowEntry is one slot in a page-number window: either a page link or an
// elision marker.
type WindowEntry struct {
	Page     int  `json:"page,omitempty"     yaml:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty" yaml:"ellipsis,omitempty"`
}

// String renders the entry as its page number or the Ellipsis marker.
func (e WindowEntry) String() string {
	if e.Ellipsis {
		return Ellipsis
	}
	return strconv.Itoa(e.Page)
}

// PageNumberWindow returns the page links to render for the current state.
// See Window for the layout rules.
func (p *Paginator[T]) PageNumberWindow(maxVisible int) []WindowEntry {
	return Window(p.currentPage, p.TotalPages(), maxVisible)
}

// Window lays out page links for current out of total pages.
//
// When total <= maxVisible every page is listed. Otherwise the first and last
// pages are always present and the rest slides:
//
//	current <= 3          1 2 3 4 … N
//	current >= N-2        1 … N-3 N-2 N-1 N
//	otherwise             1 … c-1 c c+1 … N
//
// maxVisible values below DefaultWindowSize are raised to it, since the
// anchored layout needs at least that many slots to leave a real gap behind
// each marker.
func Window(current, total, maxVisible int) []WindowEntry {
	if total < FirstPage {
		total = FirstPage
	}
	if current < FirstPage {
		current = FirstPage
	}
	if current > total {
		current = total
	}
	if maxVisible < DefaultWindowSize {
		maxVisible = DefaultWindowSize
	}

	if total <= maxVisible {
		entries := make([]WindowEntry, 0, total)
		for i := FirstPage; i <= total; i++ {
			entries = append(entries, WindowEntry{Page: i})
		}
		return entries
	}

	entries := []WindowEntry{{Page: FirstPage}}
	switch {
	case current <= nearEdge:
		entries = appendRange(entries, 2, 4)
		entries = append(entries, WindowEntry{Ellipsis: true})
	case current >= total-2:
		entries = append(entries, WindowEntry{Ellipsis: true})
		entries = appendRange(entries, total-3, total-1)
	default:
		entries = append(entries, WindowEntry{Ellipsis: true})
		entries = appendRange(entries, current-1, current+1)
		entries = append(entries, WindowEntry{Ellipsis: true})
	}
	return append(entries, WindowEntry{Page: total})
}

func appendRange(entries []WindowEntry, from, to int) []WindowEntry {
	for i := from; i <= to; i++ {
		entries = append(entries, WindowEntry{Page: i})
	}
	return entries
}

// WindowStrings renders entries with String, for display and tests.
func WindowStrings(entries []WindowEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}
