package pagination

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/reelfeed/reelfeed/internal/engine/pager"
)

// Summary renders "Showing 6-10 of 1,234 reviews (page 2 of 247)".
func Summary(m pager.Meta) string {
	p := message.NewPrinter(language.English)
	if m.TotalItems == 0 {
		return "No reviews found."
	}
	noun := "reviews"
	if m.TotalItems == 1 {
		noun = "review"
	}
	return p.Sprintf("Showing %d-%d of %d %s (page %d of %d)",
		m.FirstItem(), m.LastItem(), m.TotalItems, noun, m.CurrentPage, m.TotalPages)
}

// WindowLine renders a page-number window with the current page bracketed,
// for example "1 … 4 [5] 6 … 12".
func WindowLine(entries []pager.WindowEntry, current int) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		s := e.String()
		if !e.Ellipsis && e.Page == current {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// NavHint suggests the flags for the neighbouring pages.
func NavHint(m pager.Meta) string {
	var hints []string
	if m.HasPrevious {
		hints = append(hints, fmt.Sprintf("--page %d for previous", m.CurrentPage-1))
	}
	if m.HasNext {
		hints = append(hints, fmt.Sprintf("--page %d for next", m.CurrentPage+1))
	}
	return strings.Join(hints, ", ")
}
