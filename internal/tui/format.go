package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/engine/pager"
)

// Truncate collapses whitespace in s and shortens it to at most width
// terminal cells, marking the cut with an ellipsis. Wide runes such as CJK
// count as two cells.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, pager.Ellipsis)
}

// Cell truncates s and pads it to exactly width cells.
func Cell(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Stars renders a rank as filled and empty stars, clamped to the valid range.
func Stars(rank int) string {
	rank = max(feed.MinRank, min(rank, feed.MaxRank))
	return strings.Repeat("★", rank) + strings.Repeat("☆", feed.MaxRank-rank)
}
