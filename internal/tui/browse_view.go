package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/reelfeed/reelfeed/internal/cli/pagination"
	"github.com/reelfeed/reelfeed/internal/engine/feed"
)

// Layout constants.
const (
	// chromeLines is everything but the rows and help: header, blank,
	// blank, summary, pages, blank, status.
	chromeLines   = 7
	fullHelpLines = 4
	defaultWidth  = 80
	minTitleWidth = 12
	cursorMark    = "> "
	noCursorMark  = "  "
	visitedMark   = "·"
)

// View renders the browse screen.
func (m BrowseModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.state {
	case ViewStateLoading:
		b.WriteString(m.renderLoading())
	case ViewStateError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Could not load reviews: %v", m.session.LastError())))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("Press r to retry, f to switch filter, q to quit."))
	default:
		b.WriteString(m.renderPage())
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m BrowseModel) renderHeader() string {
	header := "reelfeed · " + m.session.Filter().String()
	if owner := m.session.Owner(); owner != "" {
		header += " · signed in as " + owner
	}
	return headerStyle.Render(Truncate(header, m.contentWidth()))
}

func (m BrowseModel) renderLoading() string {
	if m.stale == nil {
		return m.loading.View()
	}
	rows := make([]string, 0, len(m.stale.Items))
	for _, p := range m.stale.Items {
		rows = append(rows, m.renderRow(p, false))
	}
	banner := fmt.Sprintf("%s (page %d as of %s ago)",
		m.loading.View(), m.stale.Page, m.stale.Age().Round(time.Second))
	return lipgloss.JoinVertical(lipgloss.Left, banner, staleStyle.Render(strings.Join(rows, "\n")))
}

func (m BrowseModel) renderPage() string {
	view := m.session.Page()
	if view.Empty() {
		if view.Filter.IsAll() {
			return "No reviews yet."
		}
		return "No reviews by " + view.Filter.Owner + " yet. Press f for all reviews."
	}

	var b strings.Builder
	b.WriteString(m.rows.View(m.renderRow))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(pagination.Summary(view.Meta)))
	b.WriteString("\n")
	b.WriteString(renderLinks(view.Window))
	return b.String()
}

// renderLinks renders the page window with the current page bracketed and
// pages seen earlier marked.
func renderLinks(links []feed.PageLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch {
		case l.Ellipsis:
			parts = append(parts, l.String())
		case l.Current:
			parts = append(parts, "["+strconv.Itoa(l.Page)+"]")
		case l.Visited:
			parts = append(parts, strconv.Itoa(l.Page)+visitedMark)
		default:
			parts = append(parts, strconv.Itoa(l.Page))
		}
	}
	return "Pages: " + strings.Join(parts, " ")
}

// renderRow renders one review as cursor, title, then stars, likes,
// comments and owner, fitted to the terminal width.
func (m BrowseModel) renderRow(p feed.Post, selected bool) string {
	cursor := noCursorMark
	if selected {
		cursor = cursorMark
	}
	meta := fmt.Sprintf("%s  ♥ %-3d ✎ %-3d %s", Stars(p.Rank), p.Likes, p.NumOfComments, p.Owner)
	titleWidth := m.contentWidth() - runewidth.StringWidth(cursor) - runewidth.StringWidth(meta) - 2
	if titleWidth < minTitleWidth {
		titleWidth = minTitleWidth
	}
	row := cursor + Cell(p.Title, titleWidth) + "  " + meta
	if selected {
		return selectedStyle.Render(row)
	}
	return row
}

func (m BrowseModel) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

// listHeight is how many rows fit once the chrome is drawn; 0 shows all.
func (m BrowseModel) listHeight() int {
	if m.height == 0 {
		return 0
	}
	helpLines := 1
	if m.help.ShowAll {
		helpLines = fullHelpLines
	}
	return max(1, m.height-chromeLines-helpLines)
}
