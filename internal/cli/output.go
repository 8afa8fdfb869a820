package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reelfeed/reelfeed/internal/cli/pagination"
	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/engine/pager"
	"github.com/reelfeed/reelfeed/internal/tui"
)

// OutputFormat selects how results are written.
type OutputFormat string

// Supported output formats.
const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates an --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputTable, OutputJSON, OutputYAML:
		return f, nil
	case "":
		return OutputTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// Table column widths, in terminal cells.
const (
	colID      = 10
	colTitle   = 32
	colOwner   = 12
	colRank    = 5
	colLikes   = 6
	colComment = 8
	colGap     = "  "
)

// pageOutput is the JSON and YAML shape of one page.
type pageOutput struct {
	Filter     string      `json:"filter"     yaml:"filter"`
	Items      []feed.Post `json:"items"      yaml:"items"`
	Pagination pager.Meta  `json:"pagination" yaml:"pagination"`
	Pages      []string    `json:"pages"      yaml:"pages"`
}

func newPageOutput(view feed.PageView) pageOutput {
	items := view.Items
	if items == nil {
		items = []feed.Post{}
	}
	pages := make([]string, 0, len(view.Window))
	for _, link := range view.Window {
		pages = append(pages, link.String())
	}
	return pageOutput{
		Filter:     view.Filter.Key(),
		Items:      items,
		Pagination: view.Meta,
		Pages:      pages,
	}
}

// renderPage writes one page of the feed in format.
func renderPage(w io.Writer, format OutputFormat, view feed.PageView) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newPageOutput(view))
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(newPageOutput(view))
	default:
		return renderPageTable(w, view)
	}
}

func renderPageTable(w io.Writer, view feed.PageView) error {
	fmt.Fprintf(w, "%s\n\n", capitalize(view.Filter.String()))
	if view.Empty() {
		fmt.Fprintln(w, pagination.Summary(view.Meta))
		return nil
	}

	fmt.Fprintln(w, tableRow("ID", "TITLE", "OWNER", "RANK", "LIKES", "COMMENTS"))
	fmt.Fprintln(w, tableRow(
		strings.Repeat("-", colID), strings.Repeat("-", colTitle), strings.Repeat("-", colOwner),
		strings.Repeat("-", colRank), strings.Repeat("-", colLikes), strings.Repeat("-", colComment),
	))
	for _, p := range view.Items {
		fmt.Fprintln(w, tableRow(
			p.ID, p.Title, p.Owner,
			tui.Stars(p.Rank), strconv.Itoa(p.Likes), strconv.Itoa(p.NumOfComments),
		))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, pagination.Summary(view.Meta))
	entries := make([]pager.WindowEntry, 0, len(view.Window))
	for _, link := range view.Window {
		entries = append(entries, link.WindowEntry)
	}
	fmt.Fprintf(w, "Pages: %s\n", pagination.WindowLine(entries, view.Meta.CurrentPage))
	if hint := pagination.NavHint(view.Meta); hint != "" {
		fmt.Fprintf(w, "Use %s.\n", hint)
	}
	return nil
}

// tableRow lays out one row, truncating each cell to its column width.
func tableRow(id, title, owner, rank, likes, comments string) string {
	cells := []string{
		tui.Cell(id, colID), tui.Cell(title, colTitle), tui.Cell(owner, colOwner),
		tui.Cell(rank, colRank), tui.Cell(likes, colLikes), comments,
	}
	return strings.TrimRight(strings.Join(cells, colGap), " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, format OutputFormat, v any) error {
	if format == OutputYAML {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
