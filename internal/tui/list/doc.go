// Package listview keeps a selection cursor over a short list of rows and
// renders the rows that fit in the viewport.
//
// The browse screen uses it for the reviews on the current page: the page
// changes under it, and the cursor is clamped so it always points at a row
// that exists.
package listview
