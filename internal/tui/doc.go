// Package tui is the interactive feed browser built on Bubble Tea.
//
// BrowseModel pages through a feed.Session with single-key navigation.
// Fetches run as commands and report back as messages tagged with the
// session's fetch ticket, so a slow response never overwrites a newer one or
// lands in the wrong filter. While a fetch is in flight the last snapshot of
// the target page is shown with its age.
package tui
