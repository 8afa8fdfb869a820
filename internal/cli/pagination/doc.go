// Package pagination holds the CLI side of paging through the review feed:
// flag parsing and validation, client-side sort expressions, and the plain
// text footer printed under a page of results.
package pagination
