package pagination

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
)

const sortPartsMax = 2

// sortKeys maps sort fields to their less functions and default order.
//
//nolint:gochecknoglobals // Static lookup table.
var sortKeys = map[string]struct {
	less         func(a, b feed.Post) bool
	defaultOrder string
}{
	"likes":    {func(a, b feed.Post) bool { return a.Likes < b.Likes }, SortOrderDesc},
	"rank":     {func(a, b feed.Post) bool { return a.Rank < b.Rank }, SortOrderDesc},
	"comments": {func(a, b feed.Post) bool { return a.NumOfComments < b.NumOfComments }, SortOrderDesc},
	"created":  {func(a, b feed.Post) bool { return a.CreatedAt.Before(b.CreatedAt) }, SortOrderDesc},
	"title": {func(a, b feed.Post) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}, SortOrderAsc},
	"owner": {func(a, b feed.Post) bool { return a.Owner < b.Owner }, SortOrderAsc},
}

// SortFields returns the accepted sort fields in order.
func SortFields() []string {
	fields := make([]string, 0, len(sortKeys))
	for f := range sortKeys {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ParseSort parses "field" or "field:order". Without an order the field's
// natural direction is used (descending for counts and dates).
//
//nolint:nonamedreturns // Named returns document the pair.
func ParseSort(expr string) (field, order string, err error) {
	parts := strings.Split(strings.TrimSpace(expr), ":")
	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}
	field = strings.ToLower(strings.TrimSpace(parts[0]))
	key, ok := sortKeys[field]
	if !ok {
		return "", "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(SortFields(), ", "))
	}
	order = key.defaultOrder
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// SortPosts returns a sorted copy of posts. An empty expression returns posts
// unchanged, keeping the service's order. Ties keep their original order.
func SortPosts(posts []feed.Post, expr string) ([]feed.Post, error) {
	if strings.TrimSpace(expr) == "" {
		return posts, nil
	}
	field, order, err := ParseSort(expr)
	if err != nil {
		return nil, err
	}
	less := sortKeys[field].less

	sorted := make([]feed.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortOrderDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted, nil
}
