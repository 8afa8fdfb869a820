package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/engine/pager"
)

// Flag defaults and limits.
const (
	DefaultPage     = pager.FirstPage
	MinPage         = pager.FirstPage
	MinPageSize     = pager.MinPageSize
	MaxPageSize     = 100
	DefaultSortExpr = ""
	SortOrderAsc    = "asc"
	SortOrderDesc   = "desc"
)

// Validation errors.
var (
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrMineWithOwner     = errors.New("--mine and --owner are mutually exclusive")
	ErrMineWithoutOwner  = errors.New("--mine needs an owner: set feed.owner or REELFEED_OWNER")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'likes:desc')")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds the feed paging flags.
type Params struct {
	// Page is the requested 1-based page. Values past the end are clamped to
	// the last page when applied.
	Page int

	// PageSize is the number of reviews per page; 0 means use the config.
	PageSize int

	// Owner restricts the feed to one author.
	Owner string

	// Mine restricts the feed to the configured owner.
	Mine bool

	// Sort is a "field[:order]" expression applied before paging.
	Sort string
}

// NewParams returns Params with defaults.
func NewParams() *Params {
	return &Params{Page: DefaultPage, Sort: DefaultSortExpr}
}

// Bind registers the paging flags on fs.
func (p *Params) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&p.Page, "page", p.Page, "page number to show (clamped to the last page)")
	fs.IntVar(&p.PageSize, "page-size", p.PageSize, "reviews per page (default from config)")
	fs.StringVar(&p.Owner, "owner", p.Owner, "show only reviews by this owner")
	fs.BoolVar(&p.Mine, "mine", p.Mine, "show only your own reviews")
	fs.StringVar(&p.Sort, "sort", p.Sort, "sort before paging: "+strings.Join(SortFields(), ", ")+" with optional :asc or :desc")
}

// Validate checks the flags in isolation.
func (p Params) Validate() error {
	if p.Page < MinPage {
		return ErrInvalidPage
	}
	if p.PageSize != 0 && (p.PageSize < MinPageSize || p.PageSize > MaxPageSize) {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.Mine && strings.TrimSpace(p.Owner) != "" {
		return ErrMineWithOwner
	}
	if p.Sort != "" {
		if _, _, err := ParseSort(p.Sort); err != nil {
			return err
		}
	}
	return nil
}

// EffectivePageSize returns PageSize, or fallback when unset.
func (p Params) EffectivePageSize(fallback int) int {
	if p.PageSize > 0 {
		return p.PageSize
	}
	return fallback
}

// Filter resolves the owner flags to a feed filter. self is the signed-in
// owner used by --mine.
func (p Params) Filter(self string) (feed.Filter, error) {
	if p.Mine {
		if strings.TrimSpace(self) == "" {
			return feed.Filter{}, ErrMineWithoutOwner
		}
		return feed.ByOwner(self), nil
	}
	if strings.TrimSpace(p.Owner) != "" {
		return feed.ByOwner(p.Owner), nil
	}
	return feed.All(), nil
}

// ClampPage returns Page limited to [1, totalPages].
func (p Params) ClampPage(totalPages int) int {
	page := p.Page
	if page > totalPages {
		page = totalPages
	}
	if page < MinPage {
		page = MinPage
	}
	return page
}
