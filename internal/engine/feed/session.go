package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/reelfeed/reelfeed/internal/engine/history"
	"github.com/reelfeed/reelfeed/internal/engine/pager"
)

// Session is the browsing context for one user: the paginator for the
// current filter plus the session-scoped view history. It is passed
// explicitly to whatever view needs it and is not safe for concurrent use;
// drive it from a single loop and run only Fetch off that loop.
type Session struct {
	id         string
	source     ListSource
	mutator    Mutator
	owner      string
	windowSize int
	logger     zerolog.Logger

	pager     *pager.Paginator[Post]
	histories *history.Registry[Post]
	hist      *history.Cache[Post]
	filter    Filter

	loaded  bool
	lastErr error
	// pending is the page to land on when the next fetch is applied, or 0.
	pending int

	// issued is the newest fetch generation handed out; applied is the
	// newest one whose result was accepted.
	issued  uint64
	applied uint64
}

// Option configures a Session.
type Option func(*Session)

// WithMutator enables the mutation methods.
func WithMutator(m Mutator) Option {
	return func(s *Session) { s.mutator = m }
}

// WithOwner sets the signed-in user, used for "mine" and as the author of
// new posts and comments.
func WithOwner(owner string) Option {
	return func(s *Session) { s.owner = owner }
}

// WithPageSize sets the initial page size.
func WithPageSize(size int) Option {
	return func(s *Session) { s.pager = pager.New[Post](size) }
}

// WithWindowSize sets how many page links fit before eliding.
func WithWindowSize(size int) Option {
	return func(s *Session) { s.windowSize = size }
}

// WithFilter sets the initial filter.
func WithFilter(f Filter) Option {
	return func(s *Session) { s.filter = f }
}

// WithHistory shares an existing history registry, so that history outlives
// this Session.
func WithHistory(r *history.Registry[Post]) Option {
	return func(s *Session) {
		if r != nil {
			s.histories = r
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a Session reading from source. Nothing is fetched until
// Refresh or BeginFetch is called.
func NewSession(source ListSource, opts ...Option) *Session {
	s := &Session{
		id:         ulid.Make().String(),
		source:     source,
		windowSize: pager.DefaultWindowSize,
		logger:     zerolog.Nop(),
		pager:      pager.New[Post](pager.DefaultPageSize),
		histories:  history.NewRegistry[Post](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mutator == nil {
		if m, ok := source.(Mutator); ok {
			s.mutator = m
		}
	}
	s.logger = s.logger.With().Str("component", "feed").Str("session_id", s.id).Logger()
	s.hist = s.histories.Scope(s.filter.Key())
	s.pager.OnPageChange(s.remember)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Owner returns the signed-in user, or "".
func (s *Session) Owner() string { return s.owner }

// Filter returns the current filter.
func (s *Session) Filter() Filter { return s.filter }

// Mine returns the filter for the signed-in user's posts.
func (s *Session) Mine() Filter { return ByOwner(s.owner) }

// Loaded reports whether at least one fetch result has been applied.
func (s *Session) Loaded() bool { return s.loaded }

// LastError returns the failure of the last applied fetch, or nil.
func (s *Session) LastError() error { return s.lastErr }

// History returns the view history for the current filter.
func (s *Session) History() *history.Cache[Post] { return s.hist }

// Histories returns the session-wide history registry.
func (s *Session) Histories() *history.Registry[Post] { return s.histories }

// FetchTicket identifies one fetch so its result can be matched to the
// state that requested it.
type FetchTicket struct {
	Generation uint64
	Filter     Filter
}

// BeginFetch issues a ticket for fetching the current filter.
func (s *Session) BeginFetch() FetchTicket {
	s.issued++
	return FetchTicket{Generation: s.issued, Filter: s.filter}
}

// Fetch runs the list source for t. It touches no session state and may run
// on another goroutine.
func (s *Session) Fetch(ctx context.Context, t FetchTicket) ([]Post, error) {
	return s.source.List(ctx, t.Filter)
}

// ApplyFetch installs a fetch result. Results for a filter that is no longer
// current, or older than one already applied, are dropped and reported as
// not applied. A failed fetch empties the list and is returned wrapped in
// ErrSourceUnavailable; the page it replaced becomes the pending page. A
// successful fetch lands on the pending page, if any, clamped.
func (s *Session) ApplyFetch(t FetchTicket, items []Post, err error) (bool, error) {
	if t.Filter != s.filter || t.Generation <= s.applied {
		s.logger.Debug().
			Uint64("generation", t.Generation).
			Uint64("applied", s.applied).
			Str("filter", t.Filter.Key()).
			Msg("dropping stale fetch result")
		return false, nil
	}
	s.applied = t.Generation
	s.loaded = true

	if err != nil {
		if !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		if s.pending == 0 && s.pager.TotalItems() > 0 {
			s.pending = s.pager.CurrentPage()
		}
		s.lastErr = err
		s.pager.SetItems(nil)
		s.logger.Warn().Err(err).Str("filter", s.filter.Key()).Msg("fetch failed")
		return true, err
	}

	s.lastErr = nil
	s.pager.SetItems(items)
	if target := s.pending; target > 0 {
		s.pending = 0
		// GoToPage records the visit.
		s.pager.GoToPage(min(target, s.pager.TotalPages()))
	} else {
		s.remember(s.pager.CurrentPage(), s.pager.VisibleItems())
	}
	s.logger.Debug().
		Str("filter", s.filter.Key()).
		Int("items", len(items)).
		Int("page", s.pager.CurrentPage()).
		Int("total_pages", s.pager.TotalPages()).
		Msg("feed refreshed")
	return true, nil
}

// Refresh fetches the current filter and applies the result.
func (s *Session) Refresh(ctx context.Context) error {
	t := s.BeginFetch()
	items, err := s.Fetch(ctx, t)
	_, err = s.ApplyFetch(t, items, err)
	return err
}

// SelectFilter switches to f without fetching. The list is cleared and the
// page reset to 1; the caller must fetch. It reports whether f differs from
// the current filter.
func (s *Session) SelectFilter(f Filter) bool {
	if f == s.filter {
		return false
	}
	s.filter = f
	s.hist = s.histories.Scope(f.Key())
	s.pager.SetItems(nil)
	s.lastErr = nil
	s.pending = 0
	return true
}

// ReturnToFilter is SelectFilter, except that the next applied fetch lands
// on the page last visited under f instead of page 1.
func (s *Session) ReturnToFilter(f Filter) bool {
	if !s.SelectFilter(f) {
		return false
	}
	if last, ok := s.hist.LastVisited(); ok {
		s.pending = last
	}
	return true
}

// TargetPage is the page the next applied fetch will show: a pending
// filter return or failure recovery page, else the current page.
func (s *Session) TargetPage() int {
	if s.pending > 0 {
		return s.pending
	}
	return s.pager.CurrentPage()
}

// SetFilter switches to f and refreshes. An unchanged filter is refreshed
// only if nothing has been loaded yet.
func (s *Session) SetFilter(ctx context.Context, f Filter) error {
	if !s.SelectFilter(f) && s.loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// ToggleMine flips between the unfiltered feed and the owner's posts.
func (s *Session) ToggleMine(ctx context.Context) error {
	if s.filter.IsAll() && s.owner != "" {
		return s.SetFilter(ctx, s.Mine())
	}
	return s.SetFilter(ctx, All())
}

// GoToPage jumps to page n; out-of-range requests are ignored.
func (s *Session) GoToPage(n int) bool { return s.pager.GoToPage(n) }

// Next moves forward one page.
func (s *Session) Next() bool { return s.pager.Next() }

// Previous moves back one page.
func (s *Session) Previous() bool { return s.pager.Previous() }

// First moves to page 1.
func (s *Session) First() bool { return s.pager.First() }

// Last moves to the final page.
func (s *Session) Last() bool { return s.pager.Last() }

// Back returns to the page visited before the current one, if it still
// exists in the list.
func (s *Session) Back() bool {
	prev, ok := s.hist.PreviousVisit()
	if !ok {
		return false
	}
	return s.pager.GoToPage(prev)
}

// SetPageSize changes the page size. Cached snapshots for the current filter
// are dropped because their page boundaries no longer apply.
func (s *Session) SetPageSize(size int) bool {
	if !s.pager.SetPageSize(size) {
		return false
	}
	s.hist.Invalidate()
	// A pending page was numbered for the old size.
	s.pending = 0
	if s.loaded {
		s.remember(s.pager.CurrentPage(), s.pager.VisibleItems())
	}
	s.logger.Debug().Int("page_size", size).Msg("page size changed")
	return true
}

// PageSize returns the current page size.
func (s *Session) PageSize() int { return s.pager.PageSize() }

// CurrentPage returns the 1-based current page.
func (s *Session) CurrentPage() int { return s.pager.CurrentPage() }

// VisibleItems returns the current page's posts.
func (s *Session) VisibleItems() []Post { return s.pager.VisibleItems() }

// Items returns the full list for the current filter.
func (s *Session) Items() []Post { return s.pager.Items() }

// CachedPage returns the snapshot last shown on page n for the current
// filter. It may be stale.
func (s *Session) CachedPage(n int) (history.Snapshot[Post], bool) {
	return s.hist.GetCached(n)
}

// HasVisited reports whether page n was visited under the current filter.
func (s *Session) HasVisited(n int) bool { return s.hist.HasVisited(n) }

// End clears all session history, as on sign-out.
func (s *Session) End() {
	s.histories.Clear()
	s.hist = s.histories.Scope(s.filter.Key())
}

// remember records a visit and snapshots the page.
func (s *Session) remember(page int, visible []Post) {
	s.hist.RecordVisit(page)
	s.hist.CachePage(page, visible)
}
