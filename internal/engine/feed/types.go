package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Rank bounds for a review.
const (
	MinRank = 0
	MaxRank = 5
)

// Errors reported by list sources and mutators.
var (
	// ErrSourceUnavailable means the list could not be fetched. It is never
	// returned for an empty result.
	ErrSourceUnavailable = errors.New("post source unavailable")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("not authorized")
	ErrInvalidPost       = errors.New("invalid post")
	ErrInvalidComment    = errors.New("invalid comment")
	ErrNoMutator         = errors.New("source is read-only")
)

// Post is a movie review as returned by the review service.
type Post struct {
	ID            string    `json:"_id"                yaml:"id"`
	Title         string    `json:"title"              yaml:"title"`
	Content       string    `json:"content"            yaml:"content"`
	Owner         string    `json:"owner"              yaml:"owner"`
	Likes         int       `json:"likes"              yaml:"likes"`
	ImageURL      string    `json:"imageUrl,omitempty" yaml:"image_url,omitempty"`
	CreatedAt     time.Time `json:"createdAt"          yaml:"created_at"`
	Rank          int       `json:"rank"               yaml:"rank"`
	NumOfComments int       `json:"numOfComments"      yaml:"comments"`
}

// NewPost is the payload for creating a review.
type NewPost struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Rank     int    `json:"rank"`
	ImageURL string `json:"imageUrl,omitempty"`
	Owner    string `json:"owner"`
}

// Validate checks that title and content are present and rank is in range.
func (p NewPost) Validate() error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: title and content are required", ErrInvalidPost)
	}
	if p.Rank < MinRank || p.Rank > MaxRank {
		return fmt.Errorf("%w: rank must be between %d and %d", ErrInvalidPost, MinRank, MaxRank)
	}
	return nil
}

// PostUpdate is a partial edit of a review. Empty fields are left unchanged.
type PostUpdate struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Validate rejects an update that changes nothing.
func (u PostUpdate) Validate() error {
	if strings.TrimSpace(u.Title) == "" && strings.TrimSpace(u.Content) == "" {
		return fmt.Errorf("%w: nothing to update", ErrInvalidPost)
	}
	return nil
}

// Comment is the payload for adding or editing a comment.
type Comment struct {
	PostID string `json:"postId,omitempty"`
	Text   string `json:"comment"`
	Owner  string `json:"owner"`
}

// Validate checks that the comment has text.
func (c Comment) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: comment text is required", ErrInvalidComment)
	}
	return nil
}

// Filter selects which posts the list source returns. The zero value is the
// unfiltered feed.
type Filter struct {
	Owner string
}

// All is the unfiltered feed.
func All() Filter { return Filter{} }

// ByOwner scopes the feed to posts by owner.
func ByOwner(owner string) Filter { return Filter{Owner: strings.TrimSpace(owner)} }

// IsAll reports whether f is unfiltered.
func (f Filter) IsAll() bool { return f.Owner == "" }

// Key is a stable identifier for the filter, used for cache and history scopes.
func (f Filter) Key() string {
	if f.IsAll() {
		return "all"
	}
	return "owner:" + f.Owner
}

// String describes the filter for display.
func (f Filter) String() string {
	if f.IsAll() {
		return "all reviews"
	}
	return "reviews by " + f.Owner
}

// ListSource produces the authoritative ordered list of posts for a filter.
// An empty list with a nil error is a valid result; failures must wrap
// ErrSourceUnavailable (or a more specific error) instead.
type ListSource interface {
	List(ctx context.Context, f Filter) ([]Post, error)
}

// ListSourceFunc adapts a function to ListSource.
type ListSourceFunc func(ctx context.Context, f Filter) ([]Post, error)

// List calls fn.
func (fn ListSourceFunc) List(ctx context.Context, f Filter) ([]Post, error) {
	return fn(ctx, f)
}

// Mutator performs side-effecting calls that change the list.
type Mutator interface {
	CreatePost(ctx context.Context, p NewPost) (Post, error)
	UpdatePost(ctx context.Context, id string, u PostUpdate) error
	DeletePost(ctx context.Context, id string) error
	Like(ctx context.Context, id string) error
	Unlike(ctx context.Context, id string) error
	AddComment(ctx context.Context, c Comment) error
	UpdateComment(ctx context.Context, id string, c Comment) error
	DeleteComment(ctx context.Context, id string) error
}

// Invalidator is implemented by sources that cache list responses.
type Invalidator interface {
	Invalidate(ctx context.Context)
}
