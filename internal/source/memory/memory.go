// Package memory is an in-process review store. It backs offline mode and
// tests, and behaves like the review service: newest posts first, owner
// filtering, like counts and comment counts.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
)

type storedComment struct {
	id     string
	postID string
	text   string
	owner  string
}

// Store holds posts and comments in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	posts    []feed.Post
	comments map[string]storedComment
	now      func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		comments: make(map[string]storedComment),
		now:      time.Now,
	}
}

// List returns posts matching f, newest first. The result is a copy.
func (s *Store) List(ctx context.Context, f feed.Filter) ([]feed.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", feed.ErrSourceUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]feed.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if f.IsAll() || p.Owner == f.Owner {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreatePost adds a post at the head of the feed.
func (s *Store) CreatePost(_ context.Context, p feed.NewPost) (feed.Post, error) {
	if err := p.Validate(); err != nil {
		return feed.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	post := feed.Post{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(p.Title),
		Content:   strings.TrimSpace(p.Content),
		Owner:     p.Owner,
		ImageURL:  p.ImageURL,
		Rank:      p.Rank,
		CreatedAt: s.now(),
	}
	s.posts = append([]feed.Post{post}, s.posts...)
	return post, nil
}

// UpdatePost changes the non-empty fields of u.
func (s *Store) UpdatePost(_ context.Context, id string, u feed.PostUpdate) error {
	return s.withPost(id, func(p *feed.Post) {
		if t := strings.TrimSpace(u.Title); t != "" {
			p.Title = t
		}
		if c := strings.TrimSpace(u.Content); c != "" {
			p.Content = c
		}
	})
}

// DeletePost removes a post and its comments.
func (s *Store) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("post %s: %w", id, feed.ErrNotFound)
	}
	s.posts = append(s.posts[:i:i], s.posts[i+1:]...)
	for cid, c := range s.comments {
		if c.postID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

// Like increments the like count.
func (s *Store) Like(_ context.Context, id string) error {
	return s.withPost(id, func(p *feed.Post) { p.Likes++ })
}

// Unlike decrements the like count, stopping at zero.
func (s *Store) Unlike(_ context.Context, id string) error {
	return s.withPost(id, func(p *feed.Post) {
		if p.Likes > 0 {
			p.Likes--
		}
	})
}

// AddComment attaches a comment to its post.
func (s *Store) AddComment(_ context.Context, c feed.Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(c.PostID)
	if i < 0 {
		return fmt.Errorf("post %s: %w", c.PostID, feed.ErrNotFound)
	}
	id := uuid.NewString()
	s.comments[id] = storedComment{id: id, postID: c.PostID, text: c.Text, owner: c.Owner}
	s.posts[i].NumOfComments++
	return nil
}

// UpdateComment replaces a comment's text.
func (s *Store) UpdateComment(_ context.Context, id string, c feed.Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.comments[id]
	if !ok {
		return fmt.Errorf("comment %s: %w", id, feed.ErrNotFound)
	}
	stored.text = c.Text
	s.comments[id] = stored
	return nil
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.comments[id]
	if !ok {
		return fmt.Errorf("comment %s: %w", id, feed.ErrNotFound)
	}
	delete(s.comments, id)
	if i := s.indexOf(stored.postID); i >= 0 && s.posts[i].NumOfComments > 0 {
		s.posts[i].NumOfComments--
	}
	return nil
}

// CommentIDs returns the comment IDs on a post, sorted.
func (s *Store) CommentIDs(postID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, c := range s.comments {
		if c.postID == postID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *Store) withPost(id string, fn func(*feed.Post)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("post %s: %w", id, feed.ErrNotFound)
	}
	fn(&s.posts[i])
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

var (
	_ feed.ListSource = (*Store)(nil)
	_ feed.Mutator    = (*Store)(nil)
)
