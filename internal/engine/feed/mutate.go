package feed

import (
	"context"
	"fmt"
	"strings"
)

// CreatePost publishes a review and refreshes the feed. The owner defaults to
// the session owner.
func (s *Session) CreatePost(ctx context.Context, p NewPost) (Post, error) {
	if p.Owner == "" {
		p.Owner = s.owner
	}
	if err := p.Validate(); err != nil {
		return Post{}, err
	}
	var created Post
	err := s.mutate(ctx, "create_post", "", func(m Mutator) error {
		var err error
		created, err = m.CreatePost(ctx, p)
		return err
	})
	return created, err
}

// UpdatePost edits a review and refreshes the feed.
func (s *Session) UpdatePost(ctx context.Context, id string, u PostUpdate) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, "update_post", id, func(m Mutator) error {
		return m.UpdatePost(ctx, id, u)
	})
}

// DeletePost removes a review and refreshes the feed. If the current page
// no longer exists afterwards the paginator clamps to the last page.
func (s *Session) DeletePost(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.mutate(ctx, "delete_post", id, func(m Mutator) error {
		return m.DeletePost(ctx, id)
	})
}

// Like likes a review and refreshes the feed.
func (s *Session) Like(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.mutate(ctx, "like", id, func(m Mutator) error {
		return m.Like(ctx, id)
	})
}

// Unlike withdraws a like and refreshes the feed.
func (s *Session) Unlike(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.mutate(ctx, "unlike", id, func(m Mutator) error {
		return m.Unlike(ctx, id)
	})
}

// AddComment comments on a review and refreshes the feed.
func (s *Session) AddComment(ctx context.Context, c Comment) error {
	if c.Owner == "" {
		c.Owner = s.owner
	}
	if err := requireID(c.PostID); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, "add_comment", c.PostID, func(m Mutator) error {
		return m.AddComment(ctx, c)
	})
}

// UpdateComment edits a comment and refreshes the feed.
func (s *Session) UpdateComment(ctx context.Context, id string, c Comment) error {
	if c.Owner == "" {
		c.Owner = s.owner
	}
	if err := requireID(id); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, "update_comment", id, func(m Mutator) error {
		return m.UpdateComment(ctx, id, c)
	})
}

// DeleteComment removes a comment and refreshes the feed.
func (s *Session) DeleteComment(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.mutate(ctx, "delete_comment", id, func(m Mutator) error {
		return m.DeleteComment(ctx, id)
	})
}

// mutate runs fn, then always refetches so the feed reflects the server's
// list rather than a local patch. A mutation that succeeded but whose
// refresh failed returns the refresh error.
func (s *Session) mutate(ctx context.Context, op, id string, fn func(Mutator) error) error {
	if s.mutator == nil {
		return ErrNoMutator
	}
	logger := s.logger.With().Str("operation", op).Str("id", id).Logger()

	if err := fn(s.mutator); err != nil {
		logger.Warn().Err(err).Msg("mutation failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Debug().Msg("mutation applied")

	s.Invalidate(ctx)
	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("refreshing after %s: %w", op, err)
	}
	return nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrNotFound)
	}
	return nil
}

// Invalidate drops the source's cached lists, if it keeps any. It only
// touches the source, so it may run off the session's goroutine.
func (s *Session) Invalidate(ctx context.Context) {
	if inv, ok := s.source.(Invalidator); ok {
		inv.Invalidate(ctx)
	}
}

// Mutator returns the session's mutator, or nil for a read-only session.
// Calling it directly skips the refresh; follow with Invalidate and a fetch.
func (s *Session) Mutator() Mutator { return s.mutator }
