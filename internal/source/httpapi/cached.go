package httpapi

import (
	"context"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/logging"
)

// CacheFirst serves lists from the response cache when an entry exists,
// stale or not, and falls back to the service otherwise. Mutations and
// invalidation go straight to the Client.
type CacheFirst struct {
	*Client
}

// List returns the cached list for f, or fetches it.
func (c CacheFirst) List(ctx context.Context, f feed.Filter) ([]feed.Post, error) {
	cached, err := c.CachedList(f)
	if err == nil {
		logging.FromContext(ctx).Debug().
			Str("component", "httpapi").
			Str("filter", f.Key()).
			Bool("stale", cached.Stale).
			Time("cached_at", cached.CachedAt).
			Msg("serving list from cache")
		return cached.Items, nil
	}
	return c.Client.List(ctx, f)
}
