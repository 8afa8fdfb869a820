package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/engine/cache"
	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/source/httpapi"
	"github.com/reelfeed/reelfeed/internal/source/memory"
)

// offlineSeedSize is how many demo reviews --offline starts with.
const offlineSeedSize = 23

// app holds what a feed, post or comment command needs: the validated config
// and the source of posts.
type app struct {
	cfg     *config.Config
	source  feed.ListSource
	mutator feed.Mutator
	client  *httpapi.Client
	offline bool
}

// appOptions adjusts how the source is built.
type appOptions struct {
	// cacheFirst serves lists from the response cache when present.
	cacheFirst bool
}

// newApp validates the config and builds the post source: the REST client,
// or a seeded in-memory store with --offline.
func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return nil, usageError(fmt.Errorf("invalid configuration (%s): %w", cfg.ConfigPath(), err))
	}

	offline, _ := cmd.Flags().GetBool("offline")
	if offline {
		store := memory.New()
		store.Seed(offlineSeedSize)
		logger.Debug().Int("reviews", offlineSeedSize).Msg("using offline feed")
		return &app{cfg: cfg, source: store, mutator: store, offline: true}, nil
	}

	listCache, err := openListCache(cfg)
	if err != nil {
		// The cache only speeds things up; run without it.
		logger.Warn().Err(err).Msg("response cache unavailable")
	}

	client, err := httpapi.New(httpapi.Options{
		BaseURL:    cfg.API.BaseURL,
		Token:      cfg.API.Token,
		Timeout:    time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		MinVersion: cfg.API.MinVersion,
		Cache:      listCache,
		Logger:     &logger,
	})
	if err != nil {
		return nil, usageError(err)
	}

	a := &app{cfg: cfg, source: client, mutator: client, client: client}
	if opts.cacheFirst {
		a.source = httpapi.CacheFirst{Client: client}
	}
	return a, nil
}

// openFileStore opens the configured cache directory.
func openFileStore(cfg *config.Config) (*cache.FileStore, error) {
	return cache.NewFileStore(cache.Options{
		Directory:  cfg.CacheDir(),
		Enabled:    cfg.Cache.Enabled,
		TTLSeconds: cfg.Cache.TTLSeconds,
		MaxSizeMB:  cfg.Cache.MaxSizeMB,
	})
}

func openListCache(cfg *config.Config) (*cache.ListCache[feed.Post], error) {
	store, err := openFileStore(cfg)
	if err != nil {
		return nil, err
	}
	return cache.NewListCache[feed.Post](store, cfg.API.BaseURL), nil
}

// owner is the signed-in user, used for --mine and as the author of new
// posts and comments.
func (a *app) owner() string {
	return a.cfg.Feed.Owner
}

// newSession builds a session over the app's source.
func (a *app) newSession(extra ...feed.Option) *feed.Session {
	return a.newSessionWith(a.source, extra...)
}

// newSessionWith builds a session over src, keeping the app's mutator so
// that wrapped sources stay writable. Options in extra override the config.
func (a *app) newSessionWith(src feed.ListSource, extra ...feed.Option) *feed.Session {
	opts := []feed.Option{
		feed.WithOwner(a.owner()),
		feed.WithPageSize(a.cfg.Feed.PageSize),
		feed.WithWindowSize(a.cfg.Feed.WindowSize),
		feed.WithMutator(a.mutator),
		feed.WithLogger(logger),
	}
	return feed.NewSession(src, append(opts, extra...)...)
}
