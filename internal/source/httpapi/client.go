// Package httpapi is the REST client for the review service. It implements
// feed.ListSource and feed.Mutator over the service's /Posts and /Comments
// endpoints.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/reelfeed/reelfeed/internal/engine/cache"
	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/logging"
	"github.com/reelfeed/reelfeed/pkg/version"
)

const (
	// DefaultTimeout applies when Options.Timeout is zero.
	DefaultTimeout = 60 * time.Second

	// VersionHeader carries the service's semantic version.
	VersionHeader = "X-Api-Version"

	authScheme = "jwt"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Token is sent as "Authorization: jwt <token>" when non-empty.
	Token      string
	Timeout    time.Duration
	MinVersion string
	HTTPClient *http.Client
	// Cache, when set, receives every successful list response.
	Cache  *cache.ListCache[feed.Post]
	Logger *zerolog.Logger
}

// Client talks to one review service.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	minVersion *semver.Version
	cache      *cache.ListCache[feed.Post]
	logger     zerolog.Logger

	lists singleflight.Group
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	c := &Client{
		baseURL:    base,
		token:      opts.Token,
		httpClient: opts.HTTPClient,
		cache:      opts.Cache,
		logger:     zerolog.Nop(),
	}
	if opts.Logger != nil {
		c.logger = *opts.Logger
	}
	c.logger = c.logger.With().Str("component", "httpapi").Str("base_url", base.String()).Logger()

	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if opts.MinVersion != "" {
		c.minVersion, err = semver.NewVersion(opts.MinVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid min_version %q: %w", opts.MinVersion, err)
		}
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// List fetches the posts for f. Concurrent calls for the same filter share
// one request; each caller gets its own copy of the result. The shared
// request is not tied to any one caller's cancellation; a cancelled caller
// stops waiting and the others still get the result.
func (c *Client) List(ctx context.Context, f feed.Filter) ([]feed.Post, error) {
	flight := context.WithoutCancel(ctx)
	ch := c.lists.DoChan(f.Key(), func() (any, error) {
		return c.fetchList(flight, f)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: listing %s: %w", feed.ErrSourceUnavailable, f.Key(), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		posts := res.Val.([]feed.Post)
		if res.Shared {
			posts = append([]feed.Post(nil), posts...)
		}
		return posts, nil
	}
}

// CachedList returns the last list stored for f, without a request.
func (c *Client) CachedList(f feed.Filter) (cache.CachedList[feed.Post], error) {
	return c.cache.Get(f.Key())
}

// Invalidate drops cached lists for this service.
func (c *Client) Invalidate(ctx context.Context) {
	if !c.cache.Enabled() {
		return
	}
	n, err := c.cache.InvalidateAll()
	log := logging.FromContext(ctx)
	if err != nil {
		log.Warn().Str("component", "httpapi").Err(err).Msg("invalidating list cache")
		return
	}
	log.Debug().Str("component", "httpapi").Int("removed", n).Msg("list cache invalidated")
}

func (c *Client) fetchList(ctx context.Context, f feed.Filter) ([]feed.Post, error) {
	query := url.Values{}
	if !f.IsAll() {
		query.Set("owner", f.Owner)
	}

	var posts []feed.Post
	if err := c.do(ctx, http.MethodGet, "/Posts", query, nil, &posts); err != nil {
		if !errors.Is(err, feed.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", feed.ErrSourceUnavailable, err)
		}
		return nil, err
	}
	if posts == nil {
		posts = []feed.Post{}
	}

	if c.cache.Enabled() {
		if err := c.cache.Put(f.Key(), posts); err != nil {
			logging.FromContext(ctx).Warn().Str("component", "httpapi").Err(err).Msg("caching list response")
		}
	}
	return posts, nil
}

// CreatePost publishes a review.
func (c *Client) CreatePost(ctx context.Context, p feed.NewPost) (feed.Post, error) {
	var created feed.Post
	if err := c.do(ctx, http.MethodPost, "/Posts/", nil, p, &created); err != nil {
		return feed.Post{}, err
	}
	return created, nil
}

// UpdatePost edits a review's title or content.
func (c *Client) UpdatePost(ctx context.Context, id string, u feed.PostUpdate) error {
	return c.do(ctx, http.MethodPut, "/Posts/"+url.PathEscape(id), nil, u, nil)
}

// DeletePost removes a review.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Posts/delete/"+url.PathEscape(id), nil, nil, nil)
}

// Like likes a review.
func (c *Client) Like(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/Posts/like/"+url.PathEscape(id), nil, nil, nil)
}

// Unlike withdraws a like.
func (c *Client) Unlike(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/Posts/unlike/"+url.PathEscape(id), nil, nil, nil)
}

// AddComment comments on a review.
func (c *Client) AddComment(ctx context.Context, cm feed.Comment) error {
	return c.do(ctx, http.MethodPost, "/Comments/", nil, cm, nil)
}

// UpdateComment edits a comment.
func (c *Client) UpdateComment(ctx context.Context, id string, cm feed.Comment) error {
	body := struct {
		Comment string `json:"comment"`
		Owner   string `json:"owner"`
	}{cm.Text, cm.Owner}
	return c.do(ctx, http.MethodPut, "/Comments/"+url.PathEscape(id), nil, body, nil)
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Comments/"+url.PathEscape(id), nil, nil, nil)
}

// do sends one request. in is JSON-encoded when non-nil; out is decoded from
// a 2xx body when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", authScheme+" "+c.token)
	}
	if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Request-Id", traceID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Ctx(ctx).Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return fmt.Errorf("%w: %s %s: %w", feed.ErrSourceUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().Ctx(ctx).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	if err = c.checkVersion(resp.Header.Get(VersionHeader)); err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %w", feed.ErrSourceUnavailable, method, path, err)
	}
	return nil
}

// checkVersion enforces MinVersion. Services that do not report a version,
// or report an unparseable one, are accepted.
func (c *Client) checkVersion(header string) error {
	if c.minVersion == nil || header == "" {
		return nil
	}
	v, err := semver.NewVersion(header)
	if err != nil {
		c.logger.Debug().Str("version", header).Err(err).Msg("ignoring unparseable service version")
		return nil
	}
	if v.LessThan(c.minVersion) {
		return fmt.Errorf("%w: service is %s, need %s or later", ErrIncompatibleAPI, v, c.minVersion)
	}
	return nil
}

var (
	_ feed.ListSource  = (*Client)(nil)
	_ feed.Mutator     = (*Client)(nil)
	_ feed.Invalidator = (*Client)(nil)
)
