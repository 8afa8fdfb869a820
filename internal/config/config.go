package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/reelfeed/reelfeed/internal/engine/pager"
)

// Defaults.
const (
	DefaultBaseURL        = "http://localhost:4000"
	DefaultTimeoutSeconds = 60
	DefaultCacheTTL       = 3600
	DefaultCacheMaxSizeMB = 50
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"

	configFileName = "config.yaml"
)

// Environment variables that override the config file.
const (
	EnvHome         = "REELFEED_HOME"
	EnvConfig       = "REELFEED_CONFIG"
	EnvAPIURL       = "REELFEED_API_URL"
	EnvToken        = "REELFEED_TOKEN"
	EnvPageSize     = "REELFEED_PAGE_SIZE"
	EnvOwner        = "REELFEED_OWNER"
	EnvLogLevel     = "REELFEED_LOG_LEVEL"
	EnvCacheEnabled = "REELFEED_CACHE_ENABLED"
	EnvCacheTTL     = "REELFEED_CACHE_TTL"
)

// Validation errors.
var (
	ErrInvalidPageSize   = errors.New("feed.page_size must be >= 1")
	ErrInvalidWindowSize = fmt.Errorf("feed.window_size must be >= %d", pager.DefaultWindowSize)
	ErrInvalidBaseURL    = errors.New("api.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout    = errors.New("api.timeout_seconds must be >= 1")
	ErrInvalidCacheTTL   = errors.New("cache.ttl_seconds must be >= 0")
	ErrInvalidMinVersion = errors.New("api.min_version must be a semantic version")
	ErrUnknownKey        = errors.New("unknown configuration key")
)

// Config is the reelfeed configuration file.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Feed    FeedConfig    `yaml:"feed"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// APIConfig points at the review service.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// MinVersion, when set, is the lowest X-Api-Version the client accepts.
	MinVersion string `yaml:"min_version,omitempty"`
}

// FeedConfig controls paging.
type FeedConfig struct {
	PageSize   int    `yaml:"page_size"`
	WindowSize int    `yaml:"window_size"`
	Owner      string `yaml:"owner,omitempty"`
}

// CacheConfig controls the list-response cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Default returns a Config populated with defaults and no file or env applied.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Feed: FeedConfig{
			PageSize:   pager.DefaultPageSize,
			WindowSize: pager.DefaultWindowSize,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: DefaultCacheTTL,
			MaxSizeMB:  DefaultCacheMaxSizeMB,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		configPath: DefaultConfigPath(),
	}
}

// New returns the effective configuration: defaults, then the config file
// (if present and parseable), then environment overrides.
func New() *Config {
	cfg, err := Load(DefaultConfigPath())
	if err != nil {
		cfg = Default()
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// Load reads path on top of defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies REELFEED_* overrides. Unparseable numeric or boolean
// values are ignored.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvAPIURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookupEnv(EnvToken); ok && v != "" {
		c.API.Token = v
	}
	if v, ok := lookupEnv(EnvPageSize); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Feed.PageSize = n
		}
	}
	if v, ok := lookupEnv(EnvOwner); ok && v != "" {
		c.Feed.Owner = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvCacheEnabled); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v, ok := lookupEnv(EnvCacheTTL); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.TTLSeconds = n
		}
	}
}

// Validate checks semantic constraints.
func (c *Config) Validate() error {
	var errs []error
	if c.Feed.PageSize < pager.MinPageSize {
		errs = append(errs, ErrInvalidPageSize)
	}
	if c.Feed.WindowSize < pager.DefaultWindowSize {
		errs = append(errs, ErrInvalidWindowSize)
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || !u.IsAbs() ||
		(u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ErrInvalidBaseURL)
	}
	if c.API.TimeoutSeconds < 1 {
		errs = append(errs, ErrInvalidTimeout)
	}
	if c.Cache.TTLSeconds < 0 {
		errs = append(errs, ErrInvalidCacheTTL)
	}
	if c.API.MinVersion != "" {
		if _, err := semver.NewVersion(c.API.MinVersion); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidMinVersion, err))
		}
	}
	return errors.Join(errs...)
}

// Save writes the config to its path, creating the parent directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.configPath, data, 0600)
}

// ConfigPath returns where the config is loaded from and saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// CacheDir returns the configured cache directory or the default under the
// config home.
func (c *Config) CacheDir() string {
	if c.Cache.Directory != "" {
		return c.Cache.Directory
	}
	dir, err := GetConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "reelfeed-cache")
	}
	return filepath.Join(dir, "cache")
}

// keyAccessors maps dotted keys to getters and setters over Config.
//
//nolint:gochecknoglobals // Static lookup table.
var keyAccessors = map[string]struct {
	get func(*Config) string
	set func(*Config, string) error
}{
	"api.base_url": {
		func(c *Config) string { return c.API.BaseURL },
		func(c *Config, v string) error { c.API.BaseURL = v; return nil },
	},
	"api.token": {
		func(c *Config) string { return c.API.Token },
		func(c *Config, v string) error { c.API.Token = v; return nil },
	},
	"api.timeout_seconds": {
		func(c *Config) string { return strconv.Itoa(c.API.TimeoutSeconds) },
		func(c *Config, v string) error { return setInt(&c.API.TimeoutSeconds, v) },
	},
	"api.min_version": {
		func(c *Config) string { return c.API.MinVersion },
		func(c *Config, v string) error { c.API.MinVersion = v; return nil },
	},
	"feed.page_size": {
		func(c *Config) string { return strconv.Itoa(c.Feed.PageSize) },
		func(c *Config, v string) error { return setInt(&c.Feed.PageSize, v) },
	},
	"feed.window_size": {
		func(c *Config) string { return strconv.Itoa(c.Feed.WindowSize) },
		func(c *Config, v string) error { return setInt(&c.Feed.WindowSize, v) },
	},
	"feed.owner": {
		func(c *Config) string { return c.Feed.Owner },
		func(c *Config, v string) error { c.Feed.Owner = v; return nil },
	},
	"cache.enabled": {
		func(c *Config) string { return strconv.FormatBool(c.Cache.Enabled) },
		func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean %q: %w", v, err)
			}
			c.Cache.Enabled = b
			return nil
		},
	},
	"cache.directory": {
		func(c *Config) string { return c.Cache.Directory },
		func(c *Config, v string) error { c.Cache.Directory = v; return nil },
	},
	"cache.ttl_seconds": {
		func(c *Config) string { return strconv.Itoa(c.Cache.TTLSeconds) },
		func(c *Config, v string) error { return setInt(&c.Cache.TTLSeconds, v) },
	},
	"cache.max_size_mb": {
		func(c *Config) string { return strconv.Itoa(c.Cache.MaxSizeMB) },
		func(c *Config, v string) error { return setInt(&c.Cache.MaxSizeMB, v) },
	},
	"logging.level": {
		func(c *Config) string { return c.Logging.Level },
		func(c *Config, v string) error { c.Logging.Level = v; return nil },
	},
	"logging.format": {
		func(c *Config) string { return c.Logging.Format },
		func(c *Config, v string) error { c.Logging.Format = v; return nil },
	},
	"logging.file": {
		func(c *Config) string { return c.Logging.File },
		func(c *Config, v string) error { c.Logging.File = v; return nil },
	},
}

// Get returns the value of a dotted key such as "feed.page_size".
func (c *Config) Get(key string) (string, error) {
	acc, ok := keyAccessors[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return acc.get(c), nil
}

// Set assigns a dotted key. The result is not validated; call Validate.
func (c *Config) Set(key, value string) error {
	acc, ok := keyAccessors[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return acc.set(c, value)
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(keyAccessors))
	for k := range keyAccessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", v, err)
	}
	*dst = n
	return nil
}
