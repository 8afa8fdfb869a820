package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.Feed.PageSize)
	assert.Equal(t, 5, cfg.Feed.WindowSize)
	assert.True(t, cfg.Cache.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Feed.PageSize)
	})

	t.Run("partial file overlays defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte("feed:\n  page_size: 8\n  window_size: 5\n"), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Feed.PageSize)
		assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
		assert.Equal(t, path, cfg.ConfigPath())
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("feed: [unclosed"), 0600))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config")
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.SetConfigPath(path)
	cfg.Feed.Owner = "alice"
	require.NoError(t, cfg.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Feed.Owner)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		EnvAPIURL:       "https://reviews.example.com",
		EnvToken:        "secret",
		EnvPageSize:     "10",
		EnvOwner:        "bob",
		EnvLogLevel:     "debug",
		EnvCacheEnabled: "false",
		EnvCacheTTL:     "120",
	}))

	assert.Equal(t, "https://reviews.example.com", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, 10, cfg.Feed.PageSize)
	assert.Equal(t, "bob", cfg.Feed.Owner)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 120, cfg.Cache.TTLSeconds)

	t.Run("garbage values are ignored", func(t *testing.T) {
		cfg := Default()
		cfg.ApplyEnv(envMap(map[string]string{EnvPageSize: "lots", EnvCacheEnabled: "maybe"}))
		assert.Equal(t, 5, cfg.Feed.PageSize)
		assert.True(t, cfg.Cache.Enabled)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero page size", func(c *Config) { c.Feed.PageSize = 0 }, ErrInvalidPageSize},
		{"small window", func(c *Config) { c.Feed.WindowSize = 3 }, ErrInvalidWindowSize},
		{"relative url", func(c *Config) { c.API.BaseURL = "/posts" }, ErrInvalidBaseURL},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://host" }, ErrInvalidBaseURL},
		{"zero timeout", func(c *Config) { c.API.TimeoutSeconds = 0 }, ErrInvalidTimeout},
		{"negative ttl", func(c *Config) { c.Cache.TTLSeconds = -1 }, ErrInvalidCacheTTL},
		{"bad min version", func(c *Config) { c.API.MinVersion = "latest" }, ErrInvalidMinVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("feed.page_size", "12"))
	v, err := cfg.Get("feed.page_size")
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	require.NoError(t, cfg.Set("cache.enabled", "false"))
	assert.False(t, cfg.Cache.Enabled)

	require.Error(t, cfg.Set("feed.page_size", "twelve"))
	require.Error(t, cfg.Set("cache.enabled", "sometimes"))

	_, err = cfg.Get("feed.colour")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.ErrorIs(t, cfg.Set("nope", "x"), ErrUnknownKey)

	assert.Contains(t, Keys(), "api.base_url")
	assert.IsIncreasing(t, Keys())
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Setenv(EnvPageSize, "7")
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	assert.Equal(t, 7, GetPageSize())

	custom := Default()
	custom.Logging.Level = "warn"
	SetGlobalConfig(custom)
	assert.Equal(t, "warn", GetLogLevel())
	assert.Equal(t, "warn", GetLoggingConfig().Level)
}

func TestConfigDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvConfig, "")

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)
	assert.Equal(t, filepath.Join(home, "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(home, "cache"), Default().CacheDir())

	t.Setenv(EnvConfig, "/etc/reelfeed.yaml")
	assert.Equal(t, "/etc/reelfeed.yaml", DefaultConfigPath())
}

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "json"}
	assert.Equal(t, "stderr", lc.ToLoggingConfig().Output)

	lc.File = "/tmp/reelfeed.log"
	out := lc.ToLoggingConfig()
	assert.Equal(t, "file", out.Output)
	assert.Equal(t, "/tmp/reelfeed.log", out.File)
}

func TestWatcher(t *testing.T) {
	t.Setenv(EnvPageSize, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed:\n  page_size: 5\n  window_size: 5\n"), 0600))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	t.Run("invalid reload is ignored", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("feed:\n  page_size: 0\n"), 0600))
		select {
		case cfg := <-w.Updates():
			t.Fatalf("unexpected update with page size %d", cfg.Feed.PageSize)
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("valid reload is published", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("feed:\n  page_size: 9\n  window_size: 5\n"), 0600))
		select {
		case cfg := <-w.Updates():
			assert.Equal(t, 9, cfg.Feed.PageSize)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for config reload")
		}
	})
}

func TestNewWatcher_EmptyPath(t *testing.T) {
	_, err := NewWatcher("")
	require.Error(t, err)
}
