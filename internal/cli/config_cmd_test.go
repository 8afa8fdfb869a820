package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelfeed/reelfeed/internal/cli"
)

func TestConfigInit(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "config.yaml")

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, cli.ExitCodeUsage, cli.ExitCode(err))

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_ExplicitPath(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "nested", "reelfeed.yaml")

	_, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestConfigSetGetList(t *testing.T) {
	home := setupHome(t)

	out, err := execute(t, "config", "set", "feed.page_size", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Set feed.page_size = 12")

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "page_size: 12")

	out, err = execute(t, "config", "get", "feed.page_size")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)

	out, err = execute(t, "config", "set", "api.token", "s3cret")
	require.NoError(t, err)
	assert.NotContains(t, out, "s3cret")

	out, err = execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "feed.page_size")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "s3cret")
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "feed.colour", "red"}},
		{"not a number", []string{"config", "set", "feed.page_size", "ten"}},
		{"invalid value", []string{"config", "set", "feed.page_size", "0"}},
		{"ttl out of range", []string{"config", "set", "cache.ttl_seconds", "-5"}},
		{"missing value", []string{"config", "set", "feed.page_size"}},
		{"get unknown key", []string{"config", "get", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHome(t)
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitCodeUsage, cli.ExitCode(err))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	home := setupHome(t)

	out, err := execute(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Page size: 5")

	bad := "feed:\n  page_size: 0\n  window_size: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(bad), 0600))

	_, err = execute(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed.page_size")
	assert.Equal(t, cli.ExitCodeUsage, cli.ExitCode(err))
}

func TestConfig_UnparseableFile(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed: [\n"), 0600))

	_, err := execute(t, "--config", path, "config", "list")
	require.Error(t, err)
	assert.Equal(t, cli.ExitCodeUsage, cli.ExitCode(err))
}
