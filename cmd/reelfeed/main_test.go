package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelfeed/reelfeed/internal/cli"
	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/pkg/version"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REELFEED_HOME", t.TempDir())
	t.Setenv("REELFEED_LOG_LEVEL", "error")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
}

func TestRun(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		setupEnv(t)
		require.NoError(t, run([]string{"--version"}))
	})

	t.Run("unknown command", func(t *testing.T) {
		setupEnv(t)
		assert.Error(t, run([]string{"rewind"}))
	})

	t.Run("offline page", func(t *testing.T) {
		setupEnv(t)
		require.NoError(t, run([]string{"--offline", "feed", "page", "--output", "json"}))
	})

	t.Run("usage error exit code", func(t *testing.T) {
		setupEnv(t)
		err := run([]string{"--offline", "feed", "page", "--page", "0"})
		require.Error(t, err)
		assert.Equal(t, cli.ExitCodeUsage, cli.ExitCode(err))
	})
}

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.Equal(t, "reelfeed", root.Use)
	})
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitCodeOK},
		{"generic", errors.New("boom"), cli.ExitCodeError},
		{"explicit", &cli.ExitError{Code: 7}, 7},
		{"joined unavailable", errors.Join(errors.New("outer"), feed.ErrSourceUnavailable), cli.ExitCodeUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}
