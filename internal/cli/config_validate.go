package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelfeed/reelfeed/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file for syntax and semantic correctness,
after environment overrides are applied.

This checks:
- feed.page_size is at least 1 and feed.window_size at least 5
- api.base_url is an absolute http(s) URL
- api.timeout_seconds is at least 1
- cache.ttl_seconds is not negative
- api.min_version, when set, is a semantic version`,
		Example: `  # Validate current configuration
  reelfeed config validate

  # Validate and show detailed information
  reelfeed config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return usageError(fmt.Errorf("configuration validation failed: %w", err))
	}

	cmd.Printf("Configuration is valid (%s)\n", cfg.ConfigPath())

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Review service: %s (timeout %ds)\n", cfg.API.BaseURL, cfg.API.TimeoutSeconds)
	if cfg.API.MinVersion != "" {
		cmd.Printf("  Minimum service version: %s\n", cfg.API.MinVersion)
	}
	cmd.Printf("  Signed in: %t\n", cfg.API.Token != "")
	cmd.Printf("  Page size: %d, page links: %d\n", cfg.Feed.PageSize, cfg.Feed.WindowSize)
	if cfg.Feed.Owner != "" {
		cmd.Printf("  Owner: %s\n", cfg.Feed.Owner)
	}
	if cfg.Cache.Enabled {
		cmd.Printf("  Cache: %s (ttl %ds, max %d MB)\n", cfg.CacheDir(), cfg.Cache.TTLSeconds, cfg.Cache.MaxSizeMB)
	} else {
		cmd.Println("  Cache: disabled")
	}
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
}
