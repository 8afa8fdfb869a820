package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/engine/cache"
)

const (
	tokenKey    = "api.token"
	ttlKey      = "cache.ttl_seconds"
	maskedValue = "********"
)

// NewConfigGetCmd creates the "config get" command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get KEY",
		Short:   "Print one configuration value",
		Example: `  reelfeed config get feed.page_size`,
		Args:    requireOneArg("key"),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return usageError(err)
			}
			cmd.Println(v)
			return nil
		},
	}
}

// NewConfigSetCmd creates the "config set" command. The file is rewritten
// only when the result validates.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one configuration value",
		Example: `  reelfeed config set feed.page_size 10
  reelfeed config set feed.owner alice`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageError(fmt.Errorf("expected KEY and VALUE, got %d arguments", len(args)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			// Start from the file alone so environment overrides are not saved.
			path := config.GetGlobalConfig().ConfigPath()
			cfg, err := config.Load(path)
			if err != nil {
				return usageError(err)
			}
			if key == ttlKey {
				if _, err = cache.ParseTTL(value); err != nil {
					return usageError(err)
				}
			}
			if err = cfg.Set(key, value); err != nil {
				return usageError(err)
			}
			if err = cfg.Validate(); err != nil {
				return usageError(err)
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			if key == tokenKey {
				value = maskedValue
			}
			cmd.Printf("Set %s = %s in %s\n", key, value, path)
			return nil
		},
	}
}

// NewConfigListCmd creates the "config list" command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, key := range config.Keys() {
				v, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if key == tokenKey && v != "" {
					v = maskedValue
				}
				fmt.Fprintf(tw, "%s\t%s\n", key, v)
			}
			return tw.Flush()
		},
	}
}
