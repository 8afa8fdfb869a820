package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/engine/cache"
)

// openCacheForCmd opens the configured cache, reporting a disabled cache as
// a usage error.
func openCacheForCmd() (*cache.FileStore, error) {
	store, err := openFileStore(config.GetGlobalConfig())
	if err != nil {
		return nil, usageError(err)
	}
	if !store.Enabled() {
		return nil, usageError(errors.New("the response cache is disabled (cache.enabled: false)"))
	}
	return store, nil
}

// NewCacheClearCmd creates the "cache clear" command.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached list response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheForCmd()
			if err != nil {
				return err
			}
			n, err := store.Clear()
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d cached responses from %s.\n", n, store.Directory())
			return nil
		},
	}
}

// NewCachePruneCmd creates the "cache prune" command.
func NewCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached list responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheForCmd()
			if err != nil {
				return err
			}
			if store.TTL() == 0 {
				cmd.Println("Cached responses never expire (cache.ttl_seconds: 0); nothing to prune.")
				return nil
			}
			n, err := store.Prune()
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d expired responses (older than %s).\n", n, cache.FormatDuration(store.TTL()))
			return nil
		},
	}
}

// NewCacheStatsCmd creates the "cache stats" command.
func NewCacheStatsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how much is cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := ParseOutputFormat(output)
			if err != nil {
				return usageError(err)
			}
			store, err := openCacheForCmd()
			if err != nil {
				return err
			}
			st, err := store.Stats()
			if err != nil {
				return err
			}
			if format != OutputTable {
				return writeStructured(cmd.OutOrStdout(), format, st)
			}

			p := message.NewPrinter(language.English)
			w := cmd.OutOrStdout()
			p.Fprintf(w, "Directory: %s\n", store.Directory())
			p.Fprintf(w, "Entries:   %d (%d expired)\n", st.Entries, st.Expired)
			p.Fprintf(w, "Size:      %d bytes\n", st.SizeBytes)
			p.Fprintf(w, "TTL:       %s\n", cache.FormatDuration(store.TTL()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(OutputTable), "output format: table, json or yaml")

	return cmd
}
