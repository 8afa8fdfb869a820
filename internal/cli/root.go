package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// interactive reports whether the command reads from and writes to a
// terminal.
func interactive(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isTerminal(in) {
		return false
	}
	out, ok := cmd.OutOrStdout().(*os.File)
	return ok && isTerminal(out)
}

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the reelfeed CLI. It loads
// configuration, wires up logging and tracing, and registers the feed, post,
// comment, cache and config command groups.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "reelfeed",
		Short:         "Browse and manage movie reviews from the terminal",
		Long:          "reelfeed pages through a movie review feed, one page at a time, and edits your own reviews.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.reelfeed/config.yaml)")
	cmd.PersistentFlags().Bool("offline", false, "use a seeded in-memory feed instead of the review service")
	cmd.AddCommand(newFeedCmd(), newPostCmd(), newCommentCmd(), newCacheCmd(), newConfigCmd())

	return cmd
}

// loadConfig installs the global config, honouring --config.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		config.InitGlobalConfig()
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return usageError(err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Show the first page of the feed
  reelfeed feed page

  # Show page 3 of your own reviews, 10 per page, as JSON
  reelfeed feed page --mine --page 3 --page-size 10 --output json

  # Browse interactively
  reelfeed feed browse

  # Post a review
  reelfeed post create --title "Heat" --content "Still the best shootout" --rank 5

  # Try it without a server
  reelfeed --offline feed browse`

// newFeedCmd creates the feed command group.
func newFeedCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "feed", Short: "Read the review feed"}
	cmd.AddCommand(NewFeedPageCmd(), NewFeedBrowseCmd(), NewFeedSummaryCmd())
	return cmd
}

// newPostCmd creates the post command group.
func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "post", Short: "Create, edit and like reviews"}
	cmd.AddCommand(
		NewPostCreateCmd(), NewPostUpdateCmd(), NewPostDeleteCmd(),
		NewPostLikeCmd(), NewPostUnlikeCmd(),
	)
	return cmd
}

// newCommentCmd creates the comment command group.
func newCommentCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "comment", Short: "Comment on reviews"}
	cmd.AddCommand(NewCommentAddCmd(), NewCommentUpdateCmd(), NewCommentDeleteCmd())
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Manage the local response cache"}
	cmd.AddCommand(NewCacheClearCmd(), NewCachePruneCmd(), NewCacheStatsCmd())
	return cmd
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// requireOneArg is cobra.ExactArgs(1) with a usage exit code.
func requireOneArg(what string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageError(fmt.Errorf("expected exactly one %s, got %d arguments", what, len(args)))
		}
		return nil
	}
}
