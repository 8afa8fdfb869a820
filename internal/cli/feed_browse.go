package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/reelfeed/reelfeed/internal/cli/pagination"
	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/tui"
)

// NewFeedBrowseCmd creates the "feed browse" command, the interactive
// pager.
func NewFeedBrowseCmd() *cobra.Command {
	params := pagination.NewParams()

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the feed interactively",
		Long: `Opens a full-screen browser over the feed.

Keys: n/→ next, p/← previous, g first, G last, 1-9 jump to a page, b back,
j/k move, l like, u unlike, f toggle your reviews, r refresh, q quit.

Edits to the config file while browsing are picked up; a new feed.page_size
re-pages the feed in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFeedBrowse(cmd, *params)
		},
	}

	params.Bind(cmd.Flags())
	_ = cmd.Flags().MarkHidden("page")
	_ = cmd.Flags().MarkHidden("sort")

	return cmd
}

func runFeedBrowse(cmd *cobra.Command, params pagination.Params) error {
	if !interactive(cmd) {
		return usageError(errNotInteractive)
	}
	if err := params.Validate(); err != nil {
		return usageError(err)
	}

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	filter, err := params.Filter(a.owner())
	if err != nil {
		return usageError(err)
	}

	ctx := cmd.Context()
	s := a.newSession(
		feed.WithFilter(filter),
		feed.WithPageSize(params.EffectivePageSize(a.cfg.Feed.PageSize)),
	)
	defer s.End()

	var opts []tui.BrowseOption
	if watcher := startConfigWatcher(cmd, a.cfg); watcher != nil {
		defer watcher.Stop()
		opts = append(opts, tui.WithConfigUpdates(watcher.Updates()))
	}

	model := tui.NewBrowseModel(ctx, s, opts...)
	_, err = tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	).Run()
	return err
}

// startConfigWatcher watches the config file for edits. It returns nil when
// the file does not exist or cannot be watched.
func startConfigWatcher(cmd *cobra.Command, cfg *config.Config) *config.Watcher {
	path := cfg.ConfigPath()
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	watcher, err := config.NewWatcher(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("config reload disabled")
		return nil
	}
	watcher.Start(cmd.Context())
	return watcher
}
