package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/engine/history"
	"github.com/reelfeed/reelfeed/internal/logging"
	listview "github.com/reelfeed/reelfeed/internal/tui/list"
)

// ViewState is the browse screen's mode.
type ViewState int

// Browse screen modes.
const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateError
	ViewStateQuitting
)

// itemsLoadedMsg carries a fetch result back to Update. The ticket lets the
// session drop results that a newer fetch or a filter switch superseded.
type itemsLoadedMsg struct {
	ticket feed.FetchTicket
	items  []feed.Post
	err    error
}

// configChangedMsg delivers a reloaded config file.
type configChangedMsg struct {
	cfg *config.Config
}

// mutationDoneMsg reports a like or unlike.
type mutationDoneMsg struct {
	op    string
	title string
	err   error
}

const (
	opLike   = "like"
	opUnlike = "unlike"
)

// BrowseOption configures a BrowseModel.
type BrowseOption func(*BrowseModel)

// WithConfigUpdates applies page size changes from reloaded config files.
func WithConfigUpdates(updates <-chan *config.Config) BrowseOption {
	return func(m *BrowseModel) { m.configUpdates = updates }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keys KeyMap) BrowseOption {
	return func(m *BrowseModel) { m.keys = keys }
}

// BrowseModel is the interactive feed browser. It drives a feed.Session: the
// session owns paging and history, the model owns fetch scheduling and
// rendering.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowseModel struct {
	ctx           context.Context
	session       *feed.Session
	keys          KeyMap
	help          help.Model
	rows          *listview.Model[feed.Post]
	loading       *LoadingState
	configUpdates <-chan *config.Config

	state ViewState
	// stale is the snapshot shown while a fetch is in flight.
	stale  *history.Snapshot[feed.Post]
	status string

	width  int
	height int
}

// NewBrowseModel creates a browser over session. Init starts the first fetch.
func NewBrowseModel(ctx context.Context, session *feed.Session, opts ...BrowseOption) BrowseModel {
	m := BrowseModel{
		ctx:     ctx,
		session: session,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		rows:    listview.New(session.VisibleItems(), 0),
		loading: NewLoadingState(),
		state:   ViewStateLoading,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init fetches the feed and starts listening for config reloads.
func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetch(), m.waitForConfig())
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rows.SetHeight(m.listHeight())
		return m, nil
	case itemsLoadedMsg:
		return m.handleItemsLoaded(msg)
	case mutationDoneMsg:
		return m.handleMutationDone(msg)
	case configChangedMsg:
		return m.handleConfigChanged(msg)
	case spinner.TickMsg:
		if m.state != ViewStateLoading {
			return m, nil
		}
		return m, m.loading.Update(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// State returns the current mode.
func (m BrowseModel) State() ViewState { return m.state }

// Session returns the session being browsed.
func (m BrowseModel) Session() *feed.Session { return m.session }

func (m BrowseModel) fetch() tea.Cmd {
	ticket := m.session.BeginFetch()
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		items, err := session.Fetch(ctx, ticket)
		return itemsLoadedMsg{ticket: ticket, items: items, err: err}
	}
}

// startLoading fetches the current filter. The snapshot of the page that
// will be shown, if one is cached, stays on screen until the result arrives.
func (m BrowseModel) startLoading(message string) (BrowseModel, tea.Cmd) {
	m.stale = nil
	if snap, ok := m.session.CachedPage(m.session.TargetPage()); ok {
		m.stale = &snap
	}
	m.state = ViewStateLoading
	m.loading.SetMessage(message)
	return m, tea.Batch(m.loading.Init(), m.fetch())
}

func (m BrowseModel) handleItemsLoaded(msg itemsLoadedMsg) (tea.Model, tea.Cmd) {
	applied, err := m.session.ApplyFetch(msg.ticket, msg.items, msg.err)
	if !applied {
		return m, nil
	}
	m.stale = nil

	if err != nil {
		logging.FromContext(m.ctx).Warn().Str("component", "tui").Err(err).Msg("feed load failed")
		m.state = ViewStateError
		m.rows.SetItems(nil)
		return m, nil
	}

	m.state = ViewStateList
	m.rows.SetItems(m.session.VisibleItems())
	return m, nil
}

//nolint:exhaustive,gocognit // Key handling inherently requires multiple branches.
func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = ViewStateQuitting
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.rows.SetHeight(m.listHeight())
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m.startLoading("Refreshing...")
	case key.Matches(msg, m.keys.Filter):
		return m.toggleFilter()
	}

	if m.state != ViewStateList {
		return m, nil
	}

	moved := false
	switch {
	case key.Matches(msg, m.keys.Next):
		moved = m.session.Next()
	case key.Matches(msg, m.keys.Previous):
		moved = m.session.Previous()
	case key.Matches(msg, m.keys.First):
		moved = m.session.First()
	case key.Matches(msg, m.keys.Last):
		moved = m.session.Last()
	case key.Matches(msg, m.keys.Back):
		moved = m.session.Back()
	case key.Matches(msg, m.keys.Jump):
		moved = m.session.GoToPage(int(msg.String()[0] - '0'))
	case key.Matches(msg, m.keys.Up):
		m.rows.Up()
	case key.Matches(msg, m.keys.Down):
		m.rows.Down()
	case key.Matches(msg, m.keys.Like):
		return m.mutateSelected(opLike)
	case key.Matches(msg, m.keys.Unlike):
		return m.mutateSelected(opUnlike)
	}

	if moved {
		m.status = ""
		m.rows.SetItems(m.session.VisibleItems())
		m.rows.Top()
	}
	return m, nil
}

// toggleFilter flips between the whole feed and the owner's reviews, and
// returns to the page last viewed under the new filter.
func (m BrowseModel) toggleFilter() (tea.Model, tea.Cmd) {
	next := feed.All()
	if m.session.Filter().IsAll() {
		if m.session.Owner() == "" {
			m.status = "Set feed.owner to see only your reviews."
			return m, nil
		}
		next = m.session.Mine()
	}
	m.session.ReturnToFilter(next)
	m.rows.SetItems(nil)
	m.status = ""
	return m.startLoading("Loading " + next.String() + "...")
}

func (m BrowseModel) mutateSelected(op string) (tea.Model, tea.Cmd) {
	post, ok := m.rows.SelectedItem()
	if !ok {
		return m, nil
	}
	mutator := m.session.Mutator()
	if mutator == nil {
		m.status = "This feed is read-only."
		return m, nil
	}

	session, ctx := m.session, m.ctx
	return m, func() tea.Msg {
		var err error
		if op == opLike {
			err = mutator.Like(ctx, post.ID)
		} else {
			err = mutator.Unlike(ctx, post.ID)
		}
		if err == nil {
			session.Invalidate(ctx)
		}
		return mutationDoneMsg{op: op, title: post.Title, err: err}
	}
}

func (m BrowseModel) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = fmt.Sprintf("Could not %s %q: %v", msg.op, msg.title, msg.err)
		return m, nil
	}
	verb := "Liked"
	if msg.op == opUnlike {
		verb = "Unliked"
	}
	m, cmd := m.startLoading("Refreshing...")
	m.status = fmt.Sprintf("%s %q.", verb, msg.title)
	return m, cmd
}

func (m BrowseModel) handleConfigChanged(msg configChangedMsg) (tea.Model, tea.Cmd) {
	size := msg.cfg.Feed.PageSize
	if m.session.SetPageSize(size) {
		m.rows.SetItems(m.session.VisibleItems())
		m.status = fmt.Sprintf("Page size is now %d.", size)
	}
	return m, m.waitForConfig()
}

func (m BrowseModel) waitForConfig() tea.Cmd {
	if m.configUpdates == nil {
		return nil
	}
	updates := m.configUpdates
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return configChangedMsg{cfg: cfg}
	}
}
