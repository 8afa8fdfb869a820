package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/source/memory"
)

func newTestModel(t *testing.T, src feed.ListSource) BrowseModel {
	t.Helper()
	s := feed.NewSession(src, feed.WithOwner("alice"), feed.WithPageSize(5))
	return NewBrowseModel(context.Background(), s)
}

func seededStore(n int) *memory.Store {
	store := memory.New()
	store.Seed(n)
	return store
}

// settle runs cmd and feeds every resulting message back into the model
// until no commands remain. Spinner ticks are dropped so the loop ends.
func settle(t *testing.T, m BrowseModel, cmd tea.Cmd) BrowseModel {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(spinner.TickMsg); ok || msg == nil {
			continue
		}
		next, nextCmd := m.Update(msg)
		m = settle(t, next.(BrowseModel), nextCmd)
	}
	return m
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func press(t *testing.T, m BrowseModel, keys ...string) (BrowseModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "home":
			msg = tea.KeyMsg{Type: tea.KeyHome}
		case "end":
			msg = tea.KeyMsg{Type: tea.KeyEnd}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, c := m.Update(msg)
		m, cmd = next.(BrowseModel), c
	}
	return m, cmd
}

func loaded(t *testing.T, src feed.ListSource) BrowseModel {
	t.Helper()
	m := newTestModel(t, src)
	m = settle(t, m, m.Init())
	require.Equal(t, ViewStateList, m.State())
	return m
}

func TestNewBrowseModel(t *testing.T) {
	m := newTestModel(t, seededStore(3))

	assert.Equal(t, ViewStateLoading, m.State())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading reviews")
}

func TestBrowseModel_InitLoadsFirstPage(t *testing.T) {
	m := loaded(t, seededStore(23))

	assert.Equal(t, 1, m.Session().CurrentPage())
	assert.Equal(t, 5, m.rows.Len())
	view := m.View()
	assert.Contains(t, view, "Showing 1-5 of 23 reviews (page 1 of 5)")
	assert.Contains(t, view, "Pages: [1] 2 3 4 5")
	assert.Contains(t, view, "> ")
}

func TestBrowseModel_Navigation(t *testing.T) {
	m := loaded(t, seededStore(23))

	tests := []struct {
		key  string
		want int
	}{
		{"n", 2},
		{"right", 3},
		{"p", 2},
		{"left", 1},
		{"p", 1},
		{"G", 5},
		{"n", 5},
		{"g", 1},
		{"end", 5},
		{"home", 1},
		{"3", 3},
		{"9", 3},
		{"b", 1},
	}
	for _, tt := range tests {
		m, _ = press(t, m, tt.key)
		assert.Equal(t, tt.want, m.Session().CurrentPage(), "after %q", tt.key)
	}

	assert.Contains(t, m.View(), "Pages: [1] 2· 3· 4 5·")
}

func TestBrowseModel_RowCursorResetsOnPageChange(t *testing.T) {
	m := loaded(t, seededStore(23))

	m, _ = press(t, m, "j", "j", "down")
	assert.Equal(t, 3, m.rows.Selected())
	m, _ = press(t, m, "k", "up")
	assert.Equal(t, 1, m.rows.Selected())

	m, _ = press(t, m, "n")
	assert.Equal(t, 0, m.rows.Selected())
}

func TestBrowseModel_StaleFetchDropped(t *testing.T) {
	store := seededStore(23)
	m := loaded(t, store)

	// A fetch issued before the one that was applied arrives late.
	late := itemsLoadedMsg{ticket: feed.FetchTicket{Generation: 0, Filter: feed.All()}}
	next, cmd := m.Update(late)
	m = next.(BrowseModel)

	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateList, m.State())
	assert.Len(t, m.Session().Items(), 23)
}

func TestBrowseModel_FilterToggleShowsCachedPage(t *testing.T) {
	m := loaded(t, seededStore(23))
	m, _ = press(t, m, "n")
	require.Equal(t, 2, m.Session().CurrentPage())

	m, cmd := press(t, m, "f")
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Nil(t, m.stale, "mine has no history yet")
	m = settle(t, m, cmd)
	assert.Equal(t, feed.ByOwner("alice"), m.Session().Filter())
	for _, p := range m.Session().Items() {
		assert.Equal(t, "alice", p.Owner)
	}

	m, cmd = press(t, m, "f")
	require.NotNil(t, m.stale)
	assert.Equal(t, 2, m.stale.Page)
	assert.Contains(t, m.View(), "page 2 as of")

	m = settle(t, m, cmd)
	assert.Equal(t, ViewStateList, m.State())
	assert.True(t, m.Session().Filter().IsAll())
	assert.Equal(t, 2, m.Session().CurrentPage())
	assert.Equal(t, []int{1, 2}, m.Session().History().History())
}

func TestBrowseModel_FilterRoundTripKeepsBackHistory(t *testing.T) {
	m := loaded(t, seededStore(23))
	m, _ = press(t, m, "n")
	m, _ = press(t, m, "n")
	require.Equal(t, []int{1, 2, 3}, m.Session().History().History())

	m, cmd := press(t, m, "f")
	m = settle(t, m, cmd)
	m, cmd = press(t, m, "f")
	m = settle(t, m, cmd)

	assert.Equal(t, 3, m.Session().CurrentPage())
	assert.Equal(t, []int{1, 2, 3}, m.Session().History().History())
	assert.Contains(t, m.View(), "Pages: 1· 2· [3] 4 5")

	m, _ = press(t, m, "b")
	assert.Equal(t, 2, m.Session().CurrentPage())
}

func TestBrowseModel_RetryReturnsToPage(t *testing.T) {
	store := seededStore(23)
	failing := false
	src := feed.ListSourceFunc(func(ctx context.Context, f feed.Filter) ([]feed.Post, error) {
		if failing {
			return nil, errors.New("connection refused")
		}
		return store.List(ctx, f)
	})

	m := newTestModel(t, src)
	m = settle(t, m, m.Init())
	m, _ = press(t, m, "n", "n")

	failing = true
	m, cmd := press(t, m, "r")
	m = settle(t, m, cmd)
	require.Equal(t, ViewStateError, m.State())

	failing = false
	m, cmd = press(t, m, "r")
	require.NotNil(t, m.stale, "the page shown before the failure is kept on screen")
	assert.Equal(t, 3, m.stale.Page)
	m = settle(t, m, cmd)
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 3, m.Session().CurrentPage())
}

func TestBrowseModel_FilterWithoutOwner(t *testing.T) {
	s := feed.NewSession(seededStore(3))
	m := NewBrowseModel(context.Background(), s)
	m = settle(t, m, m.Init())

	m, cmd := press(t, m, "f")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Set feed.owner")
}

func TestBrowseModel_ErrorAndRetry(t *testing.T) {
	store := seededStore(7)
	failing := true
	src := feed.ListSourceFunc(func(ctx context.Context, f feed.Filter) ([]feed.Post, error) {
		if failing {
			return nil, errors.New("connection refused")
		}
		return store.List(ctx, f)
	})

	m := newTestModel(t, src)
	m = settle(t, m, m.Init())
	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.View(), "Could not load reviews")
	assert.ErrorIs(t, m.Session().LastError(), feed.ErrSourceUnavailable)

	// Navigation is ignored while nothing is loaded.
	m, _ = press(t, m, "n")
	assert.Equal(t, 1, m.Session().CurrentPage())

	failing = false
	m, cmd := press(t, m, "r")
	m = settle(t, m, cmd)
	assert.Equal(t, ViewStateList, m.State())
	assert.Len(t, m.Session().Items(), 7)
}

func TestBrowseModel_EmptyFeed(t *testing.T) {
	m := loaded(t, memory.New())
	assert.Contains(t, m.View(), "No reviews yet.")
}

func TestBrowseModel_LikeSelected(t *testing.T) {
	store := seededStore(8)
	m := loaded(t, store)

	m, _ = press(t, m, "j")
	selected, ok := m.rows.SelectedItem()
	require.True(t, ok)

	m, cmd := press(t, m, "l")
	require.NotNil(t, cmd)
	m = settle(t, m, cmd)

	assert.Contains(t, m.status, "Liked")
	assert.Equal(t, 1, m.rows.Selected(), "cursor stays on the row")
	after, ok := m.rows.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, selected.ID, after.ID)
	assert.Equal(t, selected.Likes+1, after.Likes)

	m, cmd = press(t, m, "u")
	m = settle(t, m, cmd)
	assert.Contains(t, m.status, "Unliked")
	after, _ = m.rows.SelectedItem()
	assert.Equal(t, selected.Likes, after.Likes)
}

func TestBrowseModel_LikeMissingPost(t *testing.T) {
	store := seededStore(3)
	m := loaded(t, store)

	selected, _ := m.rows.SelectedItem()
	require.NoError(t, store.DeletePost(context.Background(), selected.ID))

	m, cmd := press(t, m, "l")
	m = settle(t, m, cmd)
	assert.Contains(t, m.status, "Could not like")
}

func TestBrowseModel_ConfigChangeResizesPages(t *testing.T) {
	m := loaded(t, seededStore(23))

	cfg := config.Default()
	cfg.Feed.PageSize = 10
	next, cmd := m.Update(configChangedMsg{cfg: cfg})
	m = next.(BrowseModel)

	assert.Nil(t, cmd, "no watcher configured")
	assert.Equal(t, 10, m.Session().PageSize())
	assert.Equal(t, 10, m.rows.Len())
	assert.Contains(t, m.View(), "page 1 of 3")
	assert.Contains(t, m.status, "Page size is now 10")
}

func TestBrowseModel_ConfigUpdatesChannel(t *testing.T) {
	updates := make(chan *config.Config, 1)
	s := feed.NewSession(seededStore(23), feed.WithPageSize(5))
	m := NewBrowseModel(context.Background(), s, WithConfigUpdates(updates))

	cfg := config.Default()
	cfg.Feed.PageSize = 4
	updates <- cfg

	msg := m.waitForConfig()()
	changed, ok := msg.(configChangedMsg)
	require.True(t, ok)
	assert.Equal(t, 4, changed.cfg.Feed.PageSize)

	close(updates)
	assert.Nil(t, m.waitForConfig()())
}

func TestBrowseModel_HelpAndQuit(t *testing.T) {
	m := loaded(t, seededStore(3))

	m, _ = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "unlike")

	m, cmd := press(t, m, "q")
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())

	m = loaded(t, seededStore(3))
	_, cmd = press(t, m, "ctrl+c")
	assert.NotNil(t, cmd)
}

func TestBrowseModel_WindowResize(t *testing.T) {
	m := loaded(t, seededStore(23))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 11})
	m = next.(BrowseModel)

	from, to := m.rows.VisibleRange()
	assert.Equal(t, 3, to-from)
	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 60, line)
	}
}
