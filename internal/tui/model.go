// Package tui is the terminal dashboard: habit streaks that tick every
// second and the inbox of messages whose date has arrived.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"habitfree/internal/config"
	"habitfree/internal/model"
	"habitfree/internal/poller"
)

// API is the part of the HTTP client the dashboard uses.
type API interface {
	poller.Source
	poller.Deleter
}

// Options configures the dashboard.
type Options struct {
	UserID     int64
	Username   string
	MinRefetch time.Duration
	Timeout    time.Duration
	Theme      config.ThemeConfig
	Now        func() time.Time
}

type Model struct {
	api      API
	userID   int64
	username string
	timeout  time.Duration
	now      func() time.Time

	debouncer *poller.Debouncer
	screen    poller.Screen
	habits    []model.Habit
	queue     *poller.DueQueue
	fetchedAt time.Time
	// clock is the instant the streaks are rendered at, advanced by ticks.
	clock time.Time

	status    string
	statusErr bool
	showFacts bool
	quitting  bool

	keys   KeyMap
	help   help.Model
	styles Styles
	width  int
}

// NewModel builds the dashboard.
func NewModel(api API, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return Model{
		api:       api,
		userID:    opts.UserID,
		username:  opts.Username,
		timeout:   timeout,
		now:       now,
		debouncer: poller.NewDebouncer(opts.MinRefetch, now),
		queue:     poller.NewDueQueue(opts.UserID, nil, ""),
		clock:     now(),
		showFacts: true,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		styles:    NewStyles(opts.Theme),
	}
}

type tickMsg time.Time

type fetchedMsg struct {
	snap poller.Snapshot
}

type fetchFailedMsg struct {
	err error
}

type dismissedMsg struct {
	id  int64
	err error
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetch() tea.Cmd {
	api, userID, timeout, now := m.api, m.userID, m.timeout, m.now
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := poller.Fetch(ctx, api, userID, now())
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return fetchedMsg{snap: snap}
	}
}

func (m Model) dismiss(id int64) tea.Cmd {
	api, userID, timeout := m.api, m.userID, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return dismissedMsg{id: id, err: api.DeleteMessage(ctx, userID, id)}
	}
}

func (m Model) Init() tea.Cmd {
	m.debouncer.Allow()
	return tea.Batch(m.fetch(), tick())
}
