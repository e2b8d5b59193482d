package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"habitfree/internal/model"
	"habitfree/internal/poller"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tickMsg:
		// Streaks advance locally; the server is not contacted.
		m.clock = m.now()
		return m, tick()

	case fetchedMsg:
		_ = m.screen.Succeed()
		m.habits = msg.snap.Habits
		m.fetchedAt = msg.snap.FetchedAt
		m.queue = poller.NewDueQueue(m.userID, msg.snap.Messages, model.Today(msg.snap.FetchedAt))
		m.setStatus("", false)
		if len(m.habits) == 0 {
			m.setStatus("No habits found", false)
		}

	case fetchFailedMsg:
		_ = m.screen.Fail(msg.err)
		m.setStatus("Network error: "+msg.err.Error(), true)

	case dismissedMsg:
		if msg.err != nil {
			m.setStatus("Could not dismiss message: "+msg.err.Error(), true)
			break
		}
		m.queue.Pop(msg.id)
		m.setStatus("", false)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.screen.State() == poller.Loading {
				break
			}
			if !m.debouncer.Allow() {
				m.setStatus("Please wait before refreshing", false)
				break
			}
			_ = m.screen.Reload()
			return m, m.fetch()
		case key.Matches(msg, m.keys.Dismiss):
			if head, ok := m.queue.Current(); ok {
				return m, m.dismiss(head.ID)
			}
		case key.Matches(msg, m.keys.Facts):
			m.showFacts = !m.showFacts
		}
	}

	return m, nil
}

func (m *Model) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}
