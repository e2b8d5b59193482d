package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"habitfree/internal/poller"
	"habitfree/internal/streak"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "Habit Free"
	if m.username != "" {
		title += " · " + m.username
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case m.screen.State() == poller.Loading && m.fetchedAt.IsZero():
		b.WriteString(m.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.habitsView())
		if inbox := m.inboxView(); inbox != "" {
			b.WriteString("\n")
			b.WriteString(inbox)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// compactWidth is the terminal width below which streaks use the short label.
const compactWidth = 60

func (m Model) habitsView() string {
	compact := m.width > 0 && m.width < compactWidth

	var b strings.Builder
	for _, h := range m.habits {
		elapsed := streak.Elapsed(h.StartDatetime, m.clock)
		label := elapsed.Long()
		if compact {
			label = elapsed.String()
		}
		fmt.Fprintf(&b, "%s  %s\n", m.styles.Habit.Render(h.Name), m.styles.Elapsed.Render(label))
		if !m.showFacts {
			continue
		}
		if fact, ok := Fact(h.Name); ok {
			b.WriteString(m.styles.Fact.Render("  " + fact))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) inboxView() string {
	head, ok := m.queue.Current()
	if !ok {
		return ""
	}

	body := fmt.Sprintf("Scheduled message (%d waiting)\n\n%s\n\n%s",
		m.queue.Len(), head.Text, m.styles.Date.Render("Send on: "+head.SendDate))
	return m.styles.Inbox.Render(body)
}

func (m Model) statusView() string {
	if m.status != "" {
		if m.statusErr {
			return m.styles.Error.Render(m.status)
		}
		return m.styles.Status.Render(m.status)
	}
	if m.fetchedAt.IsZero() {
		return ""
	}
	return m.styles.Muted.Render("Updated " + humanize.RelTime(m.fetchedAt, m.clock, "ago", "from now"))
}
