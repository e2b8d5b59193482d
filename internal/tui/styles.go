package tui

import (
	"github.com/charmbracelet/lipgloss"

	"habitfree/internal/config"
)

// Styles is the dashboard palette rendered as lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Habit   lipgloss.Style
	Elapsed lipgloss.Style
	Fact    lipgloss.Style
	Inbox   lipgloss.Style
	Date    lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds Styles from the configured theme.
func NewStyles(theme config.ThemeConfig) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.PrimaryText)).
			Background(lipgloss.Color(theme.Primary)).
			Padding(0, 1).
			Bold(true),
		Habit: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)).
			Bold(true),
		Elapsed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.SecondaryText)),
		Fact: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)).
			Italic(true),
		Inbox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Secondary)).
			Padding(0, 1),
		Date: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Secondary)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.StatusText)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.DisabledText)),
	}
}
