package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := titleStyle.Render("Pillars")
	if snap := m.dashboard.Snapshot; snap != nil {
		title = titleStyle.Render("Pillars · " + snap.Day)
	}

	status := ""
	switch {
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.err.Error())
	case m.message != "":
		status = messageStyle.Render(m.message)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		panelStyle.Render(m.dashboard.View()),
		m.activities.View(),
		status,
		m.help.View(m.keys),
	)
}
