package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pillars/internal/tui/components/activitylist"
)

// dashboardHeight is the rows reserved above the activity list.
const dashboardHeight = 16

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dashboard.SetWidth(msg.Width)
		m.activities.SetSize(msg.Width-4, max(msg.Height-dashboardHeight, 4))
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.dashboard.SetSnapshot(msg.snapshot)
		m.activities.SetActivities(msg.activities, completedToday(msg.snapshot))
		return m, nil

	case loggedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.message = fmt.Sprintf("Logged %s (+%d)", msg.activity.Name, msg.result.Completion.PointsEarned)
		return m, m.load()

	case tickMsg:
		return m, tea.Batch(m.load(), tick())

	case activitylist.LogActivityMsg:
		return m, m.logActivity(msg.Activity)

	case tea.KeyMsg:
		if !m.activities.Filtering() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Refresh):
				m.message = ""
				return m, m.load()
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.activities, cmd = m.activities.Update(msg)
	return m, cmd
}
