package activitylist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pillars/internal/models"
)

// LogActivityMsg asks the parent to record a completion of the activity.
type LogActivityMsg struct {
	Activity models.Activity
}

type Item struct {
	Activity models.Activity
	Done     bool
}

func (i Item) Title() string {
	if i.Done {
		return "✓ " + i.Activity.Name
	}
	return i.Activity.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %d pts", i.Activity.Pillar, i.Activity.Points)
	if i.Activity.SubCategory != "" {
		desc += " | " + i.Activity.SubCategory
	}
	return desc
}

func (i Item) FilterValue() string { return i.Activity.Name }

type KeyMap struct {
	Log key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Log: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Activities"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Log}
	}
	return Model{list: l, keys: keys}
}

// SetActivities replaces the items; done marks activities completed today.
func (m *Model) SetActivities(activities []models.Activity, done map[string]bool) {
	items := make([]list.Item, 0, len(activities))
	for _, a := range activities {
		items = append(items, Item{Activity: a, Done: done[a.ID]})
	}
	m.list.SetItems(items)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Log) {
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return LogActivityMsg{Activity: i.Activity} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Filtering reports whether the list is capturing keystrokes for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No activities yet.\n  Add one with 'pillars activity add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
