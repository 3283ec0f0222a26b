// Package tui is the interactive dashboard for today's progress.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pillars/internal/engine"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/status"
	"github.com/julianstephens/pillars/internal/tui/components/activitylist"
	"github.com/julianstephens/pillars/internal/tui/components/dashboard"
)

const refreshInterval = time.Minute

// Engine is the subset of the engine the dashboard drives.
type Engine interface {
	GetDailyStatus(ctx context.Context, userID, day string) (status.Snapshot, error)
	ListActivities(ctx context.Context, userID string, includeArchived bool) ([]models.Activity, error)
	RecordCompletion(ctx context.Context, userID string, req engine.CompletionRequest) (engine.CompletionResult, error)
}

type loadedMsg struct {
	snapshot   status.Snapshot
	activities []models.Activity
	err        error
}

type loggedMsg struct {
	activity models.Activity
	result   engine.CompletionResult
	err      error
}

type tickMsg time.Time

type Model struct {
	ctx        context.Context
	engine     Engine
	userID     string
	keys       KeyMap
	help       help.Model
	dashboard  dashboard.Model
	activities activitylist.Model
	message    string
	err        error
	quitting   bool
	width      int
	height     int
}

func NewModel(ctx context.Context, e Engine, userID string) Model {
	return Model{
		ctx:        ctx,
		engine:     e,
		userID:     userID,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		dashboard:  dashboard.New(0),
		activities: activitylist.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.engine.GetDailyStatus(m.ctx, m.userID, "")
		if err != nil {
			return loadedMsg{err: err}
		}
		activities, err := m.engine.ListActivities(m.ctx, m.userID, false)
		return loadedMsg{snapshot: snap, activities: activities, err: err}
	}
}

func (m Model) logActivity(a models.Activity) tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.RecordCompletion(m.ctx, m.userID, engine.CompletionRequest{ActivityID: a.ID})
		return loggedMsg{activity: a, result: res, err: err}
	}
}

// completedToday marks activities with at least one completion in the snapshot.
func completedToday(snap status.Snapshot) map[string]bool {
	done := make(map[string]bool, len(snap.Completions))
	for _, c := range snap.Completions {
		done[c.ActivityID] = true
	}
	return done
}
