package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pillars/internal/engine"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/status"
	"github.com/julianstephens/pillars/internal/tui/components/activitylist"
)

type fakeEngine struct {
	snap   status.Snapshot
	logged []string
	err    error
}

func (f *fakeEngine) GetDailyStatus(context.Context, string, string) (status.Snapshot, error) {
	return f.snap, f.err
}

func (f *fakeEngine) ListActivities(context.Context, string, bool) ([]models.Activity, error) {
	return []models.Activity{{ID: "a1", Name: "Run", Pillar: models.PillarBody, Points: 30}}, nil
}

func (f *fakeEngine) RecordCompletion(_ context.Context, _ string, req engine.CompletionRequest) (engine.CompletionResult, error) {
	f.logged = append(f.logged, req.ActivityID)
	return engine.CompletionResult{Completion: models.ActivityCompletion{ActivityID: req.ActivityID, PointsEarned: 30}}, f.err
}

func TestUpdate_LoadPopulatesDashboard(t *testing.T) {
	fe := &fakeEngine{snap: status.Snapshot{Day: "2026-03-10"}}
	m := NewModel(context.Background(), fe, "u1")

	msg := m.load()()
	next, _ := m.Update(msg)
	got := next.(Model)
	if got.dashboard.Snapshot == nil || got.dashboard.Snapshot.Day != "2026-03-10" {
		t.Fatalf("dashboard snapshot not set: %+v", got.dashboard.Snapshot)
	}
	if got.err != nil {
		t.Errorf("unexpected error: %v", got.err)
	}
}

func TestUpdate_LogActivityRecordsAndReloads(t *testing.T) {
	fe := &fakeEngine{}
	m := NewModel(context.Background(), fe, "u1")

	_, cmd := m.Update(activitylist.LogActivityMsg{Activity: models.Activity{ID: "a1", Name: "Run"}})
	if cmd == nil {
		t.Fatal("expected a command to log the activity")
	}
	logged := cmd()
	if len(fe.logged) != 1 || fe.logged[0] != "a1" {
		t.Fatalf("logged = %v, want [a1]", fe.logged)
	}

	next, reload := m.Update(logged)
	if reload == nil {
		t.Error("expected a reload after logging")
	}
	if got := next.(Model).message; got != "Logged Run (+30)" {
		t.Errorf("message = %q", got)
	}
}

func TestUpdate_ErrorsAreShown(t *testing.T) {
	fe := &fakeEngine{err: errors.New("boom")}
	m := NewModel(context.Background(), fe, "u1")

	next, _ := m.Update(m.load()())
	if next.(Model).err == nil {
		t.Fatal("expected load error to be kept")
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := NewModel(context.Background(), &fakeEngine{}, "u1")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(Model).quitting || cmd == nil {
		t.Error("q should quit")
	}
}
