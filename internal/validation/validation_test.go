package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	perrors "github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
)

func TestValidateActivity(t *testing.T) {
	v := New()
	other := models.Activity{ID: uuid.New().String(), Name: "Coffee", Pillar: models.PillarBody, Points: 5}
	owned := map[string]models.Activity{other.ID: other}

	base := models.Activity{ID: uuid.New().String(), Name: "Run", Pillar: models.PillarBody, Points: 40}

	tests := []struct {
		name    string
		mutate  func(a *models.Activity)
		wantErr bool
	}{
		{"valid", func(a *models.Activity) {}, false},
		{"empty name", func(a *models.Activity) { a.Name = "  " }, true},
		{"bad pillar", func(a *models.Activity) { a.Pillar = "SOUL" }, true},
		{"zero points", func(a *models.Activity) { a.Points = 0 }, true},
		{"too many points", func(a *models.Activity) { a.Points = 101 }, true},
		{"max points", func(a *models.Activity) { a.Points = 100 }, false},
		{"time cue", func(a *models.Activity) { a.Cue = &models.Cue{Type: models.CueTime, Value: "06:30"} }, false},
		{"bad time cue", func(a *models.Activity) { a.Cue = &models.Cue{Type: models.CueTime, Value: "6.30am"} }, true},
		{"location cue", func(a *models.Activity) { a.Cue = &models.Cue{Type: models.CueLocation, Value: "gym"} }, false},
		{"empty location cue", func(a *models.Activity) { a.Cue = &models.Cue{Type: models.CueLocation, Value: ""} }, true},
		{"after cue", func(a *models.Activity) { a.Cue = &models.Cue{Type: models.CueAfter, Value: other.ID} }, false},
		{"after cue not uuid", func(a *models.Activity) { a.Cue = &models.Cue{Type: models.CueAfter, Value: "coffee"} }, true},
		{"after cue unknown", func(a *models.Activity) { a.Cue = &models.Cue{Type: models.CueAfter, Value: uuid.New().String()} }, true},
		{"after cue self", func(a *models.Activity) { a.Cue = &models.Cue{Type: models.CueAfter, Value: a.ID} }, true},
		{"unknown cue type", func(a *models.Activity) { a.Cue = &models.Cue{Type: "weather", Value: "rain"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base
			tt.mutate(&a)
			err := v.ValidateActivity(a, owned)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateActivity() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, perrors.ErrValidation) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestValidateStack(t *testing.T) {
	v := New()
	archivedAt := time.Now()
	a := models.Activity{ID: "a", Name: "Meditate", Pillar: models.PillarMind, Points: 20}
	b := models.Activity{ID: "b", Name: "Journal", Pillar: models.PillarMind, Points: 20}
	c := models.Activity{ID: "c", Name: "Old", Pillar: models.PillarMind, Points: 20, ArchivedAt: &archivedAt}
	found := map[string]models.Activity{"a": a, "b": b, "c": c}

	tests := []struct {
		name    string
		stack   models.HabitStack
		wantErr error
	}{
		{"valid", models.HabitStack{Name: "Morning", ActivityIDs: []string{"a", "b"}, CompletionBonus: 20}, nil},
		{"single activity", models.HabitStack{Name: "Morning", ActivityIDs: []string{"a"}}, perrors.ErrValidation},
		{"duplicate activity", models.HabitStack{Name: "Morning", ActivityIDs: []string{"a", "a"}}, perrors.ErrValidation},
		{"archived member", models.HabitStack{Name: "Morning", ActivityIDs: []string{"a", "c"}}, perrors.ErrValidation},
		{"foreign member", models.HabitStack{Name: "Morning", ActivityIDs: []string{"a", "zzz"}}, perrors.ErrNotFound},
		{"negative bonus", models.HabitStack{Name: "Morning", ActivityIDs: []string{"a", "b"}, CompletionBonus: -1}, perrors.ErrValidation},
		{"empty name", models.HabitStack{ActivityIDs: []string{"a", "b"}}, perrors.ErrValidation},
		{
			"bad cue",
			models.HabitStack{Name: "Morning", ActivityIDs: []string{"a", "b"}, Cue: &models.Cue{Type: models.CueTime, Value: "25:00"}},
			perrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStack(tt.stack, found)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateStack() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
