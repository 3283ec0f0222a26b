package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/logger"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/utils"
)

type StackResult struct {
	Completion models.StackCompletion `json:"completion"`
	// Created is false when the stack had already been completed that day.
	Created bool `json:"created"`
	// AutoTriggered lists the member activities logged on the user's behalf.
	AutoTriggered []string `json:"auto_triggered,omitempty"`
	DayResult
}

func (e *Engine) AddStack(ctx context.Context, userID string, st models.HabitStack) (models.HabitStack, error) {
	st.ID = uuid.New().String()
	st.UserID = userID
	st.Active = true
	st.CreatedAt = e.clock.Now()
	if err := e.validateStack(ctx, st); err != nil {
		return models.HabitStack{}, err
	}
	if err := e.store.AddStack(ctx, st); err != nil {
		return models.HabitStack{}, fmt.Errorf("failed to add stack: %w", err)
	}
	return st, nil
}

// UpdateStack replaces a stack's name, members, bonus and cue.
func (e *Engine) UpdateStack(ctx context.Context, userID string, st models.HabitStack) (models.HabitStack, error) {
	existing, err := e.store.GetStack(ctx, userID, st.ID)
	if err != nil {
		return models.HabitStack{}, err
	}
	st.UserID = existing.UserID
	st.Active = existing.Active
	st.CreatedAt = existing.CreatedAt
	if err := e.validateStack(ctx, st); err != nil {
		return models.HabitStack{}, err
	}
	if err := e.store.UpdateStack(ctx, st); err != nil {
		return models.HabitStack{}, fmt.Errorf("failed to update stack: %w", err)
	}
	return st, nil
}

func (e *Engine) validateStack(ctx context.Context, st models.HabitStack) error {
	found, err := e.store.GetActivities(ctx, st.UserID, st.ActivityIDs)
	if err != nil {
		return err
	}
	return e.validator.ValidateStack(st, found)
}

func (e *Engine) GetStack(ctx context.Context, userID, id string) (models.HabitStack, error) {
	return e.store.GetStack(ctx, userID, id)
}

func (e *Engine) ListStacks(ctx context.Context, userID string, includeInactive bool) ([]models.HabitStack, error) {
	return e.store.ListStacks(ctx, userID, includeInactive)
}

func (e *Engine) DeactivateStack(ctx context.Context, userID, id string) error {
	return e.store.DeactivateStack(ctx, userID, id)
}

// ExecuteStack completes a stack for today. Members not yet done today are
// logged as AUTO_TRIGGER completions, then the bonus is awarded once. Repeat
// calls on the same day return the stored completion.
func (e *Engine) ExecuteStack(ctx context.Context, userID, stackID string) (StackResult, error) {
	st, err := e.store.GetStack(ctx, userID, stackID)
	if err != nil {
		return StackResult{}, err
	}
	if !st.Active {
		return StackResult{}, errors.Invalid("stack", "%q is inactive", st.Name)
	}

	day := e.Today()
	existing, err := e.store.GetStackCompletion(ctx, st.ID, day)
	if err == nil {
		score, err := e.store.GetDailyScore(ctx, userID, day)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return StackResult{}, err
		}
		streaks, err := e.store.ListStreaks(ctx, userID)
		if err != nil {
			return StackResult{}, err
		}
		return StackResult{Completion: existing, DayResult: DayResult{Score: score, Streaks: streaks}}, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return StackResult{}, err
	}

	members, err := e.store.GetActivities(ctx, userID, st.ActivityIDs)
	if err != nil {
		return StackResult{}, err
	}
	for _, id := range st.ActivityIDs {
		a, ok := members[id]
		if !ok {
			return StackResult{}, errors.NotFound("activity", id)
		}
		if a.Archived() {
			return StackResult{}, errors.Invalid("stack", "member %q is archived", a.Name)
		}
	}

	start, end, err := utils.DayBounds(day, e.loc)
	if err != nil {
		return StackResult{}, err
	}
	done, err := e.store.CompletedActivityIDs(ctx, userID, st.ActivityIDs, start, end)
	if err != nil {
		return StackResult{}, err
	}

	var triggered []string
	now := e.clock.Now()
	for _, id := range st.ActivityIDs {
		if done[id] {
			continue
		}
		a := members[id]
		// The external key makes a concurrent execute of the same stack a no-op
		inserted, err := e.store.InsertCompletion(ctx, models.ActivityCompletion{
			ID:           uuid.New().String(),
			UserID:       userID,
			ActivityID:   a.ID,
			Pillar:       a.Pillar,
			PointsEarned: a.Points,
			CompletedAt:  now,
			Source:       models.SourceAutoTrigger,
			Details:      fmt.Sprintf(`{"stack_id":%q}`, st.ID),
			ExternalID:   st.ID + ":" + day,
			RecordType:   a.ID,
			CreatedAt:    now,
		})
		if err != nil {
			return StackResult{}, fmt.Errorf("failed to auto-complete %q: %w", a.Name, err)
		}
		if inserted {
			triggered = append(triggered, a.ID)
		}
	}

	sc, created, err := e.stacks.Complete(ctx, st, day, members[st.ActivityIDs[0]].Pillar)
	if err != nil {
		return StackResult{}, fmt.Errorf("failed to complete stack: %w", err)
	}
	if created {
		logger.Info("Stack completed", "user", userID, "stack", st.Name, "bonus", sc.BonusPointsEarned, "streak_day", sc.StreakDay)
	}

	dayResult, err := e.applyDay(ctx, userID, day)
	if err != nil {
		return StackResult{Completion: sc, Created: created, AutoTriggered: triggered}, err
	}
	return StackResult{Completion: sc, Created: created, AutoTriggered: triggered, DayResult: dayResult}, nil
}

// IsStackCompleted reports whether every member was completed on day. It is
// read-only and never awards a bonus.
func (e *Engine) IsStackCompleted(ctx context.Context, userID, stackID, day string) (bool, error) {
	st, err := e.store.GetStack(ctx, userID, stackID)
	if err != nil {
		return false, err
	}
	day = e.dayOrToday(day)
	start, end, err := utils.DayBounds(day, e.loc)
	if err != nil {
		return false, errors.Invalid("day", "%v", err)
	}
	return e.stacks.IsCompleted(ctx, st, start, end)
}
