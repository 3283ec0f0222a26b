package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/logger"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/points"
	"github.com/julianstephens/pillars/internal/status"
	"github.com/julianstephens/pillars/internal/streak"
	"github.com/julianstephens/pillars/internal/utils"
)

// CompletionRequest is a manually logged activity.
type CompletionRequest struct {
	ActivityID string
	// Points overrides the activity's default points when set.
	Points *int
	// CompletedAt backdates the completion; zero means now.
	CompletedAt time.Time
	Details     map[string]interface{}
}

// DayResult is the state of a day after a write touched it.
type DayResult struct {
	Score   models.DailyScore `json:"score"`
	Streaks []models.Streak   `json:"streaks"`
}

type CompletionResult struct {
	Completion models.ActivityCompletion `json:"completion"`
	DayResult
}

// RecordCompletion appends a completion and folds it into the day's score
// and the user's streaks.
func (e *Engine) RecordCompletion(ctx context.Context, userID string, req CompletionRequest) (CompletionResult, error) {
	activity, err := e.store.GetActivity(ctx, userID, req.ActivityID)
	if err != nil {
		return CompletionResult{}, err
	}
	if activity.Archived() {
		return CompletionResult{}, errors.Invalid("activity", "%q is archived", activity.Name)
	}

	earned := activity.Points
	if req.Points != nil {
		if *req.Points < 0 {
			return CompletionResult{}, errors.Invalid("points", "%d cannot be negative", *req.Points)
		}
		earned = *req.Points
	}

	now := e.clock.Now()
	completedAt := req.CompletedAt
	if completedAt.IsZero() {
		completedAt = now
	}
	if completedAt.After(now) {
		return CompletionResult{}, errors.Invalid("completed_at", "%s is in the future", completedAt.Format(time.RFC3339))
	}

	details := ""
	if len(req.Details) > 0 {
		raw, err := json.Marshal(req.Details)
		if err != nil {
			return CompletionResult{}, errors.Invalid("details", "%v", err)
		}
		details = string(raw)
	}

	c := models.ActivityCompletion{
		ID:           uuid.New().String(),
		UserID:       userID,
		ActivityID:   activity.ID,
		Pillar:       activity.Pillar,
		PointsEarned: earned,
		CompletedAt:  completedAt,
		Source:       models.SourceManual,
		Details:      details,
		CreatedAt:    now,
	}
	if _, err := e.store.InsertCompletion(ctx, c); err != nil {
		return CompletionResult{}, fmt.Errorf("failed to record completion: %w", err)
	}
	logger.Debug("Completion recorded", "user", userID, "activity", activity.Name, "points", earned)

	day, err := e.applyDay(ctx, userID, utils.DayOf(completedAt, e.loc))
	if err != nil {
		return CompletionResult{Completion: c}, err
	}
	return CompletionResult{Completion: c, DayResult: day}, nil
}

func (e *Engine) computeScore(userID, day string, start, end time.Time) func([]models.ActivityCompletion, []models.StackCompletion) models.DailyScore {
	return func(completions []models.ActivityCompletion, stacks []models.StackCompletion) models.DailyScore {
		return points.Score(userID, day, status.Entries(completions, stacks, start), start, end)
	}
}

// RecomputeDay re-derives a day's score from its completions and stack bonuses.
func (e *Engine) RecomputeDay(ctx context.Context, userID, day string) (models.DailyScore, error) {
	day = e.dayOrToday(day)
	start, end, err := utils.DayBounds(day, e.loc)
	if err != nil {
		return models.DailyScore{}, errors.Invalid("day", "%v", err)
	}
	score, err := e.store.RecomputeDailyScore(ctx, userID, day, start, end, e.computeScore(userID, day, start, end))
	if err != nil {
		return models.DailyScore{}, fmt.Errorf("failed to recompute score for %s: %w", day, err)
	}
	return score, nil
}

// applyDay recomputes day's score, advances every streak with it and hands
// milestone checks to the dispatcher.
func (e *Engine) applyDay(ctx context.Context, userID, day string) (DayResult, error) {
	score, err := e.RecomputeDay(ctx, userID, day)
	if err != nil {
		return DayResult{}, err
	}

	result := DayResult{Score: score}
	for _, key := range models.PillarKeys {
		s, err := e.advanceStreak(ctx, userID, key, day, points.Complete(score, key))
		if err != nil {
			return result, err
		}
		result.Streaks = append(result.Streaks, s)
	}

	overall := result.Streaks[len(result.Streaks)-1]
	if overall.Current > 0 {
		current := overall.Current
		e.dispatcher.Submit(func(ctx context.Context) {
			e.unlocker.Unlock(ctx, userID, current)
		})
	}
	return result, nil
}

func (e *Engine) advanceStreak(ctx context.Context, userID string, key models.PillarKey, day string, complete bool) (models.Streak, error) {
	s, err := e.store.UpdateStreak(ctx, userID, key, func(cur models.Streak) (models.Streak, error) {
		return streak.Advance(cur, day, complete)
	})
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, errors.ErrOutOfOrder) {
		return models.Streak{}, fmt.Errorf("failed to update %s streak: %w", key, err)
	}
	// Backdated days never rewrite a streak that has moved past them
	logger.Info("Skipping streak update for past day", "user", userID, "streak", key, "day", day)
	return e.store.GetStreak(ctx, userID, key)
}
