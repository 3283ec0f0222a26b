package engine

import (
	"context"
	"fmt"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/logger"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/status"
	"github.com/julianstephens/pillars/internal/streak"
	"github.com/julianstephens/pillars/internal/utils"
)

// GetDailyStatus composes the snapshot for day, or today when day is empty.
func (e *Engine) GetDailyStatus(ctx context.Context, userID, day string) (status.Snapshot, error) {
	day = e.dayOrToday(day)
	start, end, err := utils.DayBounds(day, e.loc)
	if err != nil {
		return status.Snapshot{}, errors.Invalid("day", "%v", err)
	}

	completions, err := e.store.ListCompletions(ctx, userID, start, end)
	if err != nil {
		return status.Snapshot{}, fmt.Errorf("failed to list completions: %w", err)
	}
	stacks, err := e.store.ListStackCompletions(ctx, userID, day)
	if err != nil {
		return status.Snapshot{}, fmt.Errorf("failed to list stack completions: %w", err)
	}
	streaks, err := e.store.ListStreaks(ctx, userID)
	if err != nil {
		return status.Snapshot{}, fmt.Errorf("failed to list streaks: %w", err)
	}

	var vendor *models.VendorSnapshot
	snap, err := e.snapshots.Get(ctx, userID)
	switch {
	case err == nil:
		vendor = &snap
	case !errors.Is(err, errors.ErrNotFound):
		logger.Warn("Vendor snapshot unavailable", "user", userID, "error", err)
	}

	return status.Compose(status.Input{
		UserID:      userID,
		Day:         day,
		Now:         e.clock.Now(),
		Location:    e.loc,
		Completions: completions,
		Stacks:      stacks,
		Streaks:     streaks,
		Vendor:      vendor,
	})
}

// GetStreak returns the streak as it stands today; a streak whose last active
// date is before yesterday reads as zero.
func (e *Engine) GetStreak(ctx context.Context, userID string, key models.PillarKey) (models.Streak, error) {
	switch key {
	case models.KeyBody, models.KeyMind, models.KeyOverall:
	default:
		return models.Streak{}, errors.Invalid("pillar", "%q must be BODY, MIND or OVERALL", key)
	}
	s, err := e.store.GetStreak(ctx, userID, key)
	if err != nil {
		return models.Streak{}, err
	}
	return streak.Effective(s, e.Today()), nil
}

// History returns stored scores for the last days days, today included.
func (e *Engine) History(ctx context.Context, userID string, days int) ([]models.DailyScore, error) {
	if days < 1 {
		return nil, errors.Invalid("days", "%d must be at least 1", days)
	}
	today := e.Today()
	return e.store.ListDailyScores(ctx, userID, utils.AddDays(today, -(days-1)), today)
}

func (e *Engine) ListAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	return e.store.ListAchievements(ctx, userID)
}
