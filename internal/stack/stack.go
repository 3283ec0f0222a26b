// Package stack awards habit-stack bonuses exactly once per stack per day.
package stack

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pillars/internal/clock"
	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/streak"
	"github.com/julianstephens/pillars/internal/utils"
)

// Store is the storage the calculator needs.
type Store interface {
	GetStackCompletion(ctx context.Context, stackID, day string) (models.StackCompletion, error)
	ListStackCompletionDays(ctx context.Context, stackID, beforeDay string, limit int) ([]string, error)
	InsertStackCompletion(ctx context.Context, sc models.StackCompletion) (bool, error)
	CountCompletedActivities(ctx context.Context, userID string, ids []string, start, end time.Time) (int, error)
}

// multiplierPercent is 100 + 5 per consecutive day after the first, capped at 150.
func multiplierPercent(streakDay int) int {
	if streakDay < 1 {
		streakDay = 1
	}
	pct := 100 + (streakDay-1)*int(constants.StackStreakStep*100)
	if limit := int(constants.StackMultiplierCap * 100); pct > limit {
		pct = limit
	}
	return pct
}

// Multiplier returns the bonus multiplier for a stack on its streakDay.
func Multiplier(streakDay int) float64 {
	return float64(multiplierPercent(streakDay)) / 100
}

// Bonus scales base by the streak multiplier, rounding halves up.
func Bonus(base, streakDay int) int {
	return (base*multiplierPercent(streakDay) + 50) / 100
}

// StreakDay is the stack's consecutive-day count including day, given the days
// it was completed before day.
func StreakDay(priorDays []string, day string) int {
	return streak.RunLength(streak.NewDaySet(priorDays...), utils.AddDays(day, -1), constants.StackHistoryLookback) + 1
}

type Calculator struct {
	store Store
	clock clock.Clock
}

func NewCalculator(store Store, c clock.Clock) *Calculator {
	if c == nil {
		c = clock.System{}
	}
	return &Calculator{store: store, clock: c}
}

// Complete records the stack's completion for day and returns it. created is
// false when the stack had already been completed that day, in which case the
// stored row is returned unchanged. pillar is where the bonus is counted.
func (c *Calculator) Complete(ctx context.Context, st models.HabitStack, day string, pillar models.Pillar) (sc models.StackCompletion, created bool, err error) {
	existing, err := c.store.GetStackCompletion(ctx, st.ID, day)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return models.StackCompletion{}, false, err
	}

	prior, err := c.store.ListStackCompletionDays(ctx, st.ID, day, constants.StackHistoryLookback)
	if err != nil {
		return models.StackCompletion{}, false, err
	}
	streakDay := StreakDay(prior, day)

	sc = models.StackCompletion{
		ID:                uuid.New().String(),
		StackID:           st.ID,
		UserID:            st.UserID,
		Day:               day,
		Pillar:            pillar,
		BonusPointsEarned: Bonus(st.CompletionBonus, streakDay),
		StreakDay:         streakDay,
		CreatedAt:         c.clock.Now(),
	}

	inserted, err := c.store.InsertStackCompletion(ctx, sc)
	if err != nil {
		return models.StackCompletion{}, false, err
	}
	if !inserted {
		// Lost a race; the winner's row is the answer
		winner, err := c.store.GetStackCompletion(ctx, st.ID, day)
		if err != nil {
			return models.StackCompletion{}, false, fmt.Errorf("failed to re-read stack completion: %w", err)
		}
		return winner, false, nil
	}
	return sc, true, nil
}

// IsCompleted reports whether every member activity has a completion in [start, end).
// It never awards a bonus.
func (c *Calculator) IsCompleted(ctx context.Context, st models.HabitStack, start, end time.Time) (bool, error) {
	if len(st.ActivityIDs) == 0 {
		return false, nil
	}
	distinct := make(map[string]struct{}, len(st.ActivityIDs))
	for _, id := range st.ActivityIDs {
		distinct[id] = struct{}{}
	}
	n, err := c.store.CountCompletedActivities(ctx, st.UserID, st.ActivityIDs, start, end)
	if err != nil {
		return false, err
	}
	return n >= len(distinct), nil
}
