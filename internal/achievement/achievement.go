// Package achievement unlocks streak milestones. Unlocking is best-effort: a
// failed write is logged and never fails the streak update that caused it.
package achievement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/pillars/internal/clock"
	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/logger"
	"github.com/julianstephens/pillars/internal/models"
)

type Store interface {
	UnlockAchievement(ctx context.Context, a models.Achievement) (bool, error)
}

// StreakType names the achievement for an OVERALL streak milestone.
func StreakType(milestone int) string {
	return fmt.Sprintf("streak_%d", milestone)
}

// Reached returns the milestones at or below current, ascending.
func Reached(current int) []int {
	var out []int
	for _, m := range constants.StreakMilestones {
		if m > current {
			break
		}
		out = append(out, m)
	}
	return out
}

type Unlocker struct {
	store Store
	clock clock.Clock
}

func NewUnlocker(store Store, c clock.Clock) *Unlocker {
	if c == nil {
		c = clock.System{}
	}
	return &Unlocker{store: store, clock: c}
}

// Unlock attempts every milestone reached by current and returns the types
// that were newly unlocked. Milestones the user already holds are no-ops.
func (u *Unlocker) Unlock(ctx context.Context, userID string, current int) []string {
	var unlocked []string
	for _, m := range Reached(current) {
		a := models.Achievement{
			ID:         uuid.New().String(),
			UserID:     userID,
			Type:       StreakType(m),
			UnlockedAt: u.clock.Now(),
		}
		created, err := u.store.UnlockAchievement(ctx, a)
		if err != nil {
			logger.Warn("Failed to unlock achievement", "user", userID, "type", a.Type, "error", err)
			continue
		}
		if created {
			logger.Info("Achievement unlocked", "user", userID, "type", a.Type)
			unlocked = append(unlocked, a.Type)
		}
	}
	return unlocked
}
