package sqldb

import (
	"context"
	"fmt"

	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/utils"
)

// UnlockAchievement records an achievement once per (user, type). unlocked is
// false when the user already held it.
func (s *Store) UnlockAchievement(ctx context.Context, a models.Achievement) (unlocked bool, err error) {
	res, err := s.exec(ctx, s.db, `
		INSERT INTO achievements (id, user_id, type, unlocked_at) VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		a.ID, a.UserID, a.Type, utils.FormatTimestamp(a.UnlockedAt))
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	return rowsAffected(res)
}

func (s *Store) ListAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	rows, err := s.query(ctx, s.db, `SELECT id, user_id, type, unlocked_at FROM achievements
		WHERE user_id = ? ORDER BY unlocked_at, type`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		var a models.Achievement
		var unlockedAt string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &unlockedAt); err != nil {
			return nil, err
		}
		if a.UnlockedAt, err = utils.ParseTimestamp(unlockedAt); err != nil {
			return nil, fmt.Errorf("failed to parse unlocked_at for achievement %s: %w", a.Type, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
