package sqldb

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/utils"
)

// ScoreFunc derives a day's score from everything recorded for it.
type ScoreFunc func(completions []models.ActivityCompletion, stacks []models.StackCompletion) models.DailyScore

// StreakFunc computes the next streak state from the current one.
type StreakFunc func(current models.Streak) (models.Streak, error)

const dailyScoreColumns = `user_id, day, body_points, mind_points, body_score, mind_score,
	balance_index, body_complete, mind_complete, updated_at`

func scanDailyScore(row scanner) (models.DailyScore, error) {
	var d models.DailyScore
	var updatedAt string
	if err := row.Scan(&d.UserID, &d.Day, &d.BodyPoints, &d.MindPoints, &d.BodyScore, &d.MindScore,
		&d.BalanceIndex, &d.BodyComplete, &d.MindComplete, &updatedAt); err != nil {
		return models.DailyScore{}, err
	}
	t, err := utils.ParseTimestamp(updatedAt)
	if err != nil {
		return models.DailyScore{}, fmt.Errorf("failed to parse updated_at for score %s: %w", d.Day, err)
	}
	d.UpdatedAt = t
	return d, nil
}

func (s *Store) GetDailyScore(ctx context.Context, userID, day string) (models.DailyScore, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+dailyScoreColumns+` FROM daily_scores WHERE user_id = ? AND day = ?`, userID, day)
	d, err := scanDailyScore(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.DailyScore{}, errors.NotFound("daily score", day)
	}
	return d, err
}

// ListDailyScores returns scores for days in [from, to], oldest first.
func (s *Store) ListDailyScores(ctx context.Context, userID, from, to string) ([]models.DailyScore, error) {
	rows, err := s.query(ctx, s.db, `SELECT `+dailyScoreColumns+` FROM daily_scores
		WHERE user_id = ? AND day >= ? AND day <= ? ORDER BY day`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily scores: %w", err)
	}
	defer rows.Close()

	var scores []models.DailyScore
	for rows.Next() {
		d, err := scanDailyScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, d)
	}
	return scores, rows.Err()
}

// RecomputeDailyScore rebuilds the score for day from the completions in
// [start, end) and the day's stack bonuses. The read and the write happen
// under the score row's lock so concurrent recomputes cannot lose a completion.
func (s *Store) RecomputeDailyScore(ctx context.Context, userID, day string, start, end time.Time, compute ScoreFunc) (models.DailyScore, error) {
	var result models.DailyScore
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := utils.FormatTimestamp(time.Now())
		if _, err := s.exec(ctx, tx, `
			INSERT INTO daily_scores (user_id, day, updated_at) VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING`, userID, day, now); err != nil {
			return fmt.Errorf("failed to seed daily score: %w", err)
		}
		var locked string
		if err := s.queryRow(ctx, tx, `SELECT day FROM daily_scores WHERE user_id = ? AND day = ?`+s.dialect.LockSuffix,
			userID, day).Scan(&locked); err != nil {
			return fmt.Errorf("failed to lock daily score: %w", err)
		}

		completions, err := s.listCompletions(ctx, tx, userID, start, end)
		if err != nil {
			return err
		}
		stacks, err := s.listStackCompletions(ctx, tx, userID, day)
		if err != nil {
			return err
		}

		result = compute(completions, stacks)
		result.UserID = userID
		result.Day = day
		if result.UpdatedAt.IsZero() {
			result.UpdatedAt = time.Now()
		}

		_, err = s.exec(ctx, tx, `
			UPDATE daily_scores SET body_points = ?, mind_points = ?, body_score = ?, mind_score = ?,
				balance_index = ?, body_complete = ?, mind_complete = ?, updated_at = ?
			WHERE user_id = ? AND day = ?`,
			result.BodyPoints, result.MindPoints, result.BodyScore, result.MindScore,
			result.BalanceIndex, result.BodyComplete, result.MindComplete, utils.FormatTimestamp(result.UpdatedAt),
			userID, day)
		if err != nil {
			return fmt.Errorf("failed to save daily score: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.DailyScore{}, err
	}
	return result, nil
}

const streakColumns = `user_id, pillar_key, current_count, longest_count, last_active_date, updated_at`

func scanStreak(row scanner) (models.Streak, error) {
	var st models.Streak
	var key, updatedAt string
	var lastActive sql.NullString
	if err := row.Scan(&st.UserID, &key, &st.Current, &st.Longest, &lastActive, &updatedAt); err != nil {
		return models.Streak{}, err
	}
	st.PillarKey = models.PillarKey(key)
	st.LastActiveDate = lastActive.String
	t, err := utils.ParseTimestamp(updatedAt)
	if err != nil {
		return models.Streak{}, fmt.Errorf("failed to parse updated_at for streak %s: %w", key, err)
	}
	st.UpdatedAt = t
	return st, nil
}

// GetStreak returns the stored streak, or a zero streak if none has been written.
func (s *Store) GetStreak(ctx context.Context, userID string, key models.PillarKey) (models.Streak, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+streakColumns+` FROM streaks WHERE user_id = ? AND pillar_key = ?`,
		userID, string(key))
	st, err := scanStreak(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.Streak{UserID: userID, PillarKey: key}, nil
	}
	if err != nil {
		return models.Streak{}, fmt.Errorf("failed to get streak: %w", err)
	}
	return st, nil
}

// ListStreaks returns one streak per pillar key, filling in zero streaks for
// keys that have never been written.
func (s *Store) ListStreaks(ctx context.Context, userID string) ([]models.Streak, error) {
	rows, err := s.query(ctx, s.db, `SELECT `+streakColumns+` FROM streaks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list streaks: %w", err)
	}
	defer rows.Close()

	byKey := make(map[models.PillarKey]models.Streak)
	for rows.Next() {
		st, err := scanStreak(rows)
		if err != nil {
			return nil, err
		}
		byKey[st.PillarKey] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	streaks := make([]models.Streak, 0, len(models.PillarKeys))
	for _, key := range models.PillarKeys {
		st, ok := byKey[key]
		if !ok {
			st = models.Streak{UserID: userID, PillarKey: key}
		}
		streaks = append(streaks, st)
	}
	return streaks, nil
}

// UpdateStreak applies fn to the streak row under lock and stores the result.
// An error from fn aborts the update and is returned unchanged.
func (s *Store) UpdateStreak(ctx context.Context, userID string, key models.PillarKey, fn StreakFunc) (models.Streak, error) {
	var result models.Streak
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now()
		if _, err := s.exec(ctx, tx, `
			INSERT INTO streaks (user_id, pillar_key, updated_at) VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING`, userID, string(key), utils.FormatTimestamp(now)); err != nil {
			return fmt.Errorf("failed to seed streak: %w", err)
		}

		current, err := scanStreak(s.queryRow(ctx, tx, `SELECT `+streakColumns+` FROM streaks
			WHERE user_id = ? AND pillar_key = ?`+s.dialect.LockSuffix, userID, string(key)))
		if err != nil {
			return fmt.Errorf("failed to lock streak: %w", err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		next.UserID = userID
		next.PillarKey = key
		next.UpdatedAt = now

		_, err = s.exec(ctx, tx, `
			UPDATE streaks SET current_count = ?, longest_count = ?, last_active_date = ?, updated_at = ?
			WHERE user_id = ? AND pillar_key = ?`,
			next.Current, next.Longest, nullString(next.LastActiveDate), utils.FormatTimestamp(now),
			userID, string(key))
		if err != nil {
			return fmt.Errorf("failed to save streak: %w", err)
		}
		result = next
		return nil
	})
	if err != nil {
		return models.Streak{}, err
	}
	return result, nil
}
