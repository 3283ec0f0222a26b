package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/utils"
)

const stackColumns = `id, user_id, name, activity_ids, completion_bonus, cue_type, cue_value, active, created_at`

func scanStack(row scanner) (models.HabitStack, error) {
	var st models.HabitStack
	var activityIDs, createdAt string
	var cueType, cueValue sql.NullString
	if err := row.Scan(&st.ID, &st.UserID, &st.Name, &activityIDs, &st.CompletionBonus,
		&cueType, &cueValue, &st.Active, &createdAt); err != nil {
		return models.HabitStack{}, err
	}
	if err := json.Unmarshal([]byte(activityIDs), &st.ActivityIDs); err != nil {
		return models.HabitStack{}, fmt.Errorf("failed to decode activity ids for stack %s: %w", st.ID, err)
	}
	if cueType.Valid {
		st.Cue = &models.Cue{Type: models.CueType(cueType.String), Value: cueValue.String}
	}
	t, err := utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.HabitStack{}, fmt.Errorf("failed to parse created_at for stack %s: %w", st.ID, err)
	}
	st.CreatedAt = t
	return st, nil
}

func (s *Store) AddStack(ctx context.Context, st models.HabitStack) error {
	ids, err := json.Marshal(st.ActivityIDs)
	if err != nil {
		return fmt.Errorf("failed to encode activity ids: %w", err)
	}
	cueType, cueValue := cueColumns(st.Cue)
	_, err = s.exec(ctx, s.db, `
		INSERT INTO habit_stacks (`+stackColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.UserID, st.Name, string(ids), st.CompletionBonus, cueType, cueValue, st.Active,
		utils.FormatTimestamp(st.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add stack: %w", err)
	}
	return nil
}

func (s *Store) GetStack(ctx context.Context, userID, id string) (models.HabitStack, error) {
	st, err := scanStack(s.queryRow(ctx, s.db, `SELECT `+stackColumns+` FROM habit_stacks WHERE id = ? AND user_id = ?`, id, userID))
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.HabitStack{}, errors.NotFound("stack", id)
	}
	return st, err
}

func (s *Store) ListStacks(ctx context.Context, userID string, includeInactive bool) ([]models.HabitStack, error) {
	query := `SELECT ` + stackColumns + ` FROM habit_stacks WHERE user_id = ?`
	if !includeInactive {
		query += " AND active = ?"
	}
	query += " ORDER BY created_at"

	args := []interface{}{userID}
	if !includeInactive {
		args = append(args, true)
	}
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	defer rows.Close()

	var stacks []models.HabitStack
	for rows.Next() {
		st, err := scanStack(rows)
		if err != nil {
			return nil, err
		}
		stacks = append(stacks, st)
	}
	return stacks, rows.Err()
}

func (s *Store) UpdateStack(ctx context.Context, st models.HabitStack) error {
	ids, err := json.Marshal(st.ActivityIDs)
	if err != nil {
		return fmt.Errorf("failed to encode activity ids: %w", err)
	}
	cueType, cueValue := cueColumns(st.Cue)
	res, err := s.exec(ctx, s.db, `
		UPDATE habit_stacks SET name = ?, activity_ids = ?, completion_bonus = ?, cue_type = ?, cue_value = ?, active = ?
		WHERE id = ? AND user_id = ?`,
		st.Name, string(ids), st.CompletionBonus, cueType, cueValue, st.Active, st.ID, st.UserID)
	if err != nil {
		return fmt.Errorf("failed to update stack: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound("stack", st.ID)
	}
	return nil
}

func (s *Store) DeactivateStack(ctx context.Context, userID, id string) error {
	res, err := s.exec(ctx, s.db, `UPDATE habit_stacks SET active = ? WHERE id = ? AND user_id = ? AND active = ?`,
		false, id, userID, true)
	if err != nil {
		return err
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("stack not found or already inactive: %w", errors.ErrNotFound)
	}
	return nil
}

const stackCompletionColumns = `id, stack_id, user_id, day, pillar, bonus_points_earned, streak_day, created_at`

func scanStackCompletion(row scanner) (models.StackCompletion, error) {
	var sc models.StackCompletion
	var pillar, createdAt string
	if err := row.Scan(&sc.ID, &sc.StackID, &sc.UserID, &sc.Day, &pillar, &sc.BonusPointsEarned,
		&sc.StreakDay, &createdAt); err != nil {
		return models.StackCompletion{}, err
	}
	sc.Pillar = models.Pillar(pillar)
	t, err := utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.StackCompletion{}, fmt.Errorf("failed to parse created_at for stack completion %s: %w", sc.ID, err)
	}
	sc.CreatedAt = t
	return sc, nil
}

func (s *Store) GetStackCompletion(ctx context.Context, stackID, day string) (models.StackCompletion, error) {
	sc, err := scanStackCompletion(s.queryRow(ctx, s.db, `SELECT `+stackCompletionColumns+` FROM stack_completions
		WHERE stack_id = ? AND day = ?`, stackID, day))
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.StackCompletion{}, errors.NotFound("stack completion", stackID+"@"+day)
	}
	return sc, err
}

// InsertStackCompletion writes the stack's completion for its day. inserted is
// false when the stack was already completed that day.
func (s *Store) InsertStackCompletion(ctx context.Context, sc models.StackCompletion) (inserted bool, err error) {
	res, err := s.exec(ctx, s.db, `
		INSERT INTO stack_completions (`+stackCompletionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		sc.ID, sc.StackID, sc.UserID, sc.Day, string(sc.Pillar), sc.BonusPointsEarned, sc.StreakDay,
		utils.FormatTimestamp(sc.CreatedAt))
	if err != nil {
		return false, fmt.Errorf("failed to insert stack completion: %w", err)
	}
	return rowsAffected(res)
}

// ListStackCompletionDays returns up to limit days before beforeDay on which
// the stack was completed, newest first.
func (s *Store) ListStackCompletionDays(ctx context.Context, stackID, beforeDay string, limit int) ([]string, error) {
	rows, err := s.query(ctx, s.db, `SELECT day FROM stack_completions
		WHERE stack_id = ? AND day < ? ORDER BY day DESC LIMIT ?`, stackID, beforeDay, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stack completion days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// ListStackCompletions returns every stack completion the user earned on day.
func (s *Store) ListStackCompletions(ctx context.Context, userID, day string) ([]models.StackCompletion, error) {
	return s.listStackCompletions(ctx, s.db, userID, day)
}

func (s *Store) listStackCompletions(ctx context.Context, q querier, userID, day string) ([]models.StackCompletion, error) {
	rows, err := s.query(ctx, q, `SELECT `+stackCompletionColumns+` FROM stack_completions
		WHERE user_id = ? AND day = ? ORDER BY created_at`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list stack completions: %w", err)
	}
	defer rows.Close()

	var out []models.StackCompletion
	for rows.Next() {
		sc, err := scanStackCompletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
