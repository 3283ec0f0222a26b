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

const activityColumns = `id, user_id, name, pillar, sub_category, points, is_habit,
	cue_type, cue_value, system_key, created_at, archived_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row scanner) (models.Activity, error) {
	var a models.Activity
	var pillar, createdAt string
	var cueType, cueValue, systemKey, archivedAt sql.NullString

	err := row.Scan(&a.ID, &a.UserID, &a.Name, &pillar, &a.SubCategory, &a.Points, &a.IsHabit,
		&cueType, &cueValue, &systemKey, &createdAt, &archivedAt)
	if err != nil {
		return models.Activity{}, err
	}

	a.Pillar = models.Pillar(pillar)
	a.SystemKey = systemKey.String
	if cueType.Valid {
		a.Cue = &models.Cue{Type: models.CueType(cueType.String), Value: cueValue.String}
	}
	a.CreatedAt, err = utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.Activity{}, fmt.Errorf("failed to parse created_at for activity %s: %w", a.ID, err)
	}
	if archivedAt.Valid {
		t, err := utils.ParseTimestamp(archivedAt.String)
		if err != nil {
			return models.Activity{}, fmt.Errorf("failed to parse archived_at for activity %s: %w", a.ID, err)
		}
		a.ArchivedAt = &t
	}
	return a, nil
}

func cueColumns(c *models.Cue) (sql.NullString, sql.NullString) {
	if c == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: string(c.Type), Valid: true}, sql.NullString{String: c.Value, Valid: true}
}

func archivedColumn(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: utils.FormatTimestamp(*t), Valid: true}
}

func (s *Store) AddActivity(ctx context.Context, a models.Activity) error {
	cueType, cueValue := cueColumns(a.Cue)
	_, err := s.exec(ctx, s.db, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, string(a.Pillar), a.SubCategory, a.Points, a.IsHabit,
		cueType, cueValue, nullString(a.SystemKey), utils.FormatTimestamp(a.CreatedAt), archivedColumn(a.ArchivedAt))
	if err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}
	return nil
}

// EnsureActivity inserts a vendor-owned activity keyed by SystemKey unless one
// already exists, and returns the stored row either way.
func (s *Store) EnsureActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	if a.SystemKey == "" {
		return models.Activity{}, errors.Invalid("system_key", "required")
	}
	cueType, cueValue := cueColumns(a.Cue)
	_, err := s.exec(ctx, s.db, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		a.ID, a.UserID, a.Name, string(a.Pillar), a.SubCategory, a.Points, a.IsHabit,
		cueType, cueValue, a.SystemKey, utils.FormatTimestamp(a.CreatedAt), nil)
	if err != nil {
		return models.Activity{}, fmt.Errorf("failed to ensure activity %s: %w", a.SystemKey, err)
	}
	return s.GetActivityBySystemKey(ctx, a.UserID, a.SystemKey)
}

func (s *Store) GetActivity(ctx context.Context, userID, id string) (models.Activity, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+activityColumns+` FROM activities WHERE id = ? AND user_id = ?`, id, userID)
	a, err := scanActivity(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, errors.NotFound("activity", id)
	}
	return a, err
}

func (s *Store) GetActivityBySystemKey(ctx context.Context, userID, key string) (models.Activity, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+activityColumns+` FROM activities WHERE user_id = ? AND system_key = ?`, userID, key)
	a, err := scanActivity(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, errors.NotFound("activity", key)
	}
	return a, err
}

func (s *Store) ListActivities(ctx context.Context, userID string, includeArchived bool) ([]models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE user_id = ?`
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY pillar, created_at"

	rows, err := s.query(ctx, s.db, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// GetActivities returns the user's activities with the given ids, keyed by id.
func (s *Store) GetActivities(ctx context.Context, userID string, ids []string) (map[string]models.Activity, error) {
	found := make(map[string]models.Activity, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.query(ctx, s.db, `SELECT `+activityColumns+` FROM activities
		WHERE user_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		found[a.ID] = a
	}
	return found, rows.Err()
}

func (s *Store) UpdateActivity(ctx context.Context, a models.Activity) error {
	cueType, cueValue := cueColumns(a.Cue)
	res, err := s.exec(ctx, s.db, `
		UPDATE activities SET name = ?, pillar = ?, sub_category = ?, points = ?, is_habit = ?,
			cue_type = ?, cue_value = ?
		WHERE id = ? AND user_id = ?`,
		a.Name, string(a.Pillar), a.SubCategory, a.Points, a.IsHabit, cueType, cueValue, a.ID, a.UserID)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound("activity", a.ID)
	}
	return nil
}

func (s *Store) ArchiveActivity(ctx context.Context, userID, id string, at time.Time) error {
	res, err := s.exec(ctx, s.db, `
		UPDATE activities SET archived_at = ? WHERE id = ? AND user_id = ? AND archived_at IS NULL`,
		utils.FormatTimestamp(at), id, userID)
	if err != nil {
		return err
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("activity not found or already archived: %w", errors.ErrNotFound)
	}
	return nil
}

func (s *Store) UnarchiveActivity(ctx context.Context, userID, id string) error {
	res, err := s.exec(ctx, s.db, `
		UPDATE activities SET archived_at = NULL WHERE id = ? AND user_id = ? AND archived_at IS NOT NULL`,
		id, userID)
	if err != nil {
		return err
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("activity not found or not archived: %w", errors.ErrNotFound)
	}
	return nil
}
