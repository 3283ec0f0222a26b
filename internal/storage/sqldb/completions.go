package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/utils"
)

// InsertCompletion appends a completion. Vendor completions carrying an
// ExternalID are deduplicated on (user, source, external id, record type);
// inserted is false when an identical record was already stored.
func (s *Store) InsertCompletion(ctx context.Context, c models.ActivityCompletion) (inserted bool, err error) {
	res, err := s.exec(ctx, s.db, `
		INSERT INTO activity_completions
			(id, user_id, activity_id, points_earned, completed_at, source, details, external_id, record_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		c.ID, c.UserID, c.ActivityID, c.PointsEarned, utils.FormatTimestamp(c.CompletedAt),
		string(c.Source), c.Details, nullString(c.ExternalID), nullString(c.RecordType),
		utils.FormatTimestamp(c.CreatedAt))
	if err != nil {
		return false, fmt.Errorf("failed to insert completion: %w", err)
	}
	return rowsAffected(res)
}

// CompletionExists reports whether a vendor record has already been ingested.
func (s *Store) CompletionExists(ctx context.Context, userID string, source models.Source, externalID, recordType string) (bool, error) {
	var n int
	err := s.queryRow(ctx, s.db, `
		SELECT COUNT(*) FROM activity_completions
		WHERE user_id = ? AND source = ? AND external_id = ? AND record_type = ?`,
		userID, string(source), externalID, recordType).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return n > 0, nil
}

const completionSelect = `
	SELECT c.id, c.user_id, c.activity_id, a.pillar, c.points_earned, c.completed_at, c.source,
		c.details, c.external_id, c.record_type, c.created_at
	FROM activity_completions c
	JOIN activities a ON a.id = c.activity_id`

func (s *Store) scanCompletions(rows *sql.Rows) ([]models.ActivityCompletion, error) {
	defer rows.Close()

	var out []models.ActivityCompletion
	for rows.Next() {
		var c models.ActivityCompletion
		var pillar, source, completedAt, createdAt string
		var externalID, recordType sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.ActivityID, &pillar, &c.PointsEarned, &completedAt,
			&source, &c.Details, &externalID, &recordType, &createdAt); err != nil {
			return nil, err
		}
		c.Pillar = models.Pillar(pillar)
		c.Source = models.Source(source)
		c.ExternalID = externalID.String
		c.RecordType = recordType.String

		var err error
		if c.CompletedAt, err = utils.ParseTimestamp(completedAt); err != nil {
			return nil, fmt.Errorf("failed to parse completed_at for completion %s: %w", c.ID, err)
		}
		if c.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at for completion %s: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListCompletions returns the user's completions with start <= completed_at < end,
// oldest first.
func (s *Store) ListCompletions(ctx context.Context, userID string, start, end time.Time) ([]models.ActivityCompletion, error) {
	return s.listCompletions(ctx, s.db, userID, start, end)
}

func (s *Store) listCompletions(ctx context.Context, q querier, userID string, start, end time.Time) ([]models.ActivityCompletion, error) {
	rows, err := s.query(ctx, q, completionSelect+`
		WHERE c.user_id = ? AND c.completed_at >= ? AND c.completed_at < ?
		ORDER BY c.completed_at, c.id`,
		userID, utils.FormatTimestamp(start), utils.FormatTimestamp(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	return s.scanCompletions(rows)
}

// CountCompletedActivities returns how many distinct activities from ids have
// at least one completion in [start, end).
func (s *Store) CountCompletedActivities(ctx context.Context, userID string, ids []string, start, end time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []interface{}{userID, utils.FormatTimestamp(start), utils.FormatTimestamp(end)}
	for _, id := range ids {
		args = append(args, id)
	}

	var n int
	err := s.queryRow(ctx, s.db, `
		SELECT COUNT(DISTINCT activity_id) FROM activity_completions
		WHERE user_id = ? AND completed_at >= ? AND completed_at < ?
			AND activity_id IN (`+placeholders(len(ids))+`)`, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed activities: %w", err)
	}
	return n, nil
}

// CompletedActivityIDs returns the subset of ids completed in [start, end).
func (s *Store) CompletedActivityIDs(ctx context.Context, userID string, ids []string, start, end time.Time) (map[string]bool, error) {
	done := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return done, nil
	}
	args := []interface{}{userID, utils.FormatTimestamp(start), utils.FormatTimestamp(end)}
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.query(ctx, s.db, `
		SELECT DISTINCT activity_id FROM activity_completions
		WHERE user_id = ? AND completed_at >= ? AND completed_at < ?
			AND activity_id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		done[id] = true
	}
	return done, rows.Err()
}
