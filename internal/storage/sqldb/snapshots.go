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

// GetVendorSnapshot returns the user's latest wearable snapshot.
func (s *Store) GetVendorSnapshot(ctx context.Context, userID string) (models.VendorSnapshot, error) {
	var payload string
	err := s.queryRow(ctx, s.db, `SELECT payload FROM vendor_snapshots WHERE user_id = ?`, userID).Scan(&payload)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.VendorSnapshot{}, errors.NotFound("vendor snapshot", userID)
	}
	if err != nil {
		return models.VendorSnapshot{}, fmt.Errorf("failed to get vendor snapshot: %w", err)
	}
	var snap models.VendorSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return models.VendorSnapshot{}, fmt.Errorf("failed to decode vendor snapshot: %w", err)
	}
	return snap, nil
}

// SaveVendorSnapshot replaces the user's snapshot.
func (s *Store) SaveVendorSnapshot(ctx context.Context, snap models.VendorSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode vendor snapshot: %w", err)
	}
	_, err = s.exec(ctx, s.db, `
		INSERT INTO vendor_snapshots (user_id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		snap.UserID, string(payload), utils.FormatTimestamp(snap.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save vendor snapshot: %w", err)
	}
	return nil
}
