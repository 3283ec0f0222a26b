// Package snapshot holds the latest wearable state per user. The database is
// the system of record; Redis may sit in front of it as a read cache.
package snapshot

import (
	"context"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/logger"
	"github.com/julianstephens/pillars/internal/models"
)

type Store interface {
	Get(ctx context.Context, userID string) (models.VendorSnapshot, error)
	Save(ctx context.Context, snap models.VendorSnapshot) error
}

// Provider is the storage subset the database store needs.
type Provider interface {
	GetVendorSnapshot(ctx context.Context, userID string) (models.VendorSnapshot, error)
	SaveVendorSnapshot(ctx context.Context, snap models.VendorSnapshot) error
}

// DBStore keeps snapshots in the vendor_snapshots table.
type DBStore struct {
	p Provider
}

func NewDBStore(p Provider) *DBStore {
	return &DBStore{p: p}
}

func (s *DBStore) Get(ctx context.Context, userID string) (models.VendorSnapshot, error) {
	return s.p.GetVendorSnapshot(ctx, userID)
}

func (s *DBStore) Save(ctx context.Context, snap models.VendorSnapshot) error {
	return s.p.SaveVendorSnapshot(ctx, snap)
}

// Cached reads through cache to primary and writes to both. Cache failures are
// logged and never surface to the caller.
type Cached struct {
	Cache   Store
	Primary Store
}

func (c *Cached) Get(ctx context.Context, userID string) (models.VendorSnapshot, error) {
	snap, err := c.Cache.Get(ctx, userID)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		logger.Warn("Snapshot cache read failed", "user", userID, "error", err)
	}

	snap, err = c.Primary.Get(ctx, userID)
	if err != nil {
		return models.VendorSnapshot{}, err
	}
	if err := c.Cache.Save(ctx, snap); err != nil {
		logger.Warn("Snapshot cache fill failed", "user", userID, "error", err)
	}
	return snap, nil
}

func (c *Cached) Save(ctx context.Context, snap models.VendorSnapshot) error {
	if err := c.Primary.Save(ctx, snap); err != nil {
		return err
	}
	if err := c.Cache.Save(ctx, snap); err != nil {
		logger.Warn("Snapshot cache write failed", "user", snap.UserID, "error", err)
	}
	return nil
}
