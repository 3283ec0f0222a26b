package snapshot

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
)

type memStore struct {
	rows    map[string]models.VendorSnapshot
	failGet bool
	failSet bool
}

func newMem() *memStore { return &memStore{rows: make(map[string]models.VendorSnapshot)} }

func (m *memStore) Get(_ context.Context, userID string) (models.VendorSnapshot, error) {
	if m.failGet {
		return models.VendorSnapshot{}, errors.New("cache down")
	}
	snap, ok := m.rows[userID]
	if !ok {
		return models.VendorSnapshot{}, perrors.NotFound("vendor snapshot", userID)
	}
	return snap, nil
}

func (m *memStore) Save(_ context.Context, snap models.VendorSnapshot) error {
	if m.failSet {
		return errors.New("cache down")
	}
	m.rows[snap.UserID] = snap
	return nil
}

func intPtr(v int) *int { return &v }

func TestCached_FillsCacheOnMiss(t *testing.T) {
	cache, primary := newMem(), newMem()
	primary.rows["u1"] = models.VendorSnapshot{UserID: "u1", RecoveryScore: intPtr(70)}
	c := &Cached{Cache: cache, Primary: primary}

	snap, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 70, *snap.RecoveryScore)
	assert.Contains(t, cache.rows, "u1")
}

func TestCached_CacheFailuresAreNotFatal(t *testing.T) {
	cache, primary := newMem(), newMem()
	cache.failGet, cache.failSet = true, true
	c := &Cached{Cache: cache, Primary: primary}
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, models.VendorSnapshot{UserID: "u1", RecoveryScore: intPtr(30)}))
	snap, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 30, *snap.RecoveryScore)
}

func TestCached_MissingEverywhere(t *testing.T) {
	c := &Cached{Cache: newMem(), Primary: newMem()}
	_, err := c.Get(context.Background(), "nobody")
	assert.True(t, errors.Is(err, perrors.ErrNotFound))
}

// Set REDIS_TEST_URL (e.g. redis://localhost:6379/15) to run against a real server.
func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set, skipping Redis integration test")
	}
	ctx := context.Background()
	r, err := NewRedisStore(ctx, url)
	require.NoError(t, err)
	defer r.Close()

	userID := "it-" + time.Now().Format("150405.000000")
	_, err = r.Get(ctx, userID)
	assert.True(t, errors.Is(err, perrors.ErrNotFound))

	strain := 12.5
	require.NoError(t, r.Save(ctx, models.VendorSnapshot{UserID: userID, LastWorkoutStrain: &strain, UpdatedAt: time.Now().UTC()}))
	snap, err := r.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, snap.LastWorkoutStrain)
	assert.Equal(t, 12.5, *snap.LastWorkoutStrain)
}
