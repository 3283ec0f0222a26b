package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
)

// SnapshotTTL bounds how long a cached snapshot outlives its last sync.
const SnapshotTTL = 72 * time.Hour

// RedisStore caches snapshots as JSON under pillars:snapshot:<user>.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore parses redisURL and pings the server.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func key(userID string) string {
	return constants.AppName + ":snapshot:" + userID
}

func (r *RedisStore) Get(ctx context.Context, userID string) (models.VendorSnapshot, error) {
	raw, err := r.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return models.VendorSnapshot{}, errors.NotFound("vendor snapshot", userID)
	}
	if err != nil {
		return models.VendorSnapshot{}, err
	}
	var snap models.VendorSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return models.VendorSnapshot{}, fmt.Errorf("failed to decode cached snapshot: %w", err)
	}
	return snap, nil
}

func (r *RedisStore) Save(ctx context.Context, snap models.VendorSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(snap.UserID), raw, SnapshotTTL).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
