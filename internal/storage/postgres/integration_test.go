package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pillars/internal/models"
)

// TestStore_Integration runs against a real database.
// Example: POSTGRES_TEST_URL="postgres://pillars_user@localhost:5432/pillars_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	userID := "it-" + uuid.New().String()
	now := time.Now().UTC()

	activity := models.Activity{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      "Run",
		Pillar:    models.PillarBody,
		Points:    40,
		CreatedAt: now,
	}
	if err := store.AddActivity(ctx, activity); err != nil {
		t.Fatalf("Failed to add activity: %v", err)
	}

	t.Run("Completions", func(t *testing.T) {
		c := models.ActivityCompletion{
			ID:           uuid.New().String(),
			UserID:       userID,
			ActivityID:   activity.ID,
			PointsEarned: 40,
			CompletedAt:  now,
			Source:       models.SourceWhoop,
			ExternalID:   "ext-1",
			RecordType:   "workout",
			CreatedAt:    now,
		}
		inserted, err := store.InsertCompletion(ctx, c)
		if err != nil || !inserted {
			t.Fatalf("expected insert, got inserted=%v err=%v", inserted, err)
		}
		c.ID = uuid.New().String()
		inserted, err = store.InsertCompletion(ctx, c)
		if err != nil {
			t.Fatalf("Failed to insert duplicate: %v", err)
		}
		if inserted {
			t.Error("expected duplicate vendor record to be ignored")
		}
	})

	t.Run("Streaks", func(t *testing.T) {
		st, err := store.UpdateStreak(ctx, userID, models.KeyBody, func(cur models.Streak) (models.Streak, error) {
			cur.Current++
			cur.Longest = cur.Current
			cur.LastActiveDate = "2026-01-01"
			return cur, nil
		})
		if err != nil {
			t.Fatalf("Failed to update streak: %v", err)
		}
		if st.Current != 1 || st.LastActiveDate != "2026-01-01" {
			t.Errorf("unexpected streak: %+v", st)
		}
	})
}
