package storage

import (
	"context"
	"time"

	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/storage/sqldb"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Activities
	AddActivity(ctx context.Context, a models.Activity) error
	EnsureActivity(ctx context.Context, a models.Activity) (models.Activity, error)
	GetActivity(ctx context.Context, userID, id string) (models.Activity, error)
	GetActivityBySystemKey(ctx context.Context, userID, key string) (models.Activity, error)
	GetActivities(ctx context.Context, userID string, ids []string) (map[string]models.Activity, error)
	ListActivities(ctx context.Context, userID string, includeArchived bool) ([]models.Activity, error)
	UpdateActivity(ctx context.Context, a models.Activity) error
	ArchiveActivity(ctx context.Context, userID, id string, at time.Time) error
	UnarchiveActivity(ctx context.Context, userID, id string) error

	// Completions
	InsertCompletion(ctx context.Context, c models.ActivityCompletion) (bool, error)
	CompletionExists(ctx context.Context, userID string, source models.Source, externalID, recordType string) (bool, error)
	ListCompletions(ctx context.Context, userID string, start, end time.Time) ([]models.ActivityCompletion, error)
	CountCompletedActivities(ctx context.Context, userID string, ids []string, start, end time.Time) (int, error)
	CompletedActivityIDs(ctx context.Context, userID string, ids []string, start, end time.Time) (map[string]bool, error)

	// Daily scores
	GetDailyScore(ctx context.Context, userID, day string) (models.DailyScore, error)
	ListDailyScores(ctx context.Context, userID, from, to string) ([]models.DailyScore, error)
	// RecomputeDailyScore reads the day's completions and stack bonuses and
	// stores compute's result while holding the score row's lock.
	RecomputeDailyScore(ctx context.Context, userID, day string, start, end time.Time, compute sqldb.ScoreFunc) (models.DailyScore, error)

	// Streaks
	GetStreak(ctx context.Context, userID string, key models.PillarKey) (models.Streak, error)
	ListStreaks(ctx context.Context, userID string) ([]models.Streak, error)
	// UpdateStreak is an atomic read-modify-write of one streak row.
	UpdateStreak(ctx context.Context, userID string, key models.PillarKey, fn sqldb.StreakFunc) (models.Streak, error)

	// Habit stacks
	AddStack(ctx context.Context, st models.HabitStack) error
	GetStack(ctx context.Context, userID, id string) (models.HabitStack, error)
	ListStacks(ctx context.Context, userID string, includeInactive bool) ([]models.HabitStack, error)
	UpdateStack(ctx context.Context, st models.HabitStack) error
	DeactivateStack(ctx context.Context, userID, id string) error
	GetStackCompletion(ctx context.Context, stackID, day string) (models.StackCompletion, error)
	InsertStackCompletion(ctx context.Context, sc models.StackCompletion) (bool, error)
	ListStackCompletionDays(ctx context.Context, stackID, beforeDay string, limit int) ([]string, error)
	ListStackCompletions(ctx context.Context, userID, day string) ([]models.StackCompletion, error)

	// Achievements
	UnlockAchievement(ctx context.Context, a models.Achievement) (bool, error)
	ListAchievements(ctx context.Context, userID string) ([]models.Achievement, error)

	// Vendor snapshots
	GetVendorSnapshot(ctx context.Context, userID string) (models.VendorSnapshot, error)
	SaveVendorSnapshot(ctx context.Context, snap models.VendorSnapshot) error

	// Utils
	GetConfigPath() string
}
