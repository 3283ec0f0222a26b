package models

import "time"

// DailyScore is one row per (user, day), always recomputed from the day's completions.
type DailyScore struct {
	UserID       string    `json:"user_id"`
	Day          string    `json:"day"` // YYYY-MM-DD format
	BodyPoints   int       `json:"body_points"`
	MindPoints   int       `json:"mind_points"`
	BodyScore    int       `json:"body_score"`
	MindScore    int       `json:"mind_score"`
	BalanceIndex float64   `json:"balance_index"`
	BodyComplete bool      `json:"body_complete"`
	MindComplete bool      `json:"mind_complete"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Streak is one row per (user, pillar key). LastActiveDate is empty until the first complete day.
type Streak struct {
	UserID         string    `json:"user_id"`
	PillarKey      PillarKey `json:"pillar_key"`
	Current        int       `json:"current"`
	Longest        int       `json:"longest"`
	LastActiveDate string    `json:"last_active_date,omitempty"` // YYYY-MM-DD format
	UpdatedAt      time.Time `json:"updated_at"`
}

type HabitStack struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	ActivityIDs     []string  `json:"activity_ids"`
	CompletionBonus int       `json:"completion_bonus"`
	Cue             *Cue      `json:"cue,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// StackCompletion is written once per (stack, day).
type StackCompletion struct {
	ID                string    `json:"id"`
	StackID           string    `json:"stack_id"`
	UserID            string    `json:"user_id"`
	Day               string    `json:"day"` // YYYY-MM-DD format
	Pillar            Pillar    `json:"pillar"` // pillar the bonus counts toward
	BonusPointsEarned int       `json:"bonus_points_earned"`
	StreakDay         int       `json:"streak_day"`
	CreatedAt         time.Time `json:"created_at"`
}

type Achievement struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"` // e.g. streak_7
	UnlockedAt time.Time `json:"unlocked_at"`
}
