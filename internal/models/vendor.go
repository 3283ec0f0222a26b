package models

import "time"

// VendorSnapshot is the latest wearable state held for a user, refreshed by each sync.
type VendorSnapshot struct {
	UserID            string     `json:"user_id"`
	RecoveryScore     *int       `json:"recovery_score,omitempty"`
	RestingHeartRate  *int       `json:"resting_heart_rate,omitempty"`
	SleepHours        *float64   `json:"sleep_hours,omitempty"`
	SleepEfficiency   *float64   `json:"sleep_efficiency,omitempty"`
	LastWorkoutAt     *time.Time `json:"last_workout_at,omitempty"`
	LastWorkoutStrain *float64   `json:"last_workout_strain,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
