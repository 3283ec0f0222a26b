package whoop

import "time"

// ScoreState values; only scored records carry a score.
const (
	ScoreStateScored       = "SCORED"
	ScoreStatePendingScore = "PENDING_SCORE"
	ScoreStateUnscorable   = "UNSCORABLE"
)

type Sleep struct {
	ID         string      `json:"id"`
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	Nap        bool        `json:"nap"`
	ScoreState string      `json:"score_state"`
	Score      *SleepScore `json:"score,omitempty"`
}

type SleepScore struct {
	StageSummary               StageSummary `json:"stage_summary"`
	SleepPerformancePercentage float64      `json:"sleep_performance_percentage"`
	SleepEfficiencyPercentage  float64      `json:"sleep_efficiency_percentage"`
}

type StageSummary struct {
	TotalInBedTimeMilli         int64 `json:"total_in_bed_time_milli"`
	TotalAwakeTimeMilli         int64 `json:"total_awake_time_milli"`
	TotalLightSleepTimeMilli    int64 `json:"total_light_sleep_time_milli"`
	TotalSlowWaveSleepTimeMilli int64 `json:"total_slow_wave_sleep_time_milli"`
	TotalRemSleepTimeMilli      int64 `json:"total_rem_sleep_time_milli"`
}

// Asleep is in-bed time minus awake time.
func (s StageSummary) Asleep() time.Duration {
	ms := s.TotalInBedTimeMilli - s.TotalAwakeTimeMilli
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

type Workout struct {
	ID         string        `json:"id"`
	SportName  string        `json:"sport_name"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	ScoreState string        `json:"score_state"`
	Score      *WorkoutScore `json:"score,omitempty"`
}

func (w Workout) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

type WorkoutScore struct {
	Strain           float64 `json:"strain"`
	AverageHeartRate int     `json:"average_heart_rate"`
	MaxHeartRate     int     `json:"max_heart_rate"`
	Kilojoule        float64 `json:"kilojoule"`
}

type Recovery struct {
	CycleID    int64          `json:"cycle_id"`
	SleepID    string         `json:"sleep_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ScoreState string         `json:"score_state"`
	Score      *RecoveryScore `json:"score,omitempty"`
}

type RecoveryScore struct {
	RecoveryScore    float64 `json:"recovery_score"`
	RestingHeartRate float64 `json:"resting_heart_rate"`
	HrvRmssdMilli    float64 `json:"hrv_rmssd_milli"`
}
