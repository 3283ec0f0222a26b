package models

import "time"

type Pillar string

const (
	PillarBody Pillar = "BODY"
	PillarMind Pillar = "MIND"
)

// PillarKey identifies a streak row. OVERALL is the AND of BODY and MIND.
type PillarKey string

const (
	KeyBody    PillarKey = "BODY"
	KeyMind    PillarKey = "MIND"
	KeyOverall PillarKey = "OVERALL"
)

var PillarKeys = []PillarKey{KeyBody, KeyMind, KeyOverall}

type Source string

const (
	SourceManual      Source = "MANUAL"
	SourceWhoop       Source = "WHOOP"
	SourceAutoTrigger Source = "AUTO_TRIGGER"
)

type CueType string

const (
	CueTime     CueType = "time"
	CueLocation CueType = "location"
	CueAfter    CueType = "after"
)

type Cue struct {
	Type  CueType `json:"type"`
	Value string  `json:"value"`
}

// Predefined sub-categories; users may use any other string.
var SubCategories = map[Pillar][]string{
	PillarBody: {"movement", "nutrition", "sleep", "recovery"},
	PillarMind: {"learning", "meditation", "journaling", "focus"},
}

type Activity struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Pillar      Pillar     `json:"pillar"`
	SubCategory string     `json:"sub_category"`
	Points      int        `json:"points"`
	IsHabit     bool       `json:"is_habit"`
	Cue         *Cue       `json:"cue,omitempty"`
	SystemKey   string     `json:"system_key,omitempty"` // set for vendor-owned activities
	CreatedAt   time.Time  `json:"created_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

func (a Activity) Archived() bool {
	return a.ArchivedAt != nil
}

// ActivityCompletion is append-only: created once per logged event, never updated.
type ActivityCompletion struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ActivityID   string    `json:"activity_id"`
	Pillar       Pillar    `json:"pillar"` // joined from the activity on read
	PointsEarned int       `json:"points_earned"`
	CompletedAt  time.Time `json:"completed_at"`
	Source       Source    `json:"source"`
	Details      string    `json:"details,omitempty"`
	ExternalID   string    `json:"external_id,omitempty"`
	RecordType   string    `json:"record_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
