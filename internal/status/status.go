// Package status composes the read-only daily snapshot. Nothing here writes.
package status

import (
	"time"

	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/points"
	"github.com/julianstephens/pillars/internal/streak"
	"github.com/julianstephens/pillars/internal/utils"
)

type Recommendation string

const (
	RecommendNone     Recommendation = ""
	RecommendPush     Recommendation = "push"
	RecommendMaintain Recommendation = "maintain"
	RecommendRecover  Recommendation = "recover"
)

// Recovery bands
const (
	pushThreshold     = 67
	maintainThreshold = 34
)

// Recommend maps a recovery score to a training recommendation.
func Recommend(recoveryScore *int) Recommendation {
	switch {
	case recoveryScore == nil:
		return RecommendNone
	case *recoveryScore >= pushThreshold:
		return RecommendPush
	case *recoveryScore >= maintainThreshold:
		return RecommendMaintain
	default:
		return RecommendRecover
	}
}

type StreakStatus struct {
	models.Streak
	CompleteToday bool `json:"complete_today"`
	AtRisk        bool `json:"at_risk"`
}

type Snapshot struct {
	UserID         string                      `json:"user_id"`
	Day            string                      `json:"day"`
	IsToday        bool                        `json:"is_today"`
	Score          models.DailyScore           `json:"score"`
	Streaks        []StreakStatus              `json:"streaks"`
	HoursRemaining float64                     `json:"hours_remaining"`
	Quote          string                      `json:"quote"`
	Recommendation Recommendation              `json:"recommendation,omitempty"`
	Vendor         *models.VendorSnapshot      `json:"vendor,omitempty"`
	Completions    []models.ActivityCompletion `json:"completions"`
	StackBonuses   []models.StackCompletion    `json:"stack_bonuses"`
}

// Input is everything the aggregator reads for one (user, day).
type Input struct {
	UserID      string
	Day         string
	Now         time.Time
	Location    *time.Location
	Completions []models.ActivityCompletion
	Stacks      []models.StackCompletion
	Streaks     []models.Streak
	Vendor      *models.VendorSnapshot
}

// Entries merges completions and stack bonuses into point entries. Bonuses
// are placed at the start of the day so they always fall inside it.
func Entries(completions []models.ActivityCompletion, stacks []models.StackCompletion, dayStart time.Time) []points.Entry {
	entries := points.FromCompletions(completions)
	for _, sc := range stacks {
		entries = append(entries, points.Entry{Pillar: sc.Pillar, Points: sc.BonusPointsEarned, At: dayStart})
	}
	return entries
}

// Compose builds the snapshot for in.Day. Stored streaks are shown through
// their effective view for the day; at-risk flags and hours remaining only
// apply when the day is today.
func Compose(in Input) (Snapshot, error) {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	start, end, err := utils.DayBounds(in.Day, loc)
	if err != nil {
		return Snapshot{}, err
	}

	score := points.Score(in.UserID, in.Day, Entries(in.Completions, in.Stacks, start), start, end)
	today := utils.DayOf(in.Now, loc)
	isToday := today == in.Day

	snap := Snapshot{
		UserID:       in.UserID,
		Day:          in.Day,
		IsToday:      isToday,
		Score:        score,
		Vendor:       in.Vendor,
		Completions:  in.Completions,
		StackBonuses: in.Stacks,
	}
	if isToday {
		snap.HoursRemaining = streak.HoursRemainingToday(in.Now, loc)
	}
	if n, err := utils.DaysBetween("1970-01-01", in.Day); err == nil {
		snap.Quote = QuoteOfTheDay(n)
	}
	if in.Vendor != nil {
		snap.Recommendation = Recommend(in.Vendor.RecoveryScore)
	}

	for _, s := range in.Streaks {
		complete := points.Complete(score, s.PillarKey)
		view := s
		if isToday {
			view = streak.Effective(s, in.Day)
		}
		snap.Streaks = append(snap.Streaks, StreakStatus{
			Streak:        view,
			CompleteToday: complete,
			AtRisk:        isToday && streak.AtRisk(view, complete),
		})
	}
	return snap, nil
}
