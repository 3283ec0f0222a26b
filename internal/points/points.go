// Package points holds the numeric policy every other component relies on:
// per-pillar sums, the completion threshold, and score clamping.
package points

import (
	"math"
	"time"

	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/models"
)

// Entry is a single point-bearing event, either an activity completion or a stack bonus.
type Entry struct {
	Pillar models.Pillar
	Points int
	At     time.Time
}

// FromCompletions converts completions into entries.
func FromCompletions(completions []models.ActivityCompletion) []Entry {
	entries := make([]Entry, 0, len(completions))
	for _, c := range completions {
		entries = append(entries, Entry{Pillar: c.Pillar, Points: c.PointsEarned, At: c.CompletedAt})
	}
	return entries
}

// PillarPoints sums the points of entries for pillar that fall in [start, end).
func PillarPoints(entries []Entry, pillar models.Pillar, start, end time.Time) int {
	total := 0
	for _, e := range entries {
		if e.Pillar != pillar {
			continue
		}
		if e.At.Before(start) || !e.At.Before(end) {
			continue
		}
		total += e.Points
	}
	return total
}

// IsPillarComplete reports whether points reach the completion threshold.
func IsPillarComplete(points int) bool {
	return points >= constants.CompletionThreshold
}

// ClampedScore caps points at the maximum pillar score.
func ClampedScore(points int) int {
	if points > constants.MaxPillarScore {
		return constants.MaxPillarScore
	}
	return points
}

// BalanceIndex is the mean of the two clamped scores, rounded to one decimal.
func BalanceIndex(bodyScore, mindScore int) float64 {
	return math.Round(float64(bodyScore+mindScore)/2*10) / 10
}

// Score builds the DailyScore for the day spanning [start, end).
func Score(userID, day string, entries []Entry, start, end time.Time) models.DailyScore {
	body := PillarPoints(entries, models.PillarBody, start, end)
	mind := PillarPoints(entries, models.PillarMind, start, end)
	bodyScore := ClampedScore(body)
	mindScore := ClampedScore(mind)
	return models.DailyScore{
		UserID:       userID,
		Day:          day,
		BodyPoints:   body,
		MindPoints:   mind,
		BodyScore:    bodyScore,
		MindScore:    mindScore,
		BalanceIndex: BalanceIndex(bodyScore, mindScore),
		BodyComplete: IsPillarComplete(body),
		MindComplete: IsPillarComplete(mind),
	}
}

// Complete reports the day-completion of a pillar key; OVERALL needs both pillars.
func Complete(score models.DailyScore, key models.PillarKey) bool {
	switch key {
	case models.KeyBody:
		return score.BodyComplete
	case models.KeyMind:
		return score.MindComplete
	case models.KeyOverall:
		return score.BodyComplete && score.MindComplete
	default:
		return false
	}
}
