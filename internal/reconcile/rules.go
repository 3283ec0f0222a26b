package reconcile

import (
	"time"

	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/whoop"
)

type Category string

const (
	CategorySleep    Category = "sleep"
	CategoryWorkout  Category = "workout"
	CategoryRecovery Category = "recovery"
)

// Categories in processing and reporting order.
var Categories = []Category{CategorySleep, CategoryWorkout, CategoryRecovery}

// systemActivity describes the vendor-owned activity a category's completions belong to.
type systemActivity struct {
	Key         string
	Name        string
	Pillar      models.Pillar
	SubCategory string
	BasePoints  int
}

var systemActivities = map[Category]systemActivity{
	CategorySleep:    {Key: "whoop_sleep", Name: "WHOOP Sleep", Pillar: models.PillarMind, SubCategory: "sleep", BasePoints: 20},
	CategoryWorkout:  {Key: "whoop_workout", Name: "WHOOP Workout", Pillar: models.PillarBody, SubCategory: "movement", BasePoints: 25},
	CategoryRecovery: {Key: "whoop_recovery", Name: "WHOOP Recovery", Pillar: models.PillarBody, SubCategory: "recovery", BasePoints: 10},
}

// Reward thresholds
const (
	sleepHoursTarget      = 7 * time.Hour
	sleepHoursBonus       = 15
	sleepEfficiencyTarget = 85.0
	sleepEfficiencyBonus  = 10

	workoutDurationTarget = 30 * time.Minute
	workoutDurationBonus  = 15
	workoutStrainTarget   = 10.0
	workoutStrainBonus    = 10

	recoveryScoreTarget = 67.0
	recoveryScoreBonus  = 10
)

// SleepPoints rewards a scored, non-nap sleep. ok is false for records that
// earn nothing.
func SleepPoints(s whoop.Sleep) (points int, ok bool) {
	if s.Nap || s.ScoreState != whoop.ScoreStateScored || s.Score == nil {
		return 0, false
	}
	points = systemActivities[CategorySleep].BasePoints
	if s.Score.StageSummary.Asleep() >= sleepHoursTarget {
		points += sleepHoursBonus
	}
	if s.Score.SleepEfficiencyPercentage >= sleepEfficiencyTarget {
		points += sleepEfficiencyBonus
	}
	return points, true
}

func WorkoutPoints(w whoop.Workout) (points int, ok bool) {
	if w.ScoreState != whoop.ScoreStateScored || w.Score == nil {
		return 0, false
	}
	points = systemActivities[CategoryWorkout].BasePoints
	if w.Duration() >= workoutDurationTarget {
		points += workoutDurationBonus
	}
	if w.Score.Strain >= workoutStrainTarget {
		points += workoutStrainBonus
	}
	return points, true
}

func RecoveryPoints(r whoop.Recovery) (points int, ok bool) {
	if r.ScoreState != whoop.ScoreStateScored || r.Score == nil {
		return 0, false
	}
	points = systemActivities[CategoryRecovery].BasePoints
	if r.Score.RecoveryScore >= recoveryScoreTarget {
		points += recoveryScoreBonus
	}
	return points, true
}
