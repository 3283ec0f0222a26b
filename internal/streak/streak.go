// Package streak implements the per-pillar streak transition and the
// consecutive-day counter shared with habit stacks.
package streak

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/utils"
)

// gap returns whole days from the last active date to date; ok is false when
// there is no last active date (an infinite gap).
func gap(s models.Streak, date string) (days int, ok bool, err error) {
	if s.LastActiveDate == "" {
		return 0, false, nil
	}
	days, err = utils.DaysBetween(s.LastActiveDate, date)
	if err != nil {
		return 0, false, err
	}
	return days, true, nil
}

// Advance computes the next streak state for date.
//
// A date equal to LastActiveDate is a no-op so concurrent triggers on the same
// day cannot double count. A date before LastActiveDate returns ErrOutOfOrder.
func Advance(s models.Streak, date string, dayIsComplete bool) (models.Streak, error) {
	if !utils.ValidateDate(date) {
		return s, errors.Invalid("date", "%q is not YYYY-MM-DD", date)
	}
	if s.LastActiveDate == date {
		return s, nil
	}

	days, known, err := gap(s, date)
	if err != nil {
		return s, err
	}
	if known && days < 0 {
		return s, fmt.Errorf("advance %s to %s (last active %s): %w", s.PillarKey, date, s.LastActiveDate, errors.ErrOutOfOrder)
	}

	next := s
	if dayIsComplete {
		if known && days == 1 {
			next.Current = s.Current + 1
		} else {
			next.Current = 1
		}
		if next.Current > next.Longest {
			next.Longest = next.Current
		}
		next.LastActiveDate = date
		return next, nil
	}

	// Yesterday still counts until today has fully elapsed.
	if !known || days > 1 {
		next.Current = 0
	}
	return next, nil
}

// AtRisk reports a live streak whose day is not complete yet.
func AtRisk(s models.Streak, dayIsCompleteToday bool) bool {
	return s.Current > 0 && !dayIsCompleteToday
}

// HoursRemainingToday returns hours from now until the next local midnight,
// rounded to one decimal place and floored at zero.
func HoursRemainingToday(now time.Time, loc *time.Location) float64 {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	hours := math.Round(midnight.Sub(local).Hours()*10) / 10
	if hours < 0 {
		return 0
	}
	return hours
}

// Effective is the read-side view of s on today: a streak whose last active
// date is older than yesterday is reported as broken. Nothing is persisted.
func Effective(s models.Streak, today string) models.Streak {
	days, known, err := gap(s, today)
	if err != nil || !known {
		return s
	}
	if days > 1 {
		s.Current = 0
	}
	return s
}

// Replay folds Advance over a history of complete days in ascending order.
func Replay(key models.PillarKey, completeDays []string) (models.Streak, error) {
	s := models.Streak{PillarKey: key}
	for _, day := range completeDays {
		var err error
		if s, err = Advance(s, day, true); err != nil {
			return s, err
		}
	}
	return s, nil
}
