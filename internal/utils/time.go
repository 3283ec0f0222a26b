package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/pillars/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ValidateTimeFormat checks if the string matches the standard time format (HH:MM).
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// ValidateDate checks if the string is a YYYY-MM-DD date.
func ValidateDate(day string) bool {
	_, err := time.Parse(constants.DateFormat, day)
	return err == nil
}

// DayOf returns the date key (YYYY-MM-DD) of t in loc.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// DayBounds returns local midnight of day and the following local midnight.
// The range is inclusive-start, exclusive-end.
func DayBounds(day string, loc *time.Location) (time.Time, time.Time, error) {
	d, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
	return start, end, nil
}

// DaysBetween returns the number of calendar days from -> to (negative when to is earlier).
func DaysBetween(from, to string) (int, error) {
	a, err := time.Parse(constants.DateFormat, from)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", from, err)
	}
	b, err := time.Parse(constants.DateFormat, to)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", to, err)
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// AddDays shifts a date key by n days. Invalid input is returned unchanged.
func AddDays(day string, n int) string {
	d, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return day
	}
	return d.AddDate(0, 0, n).Format(constants.DateFormat)
}

// FormatTimestamp renders t in the fixed-width UTC storage format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp parses the storage format, falling back to RFC3339.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(constants.TimestampFormat, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
