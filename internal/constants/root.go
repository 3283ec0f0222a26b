package constants

import "time"

const (
	AppName            = "pillars"
	DefaultKeyringUser = "database-connection"
	WhoopKeyringUser   = "whoop-access-token"
	DefaultConfigPath  = "~/.config/pillars/pillars.db"
	DefaultUserID      = "local"
	Version            = "v0.3.0"

	// DateFormat is the date-only key format used for days and streak dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the cue time format (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is fixed-width UTC so stored timestamps sort lexicographically
	TimestampFormat = "2006-01-02T15:04:05.000000Z"

	// Points model
	CompletionThreshold = 100
	MaxPillarScore      = 100
	MinActivityPoints   = 1
	MaxActivityPoints   = 100

	// Habit stacks
	MinStackActivities   = 2
	MaxStackBonus        = 100
	StackStreakStep      = 0.05
	StackMultiplierCap   = 1.5
	StackHistoryLookback = 30
	DefaultStackBonus    = 10

	// WHOOP sync
	DefaultWhoopTimeout = 15 * time.Second
	DefaultLookbackDays = 2
	MaxLookbackDays     = 7
	WhoopPageLimit      = 25
	WhoopMaxPages       = 10

	// Background dispatch
	DispatchQueueSize = 64
)

// StreakMilestones are the OVERALL streak lengths that unlock an achievement, ascending.
var StreakMilestones = []int{3, 7, 14, 30, 60, 100, 365}
