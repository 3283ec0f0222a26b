package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/pillars/internal/backup"
	"github.com/julianstephens/pillars/internal/engine"
	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/logger"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/storage"
	"github.com/julianstephens/pillars/internal/storage/postgres"
)

type Context struct {
	Ctx      context.Context
	Store    storage.Provider
	Engine   *engine.Engine
	UserID   string
	Location *time.Location
	RedisURL string
}

func (c *Context) IsPostgres() bool {
	_, ok := c.Store.(*postgres.Store)
	return ok
}

// PerformAutomaticBackup snapshots a SQLite database. Failures are only logged.
func (c *Context) PerformAutomaticBackup() {
	if c.IsPostgres() {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseCue parses "type:value", e.g. "time:07:30" or "after:<activity id>".
// An empty string means no cue.
func ParseCue(s string) (*models.Cue, error) {
	if s == "" {
		return nil, nil
	}
	kind, value, ok := strings.Cut(s, ":")
	if !ok {
		return nil, errors.Invalid("cue", "%q must be type:value", s)
	}
	return &models.Cue{Type: models.CueType(strings.ToLower(kind)), Value: value}, nil
}

// FormatCue renders a cue for listings.
func FormatCue(c *models.Cue) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", c.Type, c.Value)
}

// ParsePillar accepts body/mind in any case.
func ParsePillar(s string) (models.Pillar, error) {
	switch p := models.Pillar(strings.ToUpper(strings.TrimSpace(s))); p {
	case models.PillarBody, models.PillarMind:
		return p, nil
	default:
		return "", errors.Invalid("pillar", "%q must be body or mind", s)
	}
}

// ResolveActivity finds an activity by id or, failing that, by name (case-insensitive).
func (c *Context) ResolveActivity(ref string) (models.Activity, error) {
	activities, err := c.Engine.ListActivities(c.Ctx, c.UserID, true)
	if err != nil {
		return models.Activity{}, err
	}
	for _, a := range activities {
		if a.ID == ref {
			return a, nil
		}
	}
	var match *models.Activity
	for i, a := range activities {
		if !strings.EqualFold(a.Name, ref) {
			continue
		}
		if match != nil {
			return models.Activity{}, fmt.Errorf("more than one activity is named %q, use its id", ref)
		}
		match = &activities[i]
	}
	if match == nil {
		return models.Activity{}, errors.NotFound("activity", ref)
	}
	return *match, nil
}

// ResolveStack finds a stack by id or name, inactive stacks included.
func (c *Context) ResolveStack(ref string) (models.HabitStack, error) {
	stacks, err := c.Engine.ListStacks(c.Ctx, c.UserID, true)
	if err != nil {
		return models.HabitStack{}, err
	}
	for _, st := range stacks {
		if st.ID == ref || strings.EqualFold(st.Name, ref) {
			return st, nil
		}
	}
	return models.HabitStack{}, errors.NotFound("stack", ref)
}

// ProgressBar draws score out of 100 in width cells.
func ProgressBar(score, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
