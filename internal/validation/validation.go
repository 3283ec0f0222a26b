// Package validation checks user-managed entities before anything is persisted.
package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/utils"
)

// Validator validates activities and habit stacks against a user's other activities.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func validPillar(p models.Pillar) bool {
	return p == models.PillarBody || p == models.PillarMind
}

// ValidateActivity checks an activity's own fields. owned holds the user's
// other activities by id and is only consulted for "after" cues.
func (v *Validator) ValidateActivity(a models.Activity, owned map[string]models.Activity) error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.Invalid("name", "cannot be empty")
	}
	if !validPillar(a.Pillar) {
		return errors.Invalid("pillar", "%q must be BODY or MIND", a.Pillar)
	}
	if a.Points < constants.MinActivityPoints || a.Points > constants.MaxActivityPoints {
		return errors.Invalid("points", "%d must be between %d and %d", a.Points, constants.MinActivityPoints, constants.MaxActivityPoints)
	}
	return v.ValidateCue(a.Cue, a.ID, owned)
}

// ValidateCue checks a cue's value against its type. self is the id of the
// entity carrying the cue so an activity cannot follow itself.
func (v *Validator) ValidateCue(c *models.Cue, self string, owned map[string]models.Activity) error {
	if c == nil {
		return nil
	}
	switch c.Type {
	case models.CueTime:
		if !utils.ValidateTimeFormat(c.Value) {
			return errors.Invalid("cue", "time cue %q must be HH:MM", c.Value)
		}
	case models.CueLocation:
		if strings.TrimSpace(c.Value) == "" {
			return errors.Invalid("cue", "location cue cannot be empty")
		}
	case models.CueAfter:
		if _, err := uuid.Parse(c.Value); err != nil {
			return errors.Invalid("cue", "after cue %q is not an activity id", c.Value)
		}
		if c.Value == self {
			return errors.Invalid("cue", "an activity cannot follow itself")
		}
		if _, ok := owned[c.Value]; !ok {
			return errors.Invalid("cue", "after cue references unknown activity %s", c.Value)
		}
	default:
		return errors.Invalid("cue", "unknown cue type %q", c.Type)
	}
	return nil
}

// ValidateStack checks a stack against the member activities found for its
// owner. Members missing from found do not belong to the user.
func (v *Validator) ValidateStack(st models.HabitStack, found map[string]models.Activity) error {
	if strings.TrimSpace(st.Name) == "" {
		return errors.Invalid("name", "cannot be empty")
	}
	if st.CompletionBonus < 0 || st.CompletionBonus > constants.MaxStackBonus {
		return errors.Invalid("completion_bonus", "%d must be between 0 and %d", st.CompletionBonus, constants.MaxStackBonus)
	}

	seen := make(map[string]bool, len(st.ActivityIDs))
	for _, id := range st.ActivityIDs {
		if seen[id] {
			return errors.Invalid("activity_ids", "activity %s appears more than once", id)
		}
		seen[id] = true

		a, ok := found[id]
		if !ok {
			return errors.NotFound("activity", id)
		}
		if a.Archived() {
			return errors.Invalid("activity_ids", "activity %q is archived", a.Name)
		}
	}
	if len(seen) < constants.MinStackActivities {
		return errors.Invalid("activity_ids", "a stack needs at least %d activities", constants.MinStackActivities)
	}

	return v.ValidateCue(st.Cue, st.ID, found)
}
