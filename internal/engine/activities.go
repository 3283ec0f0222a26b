package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
)

func (e *Engine) ownedActivities(ctx context.Context, userID string) (map[string]models.Activity, error) {
	list, err := e.store.ListActivities(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]models.Activity, len(list))
	for _, a := range list {
		owned[a.ID] = a
	}
	return owned, nil
}

func (e *Engine) AddActivity(ctx context.Context, userID string, a models.Activity) (models.Activity, error) {
	a.ID = uuid.New().String()
	a.UserID = userID
	a.SystemKey = ""
	a.ArchivedAt = nil
	a.CreatedAt = e.clock.Now()

	owned, err := e.ownedActivities(ctx, userID)
	if err != nil {
		return models.Activity{}, err
	}
	if err := e.validator.ValidateActivity(a, owned); err != nil {
		return models.Activity{}, err
	}
	if err := e.store.AddActivity(ctx, a); err != nil {
		return models.Activity{}, fmt.Errorf("failed to add activity: %w", err)
	}
	return a, nil
}

// UpdateActivity edits a user activity. Past completions keep the points they
// were logged with.
func (e *Engine) UpdateActivity(ctx context.Context, userID string, a models.Activity) (models.Activity, error) {
	owned, err := e.ownedActivities(ctx, userID)
	if err != nil {
		return models.Activity{}, err
	}
	existing, ok := owned[a.ID]
	if !ok {
		return models.Activity{}, errors.NotFound("activity", a.ID)
	}
	if existing.SystemKey != "" {
		return models.Activity{}, errors.Invalid("activity", "%q is managed by sync", existing.Name)
	}
	a.UserID = existing.UserID
	a.SystemKey = existing.SystemKey
	a.CreatedAt = existing.CreatedAt
	a.ArchivedAt = existing.ArchivedAt

	if err := e.validator.ValidateActivity(a, owned); err != nil {
		return models.Activity{}, err
	}
	if err := e.store.UpdateActivity(ctx, a); err != nil {
		return models.Activity{}, fmt.Errorf("failed to update activity: %w", err)
	}
	return a, nil
}

func (e *Engine) GetActivity(ctx context.Context, userID, id string) (models.Activity, error) {
	return e.store.GetActivity(ctx, userID, id)
}

func (e *Engine) ListActivities(ctx context.Context, userID string, includeArchived bool) ([]models.Activity, error) {
	return e.store.ListActivities(ctx, userID, includeArchived)
}

// ArchiveActivity hides an activity from logging; its completions stay.
func (e *Engine) ArchiveActivity(ctx context.Context, userID, id string) error {
	return e.store.ArchiveActivity(ctx, userID, id, e.clock.Now())
}

func (e *Engine) UnarchiveActivity(ctx context.Context, userID, id string) error {
	return e.store.UnarchiveActivity(ctx, userID, id)
}
