package achievement

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/pillars/internal/clock"
	"github.com/julianstephens/pillars/internal/models"
)

type memStore struct {
	mu   sync.Mutex
	rows map[string]models.Achievement
	fail string
}

func (m *memStore) UnlockAchievement(_ context.Context, a models.Achievement) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.Type == m.fail {
		return false, errors.New("write failed")
	}
	key := a.UserID + "/" + a.Type
	if _, ok := m.rows[key]; ok {
		return false, nil
	}
	m.rows[key] = a
	return true, nil
}

func TestReached(t *testing.T) {
	tests := []struct {
		current int
		want    []int
	}{
		{0, nil},
		{2, nil},
		{3, []int{3}},
		{13, []int{3, 7}},
		{365, []int{3, 7, 14, 30, 60, 100, 365}},
		{1000, []int{3, 7, 14, 30, 60, 100, 365}},
	}
	for _, tt := range tests {
		if got := Reached(tt.current); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Reached(%d) = %v, want %v", tt.current, got, tt.want)
		}
	}
}

func TestUnlock_OncePerType(t *testing.T) {
	store := &memStore{rows: make(map[string]models.Achievement)}
	u := NewUnlocker(store, clock.NewFixed(time.Now()))
	ctx := context.Background()

	got := u.Unlock(ctx, "u1", 7)
	if !reflect.DeepEqual(got, []string{"streak_3", "streak_7"}) {
		t.Fatalf("unexpected unlocks: %v", got)
	}

	// Retried request crossing 7 again
	if got := u.Unlock(ctx, "u1", 7); len(got) != 0 {
		t.Errorf("expected no new unlocks, got %v", got)
	}
	if len(store.rows) != 2 {
		t.Errorf("expected exactly 2 achievement rows, got %d", len(store.rows))
	}

	// Another user is independent
	if got := u.Unlock(ctx, "u2", 3); len(got) != 1 {
		t.Errorf("expected streak_3 for u2, got %v", got)
	}
}

func TestUnlock_ContinuesPastErrors(t *testing.T) {
	store := &memStore{rows: make(map[string]models.Achievement), fail: "streak_3"}
	u := NewUnlocker(store, nil)

	got := u.Unlock(context.Background(), "u1", 14)
	if !reflect.DeepEqual(got, []string{"streak_7", "streak_14"}) {
		t.Errorf("expected later milestones despite failure, got %v", got)
	}
}
