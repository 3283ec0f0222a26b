package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/storage/sqlite"
)

const testUser = "u1"

func setupDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pillars.db")
	store := sqlite.NewStore(path)
	require.NoError(t, store.Init())
	require.NoError(t, store.AddActivity(context.Background(), models.Activity{
		ID:        "a1",
		UserID:    testUser,
		Name:      "Run",
		Pillar:    models.PillarBody,
		Points:    30,
		CreatedAt: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Close())
	return path
}

func activities(t *testing.T, path string) []models.Activity {
	t.Helper()
	store := sqlite.NewStore(path)
	require.NoError(t, store.Load())
	defer store.Close()
	list, err := store.ListActivities(context.Background(), testUser, true)
	require.NoError(t, err)
	return list
}

func fixedClock(m *Manager, start time.Time) {
	next := start
	m.now = func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

func TestCreateAndList(t *testing.T) {
	path := setupDB(t)
	m := NewManager(path)
	fixedClock(m, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))

	first, err := m.Create()
	require.NoError(t, err)
	second, err := m.Create()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), DirName), m.Dir())
	assert.Equal(t, "pillars-20260310-090000.db", filepath.Base(first))

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].Path)
	assert.Equal(t, first, list[1].Path)
	assert.Positive(t, list[0].Size)

	require.NoError(t, verify(first))
}

func TestCreateSameSecondGetsCounter(t *testing.T) {
	path := setupDB(t)
	m := NewManager(path)
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	m.now = func() time.Time { return at }

	first, err := m.Create()
	require.NoError(t, err)
	second, err := m.Create()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, "pillars-20260310-090000-1.db", filepath.Base(second))
}

func TestCreateMissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	_, err := m.Create()
	assert.Error(t, err)
}

func TestListIgnoresForeignFiles(t *testing.T) {
	path := setupDB(t)
	m := NewManager(path)

	list, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, os.MkdirAll(m.Dir(), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "pillars-garbage.db"), []byte("x"), 0600))

	list, err = m.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRotationKeepsNewest(t *testing.T) {
	path := setupDB(t)
	m := NewManager(path)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	fixedClock(m, start)

	for i := 0; i < MaxBackups+3; i++ {
		_, err := m.Create()
		require.NoError(t, err)
	}

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, MaxBackups)
	newest := start.Add(time.Duration(MaxBackups+2) * time.Minute)
	assert.True(t, list[0].Timestamp.Equal(newest))
	oldest := start.Add(3 * time.Minute)
	assert.True(t, list[MaxBackups-1].Timestamp.Equal(oldest))
}

func TestRestore(t *testing.T) {
	path := setupDB(t)
	m := NewManager(path)
	fixedClock(m, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))

	saved, err := m.Create()
	require.NoError(t, err)

	store := sqlite.NewStore(path)
	require.NoError(t, store.Load())
	require.NoError(t, store.AddActivity(context.Background(), models.Activity{
		ID:        "a2",
		UserID:    testUser,
		Name:      "Read",
		Pillar:    models.PillarMind,
		Points:    10,
		CreatedAt: time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Close())
	require.Len(t, activities(t, path), 2)

	previous, err := m.Restore(saved)
	require.NoError(t, err)
	assert.NotEmpty(t, previous)

	list := activities(t, path)
	require.Len(t, list, 1)
	assert.Equal(t, "Run", list[0].Name)

	require.Len(t, activities(t, previous), 2)
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	path := setupDB(t)
	m := NewManager(path)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	require.NoError(t, os.WriteFile(bogus, []byte("not a database"), 0600))

	_, err := m.Restore(bogus)
	assert.Error(t, err)
	require.Len(t, activities(t, path), 1)
}
