package points

import (
	"testing"
	"time"

	"github.com/julianstephens/pillars/internal/models"
)

var (
	dayStart = time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	dayEnd   = dayStart.AddDate(0, 0, 1)
)

func entry(p models.Pillar, pts int, offset time.Duration) Entry {
	return Entry{Pillar: p, Points: pts, At: dayStart.Add(offset)}
}

func TestPillarPointsDayBoundary(t *testing.T) {
	entries := []Entry{
		entry(models.PillarBody, 10, 0),                           // exactly midnight: included
		entry(models.PillarBody, 20, 23*time.Hour+59*time.Minute), // late evening
		entry(models.PillarBody, 40, 24*time.Hour),                // next midnight: excluded
		entry(models.PillarBody, 80, -time.Second),                // previous day
		entry(models.PillarMind, 5, time.Hour),
	}

	if got := PillarPoints(entries, models.PillarBody, dayStart, dayEnd); got != 30 {
		t.Errorf("PillarPoints(BODY) = %d, want 30", got)
	}
	if got := PillarPoints(entries, models.PillarMind, dayStart, dayEnd); got != 5 {
		t.Errorf("PillarPoints(MIND) = %d, want 5", got)
	}
}

func TestThresholdAndClamp(t *testing.T) {
	tests := []struct {
		points       int
		wantComplete bool
		wantScore    int
	}{
		{0, false, 0},
		{99, false, 99},
		{100, true, 100},
		{101, true, 100},
		{350, true, 100},
	}
	for _, tt := range tests {
		if got := IsPillarComplete(tt.points); got != tt.wantComplete {
			t.Errorf("IsPillarComplete(%d) = %v, want %v", tt.points, got, tt.wantComplete)
		}
		if got := ClampedScore(tt.points); got != tt.wantScore {
			t.Errorf("ClampedScore(%d) = %d, want %d", tt.points, got, tt.wantScore)
		}
	}
}

func TestCompletionIndependentOfSplit(t *testing.T) {
	// The same total must give the same verdict however it was accumulated.
	splits := [][]int{{100}, {50, 50}, {1, 99}, {25, 25, 25, 25}, {10, 10, 10, 10, 10, 10, 10, 10, 10, 10}}
	for _, split := range splits {
		var entries []Entry
		for i, p := range split {
			entries = append(entries, entry(models.PillarMind, p, time.Duration(i)*time.Minute))
		}
		sum := PillarPoints(entries, models.PillarMind, dayStart, dayEnd)
		if sum != 100 || !IsPillarComplete(sum) || ClampedScore(sum) != 100 {
			t.Errorf("split %v: sum=%d complete=%v", split, sum, IsPillarComplete(sum))
		}
	}
}

func TestScore(t *testing.T) {
	entries := []Entry{
		entry(models.PillarBody, 60, time.Hour),
		entry(models.PillarBody, 50, 2*time.Hour),
		entry(models.PillarMind, 30, 3*time.Hour),
	}

	s := Score("u1", "2024-04-02", entries, dayStart, dayEnd)
	if s.BodyPoints != 110 || s.BodyScore != 100 || !s.BodyComplete {
		t.Errorf("body = %d/%d complete=%v, want 110/100 true", s.BodyPoints, s.BodyScore, s.BodyComplete)
	}
	if s.MindPoints != 30 || s.MindScore != 30 || s.MindComplete {
		t.Errorf("mind = %d/%d complete=%v", s.MindPoints, s.MindScore, s.MindComplete)
	}
	if s.BalanceIndex != 65 {
		t.Errorf("BalanceIndex = %v, want 65", s.BalanceIndex)
	}
	if Complete(s, models.KeyOverall) {
		t.Error("OVERALL should need both pillars")
	}
	if !Complete(s, models.KeyBody) || Complete(s, models.KeyMind) {
		t.Error("per-pillar completion mismatch")
	}
}

func TestBalanceIndexRounding(t *testing.T) {
	if got := BalanceIndex(33, 0); got != 16.5 {
		t.Errorf("BalanceIndex(33, 0) = %v", got)
	}
	if got := BalanceIndex(100, 100); got != 100 {
		t.Errorf("BalanceIndex(100, 100) = %v", got)
	}
}
