package streak

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/utils"
)

func TestAdvance(t *testing.T) {
	const d = "2024-05-10"

	tests := []struct {
		name     string
		state    models.Streak
		complete bool
		want     models.Streak
	}{
		{
			name:     "first complete day",
			state:    models.Streak{},
			complete: true,
			want:     models.Streak{Current: 1, Longest: 1, LastActiveDate: d},
		},
		{
			name:     "continues from yesterday",
			state:    models.Streak{Current: 4, Longest: 6, LastActiveDate: "2024-05-09"},
			complete: true,
			want:     models.Streak{Current: 5, Longest: 6, LastActiveDate: d},
		},
		{
			name:     "new longest",
			state:    models.Streak{Current: 6, Longest: 6, LastActiveDate: "2024-05-09"},
			complete: true,
			want:     models.Streak{Current: 7, Longest: 7, LastActiveDate: d},
		},
		{
			name:     "gap restarts at one even on a complete day",
			state:    models.Streak{Current: 5, Longest: 9, LastActiveDate: "2024-05-07"},
			complete: true,
			want:     models.Streak{Current: 1, Longest: 9, LastActiveDate: d},
		},
		{
			name:     "gap breaks on an incomplete day",
			state:    models.Streak{Current: 5, Longest: 9, LastActiveDate: "2024-05-07"},
			complete: false,
			want:     models.Streak{Current: 0, Longest: 9, LastActiveDate: "2024-05-07"},
		},
		{
			name:     "yesterday still in grace",
			state:    models.Streak{Current: 3, Longest: 3, LastActiveDate: "2024-05-09"},
			complete: false,
			want:     models.Streak{Current: 3, Longest: 3, LastActiveDate: "2024-05-09"},
		},
		{
			name:     "already processed today",
			state:    models.Streak{Current: 2, Longest: 4, LastActiveDate: d},
			complete: false,
			want:     models.Streak{Current: 2, Longest: 4, LastActiveDate: d},
		},
		{
			name:     "never active and incomplete",
			state:    models.Streak{},
			complete: false,
			want:     models.Streak{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Advance(tt.state, d, tt.complete)
			if err != nil {
				t.Fatalf("Advance() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Advance() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAdvanceIdempotent(t *testing.T) {
	start := models.Streak{Current: 2, Longest: 2, LastActiveDate: "2024-05-09"}
	for _, complete := range []bool{true, false} {
		first, err := Advance(start, "2024-05-10", complete)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Advance(first, "2024-05-10", complete)
		if err != nil {
			t.Fatal(err)
		}
		if first != second {
			t.Errorf("complete=%v: second advance changed state %+v -> %+v", complete, first, second)
		}
	}
}

func TestAdvanceOutOfOrder(t *testing.T) {
	s := models.Streak{PillarKey: models.KeyBody, Current: 3, Longest: 3, LastActiveDate: "2024-05-10"}
	got, err := Advance(s, "2024-05-08", true)
	if !errors.Is(err, errors.ErrOutOfOrder) {
		t.Fatalf("Advance() error = %v, want ErrOutOfOrder", err)
	}
	if got != s {
		t.Errorf("state changed on error: %+v", got)
	}

	if _, err := Advance(s, "05/11/2024", true); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("Advance() with bad date error = %v, want ErrValidation", err)
	}
}

func TestAdvanceInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := models.Streak{}
	day := "2024-01-01"
	prevLongest := 0
	prevLast := ""

	for i := 0; i < 500; i++ {
		day = utils.AddDays(day, rng.Intn(3)) // same day, next day, or a skipped day
		next, err := Advance(s, day, rng.Intn(3) > 0)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if next.Longest < prevLongest {
			t.Fatalf("step %d: longest decreased %d -> %d", i, prevLongest, next.Longest)
		}
		if next.Current < 0 || next.Current > next.Longest {
			t.Fatalf("step %d: invariant broken %+v", i, next)
		}
		if prevLast != "" && next.LastActiveDate < prevLast {
			t.Fatalf("step %d: last active date moved back %s -> %s", i, prevLast, next.LastActiveDate)
		}
		prevLongest, prevLast, s = next.Longest, next.LastActiveDate, next
	}
}

func TestAtRisk(t *testing.T) {
	if !AtRisk(models.Streak{Current: 3}, false) {
		t.Error("live streak on an incomplete day should be at risk")
	}
	if AtRisk(models.Streak{Current: 3}, true) {
		t.Error("completed day is not at risk")
	}
	if AtRisk(models.Streak{Current: 0}, false) {
		t.Error("zero streak is never at risk")
	}
}

func TestHoursRemainingToday(t *testing.T) {
	loc := time.FixedZone("T", 2*3600)
	tests := []struct {
		now  time.Time
		want float64
	}{
		{time.Date(2024, 5, 10, 18, 0, 0, 0, loc), 6},
		{time.Date(2024, 5, 10, 23, 54, 0, 0, loc), 0.1},
		{time.Date(2024, 5, 10, 0, 0, 0, 0, loc), 24},
		{time.Date(2024, 5, 10, 20, 15, 0, 0, time.UTC), 1.8}, // 22:15 local
	}
	for _, tt := range tests {
		if got := HoursRemainingToday(tt.now, loc); got != tt.want {
			t.Errorf("HoursRemainingToday(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestEffective(t *testing.T) {
	s := models.Streak{Current: 4, Longest: 4, LastActiveDate: "2024-05-08"}
	if got := Effective(s, "2024-05-09"); got.Current != 4 {
		t.Errorf("yesterday's streak should still be live, got %d", got.Current)
	}
	if got := Effective(s, "2024-05-10"); got.Current != 0 || got.Longest != 4 {
		t.Errorf("stale streak view = %+v", got)
	}
	if got := Effective(models.Streak{}, "2024-05-10"); got.Current != 0 {
		t.Errorf("empty streak view = %+v", got)
	}
}

func TestRunLength(t *testing.T) {
	h := NewDaySet("2024-05-10", "2024-05-09", "2024-05-08", "2024-05-06")

	tests := []struct {
		end   string
		limit int
		want  int
	}{
		{"2024-05-10", 0, 3},
		{"2024-05-10", 2, 2},
		{"2024-05-07", 0, 0},
		{"2024-05-06", 0, 1},
		{"2024-05-11", 0, 0},
	}
	for _, tt := range tests {
		if got := RunLength(h, tt.end, tt.limit); got != tt.want {
			t.Errorf("RunLength(%s, %d) = %d, want %d", tt.end, tt.limit, got, tt.want)
		}
	}
}

func TestReplayAgreesWithRunLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		var days []string
		day := "2024-01-01"
		for i := 0; i < 40; i++ {
			if rng.Intn(4) > 0 {
				days = append(days, day)
			}
			day = utils.AddDays(day, 1)
		}
		if len(days) == 0 {
			continue
		}
		sort.Strings(days)

		s, err := Replay(models.KeyOverall, days)
		if err != nil {
			t.Fatal(err)
		}
		last := days[len(days)-1]
		if want := RunLength(NewDaySet(days...), last, 0); s.Current != want {
			t.Fatalf("trial %d: Replay current %d, RunLength %d (days %v)", trial, s.Current, want, days)
		}
		if s.LastActiveDate != last {
			t.Fatalf("trial %d: last active %s, want %s", trial, s.LastActiveDate, last)
		}
	}
}
