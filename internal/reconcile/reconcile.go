// Package reconcile turns wearable records into completions exactly once.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pillars/internal/clock"
	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/logger"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/snapshot"
	"github.com/julianstephens/pillars/internal/utils"
	"github.com/julianstephens/pillars/internal/whoop"
)

// Fetcher is the vendor API. Each call is expected to be time-bounded.
type Fetcher interface {
	Sleeps(ctx context.Context, start, end time.Time) ([]whoop.Sleep, error)
	Workouts(ctx context.Context, start, end time.Time) ([]whoop.Workout, error)
	Recoveries(ctx context.Context, start, end time.Time) ([]whoop.Recovery, error)
}

type Store interface {
	EnsureActivity(ctx context.Context, a models.Activity) (models.Activity, error)
	InsertCompletion(ctx context.Context, c models.ActivityCompletion) (bool, error)
}

// Record is one rewardable vendor record.
type Record struct {
	Category    Category
	ExternalID  string
	CompletedAt time.Time
	Points      int
	Details     map[string]interface{}
}

// Report summarizes one reconciliation pass. Errors lists the categories that
// failed; the others were still processed.
type Report struct {
	Created    int
	Duplicates int
	Skipped    int
	Points     map[Category]int
	Days       []string
	Snapshot   *models.VendorSnapshot
	Errors     errors.Collected
}

type Reconciler struct {
	fetcher   Fetcher
	store     Store
	snapshots snapshot.Store
	clock     clock.Clock
	loc       *time.Location
	lookback  int
}

type Option func(*Reconciler)

// WithLookbackDays bounds how far back records are fetched, capped at MaxLookbackDays.
func WithLookbackDays(days int) Option {
	return func(r *Reconciler) {
		if days < 1 {
			days = 1
		}
		if days > constants.MaxLookbackDays {
			days = constants.MaxLookbackDays
		}
		r.lookback = days
	}
}

// WithSnapshots saves the latest vendor state after each pass.
func WithSnapshots(s snapshot.Store) Option {
	return func(r *Reconciler) {
		r.snapshots = s
	}
}

func New(fetcher Fetcher, store Store, c clock.Clock, loc *time.Location, opts ...Option) *Reconciler {
	if c == nil {
		c = clock.System{}
	}
	if loc == nil {
		loc = time.Local
	}
	r := &Reconciler{
		fetcher:  fetcher,
		store:    store,
		clock:    c,
		loc:      loc,
		lookback: constants.DefaultLookbackDays,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type fetched struct {
	sleeps     []whoop.Sleep
	workouts   []whoop.Workout
	recoveries []whoop.Recovery
	errs       map[Category]error
}

// fetchAll queries every category concurrently; one category failing or
// timing out leaves the others untouched.
func (r *Reconciler) fetchAll(ctx context.Context, start, end time.Time) fetched {
	var (
		f  = fetched{errs: make(map[Category]error)}
		mu sync.Mutex
		wg sync.WaitGroup
	)
	run := func(cat Category, fn func() error) {
		defer wg.Done()
		if err := fn(); err != nil {
			mu.Lock()
			f.errs[cat] = err
			mu.Unlock()
		}
	}

	wg.Add(len(Categories))
	go run(CategorySleep, func() (err error) {
		f.sleeps, err = r.fetcher.Sleeps(ctx, start, end)
		return err
	})
	go run(CategoryWorkout, func() (err error) {
		f.workouts, err = r.fetcher.Workouts(ctx, start, end)
		return err
	})
	go run(CategoryRecovery, func() (err error) {
		f.recoveries, err = r.fetcher.Recoveries(ctx, start, end)
		return err
	})
	wg.Wait()
	return f
}

// Records converts fetched vendor data into rewardable records, returning how
// many were skipped as unscored.
func Records(sleeps []whoop.Sleep, workouts []whoop.Workout, recoveries []whoop.Recovery) (map[Category][]Record, int) {
	out := make(map[Category][]Record, len(Categories))
	skipped := 0

	for _, s := range sleeps {
		points, ok := SleepPoints(s)
		if !ok {
			skipped++
			continue
		}
		out[CategorySleep] = append(out[CategorySleep], Record{
			Category:    CategorySleep,
			ExternalID:  s.ID,
			CompletedAt: s.End,
			Points:      points,
			Details: map[string]interface{}{
				"asleep_hours": roundTenth(s.Score.StageSummary.Asleep().Hours()),
				"efficiency":   s.Score.SleepEfficiencyPercentage,
			},
		})
	}

	for _, w := range workouts {
		points, ok := WorkoutPoints(w)
		if !ok {
			skipped++
			continue
		}
		out[CategoryWorkout] = append(out[CategoryWorkout], Record{
			Category:    CategoryWorkout,
			ExternalID:  w.ID,
			CompletedAt: w.End,
			Points:      points,
			Details: map[string]interface{}{
				"sport":   w.SportName,
				"minutes": int(w.Duration().Minutes()),
				"strain":  w.Score.Strain,
			},
		})
	}

	for _, rec := range recoveries {
		points, ok := RecoveryPoints(rec)
		if !ok {
			skipped++
			continue
		}
		out[CategoryRecovery] = append(out[CategoryRecovery], Record{
			Category:    CategoryRecovery,
			ExternalID:  strconv.FormatInt(rec.CycleID, 10),
			CompletedAt: rec.CreatedAt,
			Points:      points,
			Details: map[string]interface{}{
				"recovery_score":     rec.Score.RecoveryScore,
				"resting_heart_rate": rec.Score.RestingHeartRate,
			},
		})
	}

	return out, skipped
}

// Run fetches the lookback window and ingests every new record.
func (r *Reconciler) Run(ctx context.Context, userID string) Report {
	now := r.clock.Now()
	end := now
	start := now.AddDate(0, 0, -r.lookback)

	report := Report{Points: make(map[Category]int)}
	f := r.fetchAll(ctx, start, end)
	records, skipped := Records(f.sleeps, f.workouts, f.recoveries)
	report.Skipped = skipped

	days := make(map[string]bool)
	for _, cat := range Categories {
		if err, failed := f.errs[cat]; failed {
			logger.Warn("Vendor fetch failed", "category", cat, "error", err)
			report.Errors = append(report.Errors, errors.CategoryError{Category: string(cat), Err: err})
			continue
		}
		if len(records[cat]) == 0 {
			continue
		}
		if err := r.ingest(ctx, userID, cat, records[cat], &report, days); err != nil {
			logger.Warn("Vendor ingest failed", "category", cat, "error", err)
			report.Errors = append(report.Errors, errors.CategoryError{Category: string(cat), Err: err})
		}
	}

	for day := range days {
		report.Days = append(report.Days, day)
	}
	sort.Strings(report.Days)

	report.Snapshot = r.saveSnapshot(ctx, userID, f)
	return report
}

func (r *Reconciler) ingest(ctx context.Context, userID string, cat Category, records []Record, report *Report, days map[string]bool) error {
	sys := systemActivities[cat]
	activity, err := r.store.EnsureActivity(ctx, models.Activity{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        sys.Name,
		Pillar:      sys.Pillar,
		SubCategory: sys.SubCategory,
		Points:      sys.BasePoints,
		SystemKey:   sys.Key,
		CreatedAt:   r.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure %s activity: %w", sys.Key, err)
	}

	for _, rec := range records {
		details := map[string]interface{}{"external_id": rec.ExternalID, "record_type": string(cat)}
		for k, v := range rec.Details {
			details[k] = v
		}
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to encode details for %s: %w", rec.ExternalID, err)
		}

		inserted, err := r.store.InsertCompletion(ctx, models.ActivityCompletion{
			ID:           uuid.New().String(),
			UserID:       userID,
			ActivityID:   activity.ID,
			PointsEarned: rec.Points,
			CompletedAt:  rec.CompletedAt,
			Source:       models.SourceWhoop,
			Details:      string(raw),
			ExternalID:   rec.ExternalID,
			RecordType:   string(cat),
			CreatedAt:    r.clock.Now(),
		})
		if err != nil {
			return err
		}
		if !inserted {
			report.Duplicates++
			continue
		}
		report.Created++
		report.Points[cat] += rec.Points
		days[utils.DayOf(rec.CompletedAt, r.loc)] = true
	}
	return nil
}

// saveSnapshot overlays the newest record of each successfully fetched
// category onto the stored snapshot. Failures are logged only.
func (r *Reconciler) saveSnapshot(ctx context.Context, userID string, f fetched) *models.VendorSnapshot {
	if r.snapshots == nil {
		return nil
	}

	snap, err := r.snapshots.Get(ctx, userID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		logger.Warn("Failed to read vendor snapshot", "user", userID, "error", err)
	}
	snap.UserID = userID
	changed := applyLatest(&snap, f)
	if !changed {
		return nil
	}
	snap.UpdatedAt = r.clock.Now()

	if err := r.snapshots.Save(ctx, snap); err != nil {
		logger.Warn("Failed to save vendor snapshot", "user", userID, "error", err)
		return nil
	}
	return &snap
}

func applyLatest(snap *models.VendorSnapshot, f fetched) bool {
	changed := false

	var latestRecovery *whoop.Recovery
	for i, rec := range f.recoveries {
		if rec.Score == nil || rec.ScoreState != whoop.ScoreStateScored {
			continue
		}
		if latestRecovery == nil || rec.CreatedAt.After(latestRecovery.CreatedAt) {
			latestRecovery = &f.recoveries[i]
		}
	}
	if latestRecovery != nil {
		score := int(math.Round(latestRecovery.Score.RecoveryScore))
		rhr := int(math.Round(latestRecovery.Score.RestingHeartRate))
		snap.RecoveryScore = &score
		snap.RestingHeartRate = &rhr
		changed = true
	}

	var latestSleep *whoop.Sleep
	for i, s := range f.sleeps {
		if s.Nap || s.Score == nil || s.ScoreState != whoop.ScoreStateScored {
			continue
		}
		if latestSleep == nil || s.End.After(latestSleep.End) {
			latestSleep = &f.sleeps[i]
		}
	}
	if latestSleep != nil {
		hours := roundTenth(latestSleep.Score.StageSummary.Asleep().Hours())
		efficiency := latestSleep.Score.SleepEfficiencyPercentage
		snap.SleepHours = &hours
		snap.SleepEfficiency = &efficiency
		changed = true
	}

	var latestWorkout *whoop.Workout
	for i, w := range f.workouts {
		if w.Score == nil || w.ScoreState != whoop.ScoreStateScored {
			continue
		}
		if latestWorkout == nil || w.End.After(latestWorkout.End) {
			latestWorkout = &f.workouts[i]
		}
	}
	if latestWorkout != nil {
		at := latestWorkout.End
		strain := latestWorkout.Score.Strain
		snap.LastWorkoutAt = &at
		snap.LastWorkoutStrain = &strain
		changed = true
	}

	return changed
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
