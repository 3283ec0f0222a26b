// Package engine turns completion events into daily scores, streaks, stack
// bonuses and achievements. Every mutation is one short transaction on one
// row group; best-effort side effects run after commit on a dispatcher.
package engine

import (
	"time"

	"github.com/julianstephens/pillars/internal/achievement"
	"github.com/julianstephens/pillars/internal/clock"
	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/reconcile"
	"github.com/julianstephens/pillars/internal/snapshot"
	"github.com/julianstephens/pillars/internal/stack"
	"github.com/julianstephens/pillars/internal/storage"
	"github.com/julianstephens/pillars/internal/utils"
	"github.com/julianstephens/pillars/internal/validation"
)

type Engine struct {
	store      storage.Provider
	clock      clock.Clock
	loc        *time.Location
	validator  *validation.Validator
	stacks     *stack.Calculator
	unlocker   *achievement.Unlocker
	snapshots  snapshot.Store
	fetcher    reconcile.Fetcher
	lookback   int
	dispatcher *Dispatcher
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLocation sets the timezone whose midnights bound a day.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

// WithSnapshots replaces the database snapshot store, e.g. with a Redis-cached one.
func WithSnapshots(s snapshot.Store) Option {
	return func(e *Engine) {
		e.snapshots = s
	}
}

// WithFetcher enables RunReconciliation against a vendor API.
func WithFetcher(f reconcile.Fetcher) Option {
	return func(e *Engine) {
		e.fetcher = f
	}
}

func WithLookbackDays(days int) Option {
	return func(e *Engine) {
		e.lookback = days
	}
}

func New(store storage.Provider, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		clock:     clock.System{},
		loc:       time.Local,
		validator: validation.New(),
		lookback:  constants.DefaultLookbackDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.snapshots == nil {
		e.snapshots = snapshot.NewDBStore(store)
	}
	e.stacks = stack.NewCalculator(store, e.clock)
	e.unlocker = achievement.NewUnlocker(store, e.clock)
	e.dispatcher = NewDispatcher(constants.DispatchQueueSize)
	return e
}

// Close waits for dispatched side effects to finish. The store is left open.
func (e *Engine) Close() {
	e.dispatcher.Close()
}

// Location is the timezone days are bucketed in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Today is the current day key in the engine's timezone.
func (e *Engine) Today() string {
	return utils.DayOf(e.clock.Now(), e.loc)
}

func (e *Engine) dayOrToday(day string) string {
	if day == "" {
		return e.Today()
	}
	return day
}
