package engine

import (
	"context"
	stderrors "errors"

	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/reconcile"
)

// ErrNoFetcher is returned by RunReconciliation when no vendor is configured.
var ErrNoFetcher = stderrors.New("no vendor configured")

// RunReconciliation ingests recent vendor records and re-applies every day
// that gained completions, oldest first.
func (e *Engine) RunReconciliation(ctx context.Context, userID string) (reconcile.Report, error) {
	if e.fetcher == nil {
		return reconcile.Report{}, ErrNoFetcher
	}
	r := reconcile.New(e.fetcher, e.store, e.clock, e.loc,
		reconcile.WithLookbackDays(e.lookback),
		reconcile.WithSnapshots(e.snapshots),
	)
	report := r.Run(ctx, userID)

	for _, day := range report.Days {
		if _, err := e.applyDay(ctx, userID, day); err != nil {
			report.Errors = append(report.Errors, errors.CategoryError{Category: "day " + day, Err: err})
		}
	}
	return report, nil
}
