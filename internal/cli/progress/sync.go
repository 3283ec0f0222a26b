package progress

import (
	"errors"
	"fmt"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/engine"
	"github.com/julianstephens/pillars/internal/reconcile"
)

// SyncCmd pulls recent WHOOP records into completions.
type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	report, err := ctx.Engine.RunReconciliation(ctx.Ctx, ctx.UserID)
	if errors.Is(err, engine.ErrNoFetcher) {
		return fmt.Errorf("WHOOP is not configured, run 'pillars token set <token>' first")
	}
	if err != nil {
		return err
	}

	fmt.Printf("Synced: %d new, %d already recorded, %d skipped\n", report.Created, report.Duplicates, report.Skipped)
	for _, cat := range reconcile.Categories {
		if pts := report.Points[cat]; pts > 0 {
			fmt.Printf("  %-8s +%d pts\n", cat, pts)
		}
	}
	if len(report.Days) > 0 {
		fmt.Printf("  Updated days: %v\n", report.Days)
	}
	if len(report.Errors) > 0 {
		fmt.Println("⚠ Some categories failed:")
		for _, e := range report.Errors {
			fmt.Printf("  %s\n", e.Error())
		}
	}
	return nil
}
