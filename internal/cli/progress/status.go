package progress

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/status"
)

type StatusCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, default today)."`
	JSON bool   `help:"Print the snapshot as JSON."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Engine.GetDailyStatus(ctx.Ctx, ctx.UserID, c.Date)
	if err != nil {
		return err
	}
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printSnapshot(snap)
	return nil
}

func printSnapshot(snap status.Snapshot) {
	fmt.Printf("Progress for %s:\n\n", snap.Day)
	fmt.Printf("  BODY  %s %3d  (%d pts)\n", cli.ProgressBar(snap.Score.BodyScore, 20), snap.Score.BodyScore, snap.Score.BodyPoints)
	fmt.Printf("  MIND  %s %3d  (%d pts)\n", cli.ProgressBar(snap.Score.MindScore, 20), snap.Score.MindScore, snap.Score.MindPoints)
	fmt.Printf("  Balance %.1f\n\n", snap.Score.BalanceIndex)

	fmt.Println("Streaks:")
	for _, s := range snap.Streaks {
		marker := "   "
		switch {
		case s.CompleteToday:
			marker = "[x]"
		case s.AtRisk:
			marker = "[!]"
		}
		fmt.Printf("  %s %-7s %d (best %d)\n", marker, s.PillarKey, s.Current, s.Longest)
	}
	if snap.IsToday {
		fmt.Printf("  %.1f hours left today\n", snap.HoursRemaining)
	}

	if len(snap.StackBonuses) > 0 {
		fmt.Println("\nStack bonuses:")
		for _, sc := range snap.StackBonuses {
			fmt.Printf("  +%d %s (day %d)\n", sc.BonusPointsEarned, sc.Pillar, sc.StreakDay)
		}
	}

	if snap.Vendor != nil {
		fmt.Println("\nWearable:")
		if snap.Vendor.RecoveryScore != nil {
			fmt.Printf("  Recovery %d%% → %s\n", *snap.Vendor.RecoveryScore, snap.Recommendation)
		}
		if snap.Vendor.SleepHours != nil {
			fmt.Printf("  Sleep %.1fh\n", *snap.Vendor.SleepHours)
		}
		if snap.Vendor.LastWorkoutStrain != nil {
			fmt.Printf("  Last workout strain %.1f\n", *snap.Vendor.LastWorkoutStrain)
		}
	}

	if snap.Quote != "" {
		fmt.Printf("\n  \"%s\"\n", snap.Quote)
	}
}
