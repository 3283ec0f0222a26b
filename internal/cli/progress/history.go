package progress

import (
	"fmt"

	"github.com/julianstephens/pillars/internal/cli"
)

type HistoryCmd struct {
	Days int `short:"d" help:"Number of days to show." default:"7"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	scores, err := ctx.Engine.History(ctx.Ctx, ctx.UserID, c.Days)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		fmt.Println("No history yet")
		return nil
	}

	fmt.Printf("%-10s  %-12s  %-12s  %s\n", "Day", "Body", "Mind", "Balance")
	for _, s := range scores {
		fmt.Printf("%-10s  %s %3d  %s %3d  %.1f\n",
			s.Day,
			cli.ProgressBar(s.BodyScore, 8), s.BodyScore,
			cli.ProgressBar(s.MindScore, 8), s.MindScore,
			s.BalanceIndex)
	}
	return nil
}
