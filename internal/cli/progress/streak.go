package progress

import (
	"fmt"
	"strings"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/models"
)

type StreakCmd struct {
	Pillar string `arg:"" optional:"" help:"body, mind or overall (default all)."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	keys := models.PillarKeys
	if c.Pillar != "" {
		keys = []models.PillarKey{models.PillarKey(strings.ToUpper(c.Pillar))}
	}
	for _, key := range keys {
		s, err := ctx.Engine.GetStreak(ctx.Ctx, ctx.UserID, key)
		if err != nil {
			return err
		}
		last := s.LastActiveDate
		if last == "" {
			last = "never"
		}
		fmt.Printf("%-7s current %d  longest %d  last active %s\n", key, s.Current, s.Longest, last)
	}
	return nil
}

type AchievementsCmd struct{}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Engine.ListAchievements(ctx.Ctx, ctx.UserID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No achievements yet")
		return nil
	}
	for _, a := range list {
		fmt.Printf("🏆 %-12s %s\n", a.Type, a.UnlockedAt.In(ctx.Location).Format("2006-01-02"))
	}
	return nil
}
