package progress

import (
	"fmt"
	"time"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/engine"
	"github.com/julianstephens/pillars/internal/errors"
	"github.com/julianstephens/pillars/internal/models"
)

// LogCmd records a completion of an activity.
type LogCmd struct {
	Activity string `arg:"" help:"Activity id or name."`
	Points   *int   `short:"n" help:"Override the activity's points for this completion."`
	At       string `help:"When it was done (YYYY-MM-DD HH:MM, local time). Defaults to now."`
	Note     string `help:"Optional note stored with the completion."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}

	req := engine.CompletionRequest{ActivityID: a.ID, Points: c.Points}
	if c.At != "" {
		at, err := time.ParseInLocation("2006-01-02 15:04", c.At, ctx.Location)
		if err != nil {
			return errors.Invalid("at", "%q must be YYYY-MM-DD HH:MM", c.At)
		}
		req.CompletedAt = at
	}
	if c.Note != "" {
		req.Details = map[string]interface{}{"note": c.Note}
	}

	res, err := ctx.Engine.RecordCompletion(ctx.Ctx, ctx.UserID, req)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Logged %s: +%d %s (%s)\n", a.Name, res.Completion.PointsEarned, a.Pillar, res.Score.Day)
	points, complete := res.Score.BodyPoints, res.Score.BodyComplete
	if a.Pillar == models.PillarMind {
		points, complete = res.Score.MindPoints, res.Score.MindComplete
	}
	if complete {
		fmt.Printf("  %s pillar complete (%d pts)\n", a.Pillar, points)
	} else {
		fmt.Printf("  %s pillar at %d pts\n", a.Pillar, points)
	}
	for _, s := range res.Streaks {
		fmt.Printf("  %-7s streak %d (best %d)\n", s.PillarKey, s.Current, s.Longest)
	}
	return nil
}
