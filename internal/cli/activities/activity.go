package activities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/models"
)

type ActivityCmd struct {
	Add       ActivityAddCmd       `cmd:"" help:"Add a new activity."`
	List      ActivityListCmd      `cmd:"" help:"List activities."`
	Edit      ActivityEditCmd      `cmd:"" help:"Edit an activity."`
	Archive   ActivityArchiveCmd   `cmd:"" help:"Archive an activity."`
	Unarchive ActivityUnarchiveCmd `cmd:"" help:"Restore an archived activity."`
}

type ActivityAddCmd struct {
	Name        string `arg:"" optional:"" help:"Activity name."`
	Pillar      string `short:"p" help:"Pillar (body|mind)."`
	Points      int    `short:"n" help:"Points earned per completion (1-100)." default:"10"`
	SubCategory string `short:"s" help:"Sub-category, e.g. movement or journaling."`
	Habit       bool   `help:"Mark as a habit."`
	Cue         string `short:"c" help:"Cue as type:value (time:07:30, location:gym, after:<activity id>)."`
	Interactive bool   `short:"i" help:"Fill in the activity with a form."`
}

func (c *ActivityAddCmd) Run(ctx *cli.Context) error {
	if c.Interactive {
		if err := c.form(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
	}
	if c.Name == "" {
		return fmt.Errorf("activity name is required (or use --interactive)")
	}

	pillar, err := cli.ParsePillar(c.Pillar)
	if err != nil {
		return err
	}
	cue, err := cli.ParseCue(c.Cue)
	if err != nil {
		return err
	}

	a, err := ctx.Engine.AddActivity(ctx.Ctx, ctx.UserID, models.Activity{
		Name:        c.Name,
		Pillar:      pillar,
		SubCategory: c.SubCategory,
		Points:      c.Points,
		IsHabit:     c.Habit,
		Cue:         cue,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added activity: %s (%s, %d pts, ID: %s)\n", a.Name, a.Pillar, a.Points, a.ID)
	return nil
}

func (c *ActivityAddCmd) form() error {
	points := strconv.Itoa(c.Points)
	pillar := strings.ToUpper(c.Pillar)
	if pillar == "" {
		pillar = string(models.PillarBody)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Pillar").
				Options(
					huh.NewOption("Body", string(models.PillarBody)),
					huh.NewOption("Mind", string(models.PillarMind)),
				).
				Value(&pillar),
			huh.NewInput().
				Title("Points").
				Value(&points).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < constants.MinActivityPoints || n > constants.MaxActivityPoints {
						return fmt.Errorf("points must be between %d and %d", constants.MinActivityPoints, constants.MaxActivityPoints)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Sub-category").
				Description("Optional, e.g. movement, sleep, learning").
				Value(&c.SubCategory),
			huh.NewInput().
				Title("Cue").
				Description("Optional, type:value such as time:07:30").
				Value(&c.Cue),
			huh.NewConfirm().
				Title("Track as a habit?").
				Value(&c.Habit),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	c.Pillar = pillar
	n, err := strconv.Atoi(points)
	if err != nil {
		return err
	}
	c.Points = n
	return nil
}

type ActivityListCmd struct {
	Archived bool   `help:"Include archived activities."`
	Pillar   string `short:"p" help:"Only show one pillar (body|mind)."`
}

func (c *ActivityListCmd) Run(ctx *cli.Context) error {
	activities, err := ctx.Engine.ListActivities(ctx.Ctx, ctx.UserID, c.Archived)
	if err != nil {
		return err
	}

	var filter models.Pillar
	if c.Pillar != "" {
		if filter, err = cli.ParsePillar(c.Pillar); err != nil {
			return err
		}
	}

	shown := 0
	for _, a := range activities {
		if filter != "" && a.Pillar != filter {
			continue
		}
		if shown == 0 {
			fmt.Println("Activities:")
		}
		shown++

		status := ""
		if a.Archived() {
			status = " [ARCHIVED]"
		}
		if a.SystemKey != "" {
			status += " [SYNC]"
		}
		fmt.Printf("  %-5s %-28s %3d pts  %s%s\n", a.Pillar, a.Name, a.Points, a.ID, status)
		if a.SubCategory != "" || a.Cue != nil {
			fmt.Printf("        %s %s\n", a.SubCategory, cli.FormatCue(a.Cue))
		}
	}
	if shown == 0 {
		fmt.Println("No activities found")
	}
	return nil
}

type ActivityEditCmd struct {
	Activity    string `arg:"" help:"Activity id or name."`
	Name        string `help:"New name."`
	Pillar      string `short:"p" help:"New pillar (body|mind)."`
	Points      int    `short:"n" help:"New points per completion."`
	SubCategory string `short:"s" help:"New sub-category."`
	Habit       *bool  `help:"Mark or unmark as a habit."`
	Cue         string `short:"c" help:"New cue as type:value."`
	ClearCue    bool   `help:"Remove the cue."`
}

func (c *ActivityEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}

	if c.Name != "" {
		a.Name = c.Name
	}
	if c.Pillar != "" {
		if a.Pillar, err = cli.ParsePillar(c.Pillar); err != nil {
			return err
		}
	}
	if c.Points != 0 {
		a.Points = c.Points
	}
	if c.SubCategory != "" {
		a.SubCategory = c.SubCategory
	}
	if c.Habit != nil {
		a.IsHabit = *c.Habit
	}
	switch {
	case c.ClearCue:
		a.Cue = nil
	case c.Cue != "":
		if a.Cue, err = cli.ParseCue(c.Cue); err != nil {
			return err
		}
	}

	updated, err := ctx.Engine.UpdateActivity(ctx.Ctx, ctx.UserID, a)
	if err != nil {
		return err
	}
	fmt.Printf("Updated activity: %s\n", updated.Name)
	return nil
}

type ActivityArchiveCmd struct {
	Activity string `arg:"" help:"Activity id or name."`
}

func (c *ActivityArchiveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}
	if err := ctx.Engine.ArchiveActivity(ctx.Ctx, ctx.UserID, a.ID); err != nil {
		return err
	}
	fmt.Printf("Archived activity: %s\n", a.Name)
	return nil
}

type ActivityUnarchiveCmd struct {
	Activity string `arg:"" help:"Activity id or name."`
}

func (c *ActivityUnarchiveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveActivity(c.Activity)
	if err != nil {
		return err
	}
	if err := ctx.Engine.UnarchiveActivity(ctx.Ctx, ctx.UserID, a.ID); err != nil {
		return err
	}
	fmt.Printf("Restored activity: %s\n", a.Name)
	return nil
}
