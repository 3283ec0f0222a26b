package stacks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/constants"
	"github.com/julianstephens/pillars/internal/models"
	"github.com/julianstephens/pillars/internal/stack"
)

type StackCmd struct {
	Add        StackAddCmd        `cmd:"" help:"Create a habit stack."`
	List       StackListCmd       `cmd:"" help:"List habit stacks."`
	Edit       StackEditCmd       `cmd:"" help:"Edit a habit stack."`
	Deactivate StackDeactivateCmd `cmd:"" help:"Deactivate a habit stack."`
	Execute    StackExecuteCmd    `cmd:"" help:"Complete every activity in a stack and earn its bonus."`
	Check      StackCheckCmd      `cmd:"" help:"Check whether a stack was completed on a day."`
}

func resolveMembers(ctx *cli.Context, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		a, err := ctx.ResolveActivity(strings.TrimSpace(ref))
		if err != nil {
			return nil, err
		}
		ids = append(ids, a.ID)
	}
	return ids, nil
}

type StackAddCmd struct {
	Name       string   `arg:"" help:"Stack name."`
	Activities []string `arg:"" help:"Member activities (id or name), in order."`
	Bonus      int      `short:"b" help:"Completion bonus base (0-100)." default:"${stack_bonus}"`
	Cue        string   `short:"c" help:"Cue as type:value."`
}

func (c *StackAddCmd) Run(ctx *cli.Context) error {
	ids, err := resolveMembers(ctx, c.Activities)
	if err != nil {
		return err
	}
	cue, err := cli.ParseCue(c.Cue)
	if err != nil {
		return err
	}

	st, err := ctx.Engine.AddStack(ctx.Ctx, ctx.UserID, models.HabitStack{
		Name:            c.Name,
		ActivityIDs:     ids,
		CompletionBonus: c.Bonus,
		Cue:             cue,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added stack: %s (%d activities, bonus %d, ID: %s)\n", st.Name, len(st.ActivityIDs), st.CompletionBonus, st.ID)
	return nil
}

type StackListCmd struct {
	All bool `help:"Include inactive stacks."`
}

func (c *StackListCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Engine.ListStacks(ctx.Ctx, ctx.UserID, c.All)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No stacks found")
		return nil
	}

	activities, err := ctx.Engine.ListActivities(ctx.Ctx, ctx.UserID, true)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(activities))
	for _, a := range activities {
		names[a.ID] = a.Name
	}

	fmt.Println("Stacks:")
	for _, st := range list {
		status := "active"
		if !st.Active {
			status = "inactive"
		}
		members := make([]string, 0, len(st.ActivityIDs))
		for _, id := range st.ActivityIDs {
			members = append(members, names[id])
		}
		fmt.Printf("  [%s] %s - bonus %d (ID: %s)\n", status, st.Name, st.CompletionBonus, st.ID)
		fmt.Printf("      %s\n", strings.Join(members, " → "))
		if st.Cue != nil {
			fmt.Printf("      Cue: %s\n", cli.FormatCue(st.Cue))
		}
	}
	return nil
}

type StackEditCmd struct {
	Stack      string   `arg:"" help:"Stack id or name."`
	Name       string   `help:"New name."`
	Activities []string `help:"Replace member activities (id or name)."`
	Bonus      *int     `short:"b" help:"New completion bonus base."`
	Cue        string   `short:"c" help:"New cue as type:value."`
	ClearCue   bool     `help:"Remove the cue."`
}

func (c *StackEditCmd) Run(ctx *cli.Context) error {
	st, err := ctx.ResolveStack(c.Stack)
	if err != nil {
		return err
	}
	if c.Name != "" {
		st.Name = c.Name
	}
	if len(c.Activities) > 0 {
		if st.ActivityIDs, err = resolveMembers(ctx, c.Activities); err != nil {
			return err
		}
	}
	if c.Bonus != nil {
		st.CompletionBonus = *c.Bonus
	}
	switch {
	case c.ClearCue:
		st.Cue = nil
	case c.Cue != "":
		if st.Cue, err = cli.ParseCue(c.Cue); err != nil {
			return err
		}
	}

	updated, err := ctx.Engine.UpdateStack(ctx.Ctx, ctx.UserID, st)
	if err != nil {
		return err
	}
	fmt.Printf("Updated stack: %s\n", updated.Name)
	return nil
}

type StackDeactivateCmd struct {
	Stack string `arg:"" help:"Stack id or name."`
}

func (c *StackDeactivateCmd) Run(ctx *cli.Context) error {
	st, err := ctx.ResolveStack(c.Stack)
	if err != nil {
		return err
	}
	if err := ctx.Engine.DeactivateStack(ctx.Ctx, ctx.UserID, st.ID); err != nil {
		return err
	}
	fmt.Printf("Deactivated stack: %s\n", st.Name)
	return nil
}

type StackExecuteCmd struct {
	Stack string `arg:"" help:"Stack id or name."`
}

func (c *StackExecuteCmd) Run(ctx *cli.Context) error {
	st, err := ctx.ResolveStack(c.Stack)
	if err != nil {
		return err
	}
	res, err := ctx.Engine.ExecuteStack(ctx.Ctx, ctx.UserID, st.ID)
	if err != nil {
		return err
	}

	if !res.Created {
		fmt.Printf("Stack %q was already completed today (+%d bonus, day %d)\n", st.Name, res.Completion.BonusPointsEarned, res.Completion.StreakDay)
		return nil
	}
	if n := len(res.AutoTriggered); n > 0 {
		fmt.Printf("Logged %d remaining activities\n", n)
	}
	fmt.Printf("✓ Completed %q: +%d %s bonus (day %d, x%.2f)\n",
		st.Name, res.Completion.BonusPointsEarned, res.Completion.Pillar,
		res.Completion.StreakDay, stack.Multiplier(res.Completion.StreakDay))
	fmt.Printf("  BODY %d/%d  MIND %d/%d\n", res.Score.BodyScore, constants.MaxPillarScore, res.Score.MindScore, constants.MaxPillarScore)
	return nil
}

type StackCheckCmd struct {
	Stack string `arg:"" help:"Stack id or name."`
	Date  string `help:"Day to check (YYYY-MM-DD, default today)."`
}

func (c *StackCheckCmd) Run(ctx *cli.Context) error {
	st, err := ctx.ResolveStack(c.Stack)
	if err != nil {
		return err
	}
	done, err := ctx.Engine.IsStackCompleted(ctx.Ctx, ctx.UserID, st.ID, c.Date)
	if err != nil {
		return err
	}
	if done {
		fmt.Printf("[x] %s\n", st.Name)
	} else {
		fmt.Printf("[ ] %s\n", st.Name)
	}
	return nil
}
