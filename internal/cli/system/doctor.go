package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/keyring"
	"github.com/julianstephens/pillars/internal/snapshot"
)

type DoctorCmd struct{}

type check struct {
	name    string
	warning bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDatabase},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", warning: true, run: checkKeyring},
	{name: "WHOOP token", warning: true, run: checkWhoopToken},
	{name: "Snapshot cache", warning: true, run: checkRedis},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDatabase(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	_, err := ctx.Store.ListStreaks(ctx.Ctx, ctx.UserID)
	return err
}

func checkClockTimezone(ctx *cli.Context) error {
	if ctx.Location == nil {
		return errors.New("no timezone configured")
	}
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkWhoopToken(ctx *cli.Context) error {
	if _, err := keyring.GetWhoopToken(); err != nil {
		return fmt.Errorf("sync is disabled: %w", err)
	}
	return nil
}

func checkRedis(ctx *cli.Context) error {
	if ctx.RedisURL == "" {
		return nil
	}
	r, err := snapshot.NewRedisStore(ctx.Ctx, ctx.RedisURL)
	if err != nil {
		return err
	}
	return r.Close()
}
