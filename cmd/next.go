package cmd

import (
	"errors"
	"fmt"

	"github.com/tinyclaw/clawsched/cmd/common"
	"github.com/tinyclaw/clawsched/internal/cron"
	"github.com/tinyclaw/clawsched/internal/scheduler"
	"github.com/urfave/cli"
)

var nextFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "cron",
		Usage: "preview this expression instead of the stored schedules",
	},
	cli.IntFlag{
		Name:  "count, n",
		Usage: "number of fire times to show",
		Value: DEF_NEXT_COUNT,
	},
}

func next(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	count := ctx.Int("count")
	if count < 1 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--count must be at least 1"))
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "next", "config", err)
	}
	now := timeNow().In(cfg.Location)

	if expr := ctx.String("cron"); expr != "" {
		e, err := cron.Parse(expr)
		if err != nil {
			return common.PrintRuntimeErr(ctx, "next", "parse", err)
		}
		fmt.Printf("Next %d fire(s) of %q:\n", count, e.Raw())
		from := now
		for i := 0; i < count; i++ {
			at, ok := e.Next(from)
			if !ok {
				if i == 0 {
					fmt.Println("  none within a year")
				}
				break
			}
			fmt.Printf("  %s (%s)\n", at.Format(displayLayout+" Mon"), formatCountdown(at.Sub(now)))
			from = at
		}
		return nil
	}

	schedules, err := openStore(cfg).Load()
	if err != nil {
		return common.PrintRuntimeErr(ctx, "next", "load", err)
	}
	if len(schedules) == 0 {
		fmt.Println("No tinyclaw schedules found.")
		return nil
	}
	occ := scheduler.Upcoming(schedules, now, count)
	if len(occ) == 0 {
		fmt.Println("No upcoming fires within a year.")
		return nil
	}
	fmt.Println("Upcoming fires:")
	for _, o := range occ {
		fmt.Printf("  %s  %s -> @%s (%s)\n", o.At.Format(displayLayout+" Mon"), o.Label, o.Agent, formatCountdown(o.At.Sub(now)))
	}
	return nil
}
