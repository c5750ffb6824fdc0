package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/tinyclaw/clawsched/cmd/common"
	"github.com/tinyclaw/clawsched/internal/cron"
	"github.com/tinyclaw/clawsched/internal/store"
	"github.com/urfave/cli"
)

const displayLayout = "2006-01-02 15:04"

var listFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "agent, a",
		Usage: "only show schedules for this agent",
	},
}

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "list", "config", err)
	}
	schedules, err := openStore(cfg).Load()
	if err != nil {
		return common.PrintRuntimeErr(ctx, "list", "load", err)
	}
	if len(schedules) == 0 {
		fmt.Println("No tinyclaw schedules found.")
		return nil
	}
	if agent := ctx.String("agent"); agent != "" {
		schedules = store.FilterByAgent(schedules, agent)
		if len(schedules) == 0 {
			fmt.Printf("No schedules found for agent @%s.\n", agent)
			return nil
		}
	}

	now := timeNow()
	fmt.Println("Tinyclaw schedules:")
	fmt.Println("---")
	for _, sc := range store.Sorted(schedules) {
		printSchedule(sc, cfg.Location, now)
		fmt.Println("  ---")
	}
	return nil
}

// printSchedule prints one schedule block, including when it fires next.
func printSchedule(sc store.Schedule, loc *time.Location, now time.Time) {
	fmt.Printf("  Label:   %s\n", sc.Label)
	fmt.Printf("  Cron:    %s\n", sc.Cron)
	fmt.Printf("  Agent:   @%s\n", sc.Agent)
	fmt.Printf("  Message: %s\n", sc.Message)
	fmt.Printf("  Channel: %s\n", sc.Channel)
	if sc.Sender != store.DefaultSender {
		fmt.Printf("  Sender:  %s\n", sc.Sender)
	}
	fmt.Printf("  Created: %s\n", sc.Created().In(loc).Format(displayLayout))
	fmt.Printf("  Next:    %s\n", formatNext(sc.Cron, now.In(loc)))
}

// formatNext renders the next fire of expr after now.
func formatNext(expr string, now time.Time) string {
	e, err := cron.Parse(expr)
	if err != nil {
		return "invalid cron: " + err.Error()
	}
	next, ok := e.Next(now)
	if !ok {
		return "never (no occurrence within a year)"
	}
	return fmt.Sprintf("%s (%s)", next.Format(displayLayout), formatCountdown(next.Sub(now)))
}

// formatCountdown renders d as "in 2h30m", "in 45m", "in 30s" or "now".
// Durations of a day or more are shown in days and hours.
func formatCountdown(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	d = d.Round(time.Second)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	s := int((d - time.Duration(m)*time.Minute) / time.Second)

	var b strings.Builder
	b.WriteString("in ")
	switch {
	case days > 0:
		fmt.Fprintf(&b, "%dd", days)
		if h > 0 {
			fmt.Fprintf(&b, "%dh", h)
		}
	case h > 0:
		fmt.Fprintf(&b, "%dh", h)
		if m > 0 {
			fmt.Fprintf(&b, "%dm", m)
		}
	case m > 0:
		fmt.Fprintf(&b, "%dm", m)
	default:
		fmt.Fprintf(&b, "%ds", s)
	}
	return b.String()
}
