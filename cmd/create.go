package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tinyclaw/clawsched/cmd/common"
	"github.com/tinyclaw/clawsched/internal/scheduler"
	"github.com/tinyclaw/clawsched/internal/store"
	"github.com/urfave/cli"
)

var createFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "cron",
		Usage: "5-field cron expression (required)",
	},
	cli.StringFlag{
		Name:  "agent, a",
		Usage: "target agent ID (required)",
	},
	cli.StringFlag{
		Name:  "message, m",
		Usage: "task context / prompt sent to the agent (required)",
	},
	cli.StringFlag{
		Name:  "channel",
		Usage: "channel name",
		Value: store.DefaultChannel,
	},
	cli.StringFlag{
		Name:  "sender",
		Usage: "sender name",
		Value: store.DefaultSender,
	},
	cli.StringFlag{
		Name:  "label, l",
		Usage: "unique label (default: auto-generated)",
	},
}

// timeNow is replaced in tests.
var timeNow = time.Now

func create(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if err := requireFlags(ctx, "cron", "agent", "message"); err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "create", "config", err)
	}

	now := timeNow()
	sc, err := store.NewSchedule(ctx.String("cron"), ctx.String("agent"), ctx.String("message"), now, &store.NewOpts{
		Label:   ctx.String("label"),
		Channel: ctx.String("channel"),
		Sender:  ctx.String("sender"),
		Pid:     os.Getpid(),
	})
	if err != nil {
		return common.PrintRuntimeErr(ctx, "create", "validate", err)
	}
	if err := openStore(cfg).Create(sc); err != nil {
		if errors.Is(err, store.ErrDuplicateLabel) {
			err = fmt.Errorf("a schedule with label '%s' already exists; delete it first or choose a different label", sc.Label)
		}
		return common.PrintRuntimeErr(ctx, "create", "save", err)
	}

	fmt.Println("Schedule created:")
	printSchedule(sc, cfg.Location, now)
	if !scheduler.HasOccurrenceWithinYear(sc.Cron, now.In(cfg.Location)) {
		fmt.Printf("warning: %q has no occurrence within the next year\n", sc.Cron)
	}
	return nil
}

// requireFlags reports the names in names that were not set or are blank.
func requireFlags(ctx *cli.Context, names ...string) error {
	var missing []string
	for _, n := range names {
		if strings.TrimSpace(ctx.String(n)) == "" {
			missing = append(missing, "--"+n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required flag(s): %s", strings.Join(missing, ", "))
}
