package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinyclaw/clawsched/cmd/common"
	"github.com/tinyclaw/clawsched/internal/history"
	"github.com/urfave/cli"
)

var historyFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "label, l",
		Usage: "only show fires of this schedule",
	},
	cli.IntFlag{
		Name:  "limit, n",
		Usage: "maximum number of fires to show",
		Value: DEF_LIST_LIMIT,
	},
}

func showHistory(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if ctx.Int("limit") < 1 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--limit must be at least 1"))
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "history", "config", err)
	}
	ledger, err := history.Open(cfg.HistoryPath, cfg.HistoryRetention)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "history", "open", err)
	}
	defer ledger.Close()

	entries, err := ledger.Recent(context.Background(), history.Filter{
		Label: ctx.String("label"),
		Limit: ctx.Int("limit"),
	})
	if err != nil {
		return common.PrintRuntimeErr(ctx, "history", "query", err)
	}
	if len(entries) == 0 {
		fmt.Println("No fires recorded.")
		return nil
	}
	fmt.Println("Recent fires:")
	for _, e := range entries {
		status := e.MessageID
		if !e.OK() {
			status = "failed: " + e.Err
		}
		fmt.Printf("  %s  %-24s @%-12s %s\n",
			e.FiredAt.In(cfg.Location).Format("2006-01-02 15:04:05"),
			common.Beaut(e.Label, 24), e.Agent, status)
	}
	return nil
}
