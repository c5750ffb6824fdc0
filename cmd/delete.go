package cmd

import (
	"errors"
	"fmt"

	"github.com/tinyclaw/clawsched/cmd/common"
	"github.com/tinyclaw/clawsched/internal/store"
	"github.com/urfave/cli"
)

var deleteFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "label, l",
		Usage: "label of the schedule to delete",
	},
	cli.BoolFlag{
		Name:  "all",
		Usage: "delete all schedules",
	},
}

func deleteSchedules(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	label := ctx.String("label")
	all := ctx.Bool("all")
	switch {
	case all && label != "":
		return common.PrintErrWithCmdHelp(ctx, errors.New("use either --label or --all, not both"))
	case !all && label == "":
		return common.PrintErrWithCmdHelp(ctx, errors.New("provide --label LABEL or --all"))
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "delete", "config", err)
	}
	st := openStore(cfg)

	if all {
		n, err := st.DeleteAll()
		if err != nil {
			return common.PrintRuntimeErr(ctx, "delete", "delete_all", err)
		}
		fmt.Printf("Deleted %d tinyclaw schedule(s).\n", n)
		return nil
	}

	if err := st.Delete(label); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = fmt.Errorf("no schedule found with label '%s'", label)
		}
		return common.PrintRuntimeErr(ctx, "delete", "delete", err)
	}
	fmt.Printf("Deleted schedule: %s\n", label)
	return nil
}
