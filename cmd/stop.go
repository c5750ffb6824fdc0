package cmd

import (
	"errors"
	"fmt"

	"github.com/tinyclaw/clawsched/cmd/common"
	"github.com/tinyclaw/clawsched/internal/daemon"
	"github.com/urfave/cli"
)

func stop(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "stop", "config", err)
	}
	pid, err := daemon.ReadPidFile(cfg.PidFile)
	if err != nil {
		if errors.Is(err, daemon.ErrPidFileNotFound) {
			fmt.Println("Scheduler is not running.")
			return nil
		}
		return common.PrintRuntimeErr(ctx, "stop", "read_pid", err)
	}
	if !daemon.IsProcessRunning(pid) {
		fmt.Printf("Scheduler is not running (stale pid file for %d removed).\n", pid)
		_ = daemon.RemovePidFile(cfg.PidFile)
		return nil
	}
	forced, err := daemon.Terminate(pid, DEF_STOP_TIMEOUT)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "stop", "terminate", err)
	}
	if forced {
		fmt.Printf("Scheduler (pid %d) did not exit in %s and was killed.\n", pid, DEF_STOP_TIMEOUT)
		_ = daemon.RemovePidFile(cfg.PidFile)
		return nil
	}
	fmt.Printf("Scheduler (pid %d) stopped.\n", pid)
	return nil
}
