package cmd

import (
	"context"
	"os"

	"github.com/tinyclaw/clawsched/cmd/common"
	"github.com/tinyclaw/clawsched/internal/config"
	"github.com/tinyclaw/clawsched/internal/daemon"
	"github.com/tinyclaw/clawsched/internal/fsutil"
	"github.com/tinyclaw/clawsched/internal/history"
	"github.com/tinyclaw/clawsched/internal/queue"
	"github.com/tinyclaw/clawsched/internal/scheduler"
	"github.com/tinyclaw/clawsched/pkg/logger"
	"github.com/urfave/cli"
)

var runFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "plain",
		Usage: "write plain log lines to the console",
	},
}

func run(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return common.PrintRuntimeErr(ctx, "run", "config", err)
	}

	log := newRunLogger(cfg, os.Stdout, ctx.Bool("plain"))
	defer log.Close()

	sigCtx, cancel := setupShutdownHandler(func(sig os.Signal) {
		log.Info("Received %s, shutting down", sig)
	})
	defer cancel()

	err = runScheduler(sigCtx, cfg, log)
	if n := log.Dropped(); n > 0 {
		log.Info("suppressed %d log messages before shutdown", n)
	}
	if err != nil {
		return common.PrintRuntimeErr(ctx, "run", "start", err)
	}
	return nil
}

// runScheduler wires the store, queue and history into a scheduler loop
// and runs it under the daemon runner until ctx is cancelled.
func runScheduler(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	st := openStore(cfg)
	// A store that cannot be parsed would make every tick fail.
	if _, err := st.Load(); err != nil {
		log.Error("%v", err)
		return err
	}
	if err := appFs.MkdirAll(cfg.QueueDir, fsutil.DirMode); err != nil {
		return err
	}

	emitter := queue.NewEmitter(appFs, cfg.QueueDir, queue.WithSourceTag(cfg.SourceTag))
	deps := scheduler.Dependencies{
		Source:  st,
		Emitter: emitter,
		Logger:  log,
	}

	var ledger *history.Ledger
	if cfg.HistoryEnabled {
		var err error
		ledger, err = history.Open(cfg.HistoryPath, cfg.HistoryRetention)
		if err != nil {
			log.Warning("history disabled: %v", err)
			ledger = nil
		} else {
			deps.Recorder = ledger
		}
	}

	if cfg.WatchStore {
		wake := make(chan struct{}, 1)
		deps.Wake = wake
		go func() {
			if err := scheduler.WatchStore(ctx, cfg.StorePath, wake, log); err != nil {
				log.Warning("store watcher stopped: %v", err)
			}
		}()
	}

	loop := scheduler.New(scheduler.Config{
		PollInterval: cfg.PollInterval,
		Location:     cfg.Location,
	}, deps)

	log.Info("Schedules: %s, queue: %s", st.Path(), emitter.Dir())
	log.Debug("poll=%s tz=%s", cfg.PollInterval, cfg.Location)

	runner := daemon.New(&daemon.Config{
		PidFile:         cfg.PidFile,
		ShutdownTimeout: DEF_SHUTDOWN_TIMEOUT,
	}, &daemon.Dependencies{
		Logger:       log,
		ShutdownFunc: func() error { return ledger.Close() },
	})
	return runner.Start(ctx, daemon.TaskFunc(loop.Run))
}
