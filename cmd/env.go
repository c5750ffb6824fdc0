package cmd

import (
	"github.com/spf13/afero"
	"github.com/tinyclaw/clawsched/internal/config"
	"github.com/tinyclaw/clawsched/internal/store"
	"github.com/urfave/cli"
)

// appFs backs the schedule store and the queue.
var appFs afero.Fs = afero.NewOsFs()

// loadConfig resolves the configuration for the --home flag.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	return config.Resolve(config.Options{Home: ctx.GlobalString("home"), Fs: appFs})
}

func openStore(cfg *config.Config) *store.Store {
	return store.New(appFs, cfg.StorePath)
}
