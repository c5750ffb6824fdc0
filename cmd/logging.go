package cmd

import (
	"io"
	"log"
	"time"

	"github.com/tinyclaw/clawsched/internal/config"
	"github.com/tinyclaw/clawsched/pkg/logger"
)

const (
	warnEvery = 10 * time.Second
	warnBurst = 5
)

// newRunLogger builds the scheduler's logger: console plus the JSON log
// file, the platform logger when there is one, with warnings and errors
// rate limited. With plain set the console gets unstyled stdlib log lines
// instead of zerolog's console format.
func newRunLogger(cfg *config.Config, console io.Writer, plain bool) *logger.RateLimited {
	if !cfg.LogConsole {
		console = nil
	}
	var sinks []logger.Logger
	if plain && console != nil {
		sinks = append(sinks, logger.NewStandardLogger(log.New(console, "", log.LstdFlags), cfg.LogLevel == "debug"))
		console = nil
	}
	sinks = append(sinks, logger.NewZerologLogger(logger.ZerologOptions{
		Level:   cfg.LogLevel,
		Console: console,
		File:    cfg.LogFile,
	}))
	if pl := platformLogger(); pl != nil {
		sinks = append(sinks, pl)
	}
	return logger.NewRateLimited(logger.NewMultiLogger(sinks...), warnEvery, warnBurst)
}
