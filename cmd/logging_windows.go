//go:build windows

package cmd

import "github.com/tinyclaw/clawsched/pkg/logger"

// platformLogger mirrors scheduler messages to the Windows Event Log. It
// returns nil when the event source is not registered.
func platformLogger() logger.Logger {
	el, err := logger.NewEventLogger("clawsched")
	if err != nil {
		return nil
	}
	return el
}
