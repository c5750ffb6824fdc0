//go:build !windows

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// setupShutdownHandler returns a context cancelled on the first SIGTERM or
// SIGINT. onSignal, if set, is called with the signal before cancelling.
func setupShutdownHandler(onSignal func(os.Signal)) (context.Context, context.CancelFunc) {
	return watchSignals(onSignal, syscall.SIGTERM, syscall.SIGINT)
}

func watchSignals(onSignal func(os.Signal), sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
