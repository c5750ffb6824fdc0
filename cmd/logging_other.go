//go:build !windows

package cmd

import "github.com/tinyclaw/clawsched/pkg/logger"

func platformLogger() logger.Logger { return nil }
