package main

import (
	"fmt"
	"os"

	"github.com/tinyclaw/clawsched/cmd"
	"github.com/tinyclaw/clawsched/cmd/common"
)

var (
	version   string
	commit    string
	date      string
	buildType string = "unclassified"
)

var osExit = os.Exit

func main() {
	osExit(runMain(os.Args, func(args []string) error {
		return cmd.Execute(args, cmd.BuildArgs{
			Version:   version,
			Commit:    commit,
			Date:      date,
			BuildType: buildType,
		})
	}))
}

// runMain runs execute and maps its error to an exit code. Errors that a
// command already printed are not printed again.
func runMain(args []string, execute func([]string) error) int {
	err := execute(args)
	if err == nil {
		return 0
	}
	if !common.IsReported(err) {
		fmt.Fprintf(os.Stderr, "clawsched: %s\n", err.Error())
	}
	return 1
}
