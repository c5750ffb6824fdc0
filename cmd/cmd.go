package cmd

import (
	"fmt"
	"runtime"

	"github.com/tinyclaw/clawsched/cmd/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "home",
		Usage: "tinyclaw home directory (default: $TINYCLAW_HOME, ./.tinyclaw or ~/.tinyclaw)",
	},
}

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "clawsched",
		HelpName:              "clawsched",
		Usage:                 "Cron scheduler for tinyclaw agents.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "clawsched [--home DIR] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:               "create",
				Aliases:            []string{"c"},
				Usage:              "create a new schedule",
				UsageText:          "create --cron EXPR --agent AGENT --message MSG [--channel CH] [--sender S] [--label L]",
				Description:        CreateDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             create,
				Flags:              createFlags,
			},
			{
				Name:               "list",
				Aliases:            []string{"l"},
				Usage:              "list existing schedules",
				Description:        ListDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             list,
				Flags:              listFlags,
			},
			{
				Name:               "delete",
				Aliases:            []string{"d"},
				Usage:              "delete a schedule",
				UsageText:          "delete --label L | --all",
				Description:        DeleteDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             deleteSchedules,
				Flags:              deleteFlags,
			},
			{
				Name:               "run",
				Usage:              "start the scheduler loop",
				UsageText:          "run [--plain]",
				Description:        RunDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             run,
				Flags:              runFlags,
			},
			{
				Name:               "stop",
				Usage:              "stop a running scheduler",
				UsageText:          " ",
				Description:        StopDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             stop,
			},
			{
				Name:               "history",
				Usage:              "show recent fires",
				Description:        HistoryDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             showHistory,
				Flags:              historyFlags,
			},
			{
				Name:               "next",
				Usage:              "preview upcoming fire times",
				Description:        NextDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             next,
				Flags:              nextFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of clawsched",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
