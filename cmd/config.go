package cmd

import "time"

const (
	DEF_LIST_LIMIT       = 20
	DEF_NEXT_COUNT       = 5
	DEF_STOP_TIMEOUT     = 10 * time.Second
	DEF_SHUTDOWN_TIMEOUT = 5 * time.Second
)

const DESCRIPTION = `
clawsched fires recurring tasks for tinyclaw agents. Each schedule
pairs a 5-field cron expression with an agent and a message; while
"clawsched run" is active, every matching minute drops one message
into the tinyclaw incoming queue.
`

const (
	CreateDescription = `The create command adds a schedule. The cron expression
has five fields: minute hour day-of-month month day-of-week.
Each field accepts *, N, N-M, */K, N-M/K and comma separated
lists of those. Day-of-week 0 and 7 are both Sunday.

Example:
        clawsched create --cron "0 9 * * 1-5" --agent coder --message "Daily standup summary"

`
	ListDescription = `The list command displays the stored schedules in creation
order along with the next time each of them fires.

Example:
        clawsched list
        clawsched list --agent coder

`
	DeleteDescription = `The delete command removes one schedule by label, or every
schedule with --all.

Example:
        clawsched delete --label standup
        clawsched delete --all

`
	RunDescription = `The run command starts the scheduler in the foreground. It
checks the schedules at the start of every minute and stops
cleanly on SIGINT or SIGTERM.

Example:
        clawsched run

`
	StopDescription = `The stop command asks a running scheduler to shut down.

Example:
        clawsched stop

`
	HistoryDescription = `The history command shows the most recent fires recorded by
the scheduler, newest first.

Example:
        clawsched history --label standup --limit 10

`
	NextDescription = `The next command previews upcoming fire times, either of a
single cron expression or of every stored schedule.

Example:
        clawsched next --cron "*/15 9-17 * * 1-5" --count 8
        clawsched next

`
)
