// Package cron parses and evaluates the 5-field cron expressions used by
// clawsched schedules.
//
// The fields are, in order: minute (0-59), hour (0-23), day-of-month (1-31),
// month (1-12) and day-of-week (0-7, where both 0 and 7 are Sunday). Each
// field is a comma-separated list of parts; a part is one of "*", "N",
// "N-M", "*/K" or "N-M/K". A field matches when any of its parts matches and
// an expression matches a minute when all five fields match.
//
// Resolution is one minute. Seconds of the evaluated instant are ignored.
package cron
