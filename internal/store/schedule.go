package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tinyclaw/clawsched/internal/cron"
)

// Defaults applied to schedules created without routing metadata.
const (
	DefaultChannel = "schedule"
	DefaultSender  = "Scheduler"
)

// Schedule is a recurring task. It is never modified after creation.
type Schedule struct {
	Label     string
	Cron      string
	Agent     string
	Message   string
	Channel   string
	Sender    string
	CreatedAt int64 // unix seconds
}

// NewOpts holds the optional fields of a new schedule.
type NewOpts struct {
	Label   string
	Channel string
	Sender  string
	// Pid is used to generate a label when Label is empty.
	Pid int
}

// NewSchedule builds a validated schedule created at now. When opts.Label
// is empty a label is generated from now and opts.Pid.
func NewSchedule(expr, agent, message string, now time.Time, opts *NewOpts) (Schedule, error) {
	if opts == nil {
		opts = &NewOpts{}
	}
	label := strings.TrimSpace(opts.Label)
	if label == "" {
		label = GenerateLabel(now, opts.Pid)
	}
	sc := Schedule{
		Label:     label,
		Cron:      expr,
		Agent:     agent,
		Message:   message,
		Channel:   opts.Channel,
		Sender:    opts.Sender,
		CreatedAt: now.Unix(),
	}
	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return Schedule{}, err
	}
	return sc, nil
}

// GenerateLabel returns the label used when the operator supplies none.
func GenerateLabel(now time.Time, pid int) string {
	return fmt.Sprintf("sched-%d-%d", now.Unix(), pid)
}

// Validate checks the fields required before a schedule may be stored.
// Cron errors wrap cron.ErrInvalidExpression.
func (s Schedule) Validate() error {
	switch {
	case strings.TrimSpace(s.Label) == "":
		return errors.New("schedule label is empty")
	case s.Agent == "":
		return errors.New("schedule agent is empty")
	case s.Message == "":
		return errors.New("schedule message is empty")
	}
	return cron.Validate(s.Cron)
}

// Created returns CreatedAt as a time in the local zone.
func (s Schedule) Created() time.Time {
	return time.Unix(s.CreatedAt, 0)
}

func (s *Schedule) applyDefaults() {
	if s.Channel == "" {
		s.Channel = DefaultChannel
	}
	if s.Sender == "" {
		s.Sender = DefaultSender
	}
}
