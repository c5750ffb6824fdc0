package cron

import (
	"fmt"
	"strings"
	"time"
)

// referenceInstant is the fixed minute Validate dry-runs every expression
// against.
var referenceInstant = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// lookahead bounds Next. Expressions such as "0 0 30 2 *" never match.
const lookahead = 366 * 24 * time.Hour

// Expr is a parsed cron expression. The zero value is not usable; obtain
// one from Parse.
type Expr struct {
	raw    string
	fields [numFields]field
}

// Parse parses a 5-field cron expression. Every part of every field is
// parsed up front, so a nil error means Match cannot fail later.
func Parse(expr string) (*Expr, error) {
	raw := strings.Fields(expr)
	if len(raw) != numFields {
		return nil, &SyntaxError{
			Expr:   expr,
			Reason: fmt.Sprintf("expected %d fields (minute hour day-of-month month day-of-week), got %d", numFields, len(raw)),
		}
	}
	e := &Expr{raw: strings.Join(raw, " ")}
	for i, s := range raw {
		f, serr := parseField(s, domains[i])
		if serr != nil {
			serr.Expr = expr
			return nil, serr
		}
		e.fields[i] = f
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level variables.
func MustParse(expr string) *Expr {
	e, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// Validate reports whether expr is a well-formed 5-field expression. It
// parses the expression and evaluates it once against a fixed reference
// minute so callers can check an expression without a clock.
func Validate(expr string) error {
	e, err := Parse(expr)
	if err != nil {
		return err
	}
	// Parse has already rejected every input Match could trip over, so the
	// result of the dry run is irrelevant; it only pins Validate to a fixed
	// instant instead of the wall clock.
	_ = e.Match(referenceInstant)
	return nil
}

// Matches reports whether expr matches the minute containing t. Invalid
// expressions never match.
func Matches(expr string, t time.Time) bool {
	e, err := Parse(expr)
	if err != nil {
		return false
	}
	return e.Match(t)
}

// Match reports whether the minute containing t satisfies all five fields.
// The components of t are taken in t's own location.
func (e *Expr) Match(t time.Time) bool {
	return e.fields[fieldMinute].match(t.Minute()) &&
		e.fields[fieldHour].match(t.Hour()) &&
		e.matchDay(t)
}

// matchDay checks day-of-month, month and day-of-week.
func (e *Expr) matchDay(t time.Time) bool {
	return e.fields[fieldDom].match(t.Day()) &&
		e.fields[fieldMonth].match(int(t.Month())) &&
		e.matchWeekday(t.Weekday())
}

// matchWeekday treats 7 as an alias of Sunday.
func (e *Expr) matchWeekday(wd time.Weekday) bool {
	dow := e.fields[fieldDow]
	return dow.match(int(wd)) || (wd == time.Sunday && dow.match(7))
}

// Next returns the first minute strictly after from that matches, searching
// at most one year ahead. The result is in from's location.
func (e *Expr) Next(from time.Time) (time.Time, bool) {
	loc := from.Location()
	t := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), from.Minute(), 0, 0, loc).Add(time.Minute)
	limit := from.Add(lookahead)
	for t.Before(limit) {
		prev := t
		switch {
		case !e.fields[fieldMonth].match(int(t.Month())):
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, loc)
		case !e.matchDay(t):
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, loc)
		case !e.fields[fieldHour].match(t.Hour()):
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, loc)
		case !e.fields[fieldMinute].match(t.Minute()):
			t = t.Add(time.Minute)
		default:
			return t, true
		}
		// DST transitions can normalise a wall clock time backwards.
		if !t.After(prev) {
			t = prev.Add(time.Minute)
		}
	}
	return time.Time{}, false
}

// String returns the normalised expression: fields separated by a single
// space, each part rendered canonically.
func (e *Expr) String() string {
	s := make([]string, numFields)
	for i, f := range e.fields {
		s[i] = f.String()
	}
	return strings.Join(s, " ")
}

// Raw returns the expression as supplied to Parse with whitespace collapsed.
func (e *Expr) Raw() string {
	return e.raw
}
