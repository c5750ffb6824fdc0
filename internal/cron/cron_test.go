package cron

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// at builds a UTC minute; 2025-01-05 is a Sunday.
func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestValidate_Accepts(t *testing.T) {
	valid := []string{
		"* * * * *",
		"0 * * * *",
		"*/15 * * * *",
		"0 9 * * 1-5",
		"0 9 * * 7",
		"0 9 * * 0,7",
		"59 23 31 12 7",
		"0 0 1 1 0",
		"0-59/5 0-23/2 1-31/3 1-12/4 0-7/7",
		"1,2,3 4-5 */2 1-12 *",
		"  0   9  *  *  1-5  ",
		"0\t9\t*\t*\t1",
		"00005 * * * *",
		"000000000000000000000000000059 00 01 001 0000",
		"0000-0059/00015 * * * *",
	}
	for _, expr := range valid {
		t.Run(expr, func(t *testing.T) {
			if err := Validate(expr); err != nil {
				t.Errorf("Validate(%q) = %v, want nil", expr, err)
			}
		})
	}
}

func TestValidate_AcceptsEveryInDomainLiteral(t *testing.T) {
	for i, d := range domains {
		for v := d.min; v <= d.max; v++ {
			fields := []string{"*", "*", "*", "*", "*"}
			fields[i] = fmt.Sprintf("%d,%d-%d,%d-%d/%d", v, d.min, v, v, d.max, v+1)
			expr := strings.Join(fields, " ")
			if err := Validate(expr); err != nil {
				t.Fatalf("Validate(%q) = %v, want nil", expr, err)
			}
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		expr  string
		field string
	}{
		{"", ""},
		{"* * * *", ""},
		{"* * * * * *", ""},
		{"a * * * *", "minute"},
		{"60 * * * *", "minute"},
		{"* 24 * * *", "hour"},
		{"* * 0 * *", "day-of-month"},
		{"* * 32 * *", "day-of-month"},
		{"* * * 0 *", "month"},
		{"* * * 13 *", "month"},
		{"* * * * 8", "day-of-week"},
		{"5/10 * * * *", "minute"},
		{"*/0 * * * *", "minute"},
		{"*/x * * * *", "minute"},
		{"10-5 * * * *", "minute"},
		{"1,,2 * * * *", "minute"},
		{"-1 * * * *", "minute"},
		{"+5 * * * *", "minute"},
		{"1-2-3 * * * *", "minute"},
		{"* * * JAN *", "month"},
		{"@hourly", ""},
		{"00060 * * * *", "minute"},
		{"99999999999999999999999 * * * *", "minute"},
		{"*/000 * * * *", "minute"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := Validate(tt.expr)
			if err == nil {
				t.Fatalf("Validate(%q) = nil, want error", tt.expr)
			}
			if !errors.Is(err, ErrInvalidExpression) {
				t.Errorf("expected ErrInvalidExpression, got %v", err)
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if serr.Field != tt.field {
				t.Errorf("Field = %q, want %q", serr.Field, tt.field)
			}
			if serr.Expr != tt.expr {
				t.Errorf("Expr = %q, want %q", serr.Expr, tt.expr)
			}
		})
	}
}

func TestValidate_RejectsErrorsInLaterFields(t *testing.T) {
	// The reference minute fails the minute field, so a lazy evaluator would
	// never look at the broken day-of-week field.
	err := Validate("30 * * * x")
	if !errors.Is(err, ErrInvalidExpression) {
		t.Fatalf("expected ErrInvalidExpression, got %v", err)
	}
}

func TestSyntaxError_Message(t *testing.T) {
	err := Validate("* * * *")
	if err == nil || !strings.Contains(err.Error(), "got 4") {
		t.Errorf("expected field count in message, got %v", err)
	}
	err = Validate("5/10 * * * *")
	if err == nil || !strings.Contains(err.Error(), `minute field "5/10"`) {
		t.Errorf("expected offending part in message, got %v", err)
	}
}

func TestMatches_EveryFifteenMinutes(t *testing.T) {
	e := MustParse("*/15 * * * *")
	for m := 0; m < 60; m++ {
		got := e.Match(at(2025, time.March, 4, 13, m))
		want := m%15 == 0
		if got != want {
			t.Errorf("minute %d: got %v, want %v", m, got, want)
		}
	}
}

func TestMatches_WeekdayMornings(t *testing.T) {
	// 2025-01-05 (Sunday) through 2025-01-11 (Saturday).
	for _, expr := range []string{"0 9 * * 1-5", "0 9 * * 1,2,3,4,5"} {
		e := MustParse(expr)
		for day := 5; day <= 11; day++ {
			for _, hm := range [][2]int{{9, 0}, {9, 1}, {8, 0}, {10, 0}} {
				tm := at(2025, time.January, day, hm[0], hm[1])
				wd := tm.Weekday()
				want := hm[0] == 9 && hm[1] == 0 && wd >= time.Monday && wd <= time.Friday
				if got := e.Match(tm); got != want {
					t.Errorf("%s at %s: got %v, want %v", expr, tm.Format("Mon 15:04"), got, want)
				}
			}
		}
	}
}

func TestMatches_SundayAlias(t *testing.T) {
	sunday := at(2025, time.January, 5, 9, 0)
	monday := at(2025, time.January, 6, 9, 0)
	for _, expr := range []string{"0 9 * * 0", "0 9 * * 7", "0 9 * * 6-7", "0 9 * * 5-7/2"} {
		if !Matches(expr, sunday) {
			t.Errorf("%q should match Sunday", expr)
		}
		if Matches(expr, monday) {
			t.Errorf("%q should not match Monday", expr)
		}
	}
}

func TestMatches_StepsAnchorAtDomainMin(t *testing.T) {
	// Day-of-month starts at 1, so */10 is 1, 11, 21, 31.
	e := MustParse("0 0 */10 * *")
	for day := 1; day <= 31; day++ {
		want := day == 1 || day == 11 || day == 21 || day == 31
		if got := e.Match(at(2025, time.January, day, 0, 0)); got != want {
			t.Errorf("day %d: got %v, want %v", day, got, want)
		}
	}
	// Range steps anchor at the range start.
	e = MustParse("5-20/5 * * * *")
	for m := 0; m < 60; m++ {
		want := m == 5 || m == 10 || m == 15 || m == 20
		if got := e.Match(at(2025, time.January, 1, 0, m)); got != want {
			t.Errorf("minute %d: got %v, want %v", m, got, want)
		}
	}
}

func TestMatches_DayOfMonthAndWeekdayBothRequired(t *testing.T) {
	// 2025-06-13 is a Friday; 2025-06-20 is a Friday but not the 13th.
	e := MustParse("0 12 13 * 5")
	if !e.Match(at(2025, time.June, 13, 12, 0)) {
		t.Error("expected Friday the 13th to match")
	}
	if e.Match(at(2025, time.June, 20, 12, 0)) {
		t.Error("expected Friday the 20th not to match")
	}
	if e.Match(at(2025, time.May, 13, 12, 0)) {
		t.Error("expected Tuesday the 13th not to match")
	}
}

func TestMatches_ZeroPaddedLiterals(t *testing.T) {
	if !Matches("00005 009 * * *", at(2025, time.January, 1, 9, 5)) {
		t.Error("expected zero-padded literals to match 09:05")
	}
}

func TestMatches_IgnoresSeconds(t *testing.T) {
	tm := time.Date(2025, time.January, 1, 10, 30, 59, 999, time.UTC)
	if !Matches("30 10 * * *", tm) {
		t.Error("expected seconds to be ignored")
	}
}

func TestMatches_UsesInstantLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	tm := time.Date(2025, time.January, 1, 9, 0, 0, 0, loc)
	if !Matches("0 9 * * *", tm) {
		t.Error("expected 09:00 local to match")
	}
	if Matches("0 9 * * *", tm.UTC()) {
		t.Error("expected 07:00 UTC not to match")
	}
}

func TestMatches_InvalidNeverMatches(t *testing.T) {
	if Matches("* * * *", at(2025, time.January, 1, 0, 0)) {
		t.Error("invalid expression matched")
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		expr string
		from time.Time
		want time.Time
	}{
		{"* * * * *", at(2025, time.January, 1, 10, 30), at(2025, time.January, 1, 10, 31)},
		{"0 * * * *", at(2025, time.January, 1, 10, 0), at(2025, time.January, 1, 11, 0)},
		{"0 9 * * 1-5", at(2025, time.January, 3, 9, 0), at(2025, time.January, 6, 9, 0)},
		{"30 23 31 12 *", at(2025, time.January, 1, 0, 0), at(2025, time.December, 31, 23, 30)},
		{"0 0 29 2 *", at(2027, time.March, 1, 0, 0), at(2028, time.February, 29, 0, 0)},
		{"*/15 * * * *", time.Date(2025, time.January, 1, 10, 14, 59, 0, time.UTC), at(2025, time.January, 1, 10, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := MustParse(tt.expr).Next(tt.from)
			if !ok {
				t.Fatalf("Next(%s) found nothing", tt.from)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Next(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestNext_NeverMatches(t *testing.T) {
	if _, ok := MustParse("0 0 30 2 *").Next(at(2025, time.January, 1, 0, 0)); ok {
		t.Error("expected no occurrence of February 30th")
	}
}

func TestNext_AgreesWithMatch(t *testing.T) {
	e := MustParse("7,37 */5 1-10 * 1-5")
	from := at(2025, time.January, 1, 0, 0)
	for i := 0; i < 20; i++ {
		next, ok := e.Next(from)
		if !ok {
			t.Fatalf("iteration %d: no occurrence", i)
		}
		if !e.Match(next) {
			t.Fatalf("Next returned non-matching minute %s", next)
		}
		for m := from.Add(time.Minute); m.Before(next); m = m.Add(time.Minute) {
			if e.Match(m) {
				t.Fatalf("Next skipped matching minute %s", m)
			}
		}
		from = next
	}
}

func TestString(t *testing.T) {
	e := MustParse("  0  9 *  * 1-5 ")
	if got := e.Raw(); got != "0 9 * * 1-5" {
		t.Errorf("Raw() = %q", got)
	}
	if got := MustParse("*/5,1-3 * * * 1-7/2").String(); got != "*/5,1-3 * * * 1-7/2" {
		t.Errorf("String() = %q", got)
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParse("nope")
}
