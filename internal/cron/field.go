package cron

import (
	"fmt"
	"strconv"
	"strings"
)

// domain is the inclusive value range of a single field.
type domain struct {
	name string
	min  int
	max  int
}

var domains = [numFields]domain{
	fieldMinute: {name: "minute", min: 0, max: 59},
	fieldHour:   {name: "hour", min: 0, max: 23},
	fieldDom:    {name: "day-of-month", min: 1, max: 31},
	fieldMonth:  {name: "month", min: 1, max: 12},
	fieldDow:    {name: "day-of-week", min: 0, max: 7},
}

const (
	fieldMinute = iota
	fieldHour
	fieldDom
	fieldMonth
	fieldDow
	numFields
)

type partKind uint8

const (
	partAny       partKind = iota // *
	partValue                     // N
	partRange                     // N-M
	partStep                      // */K
	partRangeStep                 // N-M/K
)

// part is one comma-separated element of a field.
type part struct {
	kind partKind
	lo   int
	hi   int
	step int
}

func (p part) match(v, first int) bool {
	switch p.kind {
	case partAny:
		return true
	case partValue:
		return v == p.lo
	case partRange:
		return p.lo <= v && v <= p.hi
	case partStep:
		return (v-first)%p.step == 0
	case partRangeStep:
		return p.lo <= v && v <= p.hi && (v-p.lo)%p.step == 0
	}
	return false
}

func (p part) String() string {
	switch p.kind {
	case partValue:
		return strconv.Itoa(p.lo)
	case partRange:
		return fmt.Sprintf("%d-%d", p.lo, p.hi)
	case partStep:
		return fmt.Sprintf("*/%d", p.step)
	case partRangeStep:
		return fmt.Sprintf("%d-%d/%d", p.lo, p.hi, p.step)
	}
	return "*"
}

// field is a parsed field: the union of its parts.
type field struct {
	dom   domain
	parts []part
}

func (f field) match(v int) bool {
	for _, p := range f.parts {
		if p.match(v, f.dom.min) {
			return true
		}
	}
	return false
}

func (f field) String() string {
	s := make([]string, len(f.parts))
	for i, p := range f.parts {
		s[i] = p.String()
	}
	return strings.Join(s, ",")
}

// parseField parses raw against d. The returned error carries only the
// offending part and reason; Parse fills in the expression.
func parseField(raw string, d domain) (field, *SyntaxError) {
	f := field{dom: d}
	for _, s := range strings.Split(raw, ",") {
		p, reason := parsePart(s, d)
		if reason != "" {
			return field{}, &SyntaxError{Field: d.name, Part: s, Reason: reason}
		}
		f.parts = append(f.parts, p)
	}
	return f, nil
}

func parsePart(s string, d domain) (part, string) {
	if s == "" {
		return part{}, "empty part"
	}
	base, stepStr, hasStep := strings.Cut(s, "/")
	if hasStep {
		step, ok := parseNumber(stepStr)
		if !ok {
			return part{}, fmt.Sprintf("step %q is not a number", stepStr)
		}
		if step <= 0 {
			return part{}, "step must be positive"
		}
		if base == "*" {
			return part{kind: partStep, step: step}, ""
		}
		if !strings.Contains(base, "-") {
			return part{}, "step is only allowed after * or a range"
		}
		lo, hi, reason := parseRange(base, d)
		if reason != "" {
			return part{}, reason
		}
		return part{kind: partRangeStep, lo: lo, hi: hi, step: step}, ""
	}
	if base == "*" {
		return part{kind: partAny}, ""
	}
	if strings.Contains(base, "-") {
		lo, hi, reason := parseRange(base, d)
		if reason != "" {
			return part{}, reason
		}
		return part{kind: partRange, lo: lo, hi: hi}, ""
	}
	v, reason := parseValue(base, d)
	if reason != "" {
		return part{}, reason
	}
	return part{kind: partValue, lo: v}, ""
}

func parseRange(s string, d domain) (lo, hi int, reason string) {
	loStr, hiStr, _ := strings.Cut(s, "-")
	if lo, reason = parseValue(loStr, d); reason != "" {
		return 0, 0, reason
	}
	if hi, reason = parseValue(hiStr, d); reason != "" {
		return 0, 0, reason
	}
	if lo > hi {
		return 0, 0, fmt.Sprintf("range start %d is after range end %d", lo, hi)
	}
	return lo, hi, ""
}

func parseValue(s string, d domain) (int, string) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, fmt.Sprintf("%q is not a number", s)
	}
	if v < d.min || v > d.max {
		return 0, fmt.Sprintf("value %d out of range [%d,%d]", v, d.min, d.max)
	}
	return v, ""
}

// maxLiteral is larger than any domain maximum. Longer literals are
// clamped to it so they fail the range check instead of overflowing.
const maxLiteral = 9999

// parseNumber accepts unsigned decimal integers only; signs and spaces are
// rejected so that "1--2" or "+5" never slip through strconv. Leading zeros
// are allowed.
func parseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	digits := strings.TrimLeft(s, "0")
	if digits == "" {
		return 0, true
	}
	if len(digits) > 4 {
		return maxLiteral, true
	}
	v, err := strconv.Atoi(digits)
	return v, err == nil
}
