package cron

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is matched by every parse failure via errors.Is.
var ErrInvalidExpression = errors.New("invalid cron expression")

// SyntaxError describes why an expression was rejected.
// Use errors.As to extract it.
type SyntaxError struct {
	// Expr is the expression as supplied by the caller.
	Expr string
	// Field names the offending field ("minute", "hour", ...). Empty when
	// the expression as a whole is malformed (wrong field count).
	Field string
	// Part is the comma-separated part that failed to parse.
	Part string
	// Reason is a short human readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid cron expression %q: %s", e.Expr, e.Reason)
	}
	return fmt.Sprintf("invalid cron expression %q: %s field %q: %s", e.Expr, e.Field, e.Part, e.Reason)
}

// Unwrap makes every SyntaxError match ErrInvalidExpression.
func (e *SyntaxError) Unwrap() error {
	return ErrInvalidExpression
}
