package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateLabel is returned by Create when the label is taken.
	ErrDuplicateLabel = errors.New("a schedule with this label already exists")
	// ErrNotFound is returned by Delete when the label does not exist.
	ErrNotFound = errors.New("no schedule found with this label")
	// ErrCorrupt is matched by every *CorruptionError.
	ErrCorrupt = errors.New("schedule store is unreadable")
)

// CorruptionError reports a schedule document that exists but cannot be
// used. Callers must not treat it as an empty store.
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCorrupt.Error(), e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCorrupt.
func (e *CorruptionError) Is(target error) bool {
	return target == ErrCorrupt
}
