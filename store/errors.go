package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel for a missing scenario or employee.
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "scenario", "employee"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IsNotFound reports whether err marks a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
