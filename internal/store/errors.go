package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hdnguyen/focusdeck/internal/model"
)

// ConflictError reports that a schedule's time window overlaps one or
// more existing schedules on the same date. It is surfaced to the caller
// for user correction and never retried automatically.
type ConflictError struct {
	// Conflicts holds the existing schedules the new window intersects.
	Conflicts []model.Schedule
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "schedule conflicts with an existing schedule"
	}
	titles := make([]string, 0, len(e.Conflicts))
	for _, s := range e.Conflicts {
		titles = append(titles, fmt.Sprintf("%s (%s-%s)", s.Title, s.StartTime, s.EndTime))
	}
	return fmt.Sprintf("schedule conflicts with: %s", strings.Join(titles, ", "))
}

// NotFoundError reports that an operation referenced an unknown record,
// typically a stale reference to a just-deleted schedule.
type NotFoundError struct {
	Kind string
	ID   string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
