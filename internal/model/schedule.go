package model

import (
	"fmt"
	"strings"
	"time"
)

// Layouts for the calendar date and time-of-day fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Priority levels for schedules.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// Priorities lists the valid priority values in ascending order.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Categories lists the schedule categories offered by the dashboard.
var Categories = []string{"Work", "Study", "Personal", "Health", "Meeting", "Break", "Other"}

// Schedule is a planned task with a calendar date and a time-of-day window.
//
// The notification flags (MissedNotified, AutoBlockTriggered, AutoBlocked)
// are set-once markers owned by the evaluation engine; marking the schedule
// started or completed resets the auto-block pair.
type Schedule struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
	Priority    string `json:"priority" db:"priority"`

	// Date is the calendar date in DateLayout form.
	Date string `json:"date" db:"date"`

	// StartTime and EndTime are time-of-day bounds in TimeLayout form.
	// EndTime must be strictly after StartTime.
	StartTime string `json:"start_time" db:"start_time"`
	EndTime   string `json:"end_time" db:"end_time"`

	Completed bool `json:"completed" db:"completed"`
	Started   bool `json:"started" db:"started"`

	MissedNotified     bool `json:"missed_notified" db:"missed_notified"`
	AutoBlockTriggered bool `json:"auto_block_triggered" db:"auto_block_triggered"`
	AutoBlocked        bool `json:"auto_blocked" db:"auto_blocked"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Validate reports the first structural problem with the schedule fields.
func (s Schedule) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("schedule title must not be empty")
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("invalid schedule date %q: %w", s.Date, err)
	}
	start, err := time.Parse(TimeLayout, s.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", s.StartTime, err)
	}
	end, err := time.Parse(TimeLayout, s.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", s.EndTime, err)
	}
	if !end.After(start) {
		return fmt.Errorf("end time %s must be after start time %s", s.EndTime, s.StartTime)
	}
	return nil
}

// StartsAt combines Date and StartTime into a wall-clock instant in loc.
func (s Schedule) StartsAt(loc *time.Location) (time.Time, error) {
	return combine(s.Date, s.StartTime, loc)
}

// EndsAt combines Date and EndTime into a wall-clock instant in loc.
func (s Schedule) EndsAt(loc *time.Location) (time.Time, error) {
	return combine(s.Date, s.EndTime, loc)
}

// Duration returns the length of the schedule window, or zero when the
// time fields do not parse.
func (s Schedule) Duration() time.Duration {
	start, err := time.Parse(TimeLayout, s.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(TimeLayout, s.EndTime)
	if err != nil {
		return 0
	}
	return end.Sub(start)
}

// Overlaps reports whether two schedules on the same date have
// intersecting [start, end) windows. Adjacent windows do not overlap.
func (s Schedule) Overlaps(other Schedule) bool {
	if s.Date != other.Date {
		return false
	}
	// HH:MM strings compare correctly in lexicographic order.
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// Active reports whether the schedule still participates in notification
// evaluation: it is not completed and carries a well-formed date.
func (s Schedule) Active() bool {
	return !s.Completed && s.ID != "" && s.Date != ""
}

func combine(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("combining %q %q: %w", date, clock, err)
	}
	return t, nil
}
