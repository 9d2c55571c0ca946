package model

import (
	"testing"
	"time"
)

func validSchedule() Schedule {
	return Schedule{
		Title:     "Deep work",
		Category:  "Work",
		Priority:  PriorityMedium,
		Date:      "2026-08-30",
		StartTime: "09:00",
		EndTime:   "10:30",
	}
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Schedule)
		wantErr bool
	}{
		{"valid", func(s *Schedule) {}, false},
		{"empty title", func(s *Schedule) { s.Title = "  " }, true},
		{"bad date", func(s *Schedule) { s.Date = "30/08/2026" }, true},
		{"bad start time", func(s *Schedule) { s.StartTime = "9am" }, true},
		{"bad end time", func(s *Schedule) { s.EndTime = "25:00" }, true},
		{"end equals start", func(s *Schedule) { s.EndTime = s.StartTime }, true},
		{"end before start", func(s *Schedule) { s.StartTime = "11:00"; s.EndTime = "10:00" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestScheduleOverlaps(t *testing.T) {
	base := validSchedule() // 09:00-10:30

	tests := []struct {
		name  string
		other Schedule
		want  bool
	}{
		{"identical window", validSchedule(), true},
		{"contained", Schedule{Date: base.Date, StartTime: "09:30", EndTime: "10:00"}, true},
		{"partial head", Schedule{Date: base.Date, StartTime: "08:00", EndTime: "09:01"}, true},
		{"partial tail", Schedule{Date: base.Date, StartTime: "10:29", EndTime: "11:00"}, true},
		{"adjacent before", Schedule{Date: base.Date, StartTime: "08:00", EndTime: "09:00"}, false},
		{"adjacent after", Schedule{Date: base.Date, StartTime: "10:30", EndTime: "11:00"}, false},
		{"different date", Schedule{Date: "2026-08-31", StartTime: "09:00", EndTime: "10:30"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Fatalf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScheduleStartsAt(t *testing.T) {
	s := validSchedule()
	loc := time.FixedZone("UTC+7", 7*3600)

	got, err := s.StartsAt(loc)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 8, 30, 9, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("StartsAt = %v, want %v", got, want)
	}

	end, err := s.EndsAt(loc)
	if err != nil {
		t.Fatal(err)
	}
	if end.Sub(got) != 90*time.Minute {
		t.Fatalf("window length = %v, want 90m", end.Sub(got))
	}
}

func TestScheduleDuration(t *testing.T) {
	s := validSchedule()
	if got := s.Duration(); got != 90*time.Minute {
		t.Fatalf("Duration = %v, want 90m", got)
	}

	s.EndTime = "garbage"
	if got := s.Duration(); got != 0 {
		t.Fatalf("Duration with bad end = %v, want 0", got)
	}
}
