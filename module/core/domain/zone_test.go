package domain

import (
	"testing"
	"time"
)

// parisSquare is a 0.01°x0.01° closed ring around (48.85, 2.35).
func parisSquare() []Position {
	return []Position{
		{Lat: 48.845, Lon: 2.345},
		{Lat: 48.845, Lon: 2.355},
		{Lat: 48.855, Lon: 2.355},
		{Lat: 48.855, Lon: 2.345},
		{Lat: 48.845, Lon: 2.345},
	}
}

func TestContains_Inside(t *testing.T) {
	z := Zone{Ring: parisSquare()}
	if !z.Contains(Position{Lat: 48.85, Lon: 2.35}) {
		t.Error("expected center to be inside")
	}
}

func TestContains_Outside(t *testing.T) {
	z := Zone{Ring: parisSquare()}
	if z.Contains(Position{Lat: 48.90, Lon: 2.40}) {
		t.Error("expected point to be outside")
	}
}

func TestContains_OutsideSameLatitude(t *testing.T) {
	z := Zone{Ring: parisSquare()}
	if z.Contains(Position{Lat: 48.85, Lon: 2.40}) {
		t.Error("expected point east of the square to be outside")
	}
}

func TestContains_DegenerateRing(t *testing.T) {
	z := Zone{Ring: []Position{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}}
	if z.Contains(Position{Lat: 1.5, Lon: 1.5}) {
		t.Error("a ring with fewer than 4 vertices contains nothing")
	}
}

func TestAllowsDay_Unrestricted(t *testing.T) {
	z := Zone{}
	// a Sunday
	if !z.AllowsDay(time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)) {
		t.Error("no day restriction should allow every day")
	}
}

func TestAllowsDay_Restricted(t *testing.T) {
	z := Zone{AllowedDays: []time.Weekday{time.Monday, time.Tuesday}}

	monday := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	if !z.AllowsDay(monday) {
		t.Error("expected Monday to be allowed")
	}

	sunday := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)
	if z.AllowsDay(sunday) {
		t.Error("expected Sunday to be disallowed")
	}
}

func TestWithinAllowedHours(t *testing.T) {
	window := &HoursWindow{Start: "08:00", End: "18:00"}

	tests := []struct {
		name  string
		zone  Zone
		hour  int
		min   int
		want  bool
	}{
		{"no window", Zone{}, 22, 0, true},
		{"inside window", Zone{AllowedHours: window}, 12, 30, true},
		{"at start bound", Zone{AllowedHours: window}, 8, 0, true},
		{"at end bound", Zone{AllowedHours: window}, 18, 0, true},
		{"before window", Zone{AllowedHours: window}, 7, 59, false},
		{"after window", Zone{AllowedHours: window}, 22, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2024, 5, 6, tt.hour, tt.min, 0, 0, time.UTC)
			if got := tt.zone.WithinAllowedHours(now); got != tt.want {
				t.Errorf("WithinAllowedHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinAllowedHours_MidnightCrossingMatchesNothing(t *testing.T) {
	// Lexicographic comparison cannot express 22:00-06:00; the window is
	// empty rather than wrapping. Kept as-is on purpose.
	z := Zone{AllowedHours: &HoursWindow{Start: "22:00", End: "06:00"}}

	for _, hour := range []int{23, 2, 12} {
		now := time.Date(2024, 5, 6, hour, 0, 0, 0, time.UTC)
		if z.WithinAllowedHours(now) {
			t.Errorf("expected %02d:00 to fall outside an inverted window", hour)
		}
	}
}

func TestHasSchedule(t *testing.T) {
	if (&Zone{}).HasSchedule() {
		t.Error("zone without restrictions has no schedule")
	}
	if !(&Zone{AllowedHours: &HoursWindow{Start: "08:00", End: "18:00"}}).HasSchedule() {
		t.Error("zone with hours has a schedule")
	}
	if !(&Zone{AllowedDays: []time.Weekday{time.Monday}}).HasSchedule() {
		t.Error("zone with days has a schedule")
	}
}
