package calendar

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2024, 2, 1, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"fully inside", day(9, 0), day(10, 0), day(9, 30), day(9, 45), true},
		{"partial overlap", day(9, 0), day(10, 0), day(9, 30), day(11, 0), true},
		{"identical", day(9, 0), day(10, 0), day(9, 0), day(10, 0), true},
		{"touching endpoints", day(9, 0), day(10, 0), day(10, 0), day(11, 0), false},
		{"touching reversed", day(10, 0), day(11, 0), day(9, 0), day(10, 0), false},
		{"disjoint", day(9, 0), day(10, 0), day(12, 0), day(13, 0), false},
	}

	for _, tt := range tests {
		if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	if !SameCalendarDay(a, b) {
		t.Error("expected same calendar day regardless of time-of-day")
	}

	c := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	if SameCalendarDay(b, c) {
		t.Error("midnight boundary should separate days")
	}
}

func TestClampDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
		want  int
	}{
		{2024, time.February, 31, 29}, // leap year
		{2023, time.February, 31, 28},
		{2024, time.April, 31, 30},
		{2024, time.January, 31, 31},
		{2024, time.June, 15, 15},
	}

	for _, tt := range tests {
		if got := ClampDayOfMonth(tt.year, tt.month, tt.day); got != tt.want {
			t.Errorf("ClampDayOfMonth(%d, %v, %d) = %d, want %d", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}
