package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/eventdesk/backoffice/internal/models"
)

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func testEvent(start, end time.Time, pattern *models.RecurrencePattern) *models.CalendarEvent {
	return &models.CalendarEvent{
		Title:            "Test event",
		StartDate:        start,
		EndDate:          end,
		RecurringPattern: pattern,
	}
}

func intPtr(n int) *int { return &n }

func assertStarts(t *testing.T, got []Occurrence, want []time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i]) {
			t.Errorf("occurrence %d starts at %v, want %v", i, got[i].Start, want[i])
		}
	}
}

func TestGenerateNonRecurring(t *testing.T) {
	event := testEvent(utc(2024, 1, 10, 10, 0), utc(2024, 1, 10, 11, 0), nil)

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 1, 31, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occs))
	}
	if !occs[0].Start.Equal(event.StartDate) || !occs[0].End.Equal(event.EndDate) {
		t.Errorf("occurrence %v does not match the event's own interval", occs[0])
	}

	occs, err = Generate(event, utc(2024, 2, 1, 0, 0), utc(2024, 2, 28, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 0 {
		t.Errorf("event outside the window should yield no occurrences, got %d", len(occs))
	}

	// Touching boundary: window starts exactly when the event ends.
	occs, err = Generate(event, utc(2024, 1, 10, 11, 0), utc(2024, 1, 10, 12, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 0 {
		t.Errorf("touching endpoints must not count as overlap, got %d occurrences", len(occs))
	}
}

func TestGenerateDaily(t *testing.T) {
	event := testEvent(utc(2024, 1, 1, 10, 0), utc(2024, 1, 1, 11, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyDaily,
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 1, 7, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 7 {
		t.Fatalf("got %d occurrences, want 7", len(occs))
	}
	for i, occ := range occs {
		if occ.End.Sub(occ.Start) != time.Hour {
			t.Errorf("occurrence %d duration = %v, want 1h", i, occ.End.Sub(occ.Start))
		}
		if i > 0 && occs[i].Start.Sub(occs[i-1].Start) != 24*time.Hour {
			t.Errorf("occurrences %d and %d are not exactly one day apart", i-1, i)
		}
	}
}

func TestGenerateWeeklyDaysOfWeek(t *testing.T) {
	// 2024-01-01 is a Monday; Mon+Wed for two weeks.
	event := testEvent(utc(2024, 1, 1, 10, 0), utc(2024, 1, 1, 11, 0), &models.RecurrencePattern{
		Frequency:  models.FrequencyWeekly,
		DaysOfWeek: []int{1, 3},
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 1, 15, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStarts(t, occs, []time.Time{
		utc(2024, 1, 1, 10, 0),
		utc(2024, 1, 3, 10, 0),
		utc(2024, 1, 8, 10, 0),
		utc(2024, 1, 10, 10, 0),
		utc(2024, 1, 15, 10, 0),
	})
	for i, occ := range occs {
		if occ.End.Sub(occ.Start) != time.Hour {
			t.Errorf("occurrence %d lost the base duration", i)
		}
	}
}

func TestGenerateEveryOtherTuesday(t *testing.T) {
	// 2024-01-02 is a Tuesday; plain weekly stepping with interval 2.
	event := testEvent(utc(2024, 1, 2, 9, 0), utc(2024, 1, 2, 9, 30), &models.RecurrencePattern{
		Frequency: models.FrequencyWeekly,
		Interval:  2,
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 1, 31, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStarts(t, occs, []time.Time{
		utc(2024, 1, 2, 9, 0),
		utc(2024, 1, 16, 9, 0),
		utc(2024, 1, 30, 9, 0),
	})
}

func TestGenerateExcludeDates(t *testing.T) {
	event := testEvent(utc(2024, 1, 1, 10, 0), utc(2024, 1, 1, 11, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyDaily,
		// Exclusion is matched on calendar day, not exact instant.
		ExcludeDates: []time.Time{utc(2024, 1, 3, 0, 0)},
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 1, 5, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, occ := range occs {
		if SameCalendarDay(occ.Start, utc(2024, 1, 3, 0, 0)) {
			t.Fatalf("excluded date appeared as occurrence start: %v", occ.Start)
		}
	}
	if len(occs) != 4 {
		t.Errorf("got %d occurrences, want 4", len(occs))
	}
}

func TestGenerateEndAfterOccurrencesAcrossWindows(t *testing.T) {
	event := testEvent(utc(2024, 1, 1, 10, 0), utc(2024, 1, 1, 11, 0), &models.RecurrencePattern{
		Frequency:           models.FrequencyDaily,
		EndAfterOccurrences: intPtr(3),
	})

	// One wide window sees the whole capped series.
	all, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 12, 31, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(all))
	}

	// The series content must not depend on how a client pages through it.
	first, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 1, 2, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rest, err := Generate(event, utc(2024, 1, 3, 0, 0), utc(2024, 12, 31, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first)+len(rest) != 3 {
		t.Errorf("union of windows yields %d occurrences, want 3", len(first)+len(rest))
	}
	if len(rest) != 1 || !rest[0].Start.Equal(utc(2024, 1, 3, 10, 0)) {
		t.Errorf("second window should see only the third occurrence, got %v", rest)
	}
}

func TestGeneratePatternEndDate(t *testing.T) {
	end := utc(2024, 1, 5, 10, 0)
	event := testEvent(utc(2024, 1, 1, 10, 0), utc(2024, 1, 1, 11, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyDaily,
		EndDate:   &end,
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 1, 31, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 5 {
		t.Fatalf("got %d occurrences, want 5 (inclusive cutoff)", len(occs))
	}
	for _, occ := range occs {
		if occ.Start.After(end) {
			t.Errorf("occurrence %v starts after the series end date", occ.Start)
		}
	}
}

func TestGenerateMonthlyDayClamped(t *testing.T) {
	event := testEvent(utc(2024, 1, 31, 9, 0), utc(2024, 1, 31, 10, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyMonthly,
		MonthDay:  intPtr(31),
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 4, 30, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStarts(t, occs, []time.Time{
		utc(2024, 1, 31, 9, 0),
		utc(2024, 2, 29, 9, 0), // leap February clamps, no March rollover
		utc(2024, 3, 31, 9, 0),
		utc(2024, 4, 30, 9, 0),
	})
}

func TestGenerateMonthlyLastWeekday(t *testing.T) {
	// 2024-01-26 is the last Friday of January.
	event := testEvent(utc(2024, 1, 26, 14, 0), utc(2024, 1, 26, 15, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyMonthly,
		MonthWeek: intPtr(-1),
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 3, 31, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStarts(t, occs, []time.Time{
		utc(2024, 1, 26, 14, 0),
		utc(2024, 2, 23, 14, 0),
		utc(2024, 3, 29, 14, 0),
	})
}

func TestGenerateMonthlyNthWeekday(t *testing.T) {
	// 2024-01-09 is the second Tuesday of January (monthWeek 1).
	event := testEvent(utc(2024, 1, 9, 8, 0), utc(2024, 1, 9, 9, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyMonthly,
		MonthWeek: intPtr(1),
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 3, 31, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStarts(t, occs, []time.Time{
		utc(2024, 1, 9, 8, 0),
		utc(2024, 2, 13, 8, 0),
		utc(2024, 3, 12, 8, 0),
	})
}

func TestMonthlyNthWeekdayYearRollover(t *testing.T) {
	// 2024-11-15 is the third Friday of November. Advancing by two months
	// must land in January of the next year, not wrap inside the same one.
	event := testEvent(utc(2024, 11, 15, 10, 0), utc(2024, 11, 15, 11, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyMonthly,
		Interval:  2,
		MonthWeek: intPtr(2),
	})

	occs, err := Generate(event, utc(2024, 11, 1, 0, 0), utc(2025, 3, 31, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStarts(t, occs, []time.Time{
		utc(2024, 11, 15, 10, 0),
		utc(2025, 1, 17, 10, 0),
		utc(2025, 3, 21, 10, 0),
	})
}

func TestGenerateMonthlyPlain(t *testing.T) {
	event := testEvent(utc(2024, 1, 31, 9, 0), utc(2024, 1, 31, 10, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyMonthly,
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 3, 31, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Without a refinement, the day-of-month is kept and clamped per month.
	// Once clamped to the 29th the cursor keeps that day.
	assertStarts(t, occs, []time.Time{
		utc(2024, 1, 31, 9, 0),
		utc(2024, 2, 29, 9, 0),
		utc(2024, 3, 29, 9, 0),
	})
}

func TestGenerateYearlyLeapDay(t *testing.T) {
	event := testEvent(utc(2024, 2, 29, 12, 0), utc(2024, 2, 29, 13, 0), &models.RecurrencePattern{
		Frequency: models.FrequencyYearly,
	})

	occs, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2028, 12, 31, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStarts(t, occs, []time.Time{
		utc(2024, 2, 29, 12, 0),
		utc(2025, 2, 28, 12, 0),
		utc(2026, 2, 28, 12, 0),
		utc(2027, 2, 28, 12, 0),
		utc(2028, 2, 29, 12, 0), // leap day comes back on leap years
	})
}

func TestGenerateUnsupportedFrequency(t *testing.T) {
	event := testEvent(utc(2024, 1, 1, 10, 0), utc(2024, 1, 1, 11, 0), &models.RecurrencePattern{
		Frequency: "hourly",
	})

	_, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 1, 31, 0, 0))
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unsupported frequency, got %v", err)
	}
}

func TestGenerateInvertedWindow(t *testing.T) {
	event := testEvent(utc(2024, 1, 1, 10, 0), utc(2024, 1, 1, 11, 0), nil)

	_, err := Generate(event, utc(2024, 1, 31, 0, 0), utc(2024, 1, 1, 0, 0))
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for inverted window, got %v", err)
	}
}

func TestGenerateIsRestartable(t *testing.T) {
	event := testEvent(utc(2024, 1, 1, 10, 0), utc(2024, 1, 1, 11, 0), &models.RecurrencePattern{
		Frequency:  models.FrequencyWeekly,
		DaysOfWeek: []int{1, 3, 5},
	})

	a, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 2, 29, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(event, utc(2024, 1, 1, 0, 0), utc(2024, 2, 29, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("repeated calls disagree: %d vs %d occurrences", len(a), len(b))
	}
	for i := range a {
		if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
			t.Errorf("occurrence %d differs between identical calls", i)
		}
	}
}
