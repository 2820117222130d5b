package models

import (
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func validEvent() *CalendarEvent {
	return &CalendarEvent{
		Title:     "Board meeting",
		StartDate: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Status:    EventStatusScheduled,
	}
}

func TestValidateEvent(t *testing.T) {
	if err := validEvent().ValidateEvent(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	ev := validEvent()
	ev.EndDate = ev.StartDate.Add(-time.Hour)
	if err := ev.ValidateEvent(); err == nil {
		t.Error("endDate before startDate should be rejected")
	}

	ev = validEvent()
	ev.Status = "archived"
	if err := ev.ValidateEvent(); err == nil {
		t.Error("unknown status should be rejected")
	}

	ev = validEvent()
	ev.RecurringPattern = &RecurrencePattern{
		Frequency: FrequencyMonthly,
		MonthDay:  intPtr(15),
		MonthWeek: intPtr(2),
	}
	if err := ev.ValidateEvent(); err == nil {
		t.Error("monthDay and monthWeek together should be rejected")
	}

	ev = validEvent()
	ev.RecurringPattern = &RecurrencePattern{
		Frequency:  FrequencyDaily,
		DaysOfWeek: []int{1, 3},
	}
	if err := ev.ValidateEvent(); err == nil {
		t.Error("daysOfWeek on a non-weekly pattern should be rejected")
	}
}

func TestBeforeCreateAssignsID(t *testing.T) {
	ev := validEvent()
	if err := ev.BeforeCreate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.ID.IsZero() {
		t.Error("BeforeCreate should assign an id")
	}

	assigned := ev.ID
	if err := ev.BeforeCreate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.ID != assigned {
		t.Error("BeforeCreate must not overwrite an existing id")
	}
}

func TestStepIntervalDefaults(t *testing.T) {
	p := &RecurrencePattern{Frequency: FrequencyDaily}
	if p.StepInterval() != 1 {
		t.Errorf("unset interval should default to 1, got %d", p.StepInterval())
	}
	p.Interval = 3
	if p.StepInterval() != 3 {
		t.Errorf("explicit interval lost, got %d", p.StepInterval())
	}
}

func TestSearchFilterNormalize(t *testing.T) {
	f := &EventSearchFilter{}
	if err := f.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Page != 1 || f.Limit != DefaultSearchLimit {
		t.Errorf("defaults not applied: page=%d limit=%d", f.Page, f.Limit)
	}
	if f.SortBy != "startDate" || f.SortOrder != "asc" {
		t.Errorf("default sort not applied: %s %s", f.SortBy, f.SortOrder)
	}

	f = &EventSearchFilter{Page: -1}
	if err := f.Normalize(); err == nil {
		t.Error("negative page should be rejected")
	}

	f = &EventSearchFilter{SortBy: "attendees.userId"}
	if err := f.Normalize(); err == nil {
		t.Error("non-whitelisted sort field should be rejected")
	}

	f = &EventSearchFilter{SortOrder: "descending"}
	if err := f.Normalize(); err == nil {
		t.Error("unknown sort order should be rejected")
	}
}
