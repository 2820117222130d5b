package calendar

import (
	"fmt"
	"time"

	"github.com/eventdesk/backoffice/internal/models"
)

// Occurrence is one concrete instance of an event series.
type Occurrence struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Generate expands an event into its concrete occurrences whose start falls
// inside [windowStart, windowEnd]. The result is finite, ordered by start
// ascending, and a pure function of its inputs, so repeated calls with the
// same arguments return the same sequence.
//
// Every occurrence keeps the base event's duration. Exclusion dates and
// termination conditions are checked before an occurrence is emitted, never
// after. endAfterOccurrences counts from the series start, not from the
// window start: paging through a capped series window-by-window yields the
// same occurrences as one wide window.
func Generate(event *models.CalendarEvent, windowStart, windowEnd time.Time) ([]Occurrence, error) {
	if windowEnd.Before(windowStart) {
		return nil, &models.ValidationError{Message: "window end is before window start"}
	}

	pattern := event.RecurringPattern
	if pattern == nil {
		if Overlaps(event.StartDate, event.EndDate, windowStart, windowEnd) {
			return []Occurrence{{Start: event.StartDate, End: event.EndDate}}, nil
		}
		return nil, nil
	}

	switch pattern.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
	default:
		return nil, &models.ValidationError{
			Message: fmt.Sprintf("unsupported recurrence frequency: %q", pattern.Frequency),
		}
	}

	var (
		out      []Occurrence
		duration = event.Duration()
		interval = pattern.StepInterval()
		cursor   = event.StartDate
		count    = 0
	)

	for !cursor.After(windowEnd) {
		if pattern.EndDate != nil && cursor.After(*pattern.EndDate) {
			break
		}
		if pattern.EndAfterOccurrences != nil && count >= *pattern.EndAfterOccurrences {
			break
		}

		if !isExcluded(pattern.ExcludeDates, cursor) {
			if !cursor.Before(windowStart) {
				out = append(out, Occurrence{Start: cursor, End: cursor.Add(duration)})
			}
			count++
		}

		cursor = advance(pattern, cursor, event.StartDate, interval)
	}

	return out, nil
}

func isExcluded(excludeDates []time.Time, day time.Time) bool {
	for _, ex := range excludeDates {
		if SameCalendarDay(ex, day) {
			return true
		}
	}
	return false
}

// advance moves the cursor to the next candidate start. It always returns a
// strictly later time, so the expansion loop terminates once the window or a
// termination condition is exhausted.
func advance(p *models.RecurrencePattern, cursor, base time.Time, interval int) time.Time {
	switch p.Frequency {
	case models.FrequencyDaily:
		return cursor.AddDate(0, 0, interval)

	case models.FrequencyWeekly:
		if len(p.DaysOfWeek) == 0 {
			return cursor.AddDate(0, 0, 7*interval)
		}
		wanted := make(map[time.Weekday]bool, len(p.DaysOfWeek))
		for _, d := range p.DaysOfWeek {
			wanted[time.Weekday(d)] = true
		}
		for i := 1; i <= 7; i++ {
			next := cursor.AddDate(0, 0, i)
			if wanted[next.Weekday()] {
				return next
			}
		}
		// Unreachable for a non-empty set; plain weekly stepping as fallback.
		return cursor.AddDate(0, 0, 7*interval)

	case models.FrequencyMonthly:
		return advanceMonthly(p, cursor, base, interval)

	case models.FrequencyYearly:
		year, month, _ := cursor.Date()
		_, _, baseDay := base.Date()
		day := ClampDayOfMonth(year+interval, month, baseDay)
		return timeOnDay(cursor, year+interval, month, day)
	}

	// Generate rejects unknown frequencies before the loop starts.
	return cursor.AddDate(0, 0, interval)
}

// advanceMonthly resolves the next monthly candidate. Month advancement is
// authoritative: the target month is computed first, with time.Date
// normalizing overflow past December into the next year, and only then is the
// day-of-month or nth-weekday resolved inside that month.
func advanceMonthly(p *models.RecurrencePattern, cursor, base time.Time, interval int) time.Time {
	year, month, day := cursor.Date()
	first := time.Date(year, month+time.Month(interval), 1,
		cursor.Hour(), cursor.Minute(), cursor.Second(), cursor.Nanosecond(), cursor.Location())
	targetYear, targetMonth, _ := first.Date()

	switch {
	case p.MonthDay != nil:
		return timeOnDay(cursor, targetYear, targetMonth, ClampDayOfMonth(targetYear, targetMonth, *p.MonthDay))

	case p.MonthWeek != nil:
		// Anchor on the first occurrence of the base event's weekday.
		anchor := first
		for anchor.Weekday() != base.Weekday() {
			anchor = anchor.AddDate(0, 0, 1)
		}
		if *p.MonthWeek == -1 {
			for {
				next := anchor.AddDate(0, 0, 7)
				if next.Month() != targetMonth {
					return anchor
				}
				anchor = next
			}
		}
		nth := anchor.AddDate(0, 0, 7*(*p.MonthWeek))
		// A 5th weekday may not exist; stay in the intended month rather
		// than spilling into the next one.
		for nth.Month() != targetMonth {
			nth = nth.AddDate(0, 0, -7)
		}
		return nth

	default:
		return timeOnDay(cursor, targetYear, targetMonth, ClampDayOfMonth(targetYear, targetMonth, day))
	}
}

// timeOnDay rebuilds a date keeping the reference's clock and location.
func timeOnDay(ref time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}
