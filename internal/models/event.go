package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusDraft     EventStatus = "draft"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusScheduled, EventStatusConfirmed, EventStatusCancelled, EventStatusCompleted, EventStatusDraft:
		return true
	}
	return false
}

type RecurrenceFrequency string

const (
	FrequencyDaily   RecurrenceFrequency = "daily"
	FrequencyWeekly  RecurrenceFrequency = "weekly"
	FrequencyMonthly RecurrenceFrequency = "monthly"
	FrequencyYearly  RecurrenceFrequency = "yearly"
)

type AttendeeRole string

const (
	AttendeeRoleOrganizer AttendeeRole = "organizer"
	AttendeeRoleRequired  AttendeeRole = "required"
	AttendeeRoleOptional  AttendeeRole = "optional"
)

type ResponseStatus string

const (
	ResponseAccepted    ResponseStatus = "accepted"
	ResponseTentative   ResponseStatus = "tentative"
	ResponseDeclined    ResponseStatus = "declined"
	ResponseNeedsAction ResponseStatus = "needsAction"
)

type ResourceType string

const (
	ResourceTypeEquipment ResourceType = "equipment"
	ResourceTypeRoom      ResourceType = "room"
	ResourceTypeVehicle   ResourceType = "vehicle"
	ResourceTypePersonnel ResourceType = "personnel"
)

type Attendee struct {
	UserID         uuid.UUID      `bson:"userId" json:"userId" validate:"required"`
	Role           AttendeeRole   `bson:"role" json:"role" validate:"required,oneof=organizer required optional"`
	ResponseStatus ResponseStatus `bson:"responseStatus" json:"responseStatus" validate:"omitempty,oneof=accepted tentative declined needsAction"`
}

type ResourceRef struct {
	ResourceID   string       `bson:"resourceId" json:"resourceId" validate:"required"`
	ResourceType ResourceType `bson:"resourceType" json:"resourceType" validate:"required,oneof=equipment room vehicle personnel"`
	Quantity     int          `bson:"quantity" json:"quantity" validate:"min=1"`
}

// RecurrencePattern describes how the base event repeats. It is embedded in
// the event document and never stored on its own.
type RecurrencePattern struct {
	Frequency RecurrenceFrequency `bson:"frequency" json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	Interval  int                 `bson:"interval,omitempty" json:"interval,omitempty" validate:"omitempty,min=1"`

	// Termination. EndDate is an inclusive cutoff on occurrence starts;
	// EndAfterOccurrences caps the series length counted from the first
	// occurrence. When both are set, whichever cuts the series first wins.
	EndDate             *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	EndAfterOccurrences *int       `bson:"endAfterOccurrences,omitempty" json:"endAfterOccurrences,omitempty" validate:"omitempty,min=1"`

	// Weekly refinement: weekday numbers 0 (Sunday) through 6 (Saturday).
	DaysOfWeek []int `bson:"daysOfWeek,omitempty" json:"daysOfWeek,omitempty" validate:"omitempty,dive,min=0,max=6"`

	// Monthly refinement: at most one of MonthDay (1-31, clamped to the
	// month's last valid day) or MonthWeek (-1 for the last occurrence of the
	// base event's weekday, 0-4 for the 1st-5th).
	MonthDay  *int `bson:"monthDay,omitempty" json:"monthDay,omitempty" validate:"omitempty,min=1,max=31"`
	MonthWeek *int `bson:"monthWeek,omitempty" json:"monthWeek,omitempty" validate:"omitempty,min=-1,max=4"`

	// Calendar dates (day granularity) skipped even when otherwise matched.
	ExcludeDates []time.Time `bson:"excludeDates,omitempty" json:"excludeDates,omitempty"`
}

// StepInterval returns the effective step, defaulting to 1 when unset.
func (p *RecurrencePattern) StepInterval() int {
	if p.Interval < 1 {
		return 1
	}
	return p.Interval
}

type ChecklistItem struct {
	Title string     `bson:"title" json:"title" validate:"required"`
	Done  bool       `bson:"done" json:"done"`
	DueAt *time.Time `bson:"dueAt,omitempty" json:"dueAt,omitempty"`
}

type Reminder struct {
	OffsetMinutes int    `bson:"offsetMinutes" json:"offsetMinutes" validate:"min=0"`
	Method        string `bson:"method" json:"method" validate:"required,oneof=email popup sms"`
}

type Attachment struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}

// CalendarEvent is one schedulable unit. Resources and attendees are weak
// references by id; the embedded checklist/reminder/attachment collections are
// owned by the event and live and die with it.
type CalendarEvent struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Title       string   `bson:"title" json:"title" validate:"required,max=200"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Location    string   `bson:"location,omitempty" json:"location,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`
	EventType   string   `bson:"eventType,omitempty" json:"eventType,omitempty"`
	Visibility  string   `bson:"visibility,omitempty" json:"visibility,omitempty"`
	Priority    string   `bson:"priority,omitempty" json:"priority,omitempty"`

	StartDate time.Time `bson:"startDate" json:"startDate" validate:"required"`
	EndDate   time.Time `bson:"endDate" json:"endDate" validate:"required"`
	AllDay    bool      `bson:"allDay" json:"allDay"`

	RecurringPattern *RecurrencePattern `bson:"recurringPattern,omitempty" json:"recurringPattern,omitempty"`

	Attendees []Attendee    `bson:"attendees,omitempty" json:"attendees,omitempty" validate:"omitempty,dive"`
	Resources []ResourceRef `bson:"resources,omitempty" json:"resources,omitempty" validate:"omitempty,dive"`

	Checklist   []ChecklistItem `bson:"checklist,omitempty" json:"checklist,omitempty" validate:"omitempty,dive"`
	Reminders   []Reminder      `bson:"reminders,omitempty" json:"reminders,omitempty" validate:"omitempty,dive"`
	Attachments []Attachment    `bson:"attachments,omitempty" json:"attachments,omitempty"`

	Status    EventStatus `bson:"status" json:"status"`
	CreatedBy uuid.UUID   `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedBy uuid.UUID   `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt time.Time   `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time   `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (e *CalendarEvent) BeforeCreate() error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	return nil
}

func (e *CalendarEvent) IsRecurring() bool {
	return e.RecurringPattern != nil
}

// Duration is carried unchanged onto every occurrence of the series.
func (e *CalendarEvent) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}

// ValidateEvent covers the cross-field rules the struct tags cannot express.
func (e *CalendarEvent) ValidateEvent() error {
	if e.EndDate.Before(e.StartDate) {
		return &ValidationError{Message: "endDate must not be before startDate"}
	}
	if e.Status != "" && !e.Status.IsValid() {
		return &ValidationError{Message: fmt.Sprintf("unsupported status: %s", e.Status)}
	}
	if p := e.RecurringPattern; p != nil {
		if p.MonthDay != nil && p.MonthWeek != nil {
			return &ValidationError{Message: "recurringPattern: monthDay and monthWeek are mutually exclusive"}
		}
		if p.Frequency != FrequencyMonthly && (p.MonthDay != nil || p.MonthWeek != nil) {
			return &ValidationError{Message: "recurringPattern: monthDay/monthWeek only apply to monthly frequency"}
		}
		if p.Frequency != FrequencyWeekly && len(p.DaysOfWeek) > 0 {
			return &ValidationError{Message: "recurringPattern: daysOfWeek only applies to weekly frequency"}
		}
	}
	return nil
}
