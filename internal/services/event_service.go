package services

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/eventdesk/backoffice/internal/calendar"
	"github.com/eventdesk/backoffice/internal/helpers"
	"github.com/eventdesk/backoffice/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventService struct {
	eventsRepo models.EventsRepo
	checker    *calendar.AvailabilityChecker
}

func NewEventService(eventsRepo models.EventsRepo) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		checker:    calendar.NewAvailabilityChecker(eventsRepo),
	}
}

func (es *EventService) CreateEvent(ctx context.Context, event *models.CalendarEvent, userId uuid.UUID) (*models.CalendarEvent, error) {
	event.Title = helpers.StringTrim(event.Title)
	event.Tags = helpers.RemoveDuplicates(event.Tags)

	if err := models.Validate.Struct(event); err != nil {
		return nil, &models.ValidationError{Message: fmt.Sprintf("invalid event data: %v", err)}
	}
	if err := event.ValidateEvent(); err != nil {
		return nil, err
	}

	now := time.Now()
	event.CreatedBy = userId
	event.UpdatedBy = userId
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Status == "" {
		event.Status = models.EventStatusScheduled
	}

	return es.eventsRepo.CreateEvent(ctx, event)
}

func (es *EventService) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.CalendarEvent, error) {
	if id.IsZero() {
		return nil, &models.ValidationError{Message: "invalid event ID"}
	}
	return es.eventsRepo.GetEventByID(ctx, id)
}

func (es *EventService) UpdateEvent(ctx context.Context, id primitive.ObjectID, update map[string]interface{}, userId uuid.UUID) (*models.CalendarEvent, error) {
	if id.IsZero() {
		return nil, &models.ValidationError{Message: "invalid event ID"}
	}
	if len(update) == 0 {
		return nil, &models.ValidationError{Message: "update body cannot be empty"}
	}

	if title, ok := update["title"].(string); ok {
		title = helpers.StringTrim(title)
		if title == "" || len(title) > 200 {
			return nil, &models.ValidationError{Message: "title must be 1-200 characters"}
		}
		update["title"] = title
	}
	if status, ok := update["status"].(string); ok {
		if !models.EventStatus(status).IsValid() {
			return nil, &models.ValidationError{Message: fmt.Sprintf("unsupported status: %s", status)}
		}
	}

	update["updatedBy"] = userId
	return es.eventsRepo.UpdateEvent(ctx, id, update)
}

func (es *EventService) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	if id.IsZero() {
		return &models.ValidationError{Message: "invalid event ID"}
	}
	return es.eventsRepo.DeleteEvent(ctx, id)
}

func (es *EventService) SearchEvents(ctx context.Context, filter *models.EventSearchFilter) ([]*models.CalendarEvent, int64, error) {
	if err := filter.Normalize(); err != nil {
		return nil, 0, err
	}
	return es.eventsRepo.SearchEvents(ctx, filter)
}

// GetOccurrences expands one event's series inside [windowStart, windowEnd].
func (es *EventService) GetOccurrences(ctx context.Context, id primitive.ObjectID, windowStart, windowEnd time.Time) ([]calendar.Occurrence, error) {
	event, err := es.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return calendar.Generate(event, windowStart, windowEnd)
}

// CheckAvailability is a snapshot; see calendar.AvailabilityChecker for the
// check-then-act caveat.
func (es *EventService) CheckAvailability(ctx context.Context, resourceIds []string, windowStart, windowEnd time.Time) (map[string]calendar.ResourceAvailability, error) {
	return es.checker.CheckAvailability(ctx, resourceIds, windowStart, windowEnd)
}

func (es *EventService) UpdateEventStatus(ctx context.Context, ids []primitive.ObjectID, status models.EventStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, &models.ValidationError{Message: "at least one event ID required"}
	}
	if !status.IsValid() {
		return 0, &models.ValidationError{Message: fmt.Sprintf("unsupported status: %s", status)}
	}
	return es.eventsRepo.UpdateEventStatusBulk(ctx, ids, status)
}

// ExportICS renders one event's occurrences in the window as an iCalendar
// feed, for external calendar clients that consume plain event records.
func (es *EventService) ExportICS(ctx context.Context, id primitive.ObjectID, windowStart, windowEnd time.Time) (string, error) {
	event, err := es.GetEventByID(ctx, id)
	if err != nil {
		return "", err
	}
	occurrences, err := calendar.Generate(event, windowStart, windowEnd)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//eventdesk//backoffice//EN")

	for i, occ := range occurrences {
		entry := cal.AddEvent(fmt.Sprintf("%s-%d@eventdesk", event.ID.Hex(), i))
		entry.SetDtStampTime(event.UpdatedAt)
		entry.SetSummary(event.Title)
		if event.Description != "" {
			entry.SetDescription(event.Description)
		}
		if event.Location != "" {
			entry.SetLocation(event.Location)
		}
		if event.AllDay {
			entry.SetAllDayStartAt(occ.Start)
			entry.SetAllDayEndAt(occ.End)
		} else {
			entry.SetStartAt(occ.Start)
			entry.SetEndAt(occ.End)
		}
	}

	return cal.Serialize(), nil
}
