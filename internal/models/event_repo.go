package models

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EventDbName  = "eventdesk"
	EventColName = "calendar_events"

	DefaultSearchLimit = 50
)

// EventSearchFilter carries the optional filters of a search call. Zero
// values mean "not filtered on".
type EventSearchFilter struct {
	StartAfter *time.Time `json:"startAfter,omitempty"`
	EndBefore  *time.Time `json:"endBefore,omitempty"`
	EventType  string     `json:"eventType,omitempty"`
	Status     string     `json:"status,omitempty"`
	Visibility string     `json:"visibility,omitempty"`
	Priority   string     `json:"priority,omitempty"`
	CreatedBy  *uuid.UUID `json:"createdBy,omitempty"`
	AttendeeID *uuid.UUID `json:"attendeeId,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	SearchText string     `json:"searchText,omitempty"`

	Page      int    `json:"page,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	SortBy    string `json:"sortBy,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"`
}

// sortableFields whitelists sort keys so arbitrary document paths cannot be
// injected through the query string.
var sortableFields = map[string]bool{
	"startDate": true,
	"endDate":   true,
	"title":     true,
	"status":    true,
	"priority":  true,
	"createdAt": true,
	"updatedAt": true,
}

func (f *EventSearchFilter) Normalize() error {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultSearchLimit
	}
	if f.Page < 1 || f.Limit < 1 {
		return &ValidationError{Message: "page and limit must be positive"}
	}
	if f.SortBy == "" {
		f.SortBy = "startDate"
	}
	if !sortableFields[f.SortBy] {
		return &ValidationError{Message: fmt.Sprintf("cannot sort by %q", f.SortBy)}
	}
	switch f.SortOrder {
	case "":
		f.SortOrder = "asc"
	case "asc", "desc":
	default:
		return &ValidationError{Message: "sortOrder must be asc or desc"}
	}
	return nil
}

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *CalendarEvent) (*CalendarEvent, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*CalendarEvent, error)
	UpdateEvent(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*CalendarEvent, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
	SearchEvents(ctx context.Context, filter *EventSearchFilter) ([]*CalendarEvent, int64, error)
	FindEventsReferencingResources(ctx context.Context, resourceIds []string, windowStart, windowEnd time.Time) ([]*CalendarEvent, error)
	UpdateEventStatusBulk(ctx context.Context, ids []primitive.ObjectID, status EventStatus) (int64, error)
	CompletePastEvents(ctx context.Context, now time.Time) (int64, error)
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *CalendarEvent) (*CalendarEvent, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := event.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare event for creation: %w", err)
	}

	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*CalendarEvent, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var event CalendarEvent
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "event", ID: id.Hex()}
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return &event, nil
}

// immutableFields are stripped from partial updates; identity and creation
// audit fields never change after insert.
var immutableFields = map[string]bool{
	"_id":       true,
	"id":        true,
	"createdAt": true,
	"createdBy": true,
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*CalendarEvent, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updatedAt": time.Now()}
	for key, value := range update {
		if immutableFields[key] {
			continue
		}
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var result CalendarEvent
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "event", ID: id.Hex()}
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &result, nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{Resource: "event", ID: id.Hex()}
	}
	return nil
}

// SearchEvents filters on the base event's stored dates; expanding a series
// into individual occurrences is the caller's job via the calendar package.
func (mdb *MongodbRepo) SearchEvents(ctx context.Context, filter *EventSearchFilter) ([]*CalendarEvent, int64, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	query := bson.M{}
	if filter.StartAfter != nil {
		query["endDate"] = bson.M{"$gte": *filter.StartAfter}
	}
	if filter.EndBefore != nil {
		query["startDate"] = bson.M{"$lte": *filter.EndBefore}
	}
	if filter.EventType != "" {
		query["eventType"] = filter.EventType
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Visibility != "" {
		query["visibility"] = filter.Visibility
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.CreatedBy != nil {
		query["createdBy"] = *filter.CreatedBy
	}
	if filter.AttendeeID != nil {
		query["attendees.userId"] = *filter.AttendeeID
	}
	if len(filter.Tags) > 0 {
		query["tags"] = bson.M{"$in": filter.Tags}
	}
	if filter.SearchText != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.SearchText), Options: "i"}
		query["$or"] = []bson.M{
			{"title": pattern},
			{"description": pattern},
			{"location": pattern},
		}
	}

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	sortDir := 1
	if filter.SortOrder == "desc" {
		sortDir = -1
	}
	// Secondary _id sort keeps ordering stable across identical sort keys.
	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortBy, Value: sortDir}, {Key: "_id", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*CalendarEvent, 0)
	for cursor.Next(ctx) {
		var event CalendarEvent
		if err := cursor.Decode(&event); err != nil {
			return nil, 0, fmt.Errorf("error decoding event: %v", err)
		}
		events = append(events, &event)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return events, total, nil
}

// FindEventsReferencingResources returns the non-cancelled events that
// reference any of the given resources and whose occurrence window could
// still reach [windowStart, windowEnd]. The date filter is deliberately
// coarse; precise clipping happens during occurrence expansion.
func (mdb *MongodbRepo) FindEventsReferencingResources(ctx context.Context, resourceIds []string, windowStart, windowEnd time.Time) ([]*CalendarEvent, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	query := bson.M{
		"resources.resourceId": bson.M{"$in": resourceIds},
		"status":               bson.M{"$ne": EventStatusCancelled},
		"startDate":            bson.M{"$lte": windowEnd},
		"$or": []bson.M{
			{"endDate": bson.M{"$gte": windowStart}},
			{"recurringPattern.endDate": bson.M{"$gte": windowStart}},
			{
				"recurringPattern":         bson.M{"$exists": true},
				"recurringPattern.endDate": bson.M{"$exists": false},
			},
		},
	}

	cursor, err := col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find events by resources: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*CalendarEvent
	for cursor.Next(ctx) {
		var event CalendarEvent
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("error decoding event: %v", err)
		}
		events = append(events, &event)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return events, nil
}

// UpdateEventStatusBulk is all-or-nothing per id but not transactional across
// ids; partial success surfaces only through the modified count.
func (mdb *MongodbRepo) UpdateEventStatusBulk(ctx context.Context, ids []primitive.ObjectID, status EventStatus) (int64, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update event status: %w", err)
	}

	return res.ModifiedCount, nil
}

// CompletePastEvents moves scheduled/confirmed events whose whole series is in
// the past to completed. Series bounded only by endAfterOccurrences are left
// alone; their end cannot be evaluated inside a query.
func (mdb *MongodbRepo) CompletePastEvents(ctx context.Context, now time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	query := bson.M{
		"status": bson.M{"$in": []EventStatus{EventStatusScheduled, EventStatusConfirmed}},
		"$or": []bson.M{
			{
				"recurringPattern": bson.M{"$exists": false},
				"endDate":          bson.M{"$lt": now},
			},
			{"recurringPattern.endDate": bson.M{"$lt": now}},
		},
	}

	res, err := col.UpdateMany(ctx, query,
		bson.M{"$set": bson.M{"status": EventStatusCompleted, "updatedAt": now}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past events: %w", err)
	}

	return res.ModifiedCount, nil
}
