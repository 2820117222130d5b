package calendar

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/eventdesk/backoffice/internal/models"
)

// EventStore is the single persistence capability the engine depends on.
// Implementations must return only non-cancelled events whose occurrence
// window could intersect [windowStart, windowEnd]; over-fetching is fine
// since the checker clips precisely, under-fetching is not.
type EventStore interface {
	FindEventsReferencingResources(ctx context.Context, resourceIds []string, windowStart, windowEnd time.Time) ([]*models.CalendarEvent, error)
}

// ResourceAvailability is the per-resource verdict of an availability check.
type ResourceAvailability struct {
	Available           bool     `json:"available"`
	ConflictingEventIds []string `json:"conflictingEventIds,omitempty"`
}

type AvailabilityChecker struct {
	store EventStore
}

func NewAvailabilityChecker(store EventStore) *AvailabilityChecker {
	return &AvailabilityChecker{store: store}
}

var resourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// CheckAvailability reports, for each requested resource, whether any
// occurrence of any event referencing it overlaps [windowStart, windowEnd].
// Resources with no conflicting occurrence are available.
//
// The result is a snapshot, valid only until the next write to the event
// store. CheckAvailability followed by a separate create is not atomic; two
// concurrent callers can both observe "available" and double-book. Callers
// needing a hard guarantee must wrap the read-then-write in a store-level
// transaction or unique constraint.
func (ac *AvailabilityChecker) CheckAvailability(ctx context.Context, resourceIds []string, windowStart, windowEnd time.Time) (map[string]ResourceAvailability, error) {
	if len(resourceIds) == 0 {
		return nil, &models.ValidationError{Message: "at least one resource required"}
	}
	for _, id := range resourceIds {
		if !resourceIDPattern.MatchString(id) {
			return nil, &models.ValidationError{Message: fmt.Sprintf("invalid resource id: %q", id)}
		}
	}
	if windowEnd.Before(windowStart) {
		return nil, &models.ValidationError{Message: "window end is before window start"}
	}

	events, err := ac.store.FindEventsReferencingResources(ctx, resourceIds, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate events: %w", err)
	}

	wanted := make(map[string]bool, len(resourceIds))
	result := make(map[string]ResourceAvailability, len(resourceIds))
	for _, id := range resourceIds {
		wanted[id] = true
		result[id] = ResourceAvailability{Available: true}
	}

	seen := make(map[string]bool)
	for _, event := range events {
		// An occurrence starting before the window can still span into it.
		// Widening generation by the event's duration catches those; the
		// Overlaps test below does the precise clipping.
		occurrences, err := Generate(event, windowStart.Add(-event.Duration()), windowEnd)
		if err != nil {
			return nil, fmt.Errorf("expanding event %s: %w", event.ID.Hex(), err)
		}
		for _, occ := range occurrences {
			if !Overlaps(occ.Start, occ.End, windowStart, windowEnd) {
				continue
			}
			for _, res := range event.Resources {
				if !wanted[res.ResourceID] {
					continue
				}
				entry := result[res.ResourceID]
				entry.Available = false
				key := res.ResourceID + "/" + event.ID.Hex()
				if !seen[key] {
					seen[key] = true
					entry.ConflictingEventIds = append(entry.ConflictingEventIds, event.ID.Hex())
				}
				result[res.ResourceID] = entry
			}
		}
	}

	return result, nil
}
