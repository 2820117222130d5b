package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventdesk/backoffice/internal/helpers"
	"github.com/eventdesk/backoffice/internal/models"
	"github.com/eventdesk/backoffice/internal/services"
)

// respondError translates the engine's error taxonomy: ValidationError → 400,
// NotFoundError → 404, anything else → 500.
func respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	var nfe *models.NotFoundError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(ve.Error()))
	case errors.As(err, &nfe):
		c.JSON(http.StatusNotFound, models.ErrorResponse(nfe.Error()))
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		return uuid.Nil, false
	}
	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

func parseEventID(c *gin.Context) (primitive.ObjectID, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseTimeParam accepts RFC 3339 or a bare date interpreted in the
// configured zone.
func parseTimeParam(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}

func CreateEventHandler(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		var event models.CalendarEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := es.CreateEvent(c.Request.Context(), &event, userId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Event created successfully"))
	}
}

func SearchEventsHandler(es *services.EventService, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := &models.EventSearchFilter{
			EventType:  c.Query("eventType"),
			Status:     c.Query("status"),
			Visibility: c.Query("visibility"),
			Priority:   c.Query("priority"),
			SearchText: c.Query("searchText"),
			SortBy:     c.Query("sortBy"),
			SortOrder:  c.Query("sortOrder"),
		}

		if raw := c.Query("startAfter"); raw != "" {
			t, err := parseTimeParam(raw, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid startAfter parameter"))
				return
			}
			filter.StartAfter = &t
		}
		if raw := c.Query("endBefore"); raw != "" {
			t, err := parseTimeParam(raw, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid endBefore parameter"))
				return
			}
			filter.EndBefore = &t
		}
		if raw := c.Query("createdBy"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid createdBy parameter"))
				return
			}
			filter.CreatedBy = &id
		}
		if raw := c.Query("attendeeId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid attendeeId parameter"))
				return
			}
			filter.AttendeeID = &id
		}
		if raw := c.Query("tags"); raw != "" {
			filter.Tags = helpers.RemoveDuplicates(strings.Split(raw, ","))
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid page parameter"))
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}
		filter.Page = page
		filter.Limit = limit

		events, total, err := es.SearchEvents(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(events, filter.Page, filter.Limit, total))
	}
}

func GetEventHandler(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseEventID(c)
		if !ok {
			return
		}

		event, err := es.GetEventByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func UpdateEventHandler(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		id, ok := parseEventID(c)
		if !ok {
			return
		}

		var update map[string]interface{}
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := es.UpdateEvent(c.Request.Context(), id, update, userId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Event updated successfully"))
	}
}

func DeleteEventHandler(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseEventID(c)
		if !ok {
			return
		}

		if err := es.DeleteEvent(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event deleted successfully"))
	}
}

func GetOccurrencesHandler(es *services.EventService, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseEventID(c)
		if !ok {
			return
		}

		windowStart, windowEnd, ok := parseWindow(c, loc)
		if !ok {
			return
		}

		occurrences, err := es.GetOccurrences(c.Request.Context(), id, windowStart, windowEnd)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(occurrences, ""))
	}
}

func ExportEventICSHandler(es *services.EventService, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseEventID(c)
		if !ok {
			return
		}

		windowStart, windowEnd, ok := parseWindow(c, loc)
		if !ok {
			return
		}

		feed, err := es.ExportICS(c.Request.Context(), id, windowStart, windowEnd)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="event.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
	}
}

func parseWindow(c *gin.Context, loc *time.Location) (time.Time, time.Time, bool) {
	startRaw := c.Query("start")
	endRaw := c.Query("end")
	if startRaw == "" || endRaw == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("start and end parameters are required"))
		return time.Time{}, time.Time{}, false
	}

	windowStart, err := parseTimeParam(startRaw, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid start parameter"))
		return time.Time{}, time.Time{}, false
	}
	windowEnd, err := parseTimeParam(endRaw, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid end parameter"))
		return time.Time{}, time.Time{}, false
	}
	return windowStart, windowEnd, true
}
