package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventdesk/backoffice/internal/models"
	"github.com/eventdesk/backoffice/internal/services"
)

type availabilityRequest struct {
	ResourceIds []string  `json:"resourceIds"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
}

func CheckAvailabilityHandler(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req availabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		result, err := es.CheckAvailability(c.Request.Context(), req.ResourceIds, req.StartDate, req.EndDate)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(result, ""))
	}
}

type bulkStatusRequest struct {
	EventIds []string `json:"eventIds" binding:"required,min=1"`
	Status   string   `json:"status" binding:"required"`
}

type bulkStatusResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

func BulkUpdateStatusHandler(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		ids := make([]primitive.ObjectID, 0, len(req.EventIds))
		for _, raw := range req.EventIds {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format: "+raw))
				return
			}
			ids = append(ids, id)
		}

		modified, err := es.UpdateEventStatus(c.Request.Context(), ids, models.EventStatus(req.Status))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(bulkStatusResponse{ModifiedCount: modified}, "Status updated"))
	}
}
