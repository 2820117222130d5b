package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eventdesk/backoffice/internal/container"
	"github.com/eventdesk/backoffice/internal/handlers"
	"github.com/eventdesk/backoffice/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "eventdesk-api",
			})
		})
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Logger))

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.GET("", handlers.SearchEventsHandler(container.EventService, container.Location))
		eventRoutes.POST("", handlers.CreateEventHandler(container.EventService))
		eventRoutes.PUT("/status", handlers.BulkUpdateStatusHandler(container.EventService))
		eventRoutes.GET("/:id", handlers.GetEventHandler(container.EventService))
		eventRoutes.PATCH("/:id", handlers.UpdateEventHandler(container.EventService))
		eventRoutes.DELETE("/:id", handlers.DeleteEventHandler(container.EventService))
		eventRoutes.GET("/:id/occurrences", handlers.GetOccurrencesHandler(container.EventService, container.Location))
		eventRoutes.GET("/:id/feed.ics", handlers.ExportEventICSHandler(container.EventService, container.Location))
	}

	protected.POST("/availability", handlers.CheckAvailabilityHandler(container.EventService))

	return r
}
