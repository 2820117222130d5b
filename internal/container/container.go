package container

import (
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventdesk/backoffice/internal/models"
	"github.com/eventdesk/backoffice/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	MongoDBClient *mongo.Client
	EventsRepo    models.EventsRepo
	EventService  *services.EventService
	Location      *time.Location
}

// NewContainer creates a new dependency injection container
func NewContainer(logger *slog.Logger, mongoDBClient *mongo.Client, loc *time.Location) *Container {
	repo := models.MongodbNewRepo(mongoDBClient)
	eventService := services.NewEventService(repo)

	return &Container{
		Logger:        logger,
		MongoDBClient: mongoDBClient,
		EventsRepo:    repo,
		EventService:  eventService,
		Location:      loc,
	}
}
