package router

import (
	"cusoon-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter registers event routes.
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

// Setup registers event routes under /api.
func (r *EventRouter) Setup(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/events", r.EventController.GetUserEvents)
	api.POST("/users/:email/events", r.EventController.CreateEventForUser)
	api.DELETE("/delete/:eventId", r.EventController.DeleteEvent)
	api.POST("/events/:eventId/respond", r.EventController.RespondToInvitation)
	api.GET("/events/:eventId", r.EventController.GetEvent)
}
