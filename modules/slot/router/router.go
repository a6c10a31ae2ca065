package router

import (
	"cusoon-api/modules/slot/controller"

	"github.com/labstack/echo/v4"
)

// SlotRouter registers availability routes.
type SlotRouter struct {
	SlotController *controller.SlotController
}

func NewSlotRouter(slotController *controller.SlotController) *SlotRouter {
	return &SlotRouter{SlotController: slotController}
}

// Setup registers slot routes under /api.
func (r *SlotRouter) Setup(e *echo.Echo) {
	api := e.Group("/api")

	api.POST("/events/:eventId/submit-preferences", r.SlotController.SubmitPreferences)
	api.GET("/events/:eventId/get-preferences", r.SlotController.GetPreferences)
}
