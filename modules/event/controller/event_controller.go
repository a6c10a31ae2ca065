package controller

import (
	"cusoon-api/core/controller"
	"cusoon-api/core/errors"
	"cusoon-api/modules/event/dto"
	"cusoon-api/modules/event/service"
	slotService "cusoon-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests.
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
	SlotService  slotService.SlotServiceInterface
}

func NewEventController(eventSvc service.EventServiceInterface, slotSvc slotService.SlotServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   eventSvc,
		SlotService:    slotSvc,
	}
}

// GetUserEvents handles GET /events?email=
// Lists every event the email organizes or participates in.
func (c *EventController) GetUserEvents(ctx echo.Context) error {
	email := ctx.QueryParam("email")
	if email == "" {
		return c.BadRequest(errors.ErrInvalidInput, "email query parameter is required")
	}

	result, appErr := c.EventService.GetEventsForEmail(ctx.Request().Context(), email)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CreateEventForUser handles POST /users/:email/events
// Creates the event and then populates its availability grid.
func (c *EventController) CreateEventForUser(ctx echo.Context) error {
	organizerEmail := ctx.Param("email")

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), organizerEmail, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	appErr = c.SlotService.GenerateSlots(ctx.Request().Context(), result.ID,
		req.AvailableDays, req.StartTime, req.EndTime)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// DeleteEvent handles DELETE /delete/:eventId
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	eventID := ctx.Param("eventId")

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// RespondToInvitation handles POST /events/:eventId/respond?userEmail=&status=
func (c *EventController) RespondToInvitation(ctx echo.Context) error {
	eventID := ctx.Param("eventId")
	userEmail := ctx.QueryParam("userEmail")
	status := ctx.QueryParam("status")

	appErr := c.EventService.RespondToInvitation(ctx.Request().Context(), eventID, userEmail, status)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Invitation response recorded")
}

// GetEvent handles GET /events/:eventId
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID := ctx.Param("eventId")

	result, appErr := c.EventService.GetEventByID(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
