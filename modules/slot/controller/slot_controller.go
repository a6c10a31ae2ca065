package controller

import (
	"cusoon-api/core/controller"
	"cusoon-api/core/errors"
	"cusoon-api/modules/slot/dto"
	"cusoon-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// SlotController handles availability submissions and retrievals.
type SlotController struct {
	controller.BaseController
	SlotService service.SlotServiceInterface
}

func NewSlotController(svc service.SlotServiceInterface) *SlotController {
	return &SlotController{
		BaseController: controller.NewBaseController(),
		SlotService:    svc,
	}
}

// SubmitPreferences handles POST /events/:eventId/submit-preferences
func (c *SlotController) SubmitPreferences(ctx echo.Context) error {
	eventID := ctx.Param("eventId")

	var req dto.SubmitPreferencesRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.UserEmail == "" {
		return c.BadRequest(errors.ErrInvalidInput, "user_email is required")
	}

	appErr := c.SlotService.SubmitPreferences(ctx.Request().Context(),
		eventID, req.UserEmail, req.Rankings, req.DeletedTimespanIDs)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Preferences submitted")
}

// GetPreferences handles GET /events/:eventId/get-preferences
func (c *SlotController) GetPreferences(ctx echo.Context) error {
	eventID := ctx.Param("eventId")

	slots, appErr := c.SlotService.GetPreferences(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ToSlotResponses(slots), "Success")
}
