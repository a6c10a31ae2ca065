package controller

import (
	"cusoon-api/core/controller"
	eventDto "cusoon-api/modules/event/dto"
	"cusoon-api/modules/optimizer/service"

	"github.com/labstack/echo/v4"
)

// OptimizerController exposes the optimization endpoint.
type OptimizerController struct {
	controller.BaseController
	OptimizerService service.OptimizerServiceInterface
}

func NewOptimizerController(svc service.OptimizerServiceInterface) *OptimizerController {
	return &OptimizerController{
		BaseController:   controller.NewBaseController(),
		OptimizerService: svc,
	}
}

// OptimizeEvent handles GET /events/:eventId/optimize
// Computes the ranked candidate blocks, saves them onto the event, and
// returns them.
func (c *OptimizerController) OptimizeEvent(ctx echo.Context) error {
	eventID := ctx.Param("eventId")

	blocks, appErr := c.OptimizerService.OptimizeAndSave(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, eventDto.ToSlotBlockDTOs(blocks), "Optimization complete")
}
