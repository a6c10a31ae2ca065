package router

import (
	"cusoon-api/modules/optimizer/controller"

	"github.com/labstack/echo/v4"
)

// OptimizerRouter registers optimization routes.
type OptimizerRouter struct {
	OptimizerController *controller.OptimizerController
}

func NewOptimizerRouter(optimizerController *controller.OptimizerController) *OptimizerRouter {
	return &OptimizerRouter{OptimizerController: optimizerController}
}

// Setup registers optimizer routes under /api.
func (r *OptimizerRouter) Setup(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/events/:eventId/optimize", r.OptimizerController.OptimizeEvent)
}
