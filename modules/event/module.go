package event

import (
	"cusoon-api/core/cache"
	"cusoon-api/core/database"
	"cusoon-api/modules/event/controller"
	"cusoon-api/modules/event/repository"
	"cusoon-api/modules/event/router"
	"cusoon-api/modules/event/service"
	slotService "cusoon-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers its routes.
func Init(e *echo.Echo, db database.IDatabase, cache cache.Cache, slotSvc slotService.SlotServiceInterface) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, cache)
	ctrl := controller.NewEventController(svc, slotSvc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e)
}
