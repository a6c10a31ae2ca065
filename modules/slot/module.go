package slot

import (
	"cusoon-api/core/cache"
	"cusoon-api/core/database"
	eventRepository "cusoon-api/modules/event/repository"
	"cusoon-api/modules/slot/controller"
	"cusoon-api/modules/slot/repository"
	"cusoon-api/modules/slot/router"
	"cusoon-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the slot module, registers its routes and returns the
// service for collaborators (event creation triggers slot generation).
func Init(e *echo.Echo, db database.IDatabase, cache cache.Cache, tasks service.OptimizeEnqueuer) *service.SlotService {
	repo := repository.NewSlotRepository(db)
	eventRepo := eventRepository.NewEventRepository(db)
	svc := service.NewSlotService(repo, eventRepo, cache, tasks)
	ctrl := controller.NewSlotController(svc)
	rtr := router.NewSlotRouter(ctrl)

	rtr.Setup(e)
	return svc
}
