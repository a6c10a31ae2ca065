package optimizer

import (
	"cusoon-api/core/cache"
	"cusoon-api/core/database"
	eventRepository "cusoon-api/modules/event/repository"
	"cusoon-api/modules/optimizer/controller"
	"cusoon-api/modules/optimizer/router"
	"cusoon-api/modules/optimizer/service"
	slotRepository "cusoon-api/modules/slot/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the optimizer module, registers its routes and
// returns the service so the background worker can reuse it.
func Init(e *echo.Echo, db database.IDatabase, cache cache.Cache) *service.OptimizerService {
	eventRepo := eventRepository.NewEventRepository(db)
	slotRepo := slotRepository.NewSlotRepository(db)
	svc := service.NewOptimizerService(db, eventRepo, slotRepo, cache)
	ctrl := controller.NewOptimizerController(svc)
	rtr := router.NewOptimizerRouter(ctrl)

	rtr.Setup(e)
	return svc
}
