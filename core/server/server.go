package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cusoon-api/core/cache"
	"cusoon-api/core/config"
	"cusoon-api/core/constants"
	"cusoon-api/core/database"
	"cusoon-api/core/logger"
	"cusoon-api/core/middleware"
	"cusoon-api/core/worker"
	"cusoon-api/migrations"
	"cusoon-api/modules/event"
	"cusoon-api/modules/optimizer"
	"cusoon-api/modules/slot"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
)

// Run wires the whole application and blocks until shutdown.
func Run() error {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment")
	}

	cfg := config.Get()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	if err := migrations.Up(db.SQLx()); err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return err
	}

	tasks := worker.NewClient(cfg.Redis)
	defer tasks.Close()

	e := echo.New()
	e.HideBanner = true

	mw := middleware.NewMiddleware(cfg)
	mw.Setup(e)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Module wiring. Slot and optimizer services are shared: event
	// creation generates the grid, the worker re-runs optimization.
	slotSvc := slot.Init(e, db, redisCache, tasks)
	optimizerSvc := optimizer.Init(e, db, redisCache)
	event.Init(e, db, redisCache, slotSvc)

	var workerSrv *asynq.Server
	if cfg.Worker.Enabled {
		workerSrv = worker.NewServer(cfg.Redis, cfg.Worker.Concurrency)
		mux := asynq.NewServeMux()
		mux.HandleFunc(constants.TaskOptimizeEvent, optimizerSvc.HandleOptimizeEventTask)

		go func() {
			if err := workerSrv.Run(mux); err != nil {
				logger.Error("Worker server stopped", err)
			}
		}()
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	if workerSrv != nil {
		workerSrv.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
