package main

import (
	"cusoon-api/core/logger"
	"cusoon-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
