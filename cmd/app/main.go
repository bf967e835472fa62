package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"pantrywatch/cmd/config"
	migration "pantrywatch/cmd/database/migrate"
	"pantrywatch/internal/utils"
	"pantrywatch/internal/utils/logging"
)

func main() {
	utils.LoadConfig()

	if err := logging.Init(utils.GetConfig("LOG_LEVEL")); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to setup app: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := app.Shutdown(); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}
