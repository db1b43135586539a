// @title AgriVerse Backend API
// @version 1.0
// @description Backend server for the AgriVerse agricultural learning marketplace.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"agriverse_backend/internal/app"
	"agriverse_backend/internal/config"
	"agriverse_backend/pkg/configwatcher"
	"agriverse_backend/pkg/database"
	"agriverse_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force database migrations on startup")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		if err := database.Migrate(application.DB); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
