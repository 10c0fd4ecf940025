package main

import (
	"github.com/apex/log"

	"github.com/bondtrack/bondtrack-backend-go/internal/api"
	"github.com/bondtrack/bondtrack-backend-go/internal/config"
	"github.com/bondtrack/bondtrack-backend-go/internal/database"
	"github.com/bondtrack/bondtrack-backend-go/internal/repository"
	"github.com/bondtrack/bondtrack-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to apply migrations")
	}

	store := repository.NewLocationRepository(db)
	locationService := service.NewLocationService(store, cfg.AnalysisDebounce)
	defer locationService.Stop()

	router := api.SetupRouter(cfg, locationService)

	log.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
