package main

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/database"
	"taskdeck/internal/providers"
	"taskdeck/internal/secrets"
	"taskdeck/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	cipher, err := secrets.NewCipher(cfg.MasterSecret)
	if err != nil {
		log.Fatalf("credential cipher: %v", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = database.GetDefaultDBPath()
	}

	db, err := database.Init(database.Config{
		Path:     dbPath,
		LogLevel: logger.Warn,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	svc := services.NewServices(db, cipher, providers.DefaultTimeout)
	router := api.NewRouter(svc)

	log.WithField("addr", cfg.ListenAddr).Info("taskdeck settings API listening")
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
