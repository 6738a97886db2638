// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config carries the startup settings of the process. MasterSecret keys all
// credential encryption and is read-only after start.
type Config struct {
	ListenAddr   string
	DBPath       string
	MasterSecret string
}

// Load reads a .env file when present, then the environment. A missing
// master secret is a startup precondition failure, not a per-request branch.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment")
	}

	cfg := &Config{
		ListenAddr:   getEnv("TASKDECK_LISTEN_ADDR", ":8080"),
		DBPath:       os.Getenv("TASKDECK_DB_PATH"),
		MasterSecret: os.Getenv("TASKDECK_SECRET_KEY"),
	}

	if cfg.MasterSecret == "" {
		return nil, errors.New("TASKDECK_SECRET_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
