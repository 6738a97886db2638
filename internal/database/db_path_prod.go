//go:build prod

package database

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Warnf("failed to get user config dir: %v, using fallback", err)
		return "taskdeck.db"
	}

	appDir := filepath.Join(configDir, "taskdeck")

	err = os.MkdirAll(appDir, 0755)
	if err != nil {
		log.Warnf("failed to create app config dir: %v, using fallback", err)
		return "taskdeck.db"
	}

	dbPath := filepath.Join(appDir, "taskdeck.db")

	return dbPath
}

func IsDevelopment() bool {
	return false
}
