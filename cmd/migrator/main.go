package main

import (
	"embed"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mahjong-solver/internal/config"
	"github.com/vancomm/mahjong-solver/internal/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	log := logrus.New()
	if config.Development() {
		log.SetLevel(logrus.DebugLevel)
	}

	migrator, err := database.Migrate(migrations)
	if err != nil {
		log.Error("migration failed: ", err)
		os.Exit(1)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		log.Error("failed to check migration version: ", err)
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
