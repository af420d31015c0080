package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/ningscard/backend/internal/infrastructure/config"
	"github.com/ningscard/backend/internal/infrastructure/logger"
	"github.com/ningscard/backend/internal/infrastructure/persistence"
)

// Applies the database schema without starting the server. Deployments run
// this before rolling out a new version.
func main() {
	dryRun := flag.Bool("dry-run", false, "Connect and ping the database without applying the schema")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if *dryRun {
		log.Info("Dry run: database reachable, schema not applied")
		return
	}

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Schema migration complete")
}
