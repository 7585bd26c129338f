// cmd/migrate/main.go
package main

import (
	"flag"
	"os"

	"hawala-backoffice/internal/config"
	"hawala-backoffice/internal/util"
	"hawala-backoffice/migrations"
	"hawala-backoffice/pkg/db"
)

func main() {
	down := flag.Bool("down", false, "roll back migrations instead of applying them")
	steps := flag.Int("steps", 1, "number of migrations to roll back with -down")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		util.GetLogger().Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	util.InitLogger(cfg.LogLevel)
	logger := util.GetLogger()

	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if *down {
		if err := db.MigrateDown(database.DB, migrations.FS, cfg.DB.DBName, *steps); err != nil {
			logger.Error("Rollback failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Rolled back migrations", "steps", *steps)
		return
	}

	if err := db.Migrate(database.DB, migrations.FS, cfg.DB.DBName, logger); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}
}
