package main

import (
	"flag"
	"log/slog"
	"os"

	"citizenportal/internal/config"
	"citizenportal/internal/logger"
	"citizenportal/internal/storage"
)

func main() {
	var migrationPath, databaseURL, configPath string
	var down int
	flag.StringVar(&databaseURL, "database_url", "", "Postgres URL, overrides the config file")
	flag.StringVar(&migrationPath, "migration-path", "./migrations", "Path to the migration files")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "config path, used when -database_url is empty")
	flag.IntVar(&down, "down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	env := config.EnvLocal
	if databaseURL == "" {
		if configPath == "" {
			configPath = "./config/local.yaml"
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			panic(err)
		}
		databaseURL = cfg.DatabaseUrl
		env = cfg.Env
	}
	logger.Setup(env)

	if databaseURL == "" {
		panic("database URL is required")
	}

	steps := 0
	if down > 0 {
		steps = -down
	}
	if err := storage.Migrate(databaseURL, "file://"+migrationPath, steps); err != nil {
		slog.Error("migration failed", "err", err)
		os.Exit(1)
	}
}
