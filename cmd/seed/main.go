package main

import (
	"fmt"
	"os"

	"cattery/internal/config"
	"cattery/internal/database"
	"cattery/internal/logger"
	"cattery/internal/seed"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to seed a production database")
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Prepare(); err != nil {
		return fmt.Errorf("failed to prepare database: %w", err)
	}
	return seed.Run(dbManager.DB(), cfg.BcryptCost)
}
