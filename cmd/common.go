package cmd

import (
	"gorm.io/gorm"

	"modhost/config"
	"modhost/db"
	"modhost/logger"
	"modhost/storage"
	"modhost/versions"

	"go.uber.org/zap"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) (config.Config, *gorm.DB, *versions.Service) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log.Fatalw("Failed to open database", zap.Error(err))
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	store, err := storage.NewLocalStore(cfg.UploadsDir())
	if err != nil {
		logger.Log.Fatalw("Failed to initialize blob storage", zap.Error(err))
	}

	return cfg, gdb, versions.NewService(gdb, store, logger.Log)
}
