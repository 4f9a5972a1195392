package database

import (
	"fmt"

	"github.com/spotter-app/core/internal/config"
	"github.com/spotter-app/core/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a MySQL connection and optionally runs auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.DSN,
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return db, nil
}

// Migrate runs GORM auto-migration for all models. Exported so tests can
// apply the same schema to a SQLite dialector.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.UserSession{},
		&models.SpotModel{},
		&models.SpotImage{},
		&models.TagModel{},
		&models.SpotTag{},
		&models.SpotReaction{},
		&models.GroupModel{},
		&models.GroupImage{},
		&models.GroupSpot{},
		&models.GroupTag{},
		&models.GroupReaction{},
		&models.ReplyModel{},
		&models.ReplyImage{},
		&models.RequestModel{},
	)
}
