package database

import (
	"fmt"
	"strings"

	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database described by cfg and, when DB_SYNCHRONIZE is on,
// migrates the schema.
func Connect(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.GormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBType == config.DBTypeSQLite {
		if err := configureSQLite(db); err != nil {
			return nil, err
		}
	}

	log.WithField("type", cfg.DBType).Info("Database connection established.")

	if cfg.DBSynchronize {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info("Database migrated successfully.")
	}

	return db, nil
}

// Migrate creates or updates the category and game tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Category{}, &models.Game{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// configureSQLite pins the pool to one connection, so an in-memory database is
// shared by every query, and turns on foreign key enforcement for it.
func configureSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return nil
}

// Dialector picks the gorm driver for DB_TYPE.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case config.DBTypePostgres:
		return postgres.Open(DSN(cfg)), nil
	case config.DBTypeMySQL:
		return mysql.Open(DSN(cfg)), nil
	case config.DBTypeSQLite:
		return sqlite.Open(DSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

// DSN builds the connection string for DB_TYPE. DATABASE_URL, when set, is used as is.
func DSN(cfg *config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}

	switch cfg.DBType {
	case config.DBTypeMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUsername, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBDatabase)
	case config.DBTypeSQLite:
		if cfg.DBDatabase == "" {
			return ":memory:"
		}
		return cfg.DBDatabase
	default:
		// Fixed offsets are ambiguous for postgres (POSIX sign), only IANA names are passed on.
		tz := "UTC"
		if loc, err := cfg.Location(); err == nil && strings.Contains(loc.String(), "/") {
			tz = loc.String()
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			cfg.DBHost, cfg.DBUsername, cfg.DBPassword, cfg.DBDatabase, cfg.DBPort, cfg.DBSSLMode, tz)
	}
}
