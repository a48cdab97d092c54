package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vladimiradmaev/carnivore-helper/internal/config"
	"github.com/vladimiradmaev/carnivore-helper/internal/database/migrations"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

// NewPostgresDB connects, creates the tables and runs pending migrations.
// loc is the zone legacy meal rows were written in.
func NewPostgresDB(cfg config.DBConfig, loc *time.Location) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Tables first: the SQL and Go migrations operate on them.
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.LoadEmbedded(); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	registerLegacyMeals(loc)

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed",
		"host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// gormConfig turns driver errors into gorm sentinels such as
// gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}
