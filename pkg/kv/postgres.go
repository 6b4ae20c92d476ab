package kv

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ledger-service/pkg/config"
)

// kvEntry is the single-table schema backing the key-value contract: one
// row per collection, the serialized sequence as opaque text.
type kvEntry struct {
	Key   string `gorm:"primaryKey;type:varchar(255)"`
	Value string `gorm:"type:text"`
}

// TableName overrides the default table name
func (kvEntry) TableName() string {
	return "kv_entries"
}

// PostgresStore persists values in a PostgreSQL table through GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens the database connection, configures the pool and
// runs migrations
func NewPostgresStore(cfg *config.Config) (*PostgresStore, error) {
	logLevel := logger.Error
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Get returns the value stored under key
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	result := s.db.WithContext(ctx).First(&entry, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if result.Error != nil {
		return "", false, result.Error
	}
	return entry.Value, true, nil
}

// Set upserts the value under key
func (s *PostgresStore) Set(ctx context.Context, key string, value string) error {
	entry := kvEntry{Key: key, Value: value}
	return s.db.WithContext(ctx).Save(&entry).Error
}
