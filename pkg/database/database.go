// Package database opens and migrates the ledger store.
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"growthledger/internal/models"
)

// Config selects the backing store. When PostgresDSN is set it wins;
// otherwise a local sqlite file at SQLitePath is used.
type Config struct {
	PostgresDSN string
	SQLitePath  string
}

// Open connects to the configured store, retrying postgres for a while to
// ride out container start ordering, and migrates the schema.
//
// TranslateError is required: the dedup protocol branches on
// gorm.ErrDuplicatedKey, which is only produced when the dialector
// translates driver-level unique-violation errors.
func Open(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}

	var (
		db  *gorm.DB
		err error
	)
	if cfg.PostgresDSN != "" {
		deadline := time.Now().Add(30 * time.Second)
		for {
			db, err = gorm.Open(postgres.Open(cfg.PostgresDSN), gormCfg)
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("failed to connect to postgres: %w", err)
			}
			log.Printf("Postgres connect failed, retrying...: %v", err)
			time.Sleep(2 * time.Second)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", cfg.SQLitePath, err)
		}
	}

	if err := db.AutoMigrate(&models.User{}, &models.LedgerEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection pool: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
