package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewSQLiteDB opens a SQLite database for local development and tests.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	cfg := gormConfig("development")
	cfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps shared in-memory databases consistent.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// MemoryDSN returns a DSN for a named, private in-memory database.
func MemoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
}
