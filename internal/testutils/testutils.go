// Package testutils provides database fixtures for package tests.
package testutils

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/database"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func silentLogger() logger.Interface {
	return logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{LogLevel: logger.Silent},
	)
}

// SetupSQLite opens a private in-memory sqlite database with every table migrated.
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: silentLogger(), TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %s", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %s", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %s", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// SetupMockDB returns a postgres-dialect GORM handle backed by sqlmock.
func SetupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %s", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{Logger: silentLogger(), TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open gorm over sqlmock: %s", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db, mock
}
